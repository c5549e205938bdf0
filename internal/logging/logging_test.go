package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/logging"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer

	logger, err := logging.New(logging.Config{Level: "warn", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Info("dropped")
	logger.Warn("kept", "component", "report")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "report", line["component"])
}

func TestNew_Invalid(t *testing.T) {
	_, err := logging.New(logging.Config{Level: "loud"}, &bytes.Buffer{})
	assert.Error(t, err)

	_, err = logging.New(logging.Config{Level: "info", Format: "xml"}, &bytes.Buffer{})
	assert.Error(t, err)
}
