package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/invoicer/internal/encoding"
)

func TestDetect(t *testing.T) {
	const statement = "Date,Description,Paid out\n03/01/2024,CAFÉ NERO,£4.20\n"

	windows1252, err := charmap.Windows1252.NewEncoder().Bytes([]byte(statement))
	require.NoError(t, err)

	utf16le, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(statement))
	require.NoError(t, err)

	type testCase struct {
		name    string
		input   []byte
		charset []encoding.Charset
	}

	tests := []testCase{
		{name: "UTF8Passthrough", input: []byte(statement), charset: []encoding.Charset{encoding.UTF8}},
		{name: "UTF8BOMStripped", input: append([]byte{0xEF, 0xBB, 0xBF}, statement...), charset: []encoding.Charset{encoding.UTF8}},
		{name: "UTF16LEWithBOM", input: utf16le, charset: []encoding.Charset{encoding.UTF16LE}},
		{name: "Windows1252", input: windows1252, charset: []encoding.Charset{encoding.Windows1252, encoding.ISO885915}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Detect(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Contains(t, tt.charset, charset)

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, statement, string(got))
		})
	}
}

func TestDetect_Empty(t *testing.T) {
	r, charset, err := encoding.Detect(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Equal(t, encoding.UTF8, charset)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
