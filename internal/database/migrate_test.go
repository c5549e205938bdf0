package database_test

import (
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Paired(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	require.NoError(t, err)

	ups := map[string]bool{}
	downs := map[string]bool{}

	for _, e := range entries {
		name := e.Name()

		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s", name)
		}
	}

	assert.Equal(t, ups, downs)

	for i := 1; i <= len(ups); i++ {
		found := false

		for base := range ups {
			if strings.HasPrefix(base, fmt.Sprintf("%06d_", i)) {
				found = true
			}
		}

		assert.True(t, found, "missing migration %06d", i)
	}
}
