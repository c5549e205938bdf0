package store_test

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/invoicer/internal/expense/store"
)

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}

	return t
}

func TestImportLockKeys_OverlappingRangesShareAKey(t *testing.T) {
	type testCase struct {
		name   string
		a, b   [2]string
		shared bool
	}

	tests := []testCase{
		{
			name:   "overlapping but not identical",
			a:      [2]string{"2024-01-03", "2024-01-20"},
			b:      [2]string{"2024-01-15", "2024-02-10"},
			shared: true,
		},
		{
			name:   "one inside the other",
			a:      [2]string{"2023-11-01", "2024-03-31"},
			b:      [2]string{"2024-02-02", "2024-02-02"},
			shared: true,
		},
		{
			name:   "different months",
			a:      [2]string{"2024-01-01", "2024-01-31"},
			b:      [2]string{"2024-03-01", "2024-03-31"},
			shared: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := store.ImportLockKeys(day(tt.a[0]), day(tt.a[1]))
			b := store.ImportLockKeys(day(tt.b[0]), day(tt.b[1]))

			shared := slices.ContainsFunc(a, func(k int64) bool { return slices.Contains(b, k) })

			assert.Equal(t, tt.shared, shared)
		})
	}
}

func TestImportLockKeys_AscendingPerMonth(t *testing.T) {
	keys := store.ImportLockKeys(day("2023-12-30"), day("2024-02-01"))

	assert.Len(t, keys, 3)
	assert.IsIncreasing(t, keys)

	assert.Len(t, store.ImportLockKeys(day("2024-05-09"), day("2024-05-09")), 1)
	assert.Equal(t, keys, store.ImportLockKeys(day("2024-02-01"), day("2023-12-30")))
}
