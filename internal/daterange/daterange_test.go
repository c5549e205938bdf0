package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

func TestNew(t *testing.T) {
	start := time.Date(2024, 1, 1, 15, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC)

	r, err := daterange.New(start, end)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 1, 14, 23, 59, 59, 999999999, time.UTC), r.End)
	assert.Equal(t, 14, r.Days())
	assert.Equal(t, "2024-01-01_to_2024-01-14", r.String())
}

func TestNew_SameDay(t *testing.T) {
	d := time.Date(2024, 3, 5, 18, 0, 0, 0, time.UTC)

	r, err := daterange.New(d, d.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
}

func TestNew_EndBeforeStart(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"OneDay", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"OneYear", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"LateStartEarlyEnd", time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC), time.Date(2024, 6, 9, 1, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := daterange.New(tt.start, tt.end)
			assert.ErrorIs(t, err, daterange.ErrInvalidRange)
		})
	}
}

func TestParse(t *testing.T) {
	r, err := daterange.Parse("2024-02-01", "2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, 29, r.Days())

	_, err = daterange.Parse("01/02/2024", "2024-02-29")
	assert.ErrorIs(t, err, validate.ErrValidation)

	_, err = daterange.Parse("2024-02-29", "2024-02-01")
	assert.ErrorIs(t, err, daterange.ErrInvalidRange)
}

func TestParseOptional(t *testing.T) {
	r, err := daterange.ParseOptional("", "")
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.Equal(t, "all-time", daterange.Label(r))

	_, err = daterange.ParseOptional("2024-01-01", "")
	assert.ErrorIs(t, err, validate.ErrValidation)

	r, err = daterange.ParseOptional("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 31, r.Days())
}

func TestContains(t *testing.T) {
	r, err := daterange.Parse("2024-01-01", "2024-01-14")
	require.NoError(t, err)

	assert.True(t, r.Contains(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, r.Contains(time.Date(2024, 1, 14, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, daterange.Contains(nil, time.Time{}))
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	b := time.Date(2024, 1, 3, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, daterange.DaysBetween(a, b))
	assert.Equal(t, -2, daterange.DaysBetween(b, a))
}
