package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

type line struct {
	Fee int64 `json:"fee" validate:"min=0"`
}

type form struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Kind  string `json:"kind" validate:"oneof=a b"`
	Lines []line `json:"lines" validate:"min=1,dive"`
}

func TestStruct(t *testing.T) {
	type testCase struct {
		name      string
		in        form
		wantField string
	}

	tests := []testCase{
		{
			name:      "MissingName",
			in:        form{Kind: "a", Lines: []line{{Fee: 1}}},
			wantField: "name",
		},
		{
			name:      "BadEmail",
			in:        form{Name: "x", Email: "nope", Kind: "a", Lines: []line{{Fee: 1}}},
			wantField: "email",
		},
		{
			name:      "NestedLine",
			in:        form{Name: "x", Kind: "b", Lines: []line{{Fee: 1}, {Fee: -1}}},
			wantField: "lines[1].fee",
		},
		{
			name:      "NoLines",
			in:        form{Name: "x", Kind: "b"},
			wantField: "lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, validate.ErrValidation)

			var verr *validate.Error
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}

	assert.NoError(t, validate.Struct(form{Name: "x", Kind: "a", Lines: []line{{Fee: 0}}}))
}

func TestField(t *testing.T) {
	err := validate.Field("category", "unknown category")
	assert.ErrorIs(t, err, validate.ErrValidation)
	assert.EqualError(t, err, "validation failed: category unknown category")
}
