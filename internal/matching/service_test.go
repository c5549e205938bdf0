package matching_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/matching"
	"github.com/MrJamesThe3rd/invoicer/internal/matching/store"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

func TestService_Suggest_LongestPatternWins(t *testing.T) {
	svc := matching.NewService(store.NewMemory())
	ctx := context.Background()

	_, err := svc.Learn(ctx, matching.LearnParams{RawPattern: "SHELL", Description: "Fuel", Category: expense.CategoryTravel})
	require.NoError(t, err)

	_, err = svc.Learn(ctx, matching.LearnParams{RawPattern: "shell energy", Description: "Office power", Category: expense.CategoryOffice})
	require.NoError(t, err)

	got, err := svc.Suggest(ctx, "DD SHELL ENERGY RETAIL 0193")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Office power", got.Description)
	assert.Equal(t, expense.CategoryOffice, got.Category)

	got, err = svc.Suggest(ctx, "SHELL M6 SOUTHBOUND")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, expense.CategoryTravel, got.Category)

	got, err = svc.Suggest(ctx, "SCREWFIX DIRECT")
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "SHELL", all[0].RawPattern)
}

func TestService_Learn(t *testing.T) {
	type testCase struct {
		name      string
		params    matching.LearnParams
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	failure := errors.New("db down")

	tests := []testCase{
		{
			name:   "Success",
			params: matching.LearnParams{RawPattern: "  AMAZON MKTP ", Description: "Stationery", Category: expense.CategoryOffice},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, mapping *matching.Mapping) error {
						assert.Equal(t, "AMAZON MKTP", mapping.RawPattern)
						return nil
					})
			},
		},
		{
			name:    "PatternTooShort",
			params:  matching.LearnParams{RawPattern: "AB", Description: "x", Category: expense.CategoryOffice},
			wantErr: validate.ErrValidation,
		},
		{
			name:    "UnknownCategory",
			params:  matching.LearnParams{RawPattern: "AMAZON", Description: "x", Category: "groceries"},
			wantErr: validate.ErrValidation,
		},
		{
			name:   "RepositoryError",
			params: matching.LearnParams{RawPattern: "AMAZON", Description: "x", Category: expense.CategoryOffice},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), gomock.Any()).Return(failure)
			},
			wantErr: failure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := matching.NewService(repo).Learn(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.params.Category, got.Category)
		})
	}
}

func TestService_Suggest_BlankSkipsRepository(t *testing.T) {
	ctrl := gomock.NewController(t)

	got, err := matching.NewService(matching.NewMockRepository(ctrl)).Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, got)
}
