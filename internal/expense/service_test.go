package expense_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

func line(d int, amount int64, raw string) expense.CreateParams {
	return expense.CreateParams{
		Date:           time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC),
		Category:       expense.CategoryOffice,
		Description:    raw,
		RawDescription: raw,
		Amount:         money.Amount(amount),
	}
}

func TestService_ImportBatch(t *testing.T) {
	batch := []expense.CreateParams{
		line(3, 1250, "SCREWFIX DIRECT"),
		line(5, 4999, "TOOLSTATION"),
	}

	type testCase struct {
		name          string
		params        []expense.CreateParams
		setupMock     func(repo *expense.MockRepository, itx *expense.MockImportTx)
		wantImported  int
		wantConflicts int
		wantErr       bool
	}

	tests := []testCase{
		{
			name:   "AllNew",
			params: batch,
			setupMock: func(repo *expense.MockRepository, itx *expense.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(),
					time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
					time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)).Return(itx, nil)
				itx.EXPECT().FindDuplicates(gomock.Any(), batch).Return(nil, nil)
				itx.EXPECT().CreateExpenses(gomock.Any(), gomock.Len(2)).
					DoAndReturn(func(_ context.Context, es []*expense.Expense) error {
						for _, e := range es {
							e.ID = uuid.New()
						}
						return nil
					})
				itx.EXPECT().Commit().Return(nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantImported: 2,
		},
		{
			name:   "Conflict",
			params: batch,
			setupMock: func(repo *expense.MockRepository, itx *expense.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(itx, nil)
				itx.EXPECT().FindDuplicates(gomock.Any(), batch).Return([]*expense.Expense{{
					ID:             uuid.New(),
					Date:           time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
					RawDescription: "TOOLSTATION",
					Amount:         4999,
				}}, nil)
				itx.EXPECT().Rollback().Return(nil)
			},
			wantConflicts: 1,
		},
		{
			name:   "LockFails",
			params: batch,
			setupMock: func(repo *expense.MockRepository, itx *expense.MockImportTx) {
				repo.EXPECT().BeginImport(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("lock timeout"))
			},
			wantErr: true,
		},
		{
			name:    "InvalidLine",
			params:  []expense.CreateParams{line(3, -100, "REFUND")},
			wantErr: true,
		},
		{
			name:   "Empty",
			params: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := expense.NewMockRepository(ctrl)
			itx := expense.NewMockImportTx(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, itx)
			}

			svc := expense.NewService(repo)

			var changes int
			svc.OnChange(func(context.Context) { changes++ })

			got, err := svc.ImportBatch(context.Background(), tt.params)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Zero(t, changes)

				return
			}

			require.NoError(t, err)
			assert.Len(t, got.Imported, tt.wantImported)
			assert.Len(t, got.Conflicts, tt.wantConflicts)

			if tt.wantConflicts > 0 {
				assert.Len(t, got.New, len(tt.params)-tt.wantConflicts)
				assert.Zero(t, changes)
			}

			if tt.wantImported > 0 {
				assert.Equal(t, 1, changes)
			}
		})
	}
}

func TestService_Create_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := expense.NewService(expense.NewMockRepository(ctrl))

	p := line(3, 1000, "SCREWFIX")
	p.Category = "groceries"

	_, err := svc.Create(context.Background(), p)

	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category", verr.Field)
}

func TestService_Create_Amount(t *testing.T) {
	type testCase struct {
		name    string
		amount  int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Zero", amount: 0},
		{name: "Positive", amount: 1250},
		{name: "Negative", amount: -1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := expense.NewMockRepository(ctrl)

			if !tt.wantErr {
				repo.EXPECT().CreateExpense(gomock.Any(), gomock.Any()).Return(nil)
			}

			e, err := expense.NewService(repo).Create(context.Background(), line(3, tt.amount, "SCREWFIX"))

			if tt.wantErr {
				var verr *validate.Error
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "amount", verr.Field)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, money.Amount(tt.amount), e.Amount)
		})
	}
}

func TestParseCategory(t *testing.T) {
	c, err := expense.ParseCategory(" Travel ")
	require.NoError(t, err)
	assert.Equal(t, expense.CategoryTravel, c)
	assert.Equal(t, "Car, van and travel expenses", c.Label())

	_, err = expense.ParseCategory("groceries")
	assert.ErrorIs(t, err, validate.ErrValidation)
}
