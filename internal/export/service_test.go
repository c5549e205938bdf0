package export_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

var rows = []invoice.ItemRow{
	{
		InvoiceNo:   7,
		InvoiceDate: day(5),
		ClientName:  "Acme",
		Paid:        true,
		Item:        invoice.Item{Date: day(4), Type: invoice.TypeLabour, Description: "Fitting", Fee: 4000},
	},
	{
		InvoiceNo:   8,
		InvoiceDate: day(12),
		ClientName:  "Bolt, Sons & Co",
		Paid:        true,
		Item:        invoice.Item{Date: day(11), Type: invoice.TypeMaterials, Description: "Sheet goods", Fee: 1250},
	},
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteCSV(&buf, rows, export.IncomingFields))

	want := "Invoice,Invoice date,Client,Date,Type,Description,Fee\n" +
		"7,05/01/24,Acme,04/01/24,Labour,Fitting,40.00\n" +
		"8,12/01/24,\"Bolt, Sons & Co\",11/01/24,Materials,Sheet goods,12.50\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer

	err := export.WriteCSV(&buf, []invoice.ItemRow{}, export.IncomingFields)
	assert.ErrorIs(t, err, export.ErrEmptyExport)
	assert.Zero(t, buf.Len())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteXLSX(&buf, "incoming", rows, export.IncomingFields))

	f, err := excelize.OpenReader(&buf, excelize.Options{RawCellValue: true})
	require.NoError(t, err)

	defer f.Close()

	got, err := f.GetRows("incoming")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []string{"Invoice", "Invoice date", "Client", "Date", "Type", "Description", "Fee"}, got[0])
	assert.Equal(t, []string{"8", "12/01/24", "Bolt, Sons & Co", "11/01/24", "Materials", "Sheet goods", "12.5"}, got[2])
}

func TestRequest_Name(t *testing.T) {
	r, err := daterange.New(day(1), day(14))
	require.NoError(t, err)

	assert.Equal(t, "incoming_2024-01-01_to_2024-01-14.csv",
		export.Request{Kind: export.KindIncoming, Range: &r, Format: export.FormatCSV}.Name())
	assert.Equal(t, "deductions_all-time.xlsx",
		export.Request{Kind: export.KindDeductions, Format: export.FormatXLSX}.Name())
}

func TestParseKindAndFormat(t *testing.T) {
	k, err := export.ParseKind(" Incoming ")
	require.NoError(t, err)
	assert.Equal(t, export.KindIncoming, k)

	_, err = export.ParseKind("invoices")
	var verr *validate.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "kind", verr.Field)

	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatCSV, f)

	_, err = export.ParseFormat("pdf")
	assert.ErrorIs(t, err, validate.ErrValidation)
}

func TestService_Export(t *testing.T) {
	fortnight, err := daterange.New(day(1), day(14))
	require.NoError(t, err)

	failure := errors.New("connection reset")

	type testCase struct {
		name      string
		req       export.Request
		setupMock func(items *export.MockItemSource, expenses *export.MockExpenseSource)
		wantName  string
		wantBody  string
		wantErr   error
	}

	tests := []testCase{
		{
			name: "IncomingCSV",
			req:  export.Request{Kind: export.KindIncoming, Range: &fortnight},
			setupMock: func(items *export.MockItemSource, _ *export.MockExpenseSource) {
				items.EXPECT().ListItems(gomock.Any(), &fortnight, true).Return(rows[:1], nil)
			},
			wantName: "incoming_2024-01-01_to_2024-01-14.csv",
			wantBody: "Invoice,Invoice date,Client,Date,Type,Description,Fee\n7,05/01/24,Acme,04/01/24,Labour,Fitting,40.00\n",
		},
		{
			name: "DeductionsCSV",
			req:  export.Request{Kind: export.KindDeductions, Format: export.FormatCSV},
			setupMock: func(_ *export.MockItemSource, expenses *export.MockExpenseSource) {
				expenses.EXPECT().ListExpenses(gomock.Any(), nil).Return([]*expense.Expense{
					{Date: day(3), Category: expense.CategoryTravel, Description: "Diesel", Amount: 6513},
				}, nil)
			},
			wantName: "deductions_all-time.csv",
			wantBody: "Date,Category,Description,Amount\n03/01/24,\"Car, van and travel expenses\",Diesel,65.13\n",
		},
		{
			name: "EmptyRange",
			req:  export.Request{Kind: export.KindDeductions, Range: &fortnight, Format: export.FormatXLSX},
			setupMock: func(_ *export.MockItemSource, expenses *export.MockExpenseSource) {
				expenses.EXPECT().ListExpenses(gomock.Any(), &fortnight).Return(nil, nil)
			},
			wantErr: export.ErrEmptyExport,
		},
		{
			name: "SourceError",
			req:  export.Request{Kind: export.KindIncoming},
			setupMock: func(items *export.MockItemSource, _ *export.MockExpenseSource) {
				items.EXPECT().ListItems(gomock.Any(), nil, true).Return(nil, failure)
			},
			wantErr: failure,
		},
		{
			name:    "UnknownKind",
			req:     export.Request{Kind: "payroll"},
			wantErr: validate.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			items := export.NewMockItemSource(ctrl)
			expenses := export.NewMockExpenseSource(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(items, expenses)
			}

			dir := filepath.Join(t.TempDir(), "out")

			file, err := export.NewService(items, expenses).Export(context.Background(), tt.req, dir)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				entries, _ := os.ReadDir(dir)
				assert.Empty(t, entries)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, file.Name)
			assert.Equal(t, 1, file.Rows)

			body, err := os.ReadFile(file.Path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBody, string(body))
		})
	}
}
