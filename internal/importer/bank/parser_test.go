package bank_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/bank"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestParser_Parse(t *testing.T) {
	type testCase struct {
		name    string
		csv     string
		wantLen int
		verify  func(t *testing.T, lines []expense.CreateParams)
		wantErr error
	}

	tests := []testCase{
		{
			name: "Starling",
			csv: `Date,Counter Party,Reference,Type,Amount (GBP),Balance (GBP),Spending Category,Notes
03/01/2024,Screwfix,SCREWFIX 4021,CARD PAYMENT,-42.99,957.01,SHOPPING,
05/01/2024,Acme Ltd,INV 41,FASTER PAYMENT,300.00,1257.01,INCOME,
`,
			wantLen: 1,
			verify: func(t *testing.T, lines []expense.CreateParams) {
				assert.Equal(t, date(2024, 1, 3), lines[0].Date)
				assert.Equal(t, "Screwfix", lines[0].Description)
				assert.Equal(t, money.Amount(4299), lines[0].Amount)
				assert.Empty(t, lines[0].Category)
			},
		},
		{
			name: "NationwideWithPreamble",
			csv: `"Account Name:","FlexDirect ****01234"
"Account Balance:","£1,020.55"
"Available Balance: ","£1,020.55"

"Date","Transaction type","Description","Paid out","Paid in","Balance"
"08 Jan 2024","Direct debit","HMRC NDDS","£1,250.00","","£1,020.55"
"09 Jan 2024","Bank credit","BOLT AND CO","","£100.00","£1,120.55"
`,
			wantLen: 1,
			verify: func(t *testing.T, lines []expense.CreateParams) {
				assert.Equal(t, date(2024, 1, 8), lines[0].Date)
				assert.Equal(t, "HMRC NDDS", lines[0].RawDescription)
				assert.Equal(t, money.Amount(125000), lines[0].Amount)
			},
		},
		{
			name: "Lloyds",
			csv: `Transaction Date,Transaction Type,Sort Code,Account Number,Transaction Description,Debit Amount,Credit Amount,Balance
14/01/2024,DEB,'30-00-00,12345678,SHELL M6,65.13,,934.87
`,
			wantLen: 1,
			verify: func(t *testing.T, lines []expense.CreateParams) {
				assert.Equal(t, "SHELL M6", lines[0].Description)
				assert.Equal(t, money.Amount(6513), lines[0].Amount)
			},
		},
		{
			name: "Barclays",
			csv: `Number,Date,Account,Amount,Subcategory,Memo
,02/01/2024,20-00-00 1234567,-12.50,PAYMENT,VIKING DIRECT
,02/01/2024,20-00-00 1234567,-0.00,PAYMENT,ZERO LINE
`,
			wantLen: 1,
			verify: func(t *testing.T, lines []expense.CreateParams) {
				assert.Equal(t, "VIKING DIRECT", lines[0].Description)
				assert.Equal(t, money.Amount(1250), lines[0].Amount)
			},
		},
		{
			name: "SemicolonGeneric",
			csv: `Date;Description;Amount
2024-01-04;POST OFFICE;-7.35
Total;;-7.35
`,
			wantLen: 1,
			verify: func(t *testing.T, lines []expense.CreateParams) {
				assert.Equal(t, date(2024, 1, 4), lines[0].Date)
				assert.Equal(t, money.Amount(735), lines[0].Amount)
			},
		},
		{
			name:    "HeaderOnly",
			csv:     "Date,Description,Amount\n",
			wantLen: 0,
		},
		{
			name:    "UnknownFormat",
			csv:     "When,What,How much\n01/01/2024,x,-1.00\n",
			wantErr: bank.ErrUnknownFormat,
		},
		{
			name:    "Empty",
			csv:     "",
			wantErr: bank.ErrUnknownFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := bank.NewParser().Parse(strings.NewReader(tt.csv))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)

			if tt.verify != nil {
				tt.verify(t, got)
			}
		})
	}
}

func TestParser_MissingDescription(t *testing.T) {
	_, err := bank.NewParser().Parse(strings.NewReader("Date,Description,Amount\n03/01/2024,,-5.00\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2: missing description")
}

func TestParser_Windows1252(t *testing.T) {
	statement := "Date,Description,Amount\n03/01/2024,CAFÉ ROYAL £ LUNCH,-18.40\n"

	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(statement))
	require.NoError(t, err)

	got, err := bank.NewParser().Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, "CAFÉ ROYAL £ LUNCH", got[0].RawDescription)
}
