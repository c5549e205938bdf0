package bank

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSigned is one signed column where money out is negative.
	amountSigned amountMode = iota
	// amountSplit is separate paid out and paid in columns.
	amountSplit
)

// Profile describes the column layout of one bank's CSV export.
type Profile struct {
	Name        string
	DateCol     string
	DateLayouts []string
	DescCol     string
	AmountMode  amountMode
	AmountCol   string // amountSigned
	DebitCol    string // amountSplit
	CreditCol   string // amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSigned:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

var ukDate = []string{"02/01/2006", "2/1/2006", "02/01/06", "2006-01-02"}

// profiles are tried in order, most specific first, since "Date" and
// "Amount" alone would match almost anything.
var profiles = []Profile{
	{
		Name:        "starling",
		DateCol:     "Date",
		DateLayouts: ukDate,
		DescCol:     "Counter Party",
		AmountMode:  amountSigned,
		AmountCol:   "Amount (GBP)",
	},
	{
		Name:        "lloyds",
		DateCol:     "Transaction Date",
		DateLayouts: ukDate,
		DescCol:     "Transaction Description",
		AmountMode:  amountSplit,
		DebitCol:    "Debit Amount",
		CreditCol:   "Credit Amount",
	},
	{
		Name:        "nationwide",
		DateCol:     "Date",
		DateLayouts: append([]string{"02 Jan 2006", "2 Jan 2006"}, ukDate...),
		DescCol:     "Description",
		AmountMode:  amountSplit,
		DebitCol:    "Paid out",
		CreditCol:   "Paid in",
	},
	{
		Name:        "monzo",
		DateCol:     "Date",
		DateLayouts: ukDate,
		DescCol:     "Name",
		AmountMode:  amountSigned,
		AmountCol:   "Amount",
	},
	{
		Name:        "barclays",
		DateCol:     "Date",
		DateLayouts: ukDate,
		DescCol:     "Memo",
		AmountMode:  amountSigned,
		AmountCol:   "Amount",
	},
	{
		Name:        "generic",
		DateCol:     "Date",
		DateLayouts: ukDate,
		DescCol:     "Description",
		AmountMode:  amountSigned,
		AmountCol:   "Amount",
	},
}
