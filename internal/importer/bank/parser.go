// Package bank reads UK bank statement CSV exports into draft expenses.
package bank

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/encoding"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

var ErrUnknownFormat = errors.New("no matching bank statement format")

// Parser auto-detects the bank by matching column headers against known
// profiles. Only money going out becomes a draft expense; money in is income
// that invoices already account for.
type Parser struct {
	log *slog.Logger
}

func NewParser() *Parser {
	return &Parser{log: logging.Component("importer")}
}

func (p *Parser) Parse(r io.Reader) ([]expense.CreateParams, error) {
	utf8r, charset, err := encoding.Detect(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	raw, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read statement: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(raw)))
	reader.Comma = delimiter(string(raw))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrUnknownFormat
	}

	p.log.Debug("statement detected", "profile", profile.Name, "charset", charset, "rows", len(rows)-headerIdx-1)

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx)
}

// delimiter picks ';' only when the first line has more of them than commas.
func delimiter(s string) rune {
	first, _, _ := strings.Cut(s, "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';'
	}

	return ','
}

type colIndex map[string]int

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a parseable date (balance lines, footers) and
// rows that are not money out. headerRowNum is the 0-based header index.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]expense.CreateParams, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var out []expense.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2

		date, ok := parseDate(row, dateIdx, p.DateLayouts)
		if !ok {
			continue
		}

		amount, ok := parseDebit(p, cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		out = append(out, expense.CreateParams{
			Date:           date,
			Description:    desc,
			RawDescription: desc,
			Amount:         amount,
		})
	}

	return out, nil
}

func parseDate(row []string, idx int, layouts []string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func parseDebit(p *Profile, cols colIndex, row []string) (money.Amount, bool) {
	switch p.AmountMode {
	case amountSigned:
		a, err := parseAmount(cellValue(row, cols[p.AmountCol]))
		if err != nil || a >= 0 {
			return 0, false
		}

		return -a, true
	case amountSplit:
		a, err := parseAmount(cellValue(row, cols[p.DebitCol]))
		if err != nil || a == 0 {
			return 0, false
		}

		if a < 0 {
			a = -a
		}

		return a, true
	}

	return 0, false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
