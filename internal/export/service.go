// Package export turns paid invoice items and expenses into downloadable CSV or XLSX files.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

type Kind string

const (
	// KindIncoming is paid invoice line items.
	KindIncoming Kind = "incoming"
	// KindDeductions is expenses.
	KindDeductions Kind = "deductions"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindIncoming, KindDeductions:
		return k, nil
	}

	return "", validate.Field("kind", "must be one of incoming deductions")
}

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat defaults to CSV when s is empty.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX:
		return f, nil
	}

	return "", validate.Field("format", "must be one of csv xlsx")
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}

	return "text/csv; charset=utf-8"
}

//go:generate mockgen -source=service.go -destination=source_mock.go -package=export
type ItemSource interface {
	ListItems(ctx context.Context, r *daterange.Range, paidOnly bool) ([]invoice.ItemRow, error)
}

type ExpenseSource interface {
	ListExpenses(ctx context.Context, r *daterange.Range) ([]*expense.Expense, error)
}

type Request struct {
	Kind   Kind
	Range  *daterange.Range
	Format Format
}

// Name is the download name, e.g. incoming_2024-01-01_to_2024-01-14.csv.
func (r Request) Name() string {
	return fmt.Sprintf("%s_%s.%s", r.Kind, daterange.Label(r.Range), r.Format)
}

// File is a generated export on disk. The caller owns Path and removes it once served.
type File struct {
	Path        string
	Name        string
	ContentType string
	Rows        int
}

var IncomingFields = []Field[invoice.ItemRow]{
	{Label: "Invoice", Value: func(r invoice.ItemRow) any { return r.InvoiceNo }},
	{Label: "Invoice date", Value: func(r invoice.ItemRow) any { return r.InvoiceDate }},
	{Label: "Client", Value: func(r invoice.ItemRow) any { return r.ClientName }},
	{Label: "Date", Value: func(r invoice.ItemRow) any { return r.Item.Date }},
	{Label: "Type", Value: func(r invoice.ItemRow) any { return string(r.Item.Type) }},
	{Label: "Description", Value: func(r invoice.ItemRow) any { return r.Item.Description }},
	{Label: "Fee", Value: func(r invoice.ItemRow) any { return r.Item.Fee }},
}

var DeductionFields = []Field[*expense.Expense]{
	{Label: "Date", Value: func(e *expense.Expense) any { return e.Date }},
	{Label: "Category", Value: func(e *expense.Expense) any { return e.Category.Label() }},
	{Label: "Description", Value: func(e *expense.Expense) any { return e.Description }},
	{Label: "Amount", Value: func(e *expense.Expense) any { return e.Amount }},
}

type Service struct {
	items    ItemSource
	expenses ExpenseSource
}

func NewService(items ItemSource, expenses ExpenseSource) *Service {
	return &Service{items: items, expenses: expenses}
}

// Export writes the requested rows into dir. Nothing is written when there are
// no rows; ErrEmptyExport is returned instead.
func (s *Service) Export(ctx context.Context, req Request, dir string) (File, error) {
	if req.Format == "" {
		req.Format = FormatCSV
	}

	switch req.Kind {
	case KindIncoming:
		rows, err := s.items.ListItems(ctx, req.Range, true)
		if err != nil {
			return File{}, fmt.Errorf("listing paid items: %w", err)
		}

		return write(req, dir, rows, IncomingFields)
	case KindDeductions:
		rows, err := s.expenses.ListExpenses(ctx, req.Range)
		if err != nil {
			return File{}, fmt.Errorf("listing expenses: %w", err)
		}

		return write(req, dir, rows, DeductionFields)
	default:
		return File{}, validate.Field("kind", "must be one of incoming deductions")
	}
}

func write[T any](req Request, dir string, rows []T, fields []Field[T]) (File, error) {
	if len(rows) == 0 {
		return File{}, ErrEmptyExport
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return File{}, fmt.Errorf("creating output directory: %w", err)
	}

	out := File{
		Path:        filepath.Join(dir, req.Name()),
		Name:        req.Name(),
		ContentType: req.Format.ContentType(),
		Rows:        len(rows),
	}

	f, err := os.Create(out.Path)
	if err != nil {
		return File{}, fmt.Errorf("creating file: %w", err)
	}

	switch req.Format {
	case FormatXLSX:
		err = WriteXLSX(f, string(req.Kind), rows, fields)
	default:
		err = WriteCSV(f, rows, fields)
	}

	if cerr := f.Close(); err == nil {
		err = cerr
	}

	if err != nil {
		return File{}, errors.Join(fmt.Errorf("writing %s: %w", out.Name, err), os.Remove(out.Path))
	}

	return out, nil
}
