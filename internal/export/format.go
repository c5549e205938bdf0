package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// ErrEmptyExport is returned instead of writing a header-only file.
var ErrEmptyExport = errors.New("nothing to export")

const dateLayout = "02/01/06"

// Field maps one column of an export: a header label and how to read the cell from a row.
type Field[T any] struct {
	Label string
	Value func(T) any
}

func headers[T any](fields []Field[T]) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Label
	}

	return out
}

func text(v any) string {
	switch v := v.(type) {
	case time.Time:
		if v.IsZero() {
			return ""
		}

		return v.Format(dateLayout)
	case *time.Time:
		if v == nil {
			return ""
		}

		return text(*v)
	case money.Amount:
		return v.String()
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// WriteCSV writes a header row followed by one record per row.
func WriteCSV[T any](w io.Writer, rows []T, fields []Field[T]) error {
	if len(rows) == 0 {
		return ErrEmptyExport
	}

	cw := csv.NewWriter(w)

	if err := cw.Write(headers(fields)); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	record := make([]string, len(fields))

	for i, row := range rows {
		for j, f := range fields {
			record[j] = text(f.Value(row))
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i+1, err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}

	return nil
}

// WriteXLSX writes the same layout as WriteCSV into a single-sheet workbook.
// Money cells stay numeric with a two-place number format.
func WriteXLSX[T any](w io.Writer, sheet string, rows []T, fields []Field[T]) error {
	if len(rows) == 0 {
		return ErrEmptyExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	twoPlaces, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return fmt.Errorf("creating money style: %w", err)
	}

	for col, label := range headers(fields) {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}

		if err := f.SetCellValue(sheet, cell, label); err != nil {
			return fmt.Errorf("writing header %q: %w", label, err)
		}

		if err := f.SetCellStyle(sheet, cell, cell, bold); err != nil {
			return fmt.Errorf("styling header %q: %w", label, err)
		}
	}

	for i, row := range rows {
		for col, field := range fields {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}

			switch v := field.Value(row).(type) {
			case money.Amount:
				err = f.SetCellFloat(sheet, cell, v.Decimal().InexactFloat64(), 2, 64)
				if err == nil {
					err = f.SetCellStyle(sheet, cell, cell, twoPlaces)
				}
			case int:
				err = f.SetCellValue(sheet, cell, v)
			default:
				err = f.SetCellStr(sheet, cell, text(v))
			}

			if err != nil {
				return fmt.Errorf("writing %s: %w", cell, err)
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}

	return nil
}
