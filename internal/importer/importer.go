// Package importer turns an uploaded bank statement into categorised draft
// expenses ready for confirmation.
package importer

import (
	"io"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
)

//go:generate mockgen -source=importer.go -destination=importer_mock.go -package=importer
type Parser interface {
	Parse(r io.Reader) ([]expense.CreateParams, error)
}
