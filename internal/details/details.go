// Package details holds the business's own letterhead, stored as a single row.
package details

import (
	"errors"
	"time"
)

// ErrNotConfigured is returned while no details have been saved yet.
var ErrNotConfigured = errors.New("business details not configured")

type Details struct {
	Name          string
	TaxReference  string
	BankName      string
	SortCode      string
	AccountNumber string
	Contact       string
	Farewell      string
	Address       []string
	Postcode      string
	UpdatedAt     time.Time
}
