package invoice

import "errors"

var (
	ErrNotFound = errors.New("invoice not found")
	// ErrPaid guards edits and deletes: a paid invoice must be marked unpaid first.
	ErrPaid = errors.New("cannot modify paid invoice")
	// ErrNoData is returned by lifetime statistics that need at least one invoice.
	ErrNoData = errors.New("no invoices")
)
