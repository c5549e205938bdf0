package invoice

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// Filter selects invoices. Range applies to the invoice issue date; nil fields match everything.
type Filter struct {
	Range    *daterange.Range
	Paid     *bool
	ClientID *uuid.UUID
}

// Matches evaluates the filter against a single invoice.
func (f Filter) Matches(inv *Invoice) bool {
	if !daterange.Contains(f.Range, inv.Date) {
		return false
	}

	if f.Paid != nil && inv.Paid != *f.Paid {
		return false
	}

	if f.ClientID != nil && inv.Client.ID != *f.ClientID {
		return false
	}

	return true
}

type Sort int

const (
	SortDateAsc Sort = iota
	SortDateDesc
)

// Query lists whole invoice documents. Ties on date are broken by invoice number.
type Query struct {
	Filter
	Sort  Sort
	Limit int
}

// GroupKey names what an Aggregation buckets by.
type GroupKey string

const (
	GroupNone     GroupKey = ""
	GroupClient   GroupKey = "client"
	GroupItemType GroupKey = "item_type"
	GroupItemDate GroupKey = "item_date"
)

// Aggregation is the single counting/summing primitive behind every engine figure.
// With Items unset it counts invoices and sums their totals; with Items set it
// unwinds line items first, optionally keeping only one ItemType.
type Aggregation struct {
	Filter
	Items    bool
	ItemType *ItemType
	GroupBy  GroupKey
}

func (a Aggregation) Validate() error {
	if a.Items {
		return nil
	}

	if a.ItemType != nil || a.GroupBy == GroupItemType || a.GroupBy == GroupItemDate {
		return fmt.Errorf("aggregation by item requires item unwinding")
	}

	return nil
}

// Bucket is one group of an aggregation result. Key is empty for GroupNone,
// the client id, the item type, or the item date as YYYY-MM-DD.
type Bucket struct {
	Key   string
	Count int
	Sum   money.Amount
}

func paidFilter(paidOnly bool) *bool {
	if !paidOnly {
		return nil
	}

	return new(true)
}
