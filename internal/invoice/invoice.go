package invoice

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

// ItemType tags a line item. Older documents may carry any free text; new and
// edited invoices are limited to the three known types.
type ItemType string

const (
	TypeLabour    ItemType = "Labour"
	TypeMaterials ItemType = "Materials"
	TypeExpense   ItemType = "Expense"
)

// ItemTypes lists the known item types in display order.
var ItemTypes = []ItemType{TypeLabour, TypeMaterials, TypeExpense}

func (t ItemType) Valid() bool {
	for _, known := range ItemTypes {
		if t == known {
			return true
		}
	}

	return false
}

// ParseItemType accepts a known type in any letter case.
func ParseItemType(s string) (ItemType, error) {
	for _, known := range ItemTypes {
		if strings.EqualFold(strings.TrimSpace(s), string(known)) {
			return known, nil
		}
	}

	return "", validate.Field("type", "must be one of: Labour Materials Expense")
}

// Invoice is a stored invoice document. Client and Details are copies taken
// when the invoice was created or last edited.
type Invoice struct {
	ID        uuid.UUID
	Number    int
	Date      time.Time
	Message   string
	Paid      bool
	DatePaid  *time.Time
	Client    ClientSnapshot
	Details   DetailsSnapshot
	Items     []Item
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Item is a single billable line.
type Item struct {
	Date        time.Time
	Type        ItemType
	Description string
	Fee         money.Amount
}

// ClientSnapshot is the client as it looked when the invoice was written.
type ClientSnapshot struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Phone    string
	Address  []string
	Postcode string
}

// DetailsSnapshot is the business's own letterhead as it looked when the invoice was written.
type DetailsSnapshot struct {
	Name          string
	TaxReference  string
	BankName      string
	SortCode      string
	AccountNumber string
	Contact       string
	Farewell      string
	Address       []string
	Postcode      string
}

// Total sums the item fees.
func (inv *Invoice) Total() money.Amount {
	var total money.Amount
	for _, it := range inv.Items {
		total += it.Fee
	}

	return total
}

// ItemsPrecedeDate reports whether every item is dated on or before the invoice.
func (inv *Invoice) ItemsPrecedeDate() bool {
	for _, it := range inv.Items {
		if it.Date.After(inv.Date) {
			return false
		}
	}

	return true
}

func (inv *Invoice) markPaid(at time.Time) {
	inv.Paid = true
	inv.DatePaid = &at
}

func (inv *Invoice) markUnpaid() {
	inv.Paid = false
	inv.DatePaid = nil
}

// Clone returns a deep copy, so stores can hand out documents without sharing slices.
func (inv *Invoice) Clone() *Invoice {
	c := *inv
	c.Items = append([]Item(nil), inv.Items...)
	c.Client.Address = append([]string(nil), inv.Client.Address...)
	c.Details.Address = append([]string(nil), inv.Details.Address...)

	if inv.DatePaid != nil {
		c.DatePaid = new(*inv.DatePaid)
	}

	if inv.UpdatedAt != nil {
		c.UpdatedAt = new(*inv.UpdatedAt)
	}

	return &c
}

// ItemRow is a line item flattened out of its invoice for listings and exports.
type ItemRow struct {
	InvoiceID   uuid.UUID
	InvoiceNo   int
	InvoiceDate time.Time
	ClientID    uuid.UUID
	ClientName  string
	Paid        bool
	Item        Item
}
