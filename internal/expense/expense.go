package expense

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

var ErrNotFound = errors.New("expense not found")

// Category is one of the fixed allowable-expense headings.
type Category string

const (
	CategoryOffice    Category = "office"
	CategoryTravel    Category = "travel"
	CategoryStaff     Category = "staff"
	CategoryReselling Category = "reselling"
	CategoryLegal     Category = "legal"
	CategoryMarketing Category = "marketing"
	CategoryClothing  Category = "clothing"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryOffice,
	CategoryTravel,
	CategoryStaff,
	CategoryReselling,
	CategoryLegal,
	CategoryMarketing,
	CategoryClothing,
}

var labels = map[Category]string{
	CategoryOffice:    "Office, property and equipment",
	CategoryTravel:    "Car, van and travel expenses",
	CategoryStaff:     "Staff costs",
	CategoryReselling: "Things you buy to sell on",
	CategoryLegal:     "Legal and financial costs",
	CategoryMarketing: "Marketing, entertainment and subscriptions",
	CategoryClothing:  "Clothing expenses",
}

func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}

	return string(c)
}

func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", validate.Field("category", "must be one of: office travel staff reselling legal marketing clothing")
	}

	return c, nil
}

// Expense is a single outgoing cost.
type Expense struct {
	ID             uuid.UUID
	Date           time.Time
	Category       Category
	Description    string
	RawDescription string // bank statement text, set on imported expenses
	Amount         money.Amount
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
