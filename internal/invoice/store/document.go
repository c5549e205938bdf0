package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// document is the JSONB shape of an invoice. Dates are YYYY-MM-DD strings so
// range predicates compare lexically; fees are integer pence.
type document struct {
	Number   int        `json:"number"`
	Date     string     `json:"date"`
	Message  string     `json:"message,omitempty"`
	Paid     bool       `json:"paid"`
	DatePaid *string    `json:"date_paid,omitempty"`
	Client   clientDoc  `json:"client"`
	Details  detailsDoc `json:"details"`
	Items    []itemDoc  `json:"items"`
}

type clientDoc struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Address  []string  `json:"address,omitempty"`
	Postcode string    `json:"postcode,omitempty"`
}

type detailsDoc struct {
	Name          string   `json:"name"`
	TaxReference  string   `json:"tax_reference,omitempty"`
	BankName      string   `json:"bank_name,omitempty"`
	SortCode      string   `json:"sort_code,omitempty"`
	AccountNumber string   `json:"account_number,omitempty"`
	Contact       string   `json:"contact,omitempty"`
	Farewell      string   `json:"farewell,omitempty"`
	Address       []string `json:"address,omitempty"`
	Postcode      string   `json:"postcode,omitempty"`
}

type itemDoc struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Fee         int64  `json:"fee"`
}

func encode(inv *invoice.Invoice) ([]byte, error) {
	doc := document{
		Number:  inv.Number,
		Date:    inv.Date.Format(time.DateOnly),
		Message: inv.Message,
		Paid:    inv.Paid,
		Client:  clientDoc(inv.Client),
		Details: detailsDoc(inv.Details),
		Items:   make([]itemDoc, len(inv.Items)),
	}

	if inv.DatePaid != nil {
		doc.DatePaid = new(inv.DatePaid.Format(time.DateOnly))
	}

	for i, it := range inv.Items {
		doc.Items[i] = itemDoc{
			Date:        it.Date.Format(time.DateOnly),
			Type:        string(it.Type),
			Description: it.Description,
			Fee:         int64(it.Fee),
		}
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding invoice: %w", err)
	}

	return b, nil
}

func decode(raw []byte, inv *invoice.Invoice) error {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding invoice: %w", err)
	}

	date, err := time.Parse(time.DateOnly, doc.Date)
	if err != nil {
		return fmt.Errorf("decoding invoice date: %w", err)
	}

	inv.Number = doc.Number
	inv.Date = date
	inv.Message = doc.Message
	inv.Paid = doc.Paid
	inv.Client = invoice.ClientSnapshot(doc.Client)
	inv.Details = invoice.DetailsSnapshot(doc.Details)
	inv.DatePaid = nil

	if doc.DatePaid != nil {
		paid, err := time.Parse(time.DateOnly, *doc.DatePaid)
		if err != nil {
			return fmt.Errorf("decoding invoice date_paid: %w", err)
		}

		inv.DatePaid = &paid
	}

	inv.Items = make([]invoice.Item, len(doc.Items))
	for i, it := range doc.Items {
		d, err := time.Parse(time.DateOnly, it.Date)
		if err != nil {
			return fmt.Errorf("decoding item date: %w", err)
		}

		inv.Items[i] = invoice.Item{
			Date:        d,
			Type:        invoice.ItemType(it.Type),
			Description: it.Description,
			Fee:         money.Amount(it.Fee),
		}
	}

	return nil
}
