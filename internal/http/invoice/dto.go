package invoice

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

type itemRequest struct {
	Date        respond.Date     `json:"date"`
	Type        invoice.ItemType `json:"type"`
	Description string           `json:"description"`
	Fee         money.Amount     `json:"fee"`
}

type invoiceRequest struct {
	Number   int           `json:"number"`
	ClientID uuid.UUID     `json:"client_id"`
	Date     respond.Date  `json:"date"`
	Message  string        `json:"message"`
	Items    []itemRequest `json:"items"`
}

func (req invoiceRequest) params() invoice.CreateParams {
	items := make([]invoice.ItemParams, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, invoice.ItemParams{
			Date:        it.Date.Time(),
			Type:        it.Type,
			Description: it.Description,
			Fee:         it.Fee,
		})
	}

	return invoice.CreateParams{
		Number:   req.Number,
		ClientID: req.ClientID,
		Date:     req.Date.Time(),
		Message:  req.Message,
		Items:    items,
	}
}

type paidRequest struct {
	DatePaid *respond.Date `json:"date_paid,omitempty"`
}

type itemResponse struct {
	Date        respond.Date     `json:"date"`
	Type        invoice.ItemType `json:"type"`
	Description string           `json:"description"`
	Fee         money.Amount     `json:"fee"`
}

type clientResponse struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Address  []string  `json:"address"`
	Postcode string    `json:"postcode,omitempty"`
}

type detailsResponse struct {
	Name          string   `json:"name"`
	TaxReference  string   `json:"tax_reference,omitempty"`
	BankName      string   `json:"bank_name,omitempty"`
	SortCode      string   `json:"sort_code,omitempty"`
	AccountNumber string   `json:"account_number,omitempty"`
	Contact       string   `json:"contact,omitempty"`
	Farewell      string   `json:"farewell,omitempty"`
	Address       []string `json:"address"`
	Postcode      string   `json:"postcode,omitempty"`
}

type invoiceResponse struct {
	ID        uuid.UUID       `json:"id"`
	Number    int             `json:"number"`
	Date      respond.Date    `json:"date"`
	Message   string          `json:"message,omitempty"`
	Paid      bool            `json:"paid"`
	DatePaid  *respond.Date   `json:"date_paid,omitempty"`
	Client    clientResponse  `json:"client"`
	Details   detailsResponse `json:"details"`
	Items     []itemResponse  `json:"items"`
	Total     money.Amount    `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt *time.Time      `json:"updated_at,omitempty"`
}

func toResponse(inv *invoice.Invoice) invoiceResponse {
	items := make([]itemResponse, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, itemResponse{
			Date:        respond.Date(it.Date),
			Type:        it.Type,
			Description: it.Description,
			Fee:         it.Fee,
		})
	}

	return invoiceResponse{
		ID:       inv.ID,
		Number:   inv.Number,
		Date:     respond.Date(inv.Date),
		Message:  inv.Message,
		Paid:     inv.Paid,
		DatePaid: respond.DatePtr(inv.DatePaid),
		Client: clientResponse{
			ID:       inv.Client.ID,
			Name:     inv.Client.Name,
			Email:    inv.Client.Email,
			Phone:    inv.Client.Phone,
			Address:  inv.Client.Address,
			Postcode: inv.Client.Postcode,
		},
		Details: detailsResponse{
			Name:          inv.Details.Name,
			TaxReference:  inv.Details.TaxReference,
			BankName:      inv.Details.BankName,
			SortCode:      inv.Details.SortCode,
			AccountNumber: inv.Details.AccountNumber,
			Contact:       inv.Details.Contact,
			Farewell:      inv.Details.Farewell,
			Address:       inv.Details.Address,
			Postcode:      inv.Details.Postcode,
		},
		Items:     items,
		Total:     inv.Total(),
		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
}

func toResponseList(invs []*invoice.Invoice) []invoiceResponse {
	out := make([]invoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, toResponse(inv))
	}

	return out
}

type itemRowResponse struct {
	InvoiceID   uuid.UUID        `json:"invoice_id"`
	InvoiceNo   int              `json:"invoice_no"`
	InvoiceDate respond.Date     `json:"invoice_date"`
	ClientID    uuid.UUID        `json:"client_id"`
	ClientName  string           `json:"client_name"`
	Paid        bool             `json:"paid"`
	Date        respond.Date     `json:"date"`
	Type        invoice.ItemType `json:"type"`
	Description string           `json:"description"`
	Fee         money.Amount     `json:"fee"`
}

func toRowResponses(rows []invoice.ItemRow) []itemRowResponse {
	out := make([]itemRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, itemRowResponse{
			InvoiceID:   row.InvoiceID,
			InvoiceNo:   row.InvoiceNo,
			InvoiceDate: respond.Date(row.InvoiceDate),
			ClientID:    row.ClientID,
			ClientName:  row.ClientName,
			Paid:        row.Paid,
			Date:        respond.Date(row.Item.Date),
			Type:        row.Item.Type,
			Description: row.Item.Description,
			Fee:         row.Item.Fee,
		})
	}

	return out
}
