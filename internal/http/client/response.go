package client

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
	"github.com/MrJamesThe3rd/invoicer/internal/http/respond"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

type clientResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Address   []string   `json:"address"`
	Postcode  string     `json:"postcode,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(c *client.Client) clientResponse {
	return clientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
		Postcode:  c.Postcode,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toResponseList(cs []*client.Client) []clientResponse {
	out := make([]clientResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, toResponse(c))
	}

	return out
}

type itemResponse struct {
	InvoiceID   uuid.UUID        `json:"invoice_id"`
	InvoiceNo   int              `json:"invoice_no"`
	InvoiceDate respond.Date     `json:"invoice_date"`
	Paid        bool             `json:"paid"`
	Date        respond.Date     `json:"date"`
	Type        invoice.ItemType `json:"type"`
	Description string           `json:"description"`
	Fee         money.Amount     `json:"fee"`
}

func toItemResponse(row invoice.ItemRow) itemResponse {
	return itemResponse{
		InvoiceID:   row.InvoiceID,
		InvoiceNo:   row.InvoiceNo,
		InvoiceDate: respond.Date(row.InvoiceDate),
		Paid:        row.Paid,
		Date:        respond.Date(row.Item.Date),
		Type:        row.Item.Type,
		Description: row.Item.Description,
		Fee:         row.Item.Fee,
	}
}
