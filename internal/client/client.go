package client

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("client not found")
	// ErrHasInvoices blocks deleting a client that invoices still point at.
	ErrHasInvoices = errors.New("cannot delete, invoices attached")
)

type Client struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Phone     string
	Address   []string
	Postcode  string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

func (c *Client) Clone() *Client {
	out := *c
	out.Address = append([]string(nil), c.Address...)

	return &out
}
