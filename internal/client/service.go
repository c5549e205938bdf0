package client

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=client
type Repository interface {
	CreateClient(ctx context.Context, c *Client) error
	GetClient(ctx context.Context, id uuid.UUID) (*Client, error)
	UpdateClient(ctx context.Context, c *Client) error
	DeleteClient(ctx context.Context, id uuid.UUID) error
	ListClients(ctx context.Context) ([]*Client, error)
}

// InvoiceLookup finds the invoices addressed to a client.
type InvoiceLookup interface {
	WithClientID(ctx context.Context, clientID uuid.UUID) ([]*invoice.Invoice, error)
}

type Service struct {
	repo     Repository
	invoices InvoiceLookup
}

func NewService(repo Repository, invoices InvoiceLookup) *Service {
	return &Service{repo: repo, invoices: invoices}
}

type Params struct {
	Name     string   `json:"name" validate:"required,max=200"`
	Email    string   `json:"email" validate:"omitempty,email"`
	Phone    string   `json:"phone" validate:"omitempty,max=30"`
	Address  []string `json:"address" validate:"min=1,max=3,dive,required"`
	Postcode string   `json:"postcode" validate:"omitempty,max=10"`
}

func (p Params) apply(c *Client) {
	c.Name = p.Name
	c.Email = p.Email
	c.Phone = p.Phone
	c.Address = append([]string(nil), p.Address...)
	c.Postcode = p.Postcode
}

func (s *Service) Create(ctx context.Context, params Params) (*Client, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	c := &Client{}
	params.apply(c)

	if err := s.repo.CreateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Update changes the live record only; invoices keep the snapshot they were written with.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params Params) (*Client, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}

	params.apply(c)

	if err := s.repo.UpdateClient(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Client, error) {
	return s.repo.GetClient(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Client, error) {
	return s.repo.ListClients(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	invs, err := s.invoices.WithClientID(ctx, id)
	if err != nil {
		return fmt.Errorf("checking client invoices: %w", err)
	}

	if len(invs) > 0 {
		return ErrHasInvoices
	}

	return s.repo.DeleteClient(ctx, id)
}

// ClientSnapshot copies the client into the shape stored on an invoice.
func (s *Service) ClientSnapshot(ctx context.Context, id uuid.UUID) (invoice.ClientSnapshot, error) {
	c, err := s.repo.GetClient(ctx, id)
	if err != nil {
		return invoice.ClientSnapshot{}, err
	}

	return invoice.ClientSnapshot{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  append([]string(nil), c.Address...),
		Postcode: c.Postcode,
	}, nil
}
