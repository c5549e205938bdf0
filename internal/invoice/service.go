package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=invoice
type Repository interface {
	CreateInvoice(ctx context.Context, inv *Invoice) error
	GetInvoice(ctx context.Context, id uuid.UUID) (*Invoice, error)
	UpdateInvoice(ctx context.Context, inv *Invoice) error
	DeleteInvoice(ctx context.Context, id uuid.UUID) error

	ListInvoices(ctx context.Context, q Query) ([]*Invoice, error)
	Aggregate(ctx context.Context, agg Aggregation) ([]Bucket, error)
	LastNumber(ctx context.Context) (int, error)
}

// ClientSource resolves the client snapshot copied into an invoice.
type ClientSource interface {
	ClientSnapshot(ctx context.Context, id uuid.UUID) (ClientSnapshot, error)
}

// DetailsSource resolves the business details snapshot copied into an invoice.
type DetailsSource interface {
	DetailsSnapshot(ctx context.Context) (DetailsSnapshot, error)
}

type Service struct {
	repo     Repository
	clients  ClientSource
	details  DetailsSource
	now      func() time.Time
	onChange []func(context.Context)
}

func NewService(repo Repository, clients ClientSource, details DetailsSource) *Service {
	return &Service{
		repo:    repo,
		clients: clients,
		details: details,
		now:     time.Now,
	}
}

// OnChange registers a hook run after every successful mutation.
func (s *Service) OnChange(fn func(context.Context)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Service) changed(ctx context.Context) {
	for _, fn := range s.onChange {
		fn(ctx)
	}
}

type ItemParams struct {
	Date        time.Time    `json:"date" validate:"required"`
	Type        ItemType     `json:"type" validate:"oneof=Labour Materials Expense"`
	Description string       `json:"description" validate:"required,max=500"`
	Fee         money.Amount `json:"fee" validate:"min=0"`
}

// CreateParams is used for both create and edit. A zero Number takes the next in sequence.
type CreateParams struct {
	Number   int          `json:"number" validate:"min=0"`
	ClientID uuid.UUID    `json:"client_id" validate:"required"`
	Date     time.Time    `json:"date" validate:"required"`
	Message  string       `json:"message" validate:"max=2000"`
	Items    []ItemParams `json:"items" validate:"min=1,dive"`
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Invoice, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	inv := &Invoice{}
	if err := s.apply(ctx, inv, params); err != nil {
		return nil, err
	}

	if inv.Number == 0 {
		last, err := s.repo.LastNumber(ctx)
		if err != nil {
			return nil, fmt.Errorf("next invoice number: %w", err)
		}

		inv.Number = last + 1
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.changed(ctx)

	return inv, nil
}

// Update replaces the editable fields and re-captures both snapshots.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Invoice, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if inv.Paid {
		return nil, ErrPaid
	}

	number := inv.Number
	if err := s.apply(ctx, inv, params); err != nil {
		return nil, err
	}

	if inv.Number == 0 {
		inv.Number = number
	}

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.changed(ctx)

	return inv, nil
}

func (s *Service) apply(ctx context.Context, inv *Invoice, params CreateParams) error {
	client, err := s.clients.ClientSnapshot(ctx, params.ClientID)
	if err != nil {
		return fmt.Errorf("snapshot client: %w", err)
	}

	details, err := s.details.DetailsSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("snapshot details: %w", err)
	}

	items := make([]Item, len(params.Items))
	for i, p := range params.Items {
		items[i] = Item{
			Date:        daterange.Day(p.Date),
			Type:        p.Type,
			Description: p.Description,
			Fee:         p.Fee,
		}
	}

	inv.Number = params.Number
	inv.Date = daterange.Day(params.Date)
	inv.Message = params.Message
	inv.Client = client
	inv.Details = details
	inv.Items = items

	return nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	return s.repo.GetInvoice(ctx, id)
}

func (s *Service) List(ctx context.Context, q Query) ([]*Invoice, error) {
	return s.repo.ListInvoices(ctx, q)
}

// MarkPaid records payment on the given day, or today when datePaid is zero.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, datePaid time.Time) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	if datePaid.IsZero() {
		datePaid = s.now()
	}

	inv.markPaid(daterange.Day(datePaid))

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.changed(ctx)

	return inv, nil
}

func (s *Service) MarkUnpaid(ctx context.Context, id uuid.UUID) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}

	inv.markUnpaid()

	if err := s.repo.UpdateInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.changed(ctx)

	return inv, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	inv, err := s.repo.GetInvoice(ctx, id)
	if err != nil {
		return err
	}

	if inv.Paid {
		return ErrPaid
	}

	if err := s.repo.DeleteInvoice(ctx, id); err != nil {
		return err
	}

	s.changed(ctx)

	return nil
}
