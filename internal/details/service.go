package details

import (
	"context"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=details
type Repository interface {
	// GetDetails returns ErrNotConfigured when the row does not exist.
	GetDetails(ctx context.Context) (*Details, error)
	SaveDetails(ctx context.Context, d *Details) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Name          string   `json:"name" validate:"required,max=200"`
	TaxReference  string   `json:"tax_reference" validate:"max=50"`
	BankName      string   `json:"bank_name" validate:"max=100"`
	SortCode      string   `json:"sort_code" validate:"omitempty,len=8"`
	AccountNumber string   `json:"account_number" validate:"omitempty,numeric,len=8"`
	Contact       string   `json:"contact" validate:"max=200"`
	Farewell      string   `json:"farewell" validate:"max=200"`
	Address       []string `json:"address" validate:"min=1,max=3,dive,required"`
	Postcode      string   `json:"postcode" validate:"omitempty,max=10"`
}

// Get is the get-or-fail accessor; callers must handle ErrNotConfigured.
func (s *Service) Get(ctx context.Context) (*Details, error) {
	return s.repo.GetDetails(ctx)
}

// Save creates the row on first use and replaces it afterwards.
func (s *Service) Save(ctx context.Context, params Params) (*Details, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	d := &Details{
		Name:          params.Name,
		TaxReference:  params.TaxReference,
		BankName:      params.BankName,
		SortCode:      params.SortCode,
		AccountNumber: params.AccountNumber,
		Contact:       params.Contact,
		Farewell:      params.Farewell,
		Address:       append([]string(nil), params.Address...),
		Postcode:      params.Postcode,
	}

	if err := s.repo.SaveDetails(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) DetailsSnapshot(ctx context.Context) (invoice.DetailsSnapshot, error) {
	d, err := s.repo.GetDetails(ctx)
	if err != nil {
		return invoice.DetailsSnapshot{}, err
	}

	return invoice.DetailsSnapshot{
		Name:          d.Name,
		TaxReference:  d.TaxReference,
		BankName:      d.BankName,
		SortCode:      d.SortCode,
		AccountNumber: d.AccountNumber,
		Contact:       d.Contact,
		Farewell:      d.Farewell,
		Address:       append([]string(nil), d.Address...),
		Postcode:      d.Postcode,
	}, nil
}
