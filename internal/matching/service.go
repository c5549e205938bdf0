package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	// FindMatch returns nil when no pattern matches.
	FindMatch(ctx context.Context, rawDescription string) (*Mapping, error)
	CreateMapping(ctx context.Context, mapping *Mapping) error
	ListMappings(ctx context.Context) ([]*Mapping, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type LearnParams struct {
	RawPattern  string           `json:"raw_pattern" validate:"required,min=3,max=200"`
	Description string           `json:"description" validate:"required,max=500"`
	Category    expense.Category `json:"category" validate:"oneof=office travel staff reselling legal marketing clothing"`
}

// Suggest finds the mapping for a raw statement description, or nil.
func (s *Service) Suggest(ctx context.Context, rawDescription string) (*Mapping, error) {
	raw := strings.TrimSpace(rawDescription)
	if raw == "" {
		return nil, nil
	}

	m, err := s.repo.FindMatch(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("finding mapping: %w", err)
	}

	return m, nil
}

// Learn remembers a pattern so later imports are categorised automatically.
func (s *Service) Learn(ctx context.Context, params LearnParams) (*Mapping, error) {
	params.RawPattern = strings.TrimSpace(params.RawPattern)

	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	m := &Mapping{
		RawPattern:  params.RawPattern,
		Description: strings.TrimSpace(params.Description),
		Category:    params.Category,
		CreatedAt:   time.Now(),
	}

	if err := s.repo.CreateMapping(ctx, m); err != nil {
		return nil, fmt.Errorf("creating mapping: %w", err)
	}

	return m, nil
}

func (s *Service) List(ctx context.Context) ([]*Mapping, error) {
	return s.repo.ListMappings(ctx)
}
