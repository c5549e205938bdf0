package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/bank"
	"github.com/MrJamesThe3rd/invoicer/internal/matching"
)

type Suggester interface {
	Suggest(ctx context.Context, rawDescription string) (*matching.Mapping, error)
}

// Draft is a statement line awaiting confirmation. Matched reports whether a
// learned mapping filled Category and Description.
type Draft struct {
	expense.CreateParams
	Matched bool `json:"matched"`
}

type Service struct {
	parser    Parser
	suggester Suggester
}

func NewService(suggester Suggester) *Service {
	return &Service{parser: bank.NewParser(), suggester: suggester}
}

// WithParser swaps the statement parser.
func (s *Service) WithParser(p Parser) *Service {
	s.parser = p
	return s
}

// Import parses the statement and applies learned mappings. Nothing is stored;
// confirmed drafts go to expense.Service.ImportBatch.
func (s *Service) Import(ctx context.Context, r io.Reader) ([]Draft, error) {
	lines, err := s.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse statement: %w", err)
	}

	drafts := make([]Draft, len(lines))

	for i, line := range lines {
		drafts[i] = Draft{CreateParams: line}

		m, err := s.suggester.Suggest(ctx, line.RawDescription)
		if err != nil {
			return nil, fmt.Errorf("suggest line %d: %w", i+1, err)
		}

		if m == nil {
			continue
		}

		drafts[i].Category = m.Category
		drafts[i].Description = m.Description
		drafts[i].Matched = true
	}

	return drafts, nil
}
