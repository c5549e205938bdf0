package expense

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
	"github.com/MrJamesThe3rd/invoicer/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=expense
type Repository interface {
	CreateExpense(ctx context.Context, e *Expense) error
	GetExpense(ctx context.Context, id uuid.UUID) (*Expense, error)
	UpdateExpense(ctx context.Context, e *Expense) error
	DeleteExpense(ctx context.Context, id uuid.UUID) error

	ListExpenses(ctx context.Context, filter ListFilter) ([]*Expense, error)
	Aggregate(ctx context.Context, agg Aggregation) ([]Bucket, error)

	BeginImport(ctx context.Context, minDate, maxDate time.Time) (ImportTx, error)
}

// ImportTx holds the import lock for a date range until Commit or Rollback.
type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Expense, error)
	CreateExpenses(ctx context.Context, expenses []*Expense) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo     Repository
	onChange []func(context.Context)
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
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

type CreateParams struct {
	Date           time.Time    `json:"date" validate:"required"`
	Category       Category     `json:"category" validate:"oneof=office travel staff reselling legal marketing clothing"`
	Description    string       `json:"description" validate:"required,max=500"`
	RawDescription string       `json:"raw_description,omitempty" validate:"max=500"`
	Amount         money.Amount `json:"amount" validate:"min=0"`
}

// ListFilter selects expenses; nil fields match everything.
type ListFilter struct {
	Range    *daterange.Range
	Category *Category
}

func (f ListFilter) Matches(e *Expense) bool {
	if !daterange.Contains(f.Range, e.Date) {
		return false
	}

	return f.Category == nil || e.Category == *f.Category
}

type GroupKey string

const (
	GroupNone     GroupKey = ""
	GroupCategory GroupKey = "category"
)

type Aggregation struct {
	ListFilter
	GroupBy GroupKey
}

type Bucket struct {
	Key   string
	Count int
	Sum   money.Amount
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Expense, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	e := paramsToExpense(params)
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}

	s.changed(ctx)

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Expense, error) {
	return s.repo.GetExpense(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Expense, error) {
	return s.repo.ListExpenses(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params CreateParams) (*Expense, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	e, err := s.repo.GetExpense(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Date = daterange.Day(params.Date)
	e.Category = params.Category
	e.Description = params.Description
	e.Amount = params.Amount

	if params.RawDescription != "" {
		e.RawDescription = params.RawDescription
	}

	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}

	s.changed(ctx)

	return e, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteExpense(ctx, id); err != nil {
		return err
	}

	s.changed(ctx)

	return nil
}

type ImportResult struct {
	Imported  []*Expense
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict pairs a statement line with the stored expense it appears to repeat.
type Conflict struct {
	Incoming CreateParams
	Existing *Expense
}

type dupKey struct {
	Date           string
	Amount         money.Amount
	RawDescription string
}

func keyOf(date time.Time, amount money.Amount, raw string) dupKey {
	return dupKey{Date: date.Format(time.DateOnly), Amount: amount, RawDescription: raw}
}

// ImportBatch stores a batch of statement lines unless any of them already
// exists. On conflict nothing is written and the caller decides with CreateBatch.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	if err := validateBatch(params); err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Expense, len(duplicates))
	for _, d := range duplicates {
		lookup[keyOf(d.Date, d.Amount, d.RawDescription)] = d
	}

	var (
		newParams []CreateParams
		conflicts []Conflict
	)

	for _, p := range params {
		existing, found := lookup[keyOf(p.Date, p.Amount, p.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	expenses := paramsToExpenses(newParams)
	if err := itx.CreateExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.changed(ctx)

	return &ImportResult{Imported: expenses}, nil
}

// CreateBatch stores every line without duplicate checks.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	if err := validateBatch(params); err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	expenses := paramsToExpenses(params)
	if err := itx.CreateExpenses(ctx, expenses); err != nil {
		return nil, fmt.Errorf("create expenses: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	s.changed(ctx)

	return expenses, nil
}

func validateBatch(params []CreateParams) error {
	for i, p := range params {
		if err := validate.Struct(p); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	return nil
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return daterange.Day(minDate), daterange.Day(maxDate)
}

func paramsToExpense(p CreateParams) *Expense {
	return &Expense{
		Date:           daterange.Day(p.Date),
		Category:       p.Category,
		Description:    p.Description,
		RawDescription: p.RawDescription,
		Amount:         p.Amount,
	}
}

func paramsToExpenses(params []CreateParams) []*Expense {
	expenses := make([]*Expense, len(params))
	for i, p := range params {
		expenses[i] = paramsToExpense(p)
	}

	return expenses
}
