package expense

import (
	"context"
	"fmt"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// Aggregator sums and lists expenses over an optional date range.
type Aggregator struct {
	repo Repository
}

func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

func (a *Aggregator) sum(ctx context.Context, filter ListFilter) (money.Amount, error) {
	buckets, err := a.repo.Aggregate(ctx, Aggregation{ListFilter: filter})
	if err != nil {
		return money.Zero, fmt.Errorf("aggregate expenses: %w", err)
	}

	var total money.Amount
	for _, b := range buckets {
		total += b.Sum
	}

	return total, nil
}

func (a *Aggregator) SumExpenses(ctx context.Context, r *daterange.Range) (money.Amount, error) {
	return a.sum(ctx, ListFilter{Range: r})
}

func (a *Aggregator) SumExpensesByCategory(ctx context.Context, c Category, r *daterange.Range) (money.Amount, error) {
	c, err := ParseCategory(string(c))
	if err != nil {
		return money.Zero, err
	}

	return a.sum(ctx, ListFilter{Range: r, Category: &c})
}

// SumByCategory has an entry for every category, zero when unused.
func (a *Aggregator) SumByCategory(ctx context.Context, r *daterange.Range) (map[Category]money.Amount, error) {
	buckets, err := a.repo.Aggregate(ctx, Aggregation{ListFilter: ListFilter{Range: r}, GroupBy: GroupCategory})
	if err != nil {
		return nil, fmt.Errorf("aggregate expenses: %w", err)
	}

	sums := make(map[Category]money.Amount, len(Categories))
	for _, c := range Categories {
		sums[c] = money.Zero
	}

	for _, b := range buckets {
		if c := Category(b.Key); c.Valid() {
			sums[c] += b.Sum
		}
	}

	return sums, nil
}

// ListExpenses returns expenses oldest first.
func (a *Aggregator) ListExpenses(ctx context.Context, r *daterange.Range) ([]*Expense, error) {
	expenses, err := a.repo.ListExpenses(ctx, ListFilter{Range: r})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return expenses, nil
}

func (a *Aggregator) ListExpensesByCategory(ctx context.Context, c Category, r *daterange.Range) ([]*Expense, error) {
	c, err := ParseCategory(string(c))
	if err != nil {
		return nil, err
	}

	expenses, err := a.repo.ListExpenses(ctx, ListFilter{Range: r, Category: &c})
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	return expenses, nil
}
