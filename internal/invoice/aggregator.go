package invoice

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/daterange"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

// Aggregator answers the reporting questions asked of invoices and their line
// items. Every figure is derived from Repository.Aggregate or Repository.ListInvoices.
type Aggregator struct {
	repo Repository
}

func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

func (a *Aggregator) aggregate(ctx context.Context, agg Aggregation) ([]Bucket, error) {
	buckets, err := a.repo.Aggregate(ctx, agg)
	if err != nil {
		return nil, fmt.Errorf("aggregate invoices: %w", err)
	}

	return buckets, nil
}

func (a *Aggregator) count(ctx context.Context, agg Aggregation) (int, error) {
	buckets, err := a.aggregate(ctx, agg)
	if err != nil {
		return 0, err
	}

	var n int
	for _, b := range buckets {
		n += b.Count
	}

	return n, nil
}

func (a *Aggregator) sum(ctx context.Context, agg Aggregation) (money.Amount, error) {
	buckets, err := a.aggregate(ctx, agg)
	if err != nil {
		return money.Zero, err
	}

	var total money.Amount
	for _, b := range buckets {
		total += b.Sum
	}

	return total, nil
}

func (a *Aggregator) CountInvoices(ctx context.Context, r *daterange.Range) (int, error) {
	return a.count(ctx, Aggregation{Filter: Filter{Range: r}})
}

func (a *Aggregator) CountPaidInvoices(ctx context.Context, r *daterange.Range) (int, error) {
	return a.count(ctx, Aggregation{Filter: Filter{Range: r, Paid: new(true)}})
}

// CountUniqueClients counts distinct client ids across all invoices.
func (a *Aggregator) CountUniqueClients(ctx context.Context) (int, error) {
	buckets, err := a.aggregate(ctx, Aggregation{GroupBy: GroupClient})
	if err != nil {
		return 0, err
	}

	return len(buckets), nil
}

func (a *Aggregator) SumPaidInvoiceValue(ctx context.Context, r *daterange.Range) (money.Amount, error) {
	return a.sum(ctx, Aggregation{Filter: Filter{Range: r, Paid: new(true)}, Items: true})
}

func (a *Aggregator) SumUnpaidInvoiceValue(ctx context.Context, r *daterange.Range) (money.Amount, error) {
	return a.sum(ctx, Aggregation{Filter: Filter{Range: r, Paid: new(false)}, Items: true})
}

func (a *Aggregator) CountItems(ctx context.Context, r *daterange.Range, paidOnly bool) (int, error) {
	return a.count(ctx, Aggregation{Filter: Filter{Range: r, Paid: paidFilter(paidOnly)}, Items: true})
}

func (a *Aggregator) SumItemsByType(ctx context.Context, t ItemType, r *daterange.Range, paidOnly bool) (money.Amount, error) {
	t, err := ParseItemType(string(t))
	if err != nil {
		return money.Zero, err
	}

	return a.sum(ctx, Aggregation{
		Filter:   Filter{Range: r, Paid: paidFilter(paidOnly)},
		Items:    true,
		ItemType: &t,
	})
}

// SumByType breaks item fees down by type. Every known type is present, zero when unused.
func (a *Aggregator) SumByType(ctx context.Context, r *daterange.Range, paidOnly bool) (map[ItemType]money.Amount, error) {
	buckets, err := a.aggregate(ctx, Aggregation{
		Filter:  Filter{Range: r, Paid: paidFilter(paidOnly)},
		Items:   true,
		GroupBy: GroupItemType,
	})
	if err != nil {
		return nil, err
	}

	sums := make(map[ItemType]money.Amount, len(ItemTypes))
	for _, t := range ItemTypes {
		sums[t] = money.Zero
	}

	for _, b := range buckets {
		t := ItemType(b.Key)
		if t.Valid() {
			sums[t] += b.Sum
		}
	}

	return sums, nil
}

// DaysWorked counts distinct dates that carry at least one Labour item.
func (a *Aggregator) DaysWorked(ctx context.Context, r *daterange.Range) (int, error) {
	buckets, err := a.aggregate(ctx, Aggregation{
		Filter:   Filter{Range: r},
		Items:    true,
		ItemType: new(TypeLabour),
		GroupBy:  GroupItemDate,
	})
	if err != nil {
		return 0, err
	}

	return len(buckets), nil
}

func (a *Aggregator) list(ctx context.Context, q Query) ([]*Invoice, error) {
	invs, err := a.repo.ListInvoices(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	return invs, nil
}

// ListItemsByType returns the items of one type, oldest item first.
func (a *Aggregator) ListItemsByType(ctx context.Context, t ItemType, r *daterange.Range, paidOnly bool) ([]ItemRow, error) {
	t, err := ParseItemType(string(t))
	if err != nil {
		return nil, err
	}

	invs, err := a.list(ctx, Query{Filter: Filter{Range: r, Paid: paidFilter(paidOnly)}})
	if err != nil {
		return nil, err
	}

	rows := flatten(invs, func(it Item) bool { return it.Type == t })
	sortRows(rows, false)

	return rows, nil
}

// ListItems returns every item of the matching invoices, oldest item first.
func (a *Aggregator) ListItems(ctx context.Context, r *daterange.Range, paidOnly bool) ([]ItemRow, error) {
	invs, err := a.list(ctx, Query{Filter: Filter{Range: r, Paid: paidFilter(paidOnly)}})
	if err != nil {
		return nil, err
	}

	rows := flatten(invs, nil)
	sortRows(rows, false)

	return rows, nil
}

// ListItemsByClient returns a client's items across all their invoices, newest first.
func (a *Aggregator) ListItemsByClient(ctx context.Context, clientID uuid.UUID) ([]ItemRow, error) {
	invs, err := a.list(ctx, Query{Filter: Filter{ClientID: &clientID}, Sort: SortDateDesc})
	if err != nil {
		return nil, err
	}

	rows := flatten(invs, nil)
	sortRows(rows, true)

	return rows, nil
}

// ListUnpaidInvoices returns unpaid invoices, most recently issued first.
func (a *Aggregator) ListUnpaidInvoices(ctx context.Context) ([]*Invoice, error) {
	return a.list(ctx, Query{Filter: Filter{Paid: new(false)}, Sort: SortDateDesc})
}

func (a *Aggregator) WithClientID(ctx context.Context, clientID uuid.UUID) ([]*Invoice, error) {
	return a.list(ctx, Query{Filter: Filter{ClientID: &clientID}, Sort: SortDateDesc})
}

// FirstInvoiceDate is the issue date of the earliest invoice, paid or not.
func (a *Aggregator) FirstInvoiceDate(ctx context.Context) (time.Time, error) {
	invs, err := a.list(ctx, Query{Sort: SortDateAsc, Limit: 1})
	if err != nil {
		return time.Time{}, err
	}

	if len(invs) == 0 {
		return time.Time{}, ErrNoData
	}

	return invs[0].Date, nil
}

func flatten(invs []*Invoice, keep func(Item) bool) []ItemRow {
	var rows []ItemRow

	for _, inv := range invs {
		for _, it := range inv.Items {
			if keep != nil && !keep(it) {
				continue
			}

			rows = append(rows, ItemRow{
				InvoiceID:   inv.ID,
				InvoiceNo:   inv.Number,
				InvoiceDate: inv.Date,
				ClientID:    inv.Client.ID,
				ClientName:  inv.Client.Name,
				Paid:        inv.Paid,
				Item:        it,
			})
		}
	}

	return rows
}

func sortRows(rows []ItemRow, newestFirst bool) {
	slices.SortStableFunc(rows, func(a, b ItemRow) int {
		c := a.Item.Date.Compare(b.Item.Date)
		if c == 0 {
			c = cmp.Compare(a.InvoiceNo, b.InvoiceNo)
		}

		if newestFirst {
			return -c
		}

		return c
	})
}
