package store

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

// Memory keeps invoice documents in process. It evaluates filters and
// aggregations the same way the Postgres store does.
type Memory struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*invoice.Invoice
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[uuid.UUID]*invoice.Invoice),
		now:  time.Now,
	}
}

func (m *Memory) CreateInvoice(_ context.Context, inv *invoice.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	inv.ID = uuid.New()
	inv.CreatedAt = m.now()
	m.docs[inv.ID] = inv.Clone()

	return nil
}

func (m *Memory) GetInvoice(_ context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	inv, ok := m.docs[id]
	if !ok {
		return nil, invoice.ErrNotFound
	}

	return inv.Clone(), nil
}

func (m *Memory) UpdateInvoice(_ context.Context, inv *invoice.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[inv.ID]; !ok {
		return invoice.ErrNotFound
	}

	inv.UpdatedAt = new(m.now())
	m.docs[inv.ID] = inv.Clone()

	return nil
}

func (m *Memory) DeleteInvoice(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return invoice.ErrNotFound
	}

	delete(m.docs, id)

	return nil
}

func (m *Memory) matching(f invoice.Filter) []*invoice.Invoice {
	var out []*invoice.Invoice

	for _, inv := range m.docs {
		if f.Matches(inv) {
			out = append(out, inv)
		}
	}

	return out
}

func (m *Memory) ListInvoices(_ context.Context, q invoice.Query) ([]*invoice.Invoice, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	invs := m.matching(q.Filter)

	slices.SortFunc(invs, func(a, b *invoice.Invoice) int {
		c := a.Date.Compare(b.Date)
		if c == 0 {
			c = cmp.Compare(a.Number, b.Number)
		}

		if q.Sort == invoice.SortDateDesc {
			return -c
		}

		return c
	})

	if q.Limit > 0 && len(invs) > q.Limit {
		invs = invs[:q.Limit]
	}

	out := make([]*invoice.Invoice, len(invs))
	for i, inv := range invs {
		out[i] = inv.Clone()
	}

	return out, nil
}

func (m *Memory) Aggregate(_ context.Context, agg invoice.Aggregation) ([]invoice.Bucket, error) {
	if err := agg.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make(map[string]*invoice.Bucket)
	bucket := func(key string) *invoice.Bucket {
		b, ok := groups[key]
		if !ok {
			b = &invoice.Bucket{Key: key}
			groups[key] = b
		}

		return b
	}

	if agg.GroupBy == invoice.GroupNone {
		bucket("")
	}

	for _, inv := range m.matching(agg.Filter) {
		if !agg.Items {
			var key string

			switch agg.GroupBy {
			case invoice.GroupNone:
			case invoice.GroupClient:
				key = inv.Client.ID.String()
			default:
				return nil, fmt.Errorf("unknown group key %q", agg.GroupBy)
			}

			b := bucket(key)
			b.Count++
			b.Sum += inv.Total()

			continue
		}

		for _, it := range inv.Items {
			if agg.ItemType != nil && it.Type != *agg.ItemType {
				continue
			}

			var key string

			switch agg.GroupBy {
			case invoice.GroupNone:
			case invoice.GroupClient:
				key = inv.Client.ID.String()
			case invoice.GroupItemType:
				key = string(it.Type)
			case invoice.GroupItemDate:
				key = it.Date.Format(time.DateOnly)
			default:
				return nil, fmt.Errorf("unknown group key %q", agg.GroupBy)
			}

			b := bucket(key)
			b.Count++
			b.Sum += it.Fee
		}
	}

	buckets := make([]invoice.Bucket, 0, len(groups))
	for _, b := range groups {
		buckets = append(buckets, *b)
	}

	slices.SortFunc(buckets, func(a, b invoice.Bucket) int { return cmp.Compare(a.Key, b.Key) })

	return buckets, nil
}

func (m *Memory) LastNumber(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var last int
	for _, inv := range m.docs {
		last = max(last, inv.Number)
	}

	return last, nil
}
