package store

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
)

// Memory keeps expenses in process. Imports are serialised by a single lock
// rather than per date range.
type Memory struct {
	mu       sync.RWMutex
	importMu sync.Mutex
	docs     map[uuid.UUID]*expense.Expense
	seq      map[uuid.UUID]int
	next     int
}

func NewMemory() *Memory {
	return &Memory{
		docs: make(map[uuid.UUID]*expense.Expense),
		seq:  make(map[uuid.UUID]int),
	}
}

func clone(e *expense.Expense) *expense.Expense {
	c := *e
	return &c
}

func (m *Memory) CreateExpense(_ context.Context, e *expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insert(e)

	return nil
}

// insert must be called with mu held.
func (m *Memory) insert(e *expense.Expense) {
	e.ID = uuid.New()
	e.CreatedAt = time.Now()
	m.next++
	m.seq[e.ID] = m.next
	m.docs[e.ID] = clone(e)
}

func (m *Memory) GetExpense(_ context.Context, id uuid.UUID) (*expense.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.docs[id]
	if !ok {
		return nil, expense.ErrNotFound
	}

	return clone(e), nil
}

func (m *Memory) UpdateExpense(_ context.Context, e *expense.Expense) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[e.ID]; !ok {
		return expense.ErrNotFound
	}

	e.UpdatedAt = new(time.Now())
	m.docs[e.ID] = clone(e)

	return nil
}

func (m *Memory) DeleteExpense(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return expense.ErrNotFound
	}

	delete(m.docs, id)
	delete(m.seq, id)

	return nil
}

// list must be called with mu held.
func (m *Memory) list(filter expense.ListFilter) []*expense.Expense {
	var out []*expense.Expense

	for _, e := range m.docs {
		if filter.Matches(e) {
			out = append(out, clone(e))
		}
	}

	slices.SortFunc(out, func(a, b *expense.Expense) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}

		return cmp.Compare(m.seq[a.ID], m.seq[b.ID])
	})

	return out
}

func (m *Memory) ListExpenses(_ context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.list(filter), nil
}

func (m *Memory) Aggregate(_ context.Context, agg expense.Aggregation) ([]expense.Bucket, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if agg.GroupBy == expense.GroupNone {
		b := expense.Bucket{}
		for _, e := range m.list(agg.ListFilter) {
			b.Count++
			b.Sum += e.Amount
		}

		return []expense.Bucket{b}, nil
	}

	groups := make(map[string]*expense.Bucket)
	for _, e := range m.list(agg.ListFilter) {
		b, ok := groups[string(e.Category)]
		if !ok {
			b = &expense.Bucket{Key: string(e.Category)}
			groups[b.Key] = b
		}

		b.Count++
		b.Sum += e.Amount
	}

	buckets := make([]expense.Bucket, 0, len(groups))
	for _, b := range groups {
		buckets = append(buckets, *b)
	}

	slices.SortFunc(buckets, func(a, b expense.Bucket) int { return cmp.Compare(a.Key, b.Key) })

	return buckets, nil
}

type memoryImport struct {
	m      *Memory
	staged []*expense.Expense
	done   bool
}

func (m *Memory) BeginImport(_ context.Context, _, _ time.Time) (expense.ImportTx, error) {
	m.importMu.Lock()
	return &memoryImport{m: m}, nil
}

func (itx *memoryImport) FindDuplicates(_ context.Context, params []expense.CreateParams) ([]*expense.Expense, error) {
	type lookupKey struct {
		Date   string
		Amount int64
		Raw    string
	}

	keySet := make(map[lookupKey]struct{}, len(params))
	for _, p := range params {
		keySet[lookupKey{p.Date.Format(time.DateOnly), int64(p.Amount), p.RawDescription}] = struct{}{}
	}

	itx.m.mu.RLock()
	defer itx.m.mu.RUnlock()

	var duplicates []*expense.Expense

	for _, e := range itx.m.list(expense.ListFilter{}) {
		if _, found := keySet[lookupKey{e.Date.Format(time.DateOnly), int64(e.Amount), e.RawDescription}]; found {
			duplicates = append(duplicates, e)
		}
	}

	return duplicates, nil
}

func (itx *memoryImport) CreateExpenses(_ context.Context, expenses []*expense.Expense) error {
	itx.staged = append(itx.staged, expenses...)
	return nil
}

func (itx *memoryImport) Commit() error {
	if itx.done {
		return nil
	}

	itx.m.mu.Lock()
	for _, e := range itx.staged {
		itx.m.insert(e)
	}
	itx.m.mu.Unlock()

	itx.finish()

	return nil
}

func (itx *memoryImport) Rollback() error {
	if !itx.done {
		itx.finish()
	}

	return nil
}

func (itx *memoryImport) finish() {
	itx.done = true
	itx.m.importMu.Unlock()
}
