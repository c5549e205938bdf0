package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
)

type Memory struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]*client.Client
}

func NewMemory() *Memory {
	return &Memory{docs: make(map[uuid.UUID]*client.Client)}
}

func (m *Memory) CreateClient(_ context.Context, c *client.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	m.docs[c.ID] = c.Clone()

	return nil
}

func (m *Memory) GetClient(_ context.Context, id uuid.UUID) (*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.docs[id]
	if !ok {
		return nil, client.ErrNotFound
	}

	return c.Clone(), nil
}

func (m *Memory) UpdateClient(_ context.Context, c *client.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[c.ID]; !ok {
		return client.ErrNotFound
	}

	c.UpdatedAt = new(time.Now())
	m.docs[c.ID] = c.Clone()

	return nil
}

func (m *Memory) DeleteClient(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return client.ErrNotFound
	}

	delete(m.docs, id)

	return nil
}

func (m *Memory) ListClients(_ context.Context) ([]*client.Client, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*client.Client, 0, len(m.docs))
	for _, c := range m.docs {
		out = append(out, c.Clone())
	}

	slices.SortFunc(out, func(a, b *client.Client) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})

	return out, nil
}
