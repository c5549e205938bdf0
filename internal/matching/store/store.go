package store

import (
	"cmp"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/matching"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const columns = `id, raw_pattern, description, category, created_at`

func (s *Store) FindMatch(ctx context.Context, rawDescription string) (*matching.Mapping, error) {
	query := `
		SELECT ` + columns + `
		FROM category_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var m matching.Mapping

	err := s.db.QueryRowContext(ctx, query, rawDescription).
		Scan(&m.ID, &m.RawPattern, &m.Description, &m.Category, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}

		return nil, fmt.Errorf("finding match: %w", err)
	}

	return &m, nil
}

func (s *Store) CreateMapping(ctx context.Context, m *matching.Mapping) error {
	query := `
		INSERT INTO category_mappings (id, raw_pattern, description, category, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	m.ID = uuid.New()

	_, err := s.db.ExecContext(ctx, query, m.ID, m.RawPattern, m.Description, m.Category, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}

func (s *Store) ListMappings(ctx context.Context) ([]*matching.Mapping, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM category_mappings ORDER BY lower(raw_pattern)`)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	var out []*matching.Mapping

	for rows.Next() {
		var m matching.Mapping
		if err := rows.Scan(&m.ID, &m.RawPattern, &m.Description, &m.Category, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}

		out = append(out, &m)
	}

	return out, rows.Err()
}

// Memory mirrors the ILIKE containment rule of Store.
type Memory struct {
	mu       sync.RWMutex
	mappings []matching.Mapping
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) FindMatch(_ context.Context, rawDescription string) (*matching.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw := strings.ToLower(rawDescription)

	var best *matching.Mapping

	for i := range m.mappings {
		c := &m.mappings[i]
		if !strings.Contains(raw, strings.ToLower(c.RawPattern)) {
			continue
		}

		if best == nil || len(c.RawPattern) > len(best.RawPattern) ||
			(len(c.RawPattern) == len(best.RawPattern) && !c.CreatedAt.Before(best.CreatedAt)) {
			best = c
		}
	}

	if best == nil {
		return nil, nil
	}

	found := *best

	return &found, nil
}

func (m *Memory) CreateMapping(_ context.Context, mapping *matching.Mapping) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mapping.ID = uuid.New()
	m.mappings = append(m.mappings, *mapping)

	return nil
}

func (m *Memory) ListMappings(_ context.Context) ([]*matching.Mapping, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*matching.Mapping, len(m.mappings))
	for i := range m.mappings {
		c := m.mappings[i]
		out[i] = &c
	}

	slices.SortFunc(out, func(a, b *matching.Mapping) int {
		return cmp.Compare(strings.ToLower(a.RawPattern), strings.ToLower(b.RawPattern))
	})

	return out, nil
}
