package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/invoicer/internal/details"
)

type document struct {
	Name          string   `json:"name"`
	TaxReference  string   `json:"tax_reference,omitempty"`
	BankName      string   `json:"bank_name,omitempty"`
	SortCode      string   `json:"sort_code,omitempty"`
	AccountNumber string   `json:"account_number,omitempty"`
	Contact       string   `json:"contact,omitempty"`
	Farewell      string   `json:"farewell,omitempty"`
	Address       []string `json:"address"`
	Postcode      string   `json:"postcode,omitempty"`
}

// Store keeps the details document in a table constrained to a single row (id = 1).
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) GetDetails(ctx context.Context) (*details.Details, error) {
	var (
		raw []byte
		d   details.Details
		doc document
	)

	err := s.db.QueryRowContext(ctx, `SELECT doc, updated_at FROM business_details WHERE id = 1`).
		Scan(&raw, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, details.ErrNotConfigured
		}

		return nil, fmt.Errorf("getting business details: %w", err)
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding business details: %w", err)
	}

	d.Name = doc.Name
	d.TaxReference = doc.TaxReference
	d.BankName = doc.BankName
	d.SortCode = doc.SortCode
	d.AccountNumber = doc.AccountNumber
	d.Contact = doc.Contact
	d.Farewell = doc.Farewell
	d.Address = doc.Address
	d.Postcode = doc.Postcode

	return &d, nil
}

func (s *Store) SaveDetails(ctx context.Context, d *details.Details) error {
	raw, err := json.Marshal(document{
		Name:          d.Name,
		TaxReference:  d.TaxReference,
		BankName:      d.BankName,
		SortCode:      d.SortCode,
		AccountNumber: d.AccountNumber,
		Contact:       d.Contact,
		Farewell:      d.Farewell,
		Address:       d.Address,
		Postcode:      d.Postcode,
	})
	if err != nil {
		return fmt.Errorf("encoding business details: %w", err)
	}

	query := `
		INSERT INTO business_details (id, doc, updated_at)
		VALUES (1, $1, NOW())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
		RETURNING updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, raw).Scan(&d.UpdatedAt); err != nil {
		return fmt.Errorf("saving business details: %w", err)
	}

	return nil
}

type Memory struct {
	mu sync.RWMutex
	d  *details.Details
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) GetDetails(_ context.Context) (*details.Details, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.d == nil {
		return nil, details.ErrNotConfigured
	}

	out := *m.d
	out.Address = append([]string(nil), m.d.Address...)

	return &out, nil
}

func (m *Memory) SaveDetails(_ context.Context, d *details.Details) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	d.UpdatedAt = time.Now()

	stored := *d
	stored.Address = append([]string(nil), d.Address...)
	m.d = &stored

	return nil
}
