package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/client"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type document struct {
	Name     string   `json:"name"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Address  []string `json:"address"`
	Postcode string   `json:"postcode,omitempty"`
}

func encode(c *client.Client) ([]byte, error) {
	b, err := json.Marshal(document{
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		Address:  c.Address,
		Postcode: c.Postcode,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding client: %w", err)
	}

	return b, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClient(s scanner) (*client.Client, error) {
	var (
		c   client.Client
		raw []byte
		doc document
	)

	if err := s.Scan(&c.ID, &raw, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding client: %w", err)
	}

	c.Name = doc.Name
	c.Email = doc.Email
	c.Phone = doc.Phone
	c.Address = doc.Address
	c.Postcode = doc.Postcode

	return &c, nil
}

func (s *Store) CreateClient(ctx context.Context, c *client.Client) error {
	doc, err := encode(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO clients (doc, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, doc).Scan(&c.ID, &c.CreatedAt); err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	return nil
}

func (s *Store) GetClient(ctx context.Context, id uuid.UUID) (*client.Client, error) {
	query := `SELECT id, doc, created_at, updated_at FROM clients WHERE id = $1`

	c, err := scanClient(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, client.ErrNotFound
		}

		return nil, fmt.Errorf("getting client: %w", err)
	}

	return c, nil
}

func (s *Store) UpdateClient(ctx context.Context, c *client.Client) error {
	doc, err := encode(c)
	if err != nil {
		return err
	}

	query := `
		UPDATE clients
		SET doc = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, doc, c.ID).Scan(&c.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return client.ErrNotFound
		}

		return fmt.Errorf("updating client: %w", err)
	}

	return nil
}

func (s *Store) DeleteClient(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting client: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return client.ErrNotFound
	}

	return nil
}

func (s *Store) ListClients(ctx context.Context) ([]*client.Client, error) {
	query := `SELECT id, doc, created_at, updated_at FROM clients ORDER BY lower(doc->>'name') ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing clients: %w", err)
	}
	defer rows.Close()

	var clients []*client.Client

	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning client: %w", err)
		}

		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating client rows: %w", err)
	}

	return clients, nil
}
