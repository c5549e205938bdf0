package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MrJamesThe3rd/invoicer/internal/user"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type document struct {
	Email        string      `json:"email"`
	PasswordHash string      `json:"password_hash"`
	Admin        bool        `json:"admin"`
	Tokens       []uuid.UUID `json:"tokens"`
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*user.User, error) {
	var (
		u   user.User
		raw []byte
		doc document
	)

	if err := s.Scan(&u.ID, &raw, &u.CreatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding user: %w", err)
	}

	u.Email = doc.Email
	u.PasswordHash = doc.PasswordHash
	u.Admin = doc.Admin
	u.Tokens = doc.Tokens

	return &u, nil
}

const uniqueViolation = "23505"

func (s *Store) CreateUser(ctx context.Context, u *user.User) error {
	raw, err := json.Marshal(document{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		Admin:        u.Admin,
		Tokens:       []uuid.UUID{},
	})
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	query := `
		INSERT INTO users (doc, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, raw).Scan(&u.ID, &u.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return user.ErrEmailTaken
		}

		return fmt.Errorf("creating user: %w", err)
	}

	return nil
}

func (s *Store) getOne(ctx context.Context, where string, arg any) (*user.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT id, doc, created_at FROM users WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, user.ErrNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getOne(ctx, `id = $1`, id)
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getOne(ctx, `doc->>'email' = $1`, email)
}

func (s *Store) ListUsers(ctx context.Context) ([]*user.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc, created_at FROM users ORDER BY doc->>'email' ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []*user.User

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}

		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating user rows: %w", err)
	}

	return users, nil
}

func (s *Store) AddToken(ctx context.Context, userID, tokenID uuid.UUID) error {
	query := `
		UPDATE users
		SET doc = jsonb_set(doc, '{tokens}', COALESCE(doc->'tokens', '[]'::jsonb) || to_jsonb($1::text))
		WHERE id = $2
	`

	return s.exec(ctx, "adding token", query, tokenID.String(), userID)
}

func (s *Store) RemoveToken(ctx context.Context, userID, tokenID uuid.UUID) error {
	query := `
		UPDATE users
		SET doc = jsonb_set(doc, '{tokens}', COALESCE(doc->'tokens', '[]'::jsonb) - $1::text)
		WHERE id = $2
	`

	return s.exec(ctx, "removing token", query, tokenID.String(), userID)
}

func (s *Store) exec(ctx context.Context, what, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", what, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return user.ErrNotFound
	}

	return nil
}

type Memory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*user.User
}

func NewMemory() *Memory {
	return &Memory{users: make(map[uuid.UUID]*user.User)}
}

func cloneUser(u *user.User) *user.User {
	c := *u
	c.Tokens = slices.Clone(u.Tokens)

	return &c
}

func (m *Memory) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return user.ErrEmailTaken
		}
	}

	u.ID = uuid.New()
	u.CreatedAt = time.Now()
	m.users[u.ID] = cloneUser(u)

	return nil
}

func (m *Memory) GetUser(_ context.Context, id uuid.UUID) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	return cloneUser(u), nil
}

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}

	return nil, user.ErrNotFound
}

func (m *Memory) ListUsers(_ context.Context) ([]*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*user.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, cloneUser(u))
	}

	slices.SortFunc(out, func(a, b *user.User) int {
		switch {
		case a.Email < b.Email:
			return -1
		case a.Email > b.Email:
			return 1
		}

		return 0
	})

	return out, nil
}

func (m *Memory) AddToken(_ context.Context, userID, tokenID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return user.ErrNotFound
	}

	u.Tokens = append(u.Tokens, tokenID)

	return nil
}

func (m *Memory) RemoveToken(_ context.Context, userID, tokenID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return user.ErrNotFound
	}

	u.Tokens = slices.DeleteFunc(u.Tokens, func(id uuid.UUID) bool { return id == tokenID })

	return nil
}
