package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/expense"
	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type document struct {
	Date           string `json:"date"`
	Category       string `json:"category"`
	Description    string `json:"description"`
	RawDescription string `json:"raw_description,omitempty"`
	Amount         int64  `json:"amount"`
}

func encode(e *expense.Expense) ([]byte, error) {
	b, err := json.Marshal(document{
		Date:           e.Date.Format(time.DateOnly),
		Category:       string(e.Category),
		Description:    e.Description,
		RawDescription: e.RawDescription,
		Amount:         int64(e.Amount),
	})
	if err != nil {
		return nil, fmt.Errorf("encoding expense: %w", err)
	}

	return b, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanExpense expects the column order id, doc, created_at, updated_at.
func scanExpense(s scanner) (*expense.Expense, error) {
	var (
		e   expense.Expense
		raw []byte
		doc document
	)

	if err := s.Scan(&e.ID, &raw, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding expense: %w", err)
	}

	date, err := time.Parse(time.DateOnly, doc.Date)
	if err != nil {
		return nil, fmt.Errorf("decoding expense date: %w", err)
	}

	e.Date = date
	e.Category = expense.Category(doc.Category)
	e.Description = doc.Description
	e.RawDescription = doc.RawDescription
	e.Amount = money.Amount(doc.Amount)

	return &e, nil
}

const selectExpenseColumns = `e.id, e.doc, e.created_at, e.updated_at`

func (s *Store) CreateExpense(ctx context.Context, e *expense.Expense) error {
	return createExpense(ctx, s.db, e)
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func createExpense(ctx context.Context, db execer, e *expense.Expense) error {
	doc, err := encode(e)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO expenses (doc, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`

	if err := db.QueryRowContext(ctx, query, doc).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("creating expense: %w", err)
	}

	return nil
}

func (s *Store) GetExpense(ctx context.Context, id uuid.UUID) (*expense.Expense, error) {
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses e WHERE e.id = $1`

	e, err := scanExpense(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, expense.ErrNotFound
		}

		return nil, fmt.Errorf("getting expense: %w", err)
	}

	return e, nil
}

func (s *Store) UpdateExpense(ctx context.Context, e *expense.Expense) error {
	doc, err := encode(e)
	if err != nil {
		return err
	}

	query := `
		UPDATE expenses
		SET doc = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, doc, e.ID).Scan(&e.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return expense.ErrNotFound
		}

		return fmt.Errorf("updating expense: %w", err)
	}

	return nil
}

func (s *Store) DeleteExpense(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting expense: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return expense.ErrNotFound
	}

	return nil
}

func filterClauses(f expense.ListFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)

	if f.Range != nil {
		args = append(args, f.Range.Start.Format(time.DateOnly), f.Range.End.Format(time.DateOnly))
		clauses = append(clauses, "e.doc->>'date' >= $1", "e.doc->>'date' <= $2")
	}

	if f.Category != nil {
		args = append(args, string(*f.Category))
		clauses = append(clauses, fmt.Sprintf("e.doc->>'category' = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", nil
	}

	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) ListExpenses(ctx context.Context, filter expense.ListFilter) ([]*expense.Expense, error) {
	where, args := filterClauses(filter)
	query := `SELECT ` + selectExpenseColumns + ` FROM expenses e` + where +
		` ORDER BY e.doc->>'date' ASC, e.created_at ASC`

	return queryExpenses(ctx, s.db, query, args...)
}

func queryExpenses(ctx context.Context, db execer, query string, args ...any) ([]*expense.Expense, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*expense.Expense

	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning expense: %w", err)
		}

		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating expense rows: %w", err)
	}

	return expenses, nil
}

func (s *Store) Aggregate(ctx context.Context, agg expense.Aggregation) ([]expense.Bucket, error) {
	key := "''"

	switch agg.GroupBy {
	case expense.GroupNone:
	case expense.GroupCategory:
		key = "e.doc->>'category'"
	default:
		return nil, fmt.Errorf("unknown group key %q", agg.GroupBy)
	}

	where, args := filterClauses(agg.ListFilter)
	query := `SELECT ` + key + `, COUNT(*), COALESCE(SUM((e.doc->>'amount')::bigint), 0) FROM expenses e` + where

	if agg.GroupBy != expense.GroupNone {
		query += ` GROUP BY 1 ORDER BY 1`
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating expenses: %w", err)
	}
	defer rows.Close()

	var buckets []expense.Bucket

	for rows.Next() {
		var b expense.Bucket
		if err := rows.Scan(&b.Key, &b.Count, &b.Sum); err != nil {
			return nil, fmt.Errorf("scanning bucket: %w", err)
		}

		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bucket rows: %w", err)
	}

	return buckets, nil
}

// importLockSpace tags import advisory locks so they cannot collide with
// other users of pg_advisory_xact_lock.
const importLockSpace int64 = 0x696d70 << 32

// ImportLockKeys returns one advisory lock key per calendar month touched by
// [minDate, maxDate], ascending. Overlapping ranges always share a key.
func ImportLockKeys(minDate, maxDate time.Time) []int64 {
	if maxDate.Before(minDate) {
		minDate, maxDate = maxDate, minDate
	}

	month := time.Date(minDate.Year(), minDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(maxDate.Year(), maxDate.Month(), 1, 0, 0, 0, 0, time.UTC)

	var keys []int64
	for ; !month.After(last); month = month.AddDate(0, 1, 0) {
		keys = append(keys, importLockSpace|int64(month.Year()*100+int(month.Month())))
	}

	return keys
}

type importTx struct {
	tx *sql.Tx
}

// BeginImport serialises imports whose date ranges overlap. Locks are taken in
// ascending key order so concurrent imports cannot deadlock.
func (s *Store) BeginImport(ctx context.Context, minDate, maxDate time.Time) (expense.ImportTx, error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning import tx: %w", err)
	}

	for _, key := range ImportLockKeys(minDate, maxDate) {
		if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", key); err != nil {
			dbTx.Rollback()
			return nil, fmt.Errorf("acquiring import lock: %w", err)
		}
	}

	return &importTx{tx: dbTx}, nil
}

func (itx *importTx) Commit() error   { return itx.tx.Commit() }
func (itx *importTx) Rollback() error { return itx.tx.Rollback() }

func (itx *importTx) FindDuplicates(ctx context.Context, params []expense.CreateParams) ([]*expense.Expense, error) {
	if len(params) == 0 {
		return nil, nil
	}

	type lookupKey struct {
		Date           string
		Amount         money.Amount
		RawDescription string
	}

	minDate := params[0].Date
	maxDate := params[0].Date
	keySet := make(map[lookupKey]struct{}, len(params))

	for _, p := range params {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}

		keySet[lookupKey{p.Date.Format(time.DateOnly), p.Amount, p.RawDescription}] = struct{}{}
	}

	query := `SELECT ` + selectExpenseColumns + ` FROM expenses e
		WHERE e.doc->>'date' >= $1 AND e.doc->>'date' <= $2
		ORDER BY e.doc->>'date' ASC`

	candidates, err := queryExpenses(ctx, itx.tx, query, minDate.Format(time.DateOnly), maxDate.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("finding duplicates: %w", err)
	}

	var duplicates []*expense.Expense

	for _, e := range candidates {
		if _, found := keySet[lookupKey{e.Date.Format(time.DateOnly), e.Amount, e.RawDescription}]; found {
			duplicates = append(duplicates, e)
		}
	}

	return duplicates, nil
}

func (itx *importTx) CreateExpenses(ctx context.Context, expenses []*expense.Expense) error {
	for _, e := range expenses {
		if err := createExpense(ctx, itx.tx, e); err != nil {
			return err
		}
	}

	return nil
}
