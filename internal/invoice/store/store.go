package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanInvoice expects the column order id, doc, created_at, updated_at.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var (
		inv invoice.Invoice
		raw []byte
	)

	if err := s.Scan(&inv.ID, &raw, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return nil, err
	}

	if err := decode(raw, &inv); err != nil {
		return nil, err
	}

	return &inv, nil
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	doc, err := encode(inv)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO invoices (doc, created_at)
		VALUES ($1, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, doc).Scan(&inv.ID, &inv.CreatedAt); err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT id, doc, created_at, updated_at FROM invoices WHERE id = $1`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	doc, err := encode(inv)
	if err != nil {
		return err
	}

	query := `
		UPDATE invoices
		SET doc = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING updated_at
	`

	if err := s.db.QueryRowContext(ctx, query, doc, inv.ID).Scan(&inv.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return invoice.ErrNotFound
		}

		return fmt.Errorf("updating invoice: %w", err)
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	if n == 0 {
		return invoice.ErrNotFound
	}

	return nil
}

// whereBuilder accumulates JSONB predicates and their positional arguments.
type whereBuilder struct {
	clauses []string
	args    []any
}

func (w *whereBuilder) add(clause string, arg any) {
	w.args = append(w.args, arg)
	w.clauses = append(w.clauses, fmt.Sprintf(clause, len(w.args)))
}

func (w *whereBuilder) String() string {
	if len(w.clauses) == 0 {
		return ""
	}

	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func filterClauses(f invoice.Filter) *whereBuilder {
	w := &whereBuilder{}

	if f.Range != nil {
		w.add("i.doc->>'date' >= $%d", f.Range.Start.Format(time.DateOnly))
		w.add("i.doc->>'date' <= $%d", f.Range.End.Format(time.DateOnly))
	}

	if f.Paid != nil {
		w.add("(i.doc->>'paid')::boolean = $%d", *f.Paid)
	}

	if f.ClientID != nil {
		w.add("i.doc->'client'->>'id' = $%d", f.ClientID.String())
	}

	return w
}

func (s *Store) ListInvoices(ctx context.Context, q invoice.Query) ([]*invoice.Invoice, error) {
	w := filterClauses(q.Filter)

	query := `SELECT i.id, i.doc, i.created_at, i.updated_at FROM invoices i` + w.String()

	if q.Sort == invoice.SortDateDesc {
		query += ` ORDER BY i.doc->>'date' DESC, (i.doc->>'number')::int DESC`
	} else {
		query += ` ORDER BY i.doc->>'date' ASC, (i.doc->>'number')::int ASC`
	}

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invs []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invs = append(invs, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating invoice rows: %w", err)
	}

	return invs, nil
}

var groupExpr = map[invoice.GroupKey]string{
	invoice.GroupNone:     "''",
	invoice.GroupClient:   "i.doc->'client'->>'id'",
	invoice.GroupItemType: "item->>'type'",
	invoice.GroupItemDate: "item->>'date'",
}

// Aggregate unwinds items with a lateral jsonb_array_elements join when asked
// to, then counts and sums per group key.
func (s *Store) Aggregate(ctx context.Context, agg invoice.Aggregation) ([]invoice.Bucket, error) {
	if err := agg.Validate(); err != nil {
		return nil, err
	}

	key, ok := groupExpr[agg.GroupBy]
	if !ok {
		return nil, fmt.Errorf("unknown group key %q", agg.GroupBy)
	}

	w := filterClauses(agg.Filter)

	var query string

	if agg.Items {
		if agg.ItemType != nil {
			w.add("item->>'type' = $%d", string(*agg.ItemType))
		}

		query = `SELECT ` + key + `, COUNT(*), COALESCE(SUM((item->>'fee')::bigint), 0)
			FROM invoices i
			CROSS JOIN LATERAL jsonb_array_elements(i.doc->'items') AS item` + w.String()
	} else {
		query = `SELECT ` + key + `, COUNT(*), COALESCE(SUM((
				SELECT COALESCE(SUM((e->>'fee')::bigint), 0)
				FROM jsonb_array_elements(i.doc->'items') AS e
			)), 0)
			FROM invoices i` + w.String()
	}

	if agg.GroupBy != invoice.GroupNone {
		query += ` GROUP BY 1 ORDER BY 1`
	}

	rows, err := s.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating invoices: %w", err)
	}
	defer rows.Close()

	var buckets []invoice.Bucket

	for rows.Next() {
		var b invoice.Bucket
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

func (s *Store) LastNumber(ctx context.Context) (int, error) {
	var n int

	query := `SELECT COALESCE(MAX((doc->>'number')::int), 0) FROM invoices`
	if err := s.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("reading last invoice number: %w", err)
	}

	return n, nil
}
