package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/jmcardoso/payplan/internal/invoice"
	"github.com/jmcardoso/payplan/internal/money"
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

const selectInvoiceColumns = `
	id, reference, customer_name, currency, total_cents, paid_cents, status,
	due_date, allow_partial, minimum_cents, maximum_cents, created_at, updated_at
`

// scanInvoice reads an invoice row in selectInvoiceColumns order.
func scanInvoice(s scanner) (*invoice.Invoice, error) {
	var inv invoice.Invoice

	var (
		currency    string
		totalCents  int64
		paidCents   int64
		statusStr   string
		minCents    sql.NullInt64
		maxCents    sql.NullInt64
	)

	if err := s.Scan(
		&inv.ID, &inv.Reference, &inv.CustomerName, &currency, &totalCents, &paidCents,
		&statusStr, &inv.DueDate, &inv.AllowPartial, &minCents, &maxCents,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}

	inv.TotalAmount = money.New(totalCents, currency)
	inv.PaidAmount = money.New(paidCents, currency)
	inv.Status = invoice.Status(statusStr)

	if minCents.Valid {
		m := money.New(minCents.Int64, currency)
		inv.MinimumAmount = &m
	}

	if maxCents.Valid {
		m := money.New(maxCents.Int64, currency)
		inv.MaximumAmount = &m
	}

	return &inv, nil
}

func nullableCents(m *money.Money) sql.NullInt64 {
	if m == nil {
		return sql.NullInt64{}
	}

	return sql.NullInt64{Int64: m.Cents, Valid: true}
}

func (s *Store) CreateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		INSERT INTO invoices (reference, customer_name, currency, total_cents, paid_cents,
			status, due_date, allow_partial, minimum_cents, maximum_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		inv.Reference,
		inv.CustomerName,
		inv.TotalAmount.Currency,
		inv.TotalAmount.Cents,
		inv.PaidAmount.Cents,
		inv.Status,
		inv.DueDate,
		inv.AllowPartial,
		nullableCents(inv.MinimumAmount),
		nullableCents(inv.MaximumAmount),
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating invoice: %w", err)
	}

	return nil
}

func (s *Store) GetInvoice(ctx context.Context, id uuid.UUID) (*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE id = $1 AND deleted_at IS NULL`

	inv, err := scanInvoice(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, invoice.ErrNotFound
		}

		return nil, fmt.Errorf("getting invoice: %w", err)
	}

	return inv, nil
}

func (s *Store) ListInvoices(ctx context.Context, filter invoice.ListFilter) ([]*invoice.Invoice, error) {
	query := `SELECT ` + selectInvoiceColumns + `
		FROM invoices
		WHERE deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.Status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.DueFrom != nil {
		query += fmt.Sprintf(" AND due_date >= $%d", argIdx)

		args = append(args, *filter.DueFrom)
		argIdx++
	}

	if filter.DueTo != nil {
		query += fmt.Sprintf(" AND due_date <= $%d", argIdx)

		args = append(args, *filter.DueTo)
		argIdx++
	}

	query += " ORDER BY due_date ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*invoice.Invoice

	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning invoice: %w", err)
		}

		invoices = append(invoices, inv)
	}

	return invoices, nil
}

func (s *Store) UpdateInvoice(ctx context.Context, inv *invoice.Invoice) error {
	query := `
		UPDATE invoices
		SET customer_name = $1, total_cents = $2, paid_cents = $3, status = $4,
			due_date = $5, allow_partial = $6, minimum_cents = $7, maximum_cents = $8,
			updated_at = NOW()
		WHERE id = $9 AND deleted_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query,
		inv.CustomerName,
		inv.TotalAmount.Cents,
		inv.PaidAmount.Cents,
		inv.Status,
		inv.DueDate,
		inv.AllowPartial,
		nullableCents(inv.MinimumAmount),
		nullableCents(inv.MaximumAmount),
		inv.ID,
	)
	if err != nil {
		return fmt.Errorf("updating invoice: %w", err)
	}

	return nil
}

func (s *Store) DeleteInvoice(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE invoices
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	_, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting invoice: %w", err)
	}

	return nil
}
