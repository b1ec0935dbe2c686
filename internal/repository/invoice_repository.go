package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

// InvoiceRepository encapsulates invoice persistence.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *domain.Invoice) error
	UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Invoice, error)
	List(ctx context.Context) ([]domain.Invoice, error)
	CountUnpaid(ctx context.Context) (int64, error)
}

type invoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository instantiates repository.
func NewInvoiceRepository(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	const query = `
        INSERT INTO invoices (client_id, client_email, invoice_number, amount, status, due_date, file_path)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		invoice.ClientID,
		invoice.ClientEmail,
		invoice.InvoiceNumber,
		invoice.Amount,
		invoice.Status,
		invoice.DueDate,
		invoice.FilePath,
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt)
}

func (r *invoiceRepository) UpdateStatus(ctx context.Context, id string, status domain.InvoiceStatus) error {
	const query = `
        UPDATE invoices SET status=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	const query = `
        SELECT id, client_id, client_email, invoice_number, amount, status, due_date, file_path, created_at, updated_at
        FROM invoices WHERE id=$1`
	var invoice domain.Invoice
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.ClientID,
		&invoice.ClientEmail,
		&invoice.InvoiceNumber,
		&invoice.Amount,
		&invoice.Status,
		&invoice.DueDate,
		&invoice.FilePath,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Invoice, error) {
	const query = `
        SELECT id, client_id, client_email, invoice_number, amount, status, due_date, file_path, created_at, updated_at
        FROM invoices WHERE client_id=$1 ORDER BY due_date DESC`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepository) List(ctx context.Context) ([]domain.Invoice, error) {
	const query = `
        SELECT id, client_id, client_email, invoice_number, amount, status, due_date, file_path, created_at, updated_at
        FROM invoices ORDER BY due_date DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanInvoices(rows)
}

func (r *invoiceRepository) CountUnpaid(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(*) FROM invoices WHERE status IN ($1, $2)`
	var count int64
	err := r.pool.QueryRow(ctx, query, domain.InvoiceStatusPending, domain.InvoiceStatusOverdue).Scan(&count)
	return count, err
}

func scanInvoices(rows pgx.Rows) ([]domain.Invoice, error) {
	var result []domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID,
			&invoice.ClientID,
			&invoice.ClientEmail,
			&invoice.InvoiceNumber,
			&invoice.Amount,
			&invoice.Status,
			&invoice.DueDate,
			&invoice.FilePath,
			&invoice.CreatedAt,
			&invoice.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, invoice)
	}
	return result, rows.Err()
}
