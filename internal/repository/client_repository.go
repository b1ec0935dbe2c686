package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

// ClientRepository encapsulates client profile persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	UpdatePhone(ctx context.Context, id string, phoneNumber *string) error
	GetByID(ctx context.Context, id string) (*domain.Client, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Client, error)
	List(ctx context.Context) ([]domain.Client, error)
	Count(ctx context.Context) (int64, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (user_id, full_name, company_name, contact_email, phone_number)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		client.UserID,
		client.FullName,
		client.CompanyName,
		client.ContactEmail,
		client.PhoneNumber,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *clientRepository) UpdatePhone(ctx context.Context, id string, phoneNumber *string) error {
	const query = `
        UPDATE clients SET phone_number=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, phoneNumber, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientRepository) GetByID(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
        SELECT id, user_id, full_name, company_name, contact_email, phone_number, created_at, updated_at
        FROM clients WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *clientRepository) GetByUserID(ctx context.Context, userID string) (*domain.Client, error) {
	const query = `
        SELECT id, user_id, full_name, company_name, contact_email, phone_number, created_at, updated_at
        FROM clients WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *clientRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Client, error) {
	var client domain.Client
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&client.ID,
		&client.UserID,
		&client.FullName,
		&client.CompanyName,
		&client.ContactEmail,
		&client.PhoneNumber,
		&client.CreatedAt,
		&client.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const query = `
        SELECT id, user_id, full_name, company_name, contact_email, phone_number, created_at, updated_at
        FROM clients ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Client
	for rows.Next() {
		var client domain.Client
		if err := rows.Scan(
			&client.ID,
			&client.UserID,
			&client.FullName,
			&client.CompanyName,
			&client.ContactEmail,
			&client.PhoneNumber,
			&client.CreatedAt,
			&client.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, client)
	}
	return result, rows.Err()
}

func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	return count, err
}
