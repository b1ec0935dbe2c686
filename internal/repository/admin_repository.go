package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/reduxreimagine/portal-service/internal/domain"
)

// AdminRepository manages the admin allowlist.
type AdminRepository interface {
	Create(ctx context.Context, entry *domain.AdminEntry) error
	Delete(ctx context.Context, id string) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]domain.AdminEntry, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

func (r *adminRepository) Create(ctx context.Context, entry *domain.AdminEntry) error {
	const query = `
        INSERT INTO admins (email, name)
        VALUES ($1,$2)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.Email,
		entry.Name,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admins WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM admins WHERE email=$1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *adminRepository) List(ctx context.Context) ([]domain.AdminEntry, error) {
	const query = `
        SELECT id, email, name, created_at
        FROM admins ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdminEntry
	for rows.Next() {
		var entry domain.AdminEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Email,
			&entry.Name,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
