package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
)

type AdminRepository interface {
	Create(ctx context.Context, email, passwordHash, securityCodeHash string) (*domain.Admin, error)
	FindByEmail(ctx context.Context, email string) (*domain.Admin, error)
	FindByID(ctx context.Context, id int64) (*domain.Admin, error)
}

type adminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminCols = `id, email, password_hash, security_code_hash, created_at`

func scanAdmin(row pgx.Row) (*domain.Admin, error) {
	var a domain.Admin
	err := row.Scan(&a.ID, &a.Email, &a.PasswordHash, &a.SecurityCodeHash, &a.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) Create(ctx context.Context, email, passwordHash, securityCodeHash string) (*domain.Admin, error) {
	const q = `
		INSERT INTO admins (email, password_hash, security_code_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + adminCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanAdmin(r.pool.QueryRow(ctx, q, email, passwordHash, securityCodeHash))
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanAdmin(r.pool.QueryRow(ctx, q, email))
}

func (r *adminRepository) FindByID(ctx context.Context, id int64) (*domain.Admin, error) {
	const q = `SELECT ` + adminCols + ` FROM admins WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanAdmin(r.pool.QueryRow(ctx, q, id))
}
