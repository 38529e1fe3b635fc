package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
)

type ContactRepository interface {
	Create(ctx context.Context, req *domain.ContactRequest, userID *int64) (*domain.ContactInquiry, error)
	GetByID(ctx context.Context, id int64) (*domain.ContactInquiry, error)
	List(ctx context.Context) ([]domain.ContactInquiry, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.ContactInquiry, error)
	UpdateAdminFields(ctx context.Context, id int64, status domain.ContactStatus, comment *string, setComment bool) (*domain.ContactInquiry, error)
}

type contactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) ContactRepository {
	return &contactRepository{pool: pool}
}

const contactCols = `id, name, email, subject, message, status, admin_comment, user_id, created_at`

func scanContact(row pgx.Row) (*domain.ContactInquiry, error) {
	var c domain.ContactInquiry
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message,
		&c.Status, &c.AdminComment, &c.UserID, &c.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *contactRepository) Create(ctx context.Context, req *domain.ContactRequest, userID *int64) (*domain.ContactInquiry, error) {
	const q = `INSERT INTO contact_inquiries (name, email, subject, message, status, user_id)
		VALUES ($1,$2,$3,$4,'new',$5)
		RETURNING ` + contactCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanContact(r.pool.QueryRow(ctx, q, req.Name, req.Email, req.Subject, req.Message, userID))
}

func (r *contactRepository) GetByID(ctx context.Context, id int64) (*domain.ContactInquiry, error) {
	const q = `SELECT ` + contactCols + ` FROM contact_inquiries WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanContact(r.pool.QueryRow(ctx, q, id))
}

func (r *contactRepository) List(ctx context.Context) ([]domain.ContactInquiry, error) {
	const q = `SELECT ` + contactCols + ` FROM contact_inquiries ORDER BY created_at`
	return r.list(ctx, q)
}

func (r *contactRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.ContactInquiry, error) {
	const q = `SELECT ` + contactCols + ` FROM contact_inquiries WHERE user_id = $1 ORDER BY created_at`
	return r.list(ctx, q, userID)
}

func (r *contactRepository) list(ctx context.Context, q string, args ...any) ([]domain.ContactInquiry, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []domain.ContactInquiry
	for rows.Next() {
		var c domain.ContactInquiry
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Subject, &c.Message,
			&c.Status, &c.AdminComment, &c.UserID, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		inquiries = append(inquiries, c)
	}

	return inquiries, rows.Err()
}

func (r *contactRepository) UpdateAdminFields(ctx context.Context, id int64, status domain.ContactStatus, comment *string, setComment bool) (*domain.ContactInquiry, error) {
	const q = `
		UPDATE contact_inquiries
		SET
			status = $2,
			admin_comment = CASE WHEN $4 THEN $3 ELSE admin_comment END
		WHERE id = $1
		RETURNING ` + contactCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanContact(r.pool.QueryRow(ctx, q, id, status, comment, setComment))
}
