package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
)

type ConsultationRepository interface {
	Create(ctx context.Context, req *domain.ConsultationRequest, bookingID string, userID *int64) (*domain.Consultation, error)
	GetByID(ctx context.Context, id int64) (*domain.Consultation, error)
	GetByBookingID(ctx context.Context, bookingID string) (*domain.Consultation, error)
	List(ctx context.Context) ([]domain.Consultation, error)
	ListByUserID(ctx context.Context, userID int64) ([]domain.Consultation, error)
	UpdateAdminFields(ctx context.Context, id int64, status domain.ConsultationStatus, scheduled *time.Time, comment *string, setComment bool) (*domain.Consultation, error)
	UpdateOwnerFields(ctx context.Context, id int64, patch *domain.OwnerConsultationPatch) (*domain.Consultation, error)
	SetPaymentIntent(ctx context.Context, id int64, intentID string) (*domain.Consultation, error)
	SetPaymentStatusByIntent(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Consultation, error)
}

type consultationRepository struct {
	pool *pgxpool.Pool
}

func NewConsultationRepository(pool *pgxpool.Pool) ConsultationRepository {
	return &consultationRepository{pool: pool}
}

const consultationCols = `id, name, email, phone,
event_type, event_date, location, budget, details,
status, admin_comment, scheduled_date_time,
payment_status, payment_intent_id,
booking_id, user_id, created_at`

func scanConsultation(row pgx.Row) (*domain.Consultation, error) {
	var c domain.Consultation
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone,
		&c.EventType, &c.EventDate, &c.Location, &c.Budget, &c.Details,
		&c.Status, &c.AdminComment, &c.ScheduledDateTime,
		&c.PaymentStatus, &c.PaymentIntentID,
		&c.BookingID, &c.UserID, &c.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *consultationRepository) Create(ctx context.Context, req *domain.ConsultationRequest, bookingID string, userID *int64) (*domain.Consultation, error) {
	const q = `INSERT INTO consultations (
		name, email, phone,
		event_type, event_date, location, budget, details,
		status, payment_status, booking_id, user_id
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending','unpaid',$9,$10)
	RETURNING ` + consultationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanConsultation(r.pool.QueryRow(ctx, q,
		req.Name, req.Email, req.Phone,
		req.EventType, req.EventDate, req.Location, req.Budget, req.Details,
		bookingID, userID,
	))
}

func (r *consultationRepository) GetByID(ctx context.Context, id int64) (*domain.Consultation, error) {
	const q = `SELECT ` + consultationCols + ` FROM consultations WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanConsultation(r.pool.QueryRow(ctx, q, id))
}

func (r *consultationRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Consultation, error) {
	const q = `SELECT ` + consultationCols + ` FROM consultations WHERE booking_id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanConsultation(r.pool.QueryRow(ctx, q, bookingID))
}

func (r *consultationRepository) List(ctx context.Context) ([]domain.Consultation, error) {
	const q = `SELECT ` + consultationCols + ` FROM consultations ORDER BY created_at`
	return r.list(ctx, q)
}

func (r *consultationRepository) ListByUserID(ctx context.Context, userID int64) ([]domain.Consultation, error) {
	const q = `SELECT ` + consultationCols + ` FROM consultations WHERE user_id = $1 ORDER BY created_at`
	return r.list(ctx, q, userID)
}

func (r *consultationRepository) list(ctx context.Context, q string, args ...any) ([]domain.Consultation, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var consultations []domain.Consultation
	for rows.Next() {
		var c domain.Consultation
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone,
			&c.EventType, &c.EventDate, &c.Location, &c.Budget, &c.Details,
			&c.Status, &c.AdminComment, &c.ScheduledDateTime,
			&c.PaymentStatus, &c.PaymentIntentID,
			&c.BookingID, &c.UserID, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		consultations = append(consultations, c)
	}

	return consultations, rows.Err()
}

func (r *consultationRepository) UpdateAdminFields(ctx context.Context, id int64, status domain.ConsultationStatus, scheduled *time.Time, comment *string, setComment bool) (*domain.Consultation, error) {
	const q = `
		UPDATE consultations
		SET
			status = $2,
			scheduled_date_time = $3,
			admin_comment = CASE WHEN $5 THEN $4 ELSE admin_comment END
		WHERE id = $1
		RETURNING ` + consultationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanConsultation(r.pool.QueryRow(ctx, q, id, status, scheduled, comment, setComment))
}

func (r *consultationRepository) UpdateOwnerFields(ctx context.Context, id int64, patch *domain.OwnerConsultationPatch) (*domain.Consultation, error) {
	const q = `
		UPDATE consultations
		SET event_type = $2, event_date = $3, location = $4, budget = $5, details = $6
		WHERE id = $1
		RETURNING ` + consultationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanConsultation(r.pool.QueryRow(ctx, q, id,
		patch.EventType, patch.EventDate, patch.Location, patch.Budget, patch.Details))
}

func (r *consultationRepository) SetPaymentIntent(ctx context.Context, id int64, intentID string) (*domain.Consultation, error) {
	const q = `
		UPDATE consultations
		SET payment_intent_id = $2
		WHERE id = $1
		RETURNING ` + consultationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanConsultation(r.pool.QueryRow(ctx, q, id, intentID))
}

func (r *consultationRepository) SetPaymentStatusByIntent(ctx context.Context, intentID string, status domain.PaymentStatus) (*domain.Consultation, error) {
	const q = `
		UPDATE consultations
		SET payment_status = $2
		WHERE payment_intent_id = $1
		RETURNING ` + consultationCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return scanConsultation(r.pool.QueryRow(ctx, q, intentID, status))
}
