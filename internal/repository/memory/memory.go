// Package memory provides in-memory implementations of the repository
// interfaces with the same semantics as the Postgres versions: ids
// auto-increment from 1, lists iterate in insertion order, unique fields
// (user/admin email, consultation booking id) are enforced, and lookups for
// absent records return nil without error.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
)

type UserRepository struct {
	mu     sync.Mutex
	nextID int64
	users  []*domain.User

	consultations *ConsultationRepository
	contacts      *ContactRepository
}

// NewUserRepository builds a user store. The consultation and contact stores
// are optional and only needed for LinkExistingSubmissions.
func NewUserRepository(consultations *ConsultationRepository, contacts *ContactRepository) *UserRepository {
	return &UserRepository{
		nextID:        1,
		consultations: consultations,
		contacts:      contacts,
	}
}

func (r *UserRepository) Create(_ context.Context, req *domain.SignupRequest, passwordHash string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == req.Email {
			return nil, fmt.Errorf("duplicate key value violates unique constraint on users.email")
		}
	}

	now := time.Now()
	u := &domain.User{
		ID:           r.nextID,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Role:         domain.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.nextID++
	r.users = append(r.users, u)

	cp := *u
	return &cp, nil
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) SetResetToken(_ context.Context, userID int64, token string, expiry time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == userID {
			t := token
			e := expiry
			u.ResetToken = &t
			u.ResetTokenExpiry = &e
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *UserRepository) ResetPassword(_ context.Context, userID int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == userID {
			u.PasswordHash = passwordHash
			u.ResetToken = nil
			u.ResetTokenExpiry = nil
			u.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *UserRepository) LinkExistingSubmissions(ctx context.Context, userID int64, email string) error {
	if r.consultations != nil {
		r.consultations.claimByEmail(userID, email)
	}
	if r.contacts != nil {
		r.contacts.claimByEmail(userID, email)
	}
	return nil
}

type AdminRepository struct {
	mu     sync.Mutex
	nextID int64
	admins []*domain.Admin
}

func NewAdminRepository() *AdminRepository {
	return &AdminRepository{nextID: 1}
}

func (r *AdminRepository) Create(_ context.Context, email, passwordHash, securityCodeHash string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.Email == email {
			return nil, fmt.Errorf("duplicate key value violates unique constraint on admins.email")
		}
	}

	a := &domain.Admin{
		ID:               r.nextID,
		Email:            email,
		PasswordHash:     passwordHash,
		SecurityCodeHash: securityCodeHash,
		CreatedAt:        time.Now(),
	}
	r.nextID++
	r.admins = append(r.admins, a)

	cp := *a
	return &cp, nil
}

func (r *AdminRepository) FindByEmail(_ context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.Email == email {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *AdminRepository) FindByID(_ context.Context, id int64) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.admins {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, nil
}

type ConsultationRepository struct {
	mu            sync.Mutex
	nextID        int64
	consultations []*domain.Consultation
}

func NewConsultationRepository() *ConsultationRepository {
	return &ConsultationRepository{nextID: 1}
}

func (r *ConsultationRepository) Create(_ context.Context, req *domain.ConsultationRequest, bookingID string, userID *int64) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.consultations {
		if c.BookingID == bookingID {
			return nil, fmt.Errorf("duplicate key value violates unique constraint on consultations.booking_id")
		}
	}

	c := &domain.Consultation{
		ID:            r.nextID,
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		EventType:     req.EventType,
		EventDate:     req.EventDate,
		Location:      req.Location,
		Budget:        req.Budget,
		Details:       req.Details,
		Status:        domain.ConsultationPending,
		PaymentStatus: domain.PaymentUnpaid,
		BookingID:     bookingID,
		UserID:        copyID(userID),
		CreatedAt:     time.Now(),
	}
	r.nextID++
	r.consultations = append(r.consultations, c)

	cp := *c
	return &cp, nil
}

func (r *ConsultationRepository) GetByID(_ context.Context, id int64) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c := r.findLocked(id); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *ConsultationRepository) GetByBookingID(_ context.Context, bookingID string) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.consultations {
		if c.BookingID == bookingID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ConsultationRepository) List(_ context.Context) ([]domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Consultation, 0, len(r.consultations))
	for _, c := range r.consultations {
		out = append(out, *c)
	}
	return out, nil
}

func (r *ConsultationRepository) ListByUserID(_ context.Context, userID int64) ([]domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Consultation
	for _, c := range r.consultations {
		if c.UserID != nil && *c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *ConsultationRepository) UpdateAdminFields(_ context.Context, id int64, status domain.ConsultationStatus, scheduled *time.Time, comment *string, setComment bool) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findLocked(id)
	if c == nil {
		return nil, nil
	}

	c.Status = status
	c.ScheduledDateTime = copyTime(scheduled)
	if setComment {
		c.AdminComment = copyString(comment)
	}

	cp := *c
	return &cp, nil
}

func (r *ConsultationRepository) UpdateOwnerFields(_ context.Context, id int64, patch *domain.OwnerConsultationPatch) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findLocked(id)
	if c == nil {
		return nil, nil
	}

	c.EventType = patch.EventType
	c.EventDate = patch.EventDate
	c.Location = patch.Location
	c.Budget = patch.Budget
	c.Details = patch.Details

	cp := *c
	return &cp, nil
}

func (r *ConsultationRepository) SetPaymentIntent(_ context.Context, id int64, intentID string) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := r.findLocked(id)
	if c == nil {
		return nil, nil
	}

	c.PaymentIntentID = &intentID

	cp := *c
	return &cp, nil
}

func (r *ConsultationRepository) SetPaymentStatusByIntent(_ context.Context, intentID string, status domain.PaymentStatus) (*domain.Consultation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.consultations {
		if c.PaymentIntentID != nil && *c.PaymentIntentID == intentID {
			c.PaymentStatus = status
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ConsultationRepository) findLocked(id int64) *domain.Consultation {
	for _, c := range r.consultations {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (r *ConsultationRepository) claimByEmail(userID int64, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.consultations {
		if c.UserID == nil && c.Email == email {
			id := userID
			c.UserID = &id
		}
	}
}

type ContactRepository struct {
	mu        sync.Mutex
	nextID    int64
	inquiries []*domain.ContactInquiry
}

func NewContactRepository() *ContactRepository {
	return &ContactRepository{nextID: 1}
}

func (r *ContactRepository) Create(_ context.Context, req *domain.ContactRequest, userID *int64) (*domain.ContactInquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := &domain.ContactInquiry{
		ID:        r.nextID,
		Name:      req.Name,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
		Status:    domain.ContactNew,
		UserID:    copyID(userID),
		CreatedAt: time.Now(),
	}
	r.nextID++
	r.inquiries = append(r.inquiries, c)

	cp := *c
	return &cp, nil
}

func (r *ContactRepository) GetByID(_ context.Context, id int64) (*domain.ContactInquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.inquiries {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ContactRepository) List(_ context.Context) ([]domain.ContactInquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.ContactInquiry, 0, len(r.inquiries))
	for _, c := range r.inquiries {
		out = append(out, *c)
	}
	return out, nil
}

func (r *ContactRepository) ListByUserID(_ context.Context, userID int64) ([]domain.ContactInquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.ContactInquiry
	for _, c := range r.inquiries {
		if c.UserID != nil && *c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *ContactRepository) UpdateAdminFields(_ context.Context, id int64, status domain.ContactStatus, comment *string, setComment bool) (*domain.ContactInquiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.inquiries {
		if c.ID == id {
			c.Status = status
			if setComment {
				c.AdminComment = copyString(comment)
			}
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *ContactRepository) claimByEmail(userID int64, email string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.inquiries {
		if c.UserID == nil && c.Email == email {
			id := userID
			c.UserID = &id
		}
	}
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
