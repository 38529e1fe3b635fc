package domain

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

type ConsultationStatus string

const (
	ConsultationPending   ConsultationStatus = "pending"
	ConsultationScheduled ConsultationStatus = "scheduled"
	ConsultationConfirmed ConsultationStatus = "confirmed"
	ConsultationCompleted ConsultationStatus = "completed"
)

func ParseConsultationStatus(s string) (ConsultationStatus, bool) {
	switch ConsultationStatus(s) {
	case ConsultationPending, ConsultationScheduled, ConsultationConfirmed, ConsultationCompleted:
		return ConsultationStatus(s), true
	default:
		return "", false
	}
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(s) {
	case PaymentUnpaid, PaymentPaid, PaymentRefunded:
		return PaymentStatus(s), true
	default:
		return "", false
	}
}

type Consultation struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	EventType         string             `json:"eventType"`
	EventDate         string             `json:"eventDate"`
	Location          string             `json:"location"`
	Budget            string             `json:"budget"`
	Details           string             `json:"details,omitempty"`
	Status            ConsultationStatus `json:"status"`
	AdminComment      *string            `json:"adminComment,omitempty"`
	ScheduledDateTime *time.Time         `json:"scheduledDateTime,omitempty"`
	PaymentStatus     PaymentStatus      `json:"paymentStatus"`
	PaymentIntentID   *string            `json:"paymentIntentId,omitempty"`
	BookingID         string             `json:"bookingId"`
	UserID            *int64             `json:"userId,omitempty"`
	CreatedAt         time.Time          `json:"createdAt"`
}

// IsOwner reports whether the given user owns this consultation. Anonymous
// submissions have no owner and are never editable by a customer.
func (c *Consultation) IsOwner(userID int64) bool {
	return c.UserID != nil && *c.UserID == userID
}

type ConsultationRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	EventType string `json:"eventType"`
	EventDate string `json:"eventDate"`
	Location  string `json:"location"`
	Budget    string `json:"budget"`
	Details   string `json:"details"`
}

func (r *ConsultationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.EventType = strings.TrimSpace(r.EventType)
	r.EventDate = strings.TrimSpace(r.EventDate)
	r.Location = strings.TrimSpace(r.Location)
	r.Budget = strings.TrimSpace(r.Budget)
	r.Details = strings.TrimSpace(r.Details)
}

func (r *ConsultationRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !isValidEmail(r.Email) {
		return fmt.Errorf("invalid email format")
	}
	if r.Phone == "" {
		return fmt.Errorf("phone is required")
	}
	if r.EventType == "" {
		return fmt.Errorf("eventType is required")
	}
	if r.EventDate == "" {
		return fmt.Errorf("eventDate is required")
	}
	if r.Location == "" {
		return fmt.Errorf("location is required")
	}
	if r.Budget == "" {
		return fmt.Errorf("budget is required")
	}
	return nil
}

// AdminConsultationPatch distinguishes "not provided" from "explicitly
// cleared" for adminComment. An omitted status falls back to pending and an
// omitted scheduledDateTime clears the schedule.
type AdminConsultationPatch struct {
	Status            *string    `json:"status,omitempty"`
	ScheduledDateTime *time.Time `json:"scheduledDateTime,omitempty"`
	AdminComment      *string    `json:"adminComment,omitempty"`
}

// OwnerConsultationPatch covers the descriptive fields a customer may edit.
// Status, payment, and booking id are never owner-editable.
type OwnerConsultationPatch struct {
	EventType string `json:"eventType"`
	EventDate string `json:"eventDate"`
	Location  string `json:"location"`
	Budget    string `json:"budget"`
	Details   string `json:"details"`
}

func (r *OwnerConsultationPatch) Validate() error {
	if strings.TrimSpace(r.EventType) == "" {
		return fmt.Errorf("eventType is required")
	}
	if strings.TrimSpace(r.EventDate) == "" {
		return fmt.Errorf("eventDate is required")
	}
	if strings.TrimSpace(r.Location) == "" {
		return fmt.Errorf("location is required")
	}
	if strings.TrimSpace(r.Budget) == "" {
		return fmt.Errorf("budget is required")
	}
	return nil
}

const bookingIDPrefix = "RE"

var (
	bookingIDMu   sync.Mutex
	lastBookingMs int64
)

// GenerateBookingID returns a human-readable identifier of the form
// RE-<unix milliseconds>. Values are strictly increasing even when two
// consultations are created within the same millisecond; the repository's
// uniqueness constraint is the final guard.
func GenerateBookingID(creationTime time.Time) string {
	bookingIDMu.Lock()
	defer bookingIDMu.Unlock()

	ms := creationTime.UnixMilli()
	if ms <= lastBookingMs {
		ms = lastBookingMs + 1
	}
	lastBookingMs = ms

	return fmt.Sprintf("%s-%d", bookingIDPrefix, ms)
}
