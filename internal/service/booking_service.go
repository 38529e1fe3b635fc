package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/repository"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/events"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/logger"
)

type BookingService interface {
	CreateConsultation(ctx context.Context, req *domain.ConsultationRequest, ownerID *int64) (*domain.Consultation, error)
	CreateContact(ctx context.Context, req *domain.ContactRequest, ownerID *int64) (*domain.ContactInquiry, error)
	ListConsultations(ctx context.Context) ([]domain.Consultation, error)
	ListContacts(ctx context.Context) ([]domain.ContactInquiry, error)
	ListUserConsultations(ctx context.Context, userID int64) ([]domain.Consultation, error)
	ListUserContacts(ctx context.Context, userID int64) ([]domain.ContactInquiry, error)
	AdminUpdateConsultation(ctx context.Context, id int64, patch *domain.AdminConsultationPatch) (*domain.Consultation, error)
	AdminUpdateContact(ctx context.Context, id int64, patch *domain.AdminContactPatch) (*domain.ContactInquiry, error)
	OwnerUpdateConsultation(ctx context.Context, id, callerID int64, patch *domain.OwnerConsultationPatch) (*domain.Consultation, error)
}

type bookingService struct {
	consultationRepo repository.ConsultationRepository
	contactRepo      repository.ContactRepository
	eventBus         events.Publisher
}

func NewBookingService(
	consultationRepo repository.ConsultationRepository,
	contactRepo repository.ContactRepository,
	eventBus events.Publisher,
) BookingService {
	return &bookingService{
		consultationRepo: consultationRepo,
		contactRepo:      contactRepo,
		eventBus:         eventBus,
	}
}

func (s *bookingService) CreateConsultation(ctx context.Context, req *domain.ConsultationRequest, ownerID *int64) (*domain.Consultation, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	bookingID := domain.GenerateBookingID(time.Now())

	consultation, err := s.consultationRepo.Create(ctx, req, bookingID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create consultation: %w", err)
	}

	event := events.ConsultationCreatedEvent{
		ConsultationID: consultation.ID,
		BookingID:      consultation.BookingID,
		Name:           consultation.Name,
		Email:          consultation.Email,
		EventType:      consultation.EventType,
		EventDate:      consultation.EventDate,
		Location:       consultation.Location,
		CreatedAt:      consultation.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.ConsultationCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish consultation created event", "error", err, "consultation_id", consultation.ID)
	}

	return consultation, nil
}

func (s *bookingService) CreateContact(ctx context.Context, req *domain.ContactRequest, ownerID *int64) (*domain.ContactInquiry, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	contact, err := s.contactRepo.Create(ctx, req, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact inquiry: %w", err)
	}

	event := events.ContactCreatedEvent{
		ContactID: contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Subject:   contact.Subject,
		CreatedAt: contact.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.ContactCreated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish contact created event", "error", err, "contact_id", contact.ID)
	}

	return contact, nil
}

func (s *bookingService) ListConsultations(ctx context.Context) ([]domain.Consultation, error) {
	consultations, err := s.consultationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (s *bookingService) ListContacts(ctx context.Context) ([]domain.ContactInquiry, error) {
	contacts, err := s.contactRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact inquiries: %w", err)
	}
	return contacts, nil
}

func (s *bookingService) ListUserConsultations(ctx context.Context, userID int64) ([]domain.Consultation, error) {
	consultations, err := s.consultationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list consultations: %w", err)
	}
	return consultations, nil
}

func (s *bookingService) ListUserContacts(ctx context.Context, userID int64) ([]domain.ContactInquiry, error) {
	contacts, err := s.contactRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact inquiries: %w", err)
	}
	return contacts, nil
}

// AdminUpdateConsultation applies an admin patch. An omitted status falls
// back to pending and an omitted scheduledDateTime clears the schedule; the
// comment is only touched when the field is present in the request.
func (s *bookingService) AdminUpdateConsultation(ctx context.Context, id int64, patch *domain.AdminConsultationPatch) (*domain.Consultation, error) {
	status := domain.ConsultationPending
	if patch.Status != nil {
		parsed, ok := domain.ParseConsultationStatus(*patch.Status)
		if !ok {
			return nil, fmt.Errorf("validation failed: invalid status %q", *patch.Status)
		}
		status = parsed
	}

	consultation, err := s.consultationRepo.UpdateAdminFields(ctx, id, status, patch.ScheduledDateTime, patch.AdminComment, patch.AdminComment != nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update consultation: %w", err)
	}
	if consultation == nil {
		return nil, ErrNotFound
	}

	s.publishConsultationUpdated(ctx, consultation)
	return consultation, nil
}

// AdminUpdateContact mirrors the consultation defaulting: an omitted status
// falls back to new.
func (s *bookingService) AdminUpdateContact(ctx context.Context, id int64, patch *domain.AdminContactPatch) (*domain.ContactInquiry, error) {
	status := domain.ContactNew
	if patch.Status != nil {
		parsed, ok := domain.ParseContactStatus(*patch.Status)
		if !ok {
			return nil, fmt.Errorf("validation failed: invalid status %q", *patch.Status)
		}
		status = parsed
	}

	contact, err := s.contactRepo.UpdateAdminFields(ctx, id, status, patch.AdminComment, patch.AdminComment != nil)
	if err != nil {
		return nil, fmt.Errorf("failed to update contact inquiry: %w", err)
	}
	if contact == nil {
		return nil, ErrNotFound
	}

	event := events.ContactUpdatedEvent{
		ContactID: contact.ID,
		Status:    string(contact.Status),
		UpdatedAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.ContactUpdated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish contact updated event", "error", err, "contact_id", contact.ID)
	}

	return contact, nil
}

// OwnerUpdateConsultation lets the owning customer edit the descriptive
// fields only. Status, payment state, and the booking id are untouchable.
func (s *bookingService) OwnerUpdateConsultation(ctx context.Context, id, callerID int64, patch *domain.OwnerConsultationPatch) (*domain.Consultation, error) {
	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.consultationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	if existing == nil {
		return nil, ErrNotFound
	}
	if !existing.IsOwner(callerID) {
		return nil, ErrForbidden
	}

	consultation, err := s.consultationRepo.UpdateOwnerFields(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update consultation: %w", err)
	}
	if consultation == nil {
		return nil, ErrNotFound
	}

	s.publishConsultationUpdated(ctx, consultation)
	return consultation, nil
}

func (s *bookingService) publishConsultationUpdated(ctx context.Context, c *domain.Consultation) {
	event := events.ConsultationUpdatedEvent{
		ConsultationID: c.ID,
		BookingID:      c.BookingID,
		Status:         string(c.Status),
		UpdatedAt:      time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.ConsultationUpdated, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish consultation updated event", "error", err, "consultation_id", c.ID)
	}
}
