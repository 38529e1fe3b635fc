package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/payments"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/repository"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/config"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/events"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/logger"
)

type PaymentIntentResult struct {
	Consultation *domain.Consultation `json:"consultation"`
	ClientSecret string               `json:"clientSecret"`
}

type PaymentService interface {
	CreateConsultationIntent(ctx context.Context, consultationID, amount int64) (*PaymentIntentResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

type paymentService struct {
	consultationRepo repository.ConsultationRepository
	provider         payments.Provider
	eventBus         events.Publisher
	config           *config.Config
}

func NewPaymentService(
	consultationRepo repository.ConsultationRepository,
	provider payments.Provider,
	eventBus events.Publisher,
	config *config.Config,
) PaymentService {
	return &paymentService{
		consultationRepo: consultationRepo,
		provider:         provider,
		eventBus:         eventBus,
		config:           config,
	}
}

// CreateConsultationIntent opens a payment intent for a consultation deposit
// and stores the intent reference on the record.
func (s *paymentService) CreateConsultationIntent(ctx context.Context, consultationID, amount int64) (*PaymentIntentResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("validation failed: amount must be positive")
	}

	consultation, err := s.consultationRepo.GetByID(ctx, consultationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get consultation: %w", err)
	}
	if consultation == nil {
		return nil, ErrNotFound
	}

	intent, err := s.provider.CreateIntent(ctx, amount, s.config.Stripe.Currency, map[string]string{
		"booking_id":      consultation.BookingID,
		"consultation_id": strconv.FormatInt(consultation.ID, 10),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	updated, err := s.consultationRepo.SetPaymentIntent(ctx, consultation.ID, intent.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to store payment intent reference: %w", err)
	}
	if updated == nil {
		return nil, ErrNotFound
	}

	event := events.PaymentIntentOpenedEvent{
		ConsultationID: updated.ID,
		BookingID:      updated.BookingID,
		IntentID:       intent.ID,
		Amount:         intent.Amount,
		Currency:       intent.Currency,
	}
	if err := s.eventBus.Publish(ctx, events.PaymentIntentOpened, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish payment intent event", "error", err, "consultation_id", updated.ID)
	}

	return &PaymentIntentResult{
		Consultation: updated,
		ClientSecret: intent.ClientSecret,
	}, nil
}

// HandleWebhook moves the payment status on the matching consultation.
// Events for unknown intents are acknowledged and dropped.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	event, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		return fmt.Errorf("failed to parse webhook: %w", err)
	}

	var status domain.PaymentStatus
	switch event.Type {
	case payments.EventIntentSucceeded:
		status = domain.PaymentPaid
	case payments.EventChargeRefunded:
		status = domain.PaymentRefunded
	default:
		return nil
	}

	if event.IntentID == "" {
		return nil
	}

	consultation, err := s.consultationRepo.SetPaymentStatusByIntent(ctx, event.IntentID, status)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	if consultation == nil {
		logger.WarnContext(ctx, "Payment event for unknown intent", "intent_id", event.IntentID, "type", event.Type)
		return nil
	}

	logger.InfoContext(ctx, "Payment status updated",
		"consultation_id", consultation.ID,
		"booking_id", consultation.BookingID,
		"payment_status", consultation.PaymentStatus,
	)
	return nil
}
