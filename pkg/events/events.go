package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Ram-82/Ragam-Elyssia-b/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject, "data", string(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	ConsultationCreated = "consultation.created"
	ConsultationUpdated = "consultation.updated"
	ContactCreated      = "contact.created"
	ContactUpdated      = "contact.updated"
	UserRegistered      = "user.registered"
	PasswordResetAsked  = "password.reset.requested"
	PaymentIntentOpened = "payment.intent.created"
)

// Event payloads
type ConsultationCreatedEvent struct {
	ConsultationID int64     `json:"consultation_id"`
	BookingID      string    `json:"booking_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	EventType      string    `json:"event_type"`
	EventDate      string    `json:"event_date"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
}

type ConsultationUpdatedEvent struct {
	ConsultationID int64     `json:"consultation_id"`
	BookingID      string    `json:"booking_id"`
	Status         string    `json:"status"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type ContactCreatedEvent struct {
	ContactID int64     `json:"contact_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	CreatedAt time.Time `json:"created_at"`
}

type ContactUpdatedEvent struct {
	ContactID int64     `json:"contact_id"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}

type UserRegisteredEvent struct {
	UserID    int64     `json:"user_id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}

type PasswordResetAskedEvent struct {
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

type PaymentIntentOpenedEvent struct {
	ConsultationID int64  `json:"consultation_id"`
	BookingID      string `json:"booking_id"`
	IntentID       string `json:"intent_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
}
