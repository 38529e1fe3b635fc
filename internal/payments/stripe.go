// Package payments wraps the Stripe client behind a small provider
// interface so services and tests do not depend on Stripe directly.
package payments

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// IntentEvent is a provider-neutral view of a payment webhook notification.
type IntentEvent struct {
	Type     string
	IntentID string
}

const (
	EventIntentSucceeded = "payment_intent.succeeded"
	EventChargeRefunded  = "charge.refunded"
)

type Provider interface {
	CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error)
	ParseWebhook(payload []byte, signature string) (*IntentEvent, error)
}

type StripeProvider struct {
	api           *client.API
	webhookSecret string
}

func NewStripeProvider(secretKey, webhookSecret string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{
		api:           api,
		webhookSecret: webhookSecret,
	}
}

func (p *StripeProvider) CreateIntent(ctx context.Context, amount int64, currency string, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
	}, nil
}

func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*IntentEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch event.Type {
	case EventIntentSucceeded:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("failed to decode payment intent: %w", err)
		}
		return &IntentEvent{Type: EventIntentSucceeded, IntentID: pi.ID}, nil
	case EventChargeRefunded:
		var ch stripe.Charge
		if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
			return nil, fmt.Errorf("failed to decode charge: %w", err)
		}
		intentID := ""
		if ch.PaymentIntent != nil {
			intentID = ch.PaymentIntent.ID
		}
		return &IntentEvent{Type: EventChargeRefunded, IntentID: intentID}, nil
	default:
		return &IntentEvent{Type: string(event.Type)}, nil
	}
}
