package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/repository/memory"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/config"
)

// ---------- Mocks ----------

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return m.err
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published(subject string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.subjects {
		if s == subject {
			return true
		}
	}
	return false
}

type mockMailer struct {
	lastTo    string
	lastName  string
	lastURL   string
	lastToken string
	sendErr   error
}

func (m *mockMailer) SendPasswordResetEmail(toEmail, toName, resetURL, token string) error {
	m.lastTo = toEmail
	m.lastName = toName
	m.lastURL = resetURL
	m.lastToken = token
	return m.sendErr
}

// ---------- Fixtures ----------

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTL:      7 * 24 * time.Hour,
			ResetTokenTTL: time.Hour,
		},
		Stripe: config.StripeConfig{
			Currency: "usd",
		},
		App: config.AppConfig{
			BaseURL: "http://localhost:5173",
		},
	}
}

type fixtures struct {
	users         *memory.UserRepository
	admins        *memory.AdminRepository
	consultations *memory.ConsultationRepository
	contacts      *memory.ContactRepository
	mailer        *mockMailer
	bus           *mockPublisher
	cfg           *config.Config
}

func newFixtures() *fixtures {
	consultations := memory.NewConsultationRepository()
	contacts := memory.NewContactRepository()
	return &fixtures{
		users:         memory.NewUserRepository(consultations, contacts),
		admins:        memory.NewAdminRepository(),
		consultations: consultations,
		contacts:      contacts,
		mailer:        &mockMailer{},
		bus:           &mockPublisher{},
		cfg:           testConfig(),
	}
}
