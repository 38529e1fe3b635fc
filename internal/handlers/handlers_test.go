package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/handlers"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/payments"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/repository/memory"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/service"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/auth"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/config"
)

// ---------- Mocks ----------

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (m *mockPublisher) Publish(_ context.Context, subject string, _ interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

type mockMailer struct {
	lastTo    string
	lastToken string
}

func (m *mockMailer) SendPasswordResetEmail(toEmail, _, _, token string) error {
	m.lastTo = toEmail
	m.lastToken = token
	return nil
}

type mockProvider struct {
	intents int
	event   *payments.IntentEvent
}

func (m *mockProvider) CreateIntent(_ context.Context, amount int64, currency string, _ map[string]string) (*payments.Intent, error) {
	m.intents++
	return &payments.Intent{
		ID:           fmt.Sprintf("pi_test_%d", m.intents),
		ClientSecret: fmt.Sprintf("pi_test_%d_secret", m.intents),
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (m *mockProvider) ParseWebhook(_ []byte, signature string) (*payments.IntentEvent, error) {
	if signature == "" {
		return nil, fmt.Errorf("missing signature")
	}
	return m.event, nil
}

type stubRow struct{}

func (stubRow) Scan(dest ...any) error {
	for _, d := range dest {
		if t, ok := d.(*time.Time); ok {
			*t = time.Now()
		}
	}
	return nil
}

type stubDB struct{}

func (stubDB) Ping(context.Context) error { return nil }

func (stubDB) QueryRow(context.Context, string, ...any) pgx.Row { return stubRow{} }

// ---------- Fixtures ----------

type env struct {
	server   *httptest.Server
	mailer   *mockMailer
	provider *mockProvider
	cfg      *config.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTL:      7 * 24 * time.Hour,
			ResetTokenTTL: time.Hour,
		},
		Stripe: config.StripeConfig{Currency: "usd"},
		App:    config.AppConfig{BaseURL: "http://localhost:5173"},
	}

	consultations := memory.NewConsultationRepository()
	contacts := memory.NewContactRepository()
	users := memory.NewUserRepository(consultations, contacts)
	admins := memory.NewAdminRepository()

	mailer := &mockMailer{}
	provider := &mockProvider{}
	bus := &mockPublisher{}

	// Bootstrap admin account.
	passwordHash, err := auth.HashPassword("adminpass")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte("code-42"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	if _, err := admins.Create(context.Background(), "admin@x.com", passwordHash, string(codeHash)); err != nil {
		t.Fatalf("Create admin failed: %v", err)
	}

	h := handlers.New(
		service.NewAuthService(users, admins, mailer, bus, cfg),
		service.NewBookingService(consultations, contacts, bus),
		service.NewPaymentService(consultations, provider, bus, cfg),
		stubDB{},
		cfg,
	)

	server := httptest.NewServer(h.Routes())
	t.Cleanup(server.Close)

	return &env{server: server, mailer: mailer, provider: provider, cfg: cfg}
}

func (e *env) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}

	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var decoded map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, decoded
}

func (e *env) signupAndLogin(t *testing.T, email string) string {
	t.Helper()

	if code, body := e.request(t, http.MethodPost, "/signup", "", map[string]string{
		"fullName": "Asha Rao", "email": email, "password": "secret1",
	}); code != http.StatusOK {
		t.Fatalf("Signup returned %d: %v", code, body)
	}

	code, body := e.request(t, http.MethodPost, "/login", "", map[string]string{
		"email": email, "password": "secret1",
	})
	if code != http.StatusOK {
		t.Fatalf("Login returned %d: %v", code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("Expected a token in the login response")
	}
	return token
}

func (e *env) adminToken(t *testing.T) string {
	t.Helper()

	code, body := e.request(t, http.MethodPost, "/admin/login", "", map[string]string{
		"email": "admin@x.com", "password": "adminpass", "securityCode": "code-42",
	})
	if code != http.StatusOK {
		t.Fatalf("Admin login returned %d: %v", code, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("Expected a token in the admin login response")
	}
	return token
}

func consultationBody() map[string]string {
	return map[string]string{
		"name":      "Asha Rao",
		"email":     "a@x.com",
		"phone":     "+911234567890",
		"eventType": "wedding",
		"eventDate": "2026-10-20",
		"location":  "Mumbai",
		"budget":    "10L",
		"details":   "Beach ceremony",
	}
}

// ---------- Tests ----------

func TestHealth(t *testing.T) {
	e := newEnv(t)

	code, body := e.request(t, http.MethodGet, "/health", "", nil)
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("Expected healthy response, got %d: %v", code, body)
	}

	code, _ = e.request(t, http.MethodGet, "/db-health", "", nil)
	if code != http.StatusOK {
		t.Fatalf("Expected db health 200, got %d", code)
	}
}

func TestSignupLoginMe(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "a@x.com")

	code, body := e.request(t, http.MethodGet, "/me", token, nil)
	if code != http.StatusOK {
		t.Fatalf("Me returned %d: %v", code, body)
	}
	user, _ := body["user"].(map[string]interface{})
	if user["email"] != "a@x.com" {
		t.Errorf("Expected profile email a@x.com, got %v", user["email"])
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Error("Password hash must never appear in a response")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	e := newEnv(t)
	e.signupAndLogin(t, "a@x.com")

	code, body := e.request(t, http.MethodPost, "/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	if code != http.StatusUnauthorized || body["success"] != false {
		t.Fatalf("Expected 401 with success=false, got %d: %v", code, body)
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	e := newEnv(t)
	e.signupAndLogin(t, "a@x.com")

	code, _ := e.request(t, http.MethodPost, "/signup", "", map[string]string{
		"fullName": "Other", "email": "a@x.com", "password": "secret2",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for duplicate email, got %d", code)
	}
}

func TestAdminLogin_WrongSecurityCode(t *testing.T) {
	e := newEnv(t)

	code, _ := e.request(t, http.MethodPost, "/admin/login", "", map[string]string{
		"email": "admin@x.com", "password": "adminpass", "securityCode": "wrong",
	})
	if code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 for wrong security code, got %d", code)
	}
}

func TestCreateConsultation_Anonymous(t *testing.T) {
	e := newEnv(t)

	code, body := e.request(t, http.MethodPost, "/consultation", "", consultationBody())
	if code != http.StatusOK {
		t.Fatalf("CreateConsultation returned %d: %v", code, body)
	}
	bookingID, _ := body["bookingId"].(string)
	if len(bookingID) < 4 || bookingID[:3] != "RE-" {
		t.Errorf("Expected RE- booking id, got %q", bookingID)
	}
	consultation, _ := body["consultation"].(map[string]interface{})
	if consultation["status"] != "pending" || consultation["paymentStatus"] != "unpaid" {
		t.Errorf("Expected pending/unpaid consultation, got %v", consultation)
	}
	if _, owned := consultation["userId"]; owned {
		t.Error("Anonymous submission must not carry a user id")
	}
}

func TestCreateConsultation_Validation(t *testing.T) {
	e := newEnv(t)

	req := consultationBody()
	req["email"] = "not-an-email"
	code, body := e.request(t, http.MethodPost, "/consultation", "", req)
	if code != http.StatusBadRequest || body["success"] != false {
		t.Fatalf("Expected 400 for invalid email, got %d: %v", code, body)
	}
}

func TestCreateConsultation_OwnedWhenAuthenticated(t *testing.T) {
	e := newEnv(t)
	token := e.signupAndLogin(t, "a@x.com")

	code, body := e.request(t, http.MethodPost, "/consultation", token, consultationBody())
	if code != http.StatusOK {
		t.Fatalf("CreateConsultation returned %d: %v", code, body)
	}
	consultation, _ := body["consultation"].(map[string]interface{})
	if consultation["userId"] == nil {
		t.Error("Authenticated submission should carry the caller's user id")
	}

	code, body = e.request(t, http.MethodGet, "/my/consultations", token, nil)
	if code != http.StatusOK {
		t.Fatalf("ListMyConsultations returned %d: %v", code, body)
	}
	list, _ := body["consultations"].([]interface{})
	if len(list) != 1 {
		t.Fatalf("Expected 1 owned consultation, got %d", len(list))
	}
}

func TestUpdateMyConsultation_Ownership(t *testing.T) {
	e := newEnv(t)
	ownerToken := e.signupAndLogin(t, "owner@x.com")
	otherToken := e.signupAndLogin(t, "other@x.com")

	code, body := e.request(t, http.MethodPost, "/consultation", ownerToken, consultationBody())
	if code != http.StatusOK {
		t.Fatalf("CreateConsultation returned %d: %v", code, body)
	}
	consultation, _ := body["consultation"].(map[string]interface{})
	id := int64(consultation["id"].(float64))

	patch := map[string]string{
		"eventType": "corporate", "eventDate": "2026-11-05",
		"location": "Bengaluru", "budget": "15L", "details": "Offsite dinner",
	}
	path := fmt.Sprintf("/my/consultations/%d", id)

	code, body = e.request(t, http.MethodPatch, path, otherToken, patch)
	if code != http.StatusForbidden {
		t.Fatalf("Expected 403 for non-owner, got %d: %v", code, body)
	}

	// Record unchanged after the rejected edit.
	code, body = e.request(t, http.MethodGet, "/my/consultations", ownerToken, nil)
	if code != http.StatusOK {
		t.Fatalf("ListMyConsultations returned %d: %v", code, body)
	}
	list, _ := body["consultations"].([]interface{})
	stored, _ := list[0].(map[string]interface{})
	if stored["eventType"] != "wedding" {
		t.Error("Rejected edit must not modify the record")
	}

	code, body = e.request(t, http.MethodPatch, path, ownerToken, patch)
	if code != http.StatusOK {
		t.Fatalf("Owner update returned %d: %v", code, body)
	}
	updated, _ := body["consultation"].(map[string]interface{})
	if updated["eventType"] != "corporate" {
		t.Error("Expected descriptive fields to be updated")
	}

	code, _ = e.request(t, http.MethodPatch, "/my/consultations/999", ownerToken, patch)
	if code != http.StatusNotFound {
		t.Fatalf("Expected 404 for missing consultation, got %d", code)
	}
}

func TestAdminRoutes_AuthTaxonomy(t *testing.T) {
	e := newEnv(t)
	userToken := e.signupAndLogin(t, "a@x.com")

	code, _ := e.request(t, http.MethodGet, "/admin/consultations", "", nil)
	if code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without a token, got %d", code)
	}

	code, _ = e.request(t, http.MethodGet, "/admin/consultations", userToken, nil)
	if code != http.StatusForbidden {
		t.Fatalf("Expected 403 for a customer token, got %d", code)
	}

	adminToken := e.adminToken(t)
	code, _ = e.request(t, http.MethodGet, "/admin/consultations", adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("Expected 200 for an admin token, got %d", code)
	}

	// And the mirror image: admin tokens are rejected on customer routes.
	code, _ = e.request(t, http.MethodGet, "/my/consultations", adminToken, nil)
	if code != http.StatusForbidden {
		t.Fatalf("Expected 403 for an admin token on /my, got %d", code)
	}
}

func TestAdminUpdateConsultation_EmptyPatchResets(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)

	code, body := e.request(t, http.MethodPost, "/consultation", "", consultationBody())
	if code != http.StatusOK {
		t.Fatalf("CreateConsultation returned %d: %v", code, body)
	}
	consultation, _ := body["consultation"].(map[string]interface{})
	path := fmt.Sprintf("/admin/consultations/%d", int64(consultation["id"].(float64)))

	code, body = e.request(t, http.MethodPatch, path, adminToken, map[string]interface{}{
		"status":            "scheduled",
		"scheduledDateTime": "2026-10-01T15:00:00Z",
		"adminComment":      "Venue walkthrough first",
	})
	if code != http.StatusOK {
		t.Fatalf("Admin update returned %d: %v", code, body)
	}
	updated, _ := body["consultation"].(map[string]interface{})
	if updated["status"] != "scheduled" || updated["adminComment"] != "Venue walkthrough first" {
		t.Fatalf("Unexpected consultation after update: %v", updated)
	}

	// Empty patch: status falls back to pending, the schedule is cleared, the
	// comment survives.
	code, body = e.request(t, http.MethodPatch, path, adminToken, map[string]interface{}{})
	if code != http.StatusOK {
		t.Fatalf("Admin update returned %d: %v", code, body)
	}
	updated, _ = body["consultation"].(map[string]interface{})
	if updated["status"] != "pending" {
		t.Errorf("Expected status to reset to pending, got %v", updated["status"])
	}
	if _, scheduled := updated["scheduledDateTime"]; scheduled {
		t.Error("Expected schedule to be cleared")
	}
	if updated["adminComment"] != "Venue walkthrough first" {
		t.Error("Omitted adminComment must not touch the stored comment")
	}

	code, _ = e.request(t, http.MethodPatch, path, adminToken, map[string]interface{}{"status": "cancelled"})
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for unknown status, got %d", code)
	}

	code, _ = e.request(t, http.MethodPatch, "/admin/consultations/999", adminToken, map[string]interface{}{})
	if code != http.StatusNotFound {
		t.Fatalf("Expected 404 for missing consultation, got %d", code)
	}
}

func TestAdminUpdateContact(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)

	code, body := e.request(t, http.MethodPost, "/contact", "", map[string]string{
		"name": "Asha Rao", "email": "a@x.com", "subject": "Pricing", "message": "How much?",
	})
	if code != http.StatusOK {
		t.Fatalf("CreateContact returned %d: %v", code, body)
	}
	contact, _ := body["contact"].(map[string]interface{})
	path := fmt.Sprintf("/admin/contacts/%d", int64(contact["id"].(float64)))

	code, body = e.request(t, http.MethodPatch, path, adminToken, map[string]interface{}{"status": "replied"})
	if code != http.StatusOK {
		t.Fatalf("Admin update returned %d: %v", code, body)
	}
	updated, _ := body["contact"].(map[string]interface{})
	if updated["status"] != "replied" {
		t.Errorf("Expected status replied, got %v", updated["status"])
	}
}

func TestPasswordResetFlow_SingleUse(t *testing.T) {
	e := newEnv(t)
	e.signupAndLogin(t, "a@x.com")

	// Unknown emails get the same success response.
	code, body := e.request(t, http.MethodPost, "/password-reset-request", "", map[string]string{"email": "nobody@x.com"})
	if code != http.StatusOK || body["success"] != true {
		t.Fatalf("Expected success for unknown email, got %d: %v", code, body)
	}

	code, _ = e.request(t, http.MethodPost, "/password-reset-request", "", map[string]string{"email": "a@x.com"})
	if code != http.StatusOK {
		t.Fatalf("Reset request returned %d", code)
	}
	token := e.mailer.lastToken
	if token == "" {
		t.Fatal("Expected reset token delivered to the mailer")
	}

	code, body = e.request(t, http.MethodPost, "/password-reset", "", map[string]string{
		"email": "a@x.com", "token": token, "newPassword": "newsecret",
	})
	if code != http.StatusOK {
		t.Fatalf("Password reset returned %d: %v", code, body)
	}

	// New password works.
	code, _ = e.request(t, http.MethodPost, "/login", "", map[string]string{"email": "a@x.com", "password": "newsecret"})
	if code != http.StatusOK {
		t.Fatalf("Login with new password returned %d", code)
	}

	// Replayed token is rejected.
	code, _ = e.request(t, http.MethodPost, "/password-reset", "", map[string]string{
		"email": "a@x.com", "token": token, "newPassword": "another1",
	})
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for replayed token, got %d", code)
	}
}

func TestPaymentIntentAndWebhook(t *testing.T) {
	e := newEnv(t)
	adminToken := e.adminToken(t)

	code, body := e.request(t, http.MethodPost, "/consultation", "", consultationBody())
	if code != http.StatusOK {
		t.Fatalf("CreateConsultation returned %d: %v", code, body)
	}
	consultation, _ := body["consultation"].(map[string]interface{})
	id := int64(consultation["id"].(float64))

	code, body = e.request(t, http.MethodPost, fmt.Sprintf("/admin/consultations/%d/payment-intent", id), adminToken, map[string]int64{"amount": 50000})
	if code != http.StatusOK {
		t.Fatalf("CreatePaymentIntent returned %d: %v", code, body)
	}
	if body["clientSecret"] == "" || body["clientSecret"] == nil {
		t.Fatal("Expected a client secret")
	}
	updated, _ := body["consultation"].(map[string]interface{})
	intentID, _ := updated["paymentIntentId"].(string)
	if intentID == "" {
		t.Fatal("Expected intent id stored on the consultation")
	}

	// Provider confirms the payment via webhook.
	e.provider.event = &payments.IntentEvent{Type: payments.EventIntentSucceeded, IntentID: intentID}
	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/payments/webhook", bytes.NewReader([]byte(`{}`)))
	if err != nil {
		t.Fatalf("Failed to build webhook request: %v", err)
	}
	req.Header.Set("Stripe-Signature", "t=1,v1=sig")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Webhook request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Webhook returned %d", resp.StatusCode)
	}

	code, body = e.request(t, http.MethodGet, "/admin/consultations", adminToken, nil)
	if code != http.StatusOK {
		t.Fatalf("AdminListConsultations returned %d", code)
	}
	list, _ := body["consultations"].([]interface{})
	paid, _ := list[0].(map[string]interface{})
	if paid["paymentStatus"] != "paid" {
		t.Errorf("Expected payment status paid after webhook, got %v", paid["paymentStatus"])
	}

	code, _ = e.request(t, http.MethodPost, fmt.Sprintf("/admin/consultations/%d/payment-intent", id), adminToken, map[string]int64{"amount": 0})
	if code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for zero amount, got %d", code)
	}
}

func TestInvalidJSON(t *testing.T) {
	e := newEnv(t)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/signup", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400 for malformed JSON, got %d", resp.StatusCode)
	}
}
