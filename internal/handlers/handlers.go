package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/service"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/auth"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/config"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/logger"
)

// DB is the slice of pgxpool.Pool the health probes need.
type DB interface {
	Ping(ctx context.Context) error
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Handlers struct {
	authService    service.AuthService
	bookingService service.BookingService
	paymentService service.PaymentService
	db             DB
	config         *config.Config
}

func New(
	authService service.AuthService,
	bookingService service.BookingService,
	paymentService service.PaymentService,
	db DB,
	config *config.Config,
) *Handlers {
	return &Handlers{
		authService:    authService,
		bookingService: bookingService,
		paymentService: paymentService,
		db:             db,
		config:         config,
	}
}

// Routes wires the full /api surface.
func (h *Handlers) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/db-health", h.DBHealth)
	r.Get("/db-test", h.DBTest)

	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Post("/admin/login", h.AdminLogin)
	r.Post("/password-reset-request", h.PasswordResetRequest)
	r.Post("/password-reset", h.PasswordReset)

	r.With(h.OptionalAuth).Post("/consultation", h.CreateConsultation)
	r.With(h.OptionalAuth).Post("/contact", h.CreateContact)

	r.Post("/payments/webhook", h.PaymentWebhook)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireAdmin)
		r.Get("/consultations", h.AdminListConsultations)
		r.Get("/contacts", h.AdminListContacts)
		r.Patch("/consultations/{id}", h.AdminUpdateConsultation)
		r.Patch("/contacts/{id}", h.AdminUpdateContact)
		r.Post("/consultations/{id}/payment-intent", h.CreatePaymentIntent)
	})

	r.Route("/my", func(r chi.Router) {
		r.Use(h.RequireUser)
		r.Get("/consultations", h.ListMyConsultations)
		r.Patch("/consultations/{id}", h.UpdateMyConsultation)
		r.Get("/contacts", h.ListMyContacts)
	})

	r.With(h.RequireUser).Get("/me", h.Me)

	return r
}

type principalKeyType struct{}

var principalKey principalKeyType

func claimsFrom(r *http.Request) *auth.Claims {
	if claims, ok := r.Context().Value(principalKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

func (h *Handlers) parseBearer(r *http.Request) (*auth.Claims, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return nil, false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	claims, err := auth.Parse(token, h.config.Auth.JWTSecret)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// RequireUser admits customer bearer tokens only.
func (h *Handlers) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.parseBearer(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		if claims.IsAdmin {
			writeError(w, http.StatusForbidden, "Customer access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), claims)))
	})
}

// RequireAdmin admits tokens carrying the isAdmin flag only.
func (h *Handlers) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := h.parseBearer(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		if !claims.IsAdmin {
			writeError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), claims)))
	})
}

// OptionalAuth attaches a principal when a valid bearer token is present and
// lets anonymous requests through untouched.
func (h *Handlers) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := h.parseBearer(r); ok {
			r = r.WithContext(withPrincipal(r.Context(), claims))
		}
		next.ServeHTTP(w, r)
	})
}

func withPrincipal(ctx context.Context, claims *auth.Claims) context.Context {
	ctx = context.WithValue(ctx, principalKey, claims)
	return context.WithValue(ctx, logger.PrincipalKey, claims.Sub)
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]interface{}{
		"success": false,
		"message": message,
	})
}

// writeServiceError maps service-layer failures onto the HTTP taxonomy.
// Internal errors get a generic message; detail stays in the logs.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrDuplicateEmail), errors.Is(err, service.ErrInvalidResetToken):
		writeError(w, http.StatusBadRequest, err.Error())
	case strings.Contains(err.Error(), "validation failed"):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.ErrorContext(r.Context(), "Request failed", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "Something went wrong")
	}
}
