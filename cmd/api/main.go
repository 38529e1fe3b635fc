package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/handlers"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/mailer"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/payments"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/repository"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/service"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/auth"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/config"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/database"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/events"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/logger"
	mw "github.com/Ram-82/Ragam-Elyssia-b/pkg/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories
	userRepo := repository.NewUserRepository(pool)
	adminRepo := repository.NewAdminRepository(pool)
	consultationRepo := repository.NewConsultationRepository(pool)
	contactRepo := repository.NewContactRepository(pool)

	if err := seedAdmin(ctx, adminRepo, cfg); err != nil {
		logger.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}

	// Collaborators
	mailService := buildMailer(cfg)
	stripeProvider := payments.NewStripeProvider(cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret)

	// Services
	authService := service.NewAuthService(userRepo, adminRepo, mailService, eventBus, cfg)
	bookingService := service.NewBookingService(consultationRepo, contactRepo, eventBus)
	paymentService := service.NewPaymentService(consultationRepo, stripeProvider, eventBus, cfg)

	h := handlers.New(authService, bookingService, paymentService, pool, cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.App.BaseURL},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Mount("/api", h.Routes())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down API server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
	}()

	logger.Info("Starting API server", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
}

func buildMailer(cfg *config.Config) mailer.Service {
	switch {
	case cfg.Email.DevMode:
		return mailer.NewDevMailer()
	case cfg.Email.MailerSendKey != "":
		return mailer.NewMailerSend(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.SMTPFrom)
	default:
		return mailer.NewSMTPMailer(cfg.Email.SMTPHost, cfg.Email.SMTPPort,
			cfg.Email.SMTPFrom, cfg.Email.SMTPUser, cfg.Email.SMTPPass, cfg.Email.SMTPUseTLS)
	}
}

// seedAdmin creates the bootstrap admin account on first start when
// ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_SECURITY_CODE are configured.
func seedAdmin(ctx context.Context, adminRepo repository.AdminRepository, cfg *config.Config) error {
	email := cfg.Auth.AdminEmail
	if email == "" || cfg.Auth.AdminPassword == "" || cfg.Auth.AdminSecurityCode == "" {
		return nil
	}

	existing, err := adminRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	passwordHash, err := auth.HashPassword(cfg.Auth.AdminPassword)
	if err != nil {
		return err
	}

	codeHash, err := bcrypt.GenerateFromPassword([]byte(cfg.Auth.AdminSecurityCode), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin, err := adminRepo.Create(ctx, email, passwordHash, string(codeHash))
	if err != nil {
		return err
	}

	logger.Info("Seeded admin account", "admin_id", admin.ID, "email", admin.Email)
	return nil
}
