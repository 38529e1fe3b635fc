package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Ram-82/Ragam-Elyssia-b/internal/domain"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/mailer"
	"github.com/Ram-82/Ragam-Elyssia-b/internal/repository"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/auth"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/config"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/events"
	"github.com/Ram-82/Ragam-Elyssia-b/pkg/logger"
)

type LoginResponse struct {
	Token string           `json:"token"`
	User  *domain.UserInfo `json:"user"`
}

type AdminLoginResponse struct {
	Token string            `json:"token"`
	Admin *domain.AdminInfo `json:"admin"`
}

type AuthService interface {
	Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*LoginResponse, error)
	AdminLogin(ctx context.Context, req *domain.AdminLoginRequest) (*AdminLoginResponse, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *domain.PasswordResetConfirm) error
}

type authService struct {
	userRepo  repository.UserRepository
	adminRepo repository.AdminRepository
	mailer    mailer.Service
	eventBus  events.Publisher
	config    *config.Config
}

func NewAuthService(
	userRepo repository.UserRepository,
	adminRepo repository.AdminRepository,
	mailer mailer.Service,
	eventBus events.Publisher,
	config *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		adminRepo: adminRepo,
		mailer:    mailer,
		eventBus:  eventBus,
		config:    config,
	}
}

func (s *authService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	existing, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, req, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Claim consultations and inquiries submitted anonymously with this email.
	if err := s.userRepo.LinkExistingSubmissions(ctx, user.ID, user.Email); err != nil {
		logger.WarnContext(ctx, "Failed to link existing submissions", "error", err, "user_id", user.ID)
	}

	event := events.UserRegisteredEvent{
		UserID:    user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		CreatedAt: user.CreatedAt,
	}
	if err := s.eventBus.Publish(ctx, events.UserRegistered, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish user registered event", "error", err, "user_id", user.ID)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, req *domain.LoginRequest) (*LoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.NewToken(user.ID, user.Email, user.Role, false, s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToUserInfo(),
	}, nil
}

func (s *authService) AdminLogin(ctx context.Context, req *domain.AdminLoginRequest) (*AdminLoginResponse, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	admin, err := s.adminRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find admin: %w", err)
	}
	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	valid, err := auth.VerifyPassword(req.Password, admin.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, ErrInvalidCredentials
	}

	// The shared security code is required in addition to the password.
	if err := bcrypt.CompareHashAndPassword([]byte(admin.SecurityCodeHash), []byte(req.SecurityCode)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.NewToken(admin.ID, admin.Email, domain.RoleAdmin, true, s.config.Auth.JWTSecret, s.config.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &AdminLoginResponse{
		Token: token,
		Admin: admin.ToAdminInfo(),
	}, nil
}

func (s *authService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// RequestPasswordReset always succeeds from the caller's point of view so
// the response never reveals whether an account exists.
func (s *authService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to look up user for password reset", "error", err)
		return nil
	}
	if user == nil {
		return nil
	}

	token, expiry, err := auth.NewResetToken(s.config.Auth.ResetTokenTTL)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to generate reset token", "error", err, "user_id", user.ID)
		return nil
	}

	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiry); err != nil {
		logger.ErrorContext(ctx, "Failed to store reset token", "error", err, "user_id", user.ID)
		return nil
	}

	event := events.PasswordResetAskedEvent{
		Email:       user.Email,
		RequestedAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.PasswordResetAsked, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish password reset event", "error", err, "user_id", user.ID)
	}

	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s", s.config.App.BaseURL, token, user.Email)
	if err := s.mailer.SendPasswordResetEmail(user.Email, user.FullName, resetURL, token); err != nil {
		logger.ErrorContext(ctx, "Failed to send password reset email", "error", err, "user_id", user.ID)
	}

	return nil
}

func (s *authService) ResetPassword(ctx context.Context, req *domain.PasswordResetConfirm) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil || user.ResetToken == nil || user.ResetTokenExpiry == nil {
		return ErrInvalidResetToken
	}

	if !auth.ResetTokenValid(*user.ResetToken, *user.ResetTokenExpiry, req.Token, time.Now()) {
		return ErrInvalidResetToken
	}

	passwordHash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Installs the new hash and clears the token; a replayed token fails.
	if err := s.userRepo.ResetPassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}
