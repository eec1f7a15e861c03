package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/platform/config"
	"github.com/SscSPs/ledgerify/internal/utils"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// authService checks credentials and issues JWT access tokens.
type authService struct {
	BaseService
	cfg      *config.Config
	userRepo portsrepo.UserReader
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userRepo portsrepo.UserReader, opts ...ServiceOption) portssvc.AuthSvc {
	return &authService{
		BaseService: newBaseService(opts...),
		cfg:         cfg,
		userRepo:    userRepo,
	}
}

var _ portssvc.AuthSvc = (*authService)(nil)

// Login returns the same error for an unknown user, a wrong password and an inactive user.
func (s *authService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	unauthorized := fmt.Errorf("%w: %w", apperrors.ErrUnauthorized, ErrInvalidCredentials)

	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Login for unknown user", slog.String("username", username))
			return "", time.Time{}, unauthorized
		}
		s.LogError(ctx, err, "Failed to look up user for login", slog.String("username", username))
		return "", time.Time{}, err
	}
	if !user.IsActive || user.DeletedAt != nil || !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogInfo(ctx, "Login rejected", slog.String("user_id", user.UserID))
		return "", time.Time{}, unauthorized
	}

	token, expiresAt, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", user.UserID))
		return "", time.Time{}, fmt.Errorf("%w: failed to issue token", apperrors.ErrInternal)
	}
	return token, expiresAt, nil
}
