package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/dto"
	"github.com/SscSPs/ledgerify/internal/utils"
)

// systemUserID marks records created by the application itself.
const systemUserID = "system"

var ErrUserInactive = errors.New("user is inactive")

type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	eventLog portssvc.EventLogSvc
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, eventLog portssvc.EventLogSvc, opts ...ServiceOption) portssvc.UserSvcFacade {
	return &userService{
		BaseService: newBaseService(opts...),
		userRepo:    userRepo,
		eventLog:    eventLog,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get user", slog.String("user_id", userID))
		}
		return nil, err
	}
	return user, nil
}

// GetUserRole implements portssvc.UserReaderSvc. Inactive or deleted users have no authority.
func (s *userService) GetUserRole(ctx context.Context, userID string) (domain.Role, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !user.IsActive || user.DeletedAt != nil {
		return "", fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrUserInactive)
	}
	return user.Role, nil
}

func (s *userService) newUser(username, email, password string, role domain.Role, creatorID string) (domain.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	now := s.Now()
	return domain.User{
		UserID:       uuid.NewString(),
		Username:     strings.TrimSpace(username),
		Email:        strings.TrimSpace(email),
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
		AuditFields:  domain.NewAuditFields(creatorID, now),
	}, nil
}

func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest, requestingUserID string) (*domain.User, error) {
	role, err := s.GetUserRole(ctx, requestingUserID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdministrator {
		return nil, fmt.Errorf("%w: only administrators may create users", apperrors.ErrForbidden)
	}
	if !req.Role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role '%s'", apperrors.ErrValidation, req.Role)
	}

	user, err := s.newUser(req.Username, req.Email, req.Password, req.Role, requestingUserID)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		s.LogError(ctx, err, "Failed to save user", slog.String("username", user.Username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.eventLog.Record(ctx, domain.TableUsers, user.UserID, requestingUserID, domain.ActionInsert, nil, user)
	s.LogInfo(ctx, "User created", slog.String("user_id", user.UserID), slog.String("role", string(user.Role)))
	return &user, nil
}

func (s *userService) EnsureAdministrator(ctx context.Context, username, email, password string) error {
	_, err := s.userRepo.FindUserByUsername(ctx, username)
	if err == nil {
		s.LogDebug(ctx, "Bootstrap administrator already present", slog.String("username", username))
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("failed to look up bootstrap administrator: %w", err)
	}

	user, err := s.newUser(username, email, password, domain.RoleAdministrator, systemUserID)
	if err != nil {
		return err
	}
	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create bootstrap administrator: %w", err)
	}
	s.eventLog.Record(ctx, domain.TableUsers, user.UserID, systemUserID, domain.ActionInsert, nil, user)
	s.LogInfo(ctx, "Bootstrap administrator created", slog.String("user_id", user.UserID))
	return nil
}
