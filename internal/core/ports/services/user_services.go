package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/SscSPs/ledgerify/internal/dto"
)

// UserReaderSvc defines read operations for user data
type UserReaderSvc interface {
	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// GetUserRole returns the role of an active user.
	GetUserRole(ctx context.Context, userID string) (domain.Role, error)
}

// UserWriterSvc defines write operations for user data
type UserWriterSvc interface {
	// CreateUser registers a new user. Only Administrators may create users.
	CreateUser(ctx context.Context, req dto.CreateUserRequest, requestingUserID string) (*domain.User, error)

	// EnsureAdministrator creates the bootstrap administrator unless the username already exists.
	EnsureAdministrator(ctx context.Context, username, email, password string) error
}

// UserSvcFacade combines all user-related service interfaces
type UserSvcFacade interface {
	UserReaderSvc
	UserWriterSvc
}

// AuthSvc authenticates users and issues access tokens.
type AuthSvc interface {
	// Login checks the credentials and returns a signed access token and its expiry.
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}
