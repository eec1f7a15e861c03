package services

import (
	"context"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/SscSPs/ledgerify/internal/dto"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the chart of accounts ordered by account number.
	// Totals come from the cached columns.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// GetAccountLedger replays the approved lines of one account with a running balance.
	GetAccountLedger(ctx context.Context, accountID string) (*domain.Account, []domain.LedgerLine, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount persists a new account owned by userID.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an existing account's details.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeleteAccount removes an account with a zero balance and no lines.
	DeleteAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
