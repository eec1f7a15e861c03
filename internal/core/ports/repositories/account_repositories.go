package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	// Inside a transaction the row is locked until the transaction ends.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by ID. Missing IDs are absent from the map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts ordered by account number. An empty userID lists every owner.
	ListAccounts(ctx context.Context, userID string, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates descriptive fields, the initial balance and the cached totals.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountTotals writes the cached debit/credit/balance of one account.
	UpdateAccountTotals(ctx context.Context, accountID string, totals domain.AccountTotals, userID string, now time.Time) error

	// DeleteAccount removes an account.
	DeleteAccount(ctx context.Context, accountID string) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
