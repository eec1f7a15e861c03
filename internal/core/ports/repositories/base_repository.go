package repositories

import (
	"context"
)

// TransactionManager runs a unit of work inside one database transaction.
// Repositories called with the ctx passed to fn take part in the transaction.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
