package pgsql

import (
	"context"
	"fmt"

	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
)

// TxManager runs units of work in a transaction carried through the context.
// A RunInTx call made with a context that already holds a transaction joins it.
type TxManager struct {
	db DB
}

// NewTxManager creates a new TxManager.
func NewTxManager(db DB) *TxManager {
	return &TxManager{db: db}
}

var _ portsrepo.TransactionManager = (*TxManager)(nil)

// RunInTx commits when fn succeeds, rolls back when it fails and
// rolls back then re-panics when it panics.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback(ctx)
			panic(r)
		}
	}()

	if err := fn(withTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
