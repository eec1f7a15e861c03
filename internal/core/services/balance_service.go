package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/utils/accounting"
)

// balanceService keeps the cached totals of accounts in step with approved entries.
type balanceService struct {
	BaseService
	entryRepo   portsrepo.EntryReader
	accountRepo portsrepo.AccountRepositoryFacade
	txManager   portsrepo.TransactionManager
}

// NewBalanceService creates the balance maintenance engine.
func NewBalanceService(entryRepo portsrepo.EntryReader, accountRepo portsrepo.AccountRepositoryFacade, txManager portsrepo.TransactionManager, opts ...ServiceOption) portssvc.BalanceSvc {
	return &balanceService{
		BaseService: newBaseService(opts...),
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
	}
}

var _ portssvc.BalanceSvc = (*balanceService)(nil)

// ApplyOrReverseEntryEffect implements portssvc.BalanceSvc.
// Each account is updated in its own transaction holding a row lock, so two
// transitions touching the same account serialize instead of losing an update.
// Accounts are independent: a failure on one is recorded and the rest proceed.
func (s *balanceService) ApplyOrReverseEntryEffect(ctx context.Context, entryID string, direction domain.BalanceDirection, actorID string) (domain.BatchResult, error) {
	result := domain.BatchResult{EntryID: entryID, Direction: direction, Succeeded: []string{}}
	if direction != domain.DirectionApply && direction != domain.DirectionReverse {
		return result, fmt.Errorf("%w: unknown balance direction '%s'", apperrors.ErrValidation, direction)
	}

	lines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load entry lines, no account updated", slog.String("entry_id", entryID), slog.String("direction", string(direction)))
		return result, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	if len(lines) == 0 {
		s.LogInfo(ctx, "Entry has no lines, nothing to update", slog.String("entry_id", entryID))
		return result, nil
	}

	sums, accountIDs := accounting.SumByAccount(lines)
	now := s.Now()

	for _, accountID := range accountIDs {
		accountSums := sums[accountID]
		err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			account, err := s.accountRepo.FindAccountByID(txCtx, accountID)
			if err != nil {
				return err
			}
			next, err := accounting.ComputeNewTotals(account.Totals(), account.NormalSide, accountSums, direction)
			if err != nil {
				return err
			}
			return s.accountRepo.UpdateAccountTotals(txCtx, accountID, next, actorID, now)
		})
		if err != nil {
			s.LogError(ctx, err, "Failed to update account totals, skipping account",
				slog.String("entry_id", entryID),
				slog.String("account_id", accountID),
				slog.String("direction", string(direction)))
			result.Failed = append(result.Failed, domain.AccountFailure{AccountID: accountID, Reason: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, accountID)
	}

	if result.HasFailures() {
		s.LogWarn(ctx, "Balance update finished with failures",
			slog.String("entry_id", entryID),
			slog.Int("succeeded", len(result.Succeeded)),
			slog.Int("failed", len(result.Failed)))
	} else {
		s.LogDebug(ctx, "Balance update finished", slog.String("entry_id", entryID), slog.Int("accounts", len(result.Succeeded)))
	}
	return result, nil
}
