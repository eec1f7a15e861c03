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
	"github.com/SscSPs/ledgerify/internal/utils/accounting"
)

var (
	ErrAccountNameMissing     = errors.New("account name is required")
	ErrNegativeInitial        = errors.New("initial balance must not be negative")
	ErrAccountHasBalance      = errors.New("account with a non-zero balance cannot be deleted")
	ErrAccountHasLines        = errors.New("account referenced by entry lines cannot be deleted")
	ErrAccountUnknownSide     = errors.New("unknown normal side")
	ErrAccountUnknownCategory = errors.New("unknown account category")
)

// accountService manages the chart of accounts. The chart is shared by every
// user; the owner is kept for auditing and per-owner name uniqueness.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	entryRepo   portsrepo.EntryReader
	txManager   portsrepo.TransactionManager
	eventLog    portssvc.EventLogSvc
}

// NewAccountService creates a new account service.
func NewAccountService(
	accountRepo portsrepo.AccountRepositoryFacade,
	entryRepo portsrepo.EntryReader,
	txManager portsrepo.TransactionManager,
	eventLog portssvc.EventLogSvc,
	opts ...ServiceOption,
) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService: newBaseService(opts...),
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		txManager:   txManager,
		eventLog:    eventLog,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAccountNameMissing)
	}
	if !req.NormalSide.IsValid() {
		return nil, fmt.Errorf("%w: %w '%s'", apperrors.ErrValidation, ErrAccountUnknownSide, req.NormalSide)
	}
	if !req.Category.IsValid() {
		return nil, fmt.Errorf("%w: %w '%s'", apperrors.ErrValidation, ErrAccountUnknownCategory, req.Category)
	}
	if err := domain.ValidateAccountNumber(req.Category, req.AccountNumber); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNegativeInitial)
	}

	now := s.Now()
	opening := domain.OpeningTotals(req.NormalSide, req.InitialBalance)
	account := domain.Account{
		AccountID:      uuid.NewString(),
		AccountNumber:  req.AccountNumber,
		Name:           name,
		Description:    req.Description,
		NormalSide:     req.NormalSide,
		Category:       req.Category,
		Subcategory:    strings.TrimSpace(req.Subcategory),
		InitialBalance: req.InitialBalance,
		Debit:          opening.Debit,
		Credit:         opening.Credit,
		Balance:        opening.Balance,
		IsActive:       true,
		UserID:         userID,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.Int("account_number", account.AccountNumber),
			slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	s.eventLog.Record(ctx, domain.TableAccounts, account.AccountID, userID, domain.ActionInsert, nil, account)
	s.LogInfo(ctx, "Account created", slog.String("account_id", account.AccountID), slog.Int("account_number", account.AccountNumber))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to fetch account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, "", limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetAccountLedger replays approved entries up to now; the cached totals are not used.
func (s *accountService) GetAccountLedger(ctx context.Context, accountID string) (*domain.Account, []domain.LedgerLine, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}

	cutoff := accounting.EndOfDay(s.Now())
	entries, err := s.entryRepo.ListApprovedEntries(ctx, &cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to load approved entries for ledger", slog.String("account_id", accountID))
		return nil, nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	lines, _, err := accounting.Ledger(*account, entries)
	if err != nil {
		return nil, nil, err
	}
	return account, lines, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	var before, after domain.Account

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.accountRepo.FindAccountByID(txCtx, accountID)
		if err != nil {
			return err
		}
		before = *current
		updated := *current

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrAccountNameMissing)
			}
			updated.Name = name
		}
		if req.Description != nil {
			updated.Description = *req.Description
		}
		if req.Subcategory != nil {
			updated.Subcategory = strings.TrimSpace(*req.Subcategory)
		}
		if req.IsActive != nil {
			updated.IsActive = *req.IsActive
		}
		if req.Category != nil {
			updated.Category = *req.Category
		}
		if req.AccountNumber != nil {
			updated.AccountNumber = *req.AccountNumber
		}
		if req.Category != nil || req.AccountNumber != nil {
			if err := domain.ValidateAccountNumber(updated.Category, updated.AccountNumber); err != nil {
				return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
			}
		}
		if req.InitialBalance != nil && !req.InitialBalance.Equal(current.InitialBalance) {
			if req.InitialBalance.IsNegative() {
				return fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrNegativeInitial)
			}
			totals := accounting.ShiftInitialBalance(current.Totals(), current.NormalSide, current.InitialBalance, *req.InitialBalance)
			updated.InitialBalance = *req.InitialBalance
			updated.Debit = totals.Debit
			updated.Credit = totals.Credit
			updated.Balance = totals.Balance
		}

		updated.Touch(userID, s.Now())

		if err := s.accountRepo.UpdateAccount(txCtx, updated); err != nil {
			return err
		}
		after = updated
		return nil
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) && !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		}
		return nil, err
	}

	s.eventLog.Record(ctx, domain.TableAccounts, accountID, userID, domain.ActionUpdate, before, after)
	return &after, nil
}

func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	var deleted domain.Account

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := s.accountRepo.FindAccountByID(txCtx, accountID)
		if err != nil {
			return err
		}
		if !account.Balance.IsZero() {
			return fmt.Errorf("%w: %w (balance %s)", apperrors.ErrConflict, ErrAccountHasBalance, account.Balance.String())
		}
		count, err := s.entryRepo.CountLinesByAccount(txCtx, accountID)
		if err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: %w (%d lines)", apperrors.ErrConflict, ErrAccountHasLines, count)
		}
		deleted = *account
		return s.accountRepo.DeleteAccount(txCtx, accountID)
	})
	if err != nil {
		s.LogWarn(ctx, "Account not deleted", slog.String("account_id", accountID), slog.String("error", err.Error()))
		return err
	}

	s.eventLog.Record(ctx, domain.TableAccounts, accountID, userID, domain.ActionDelete, deleted, nil)
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
