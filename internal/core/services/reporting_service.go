package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/utils/accounting"
)

// reportingService loads the books and hands them to the report generator.
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	entryRepo   portsrepo.EntryReader
	generator   *accounting.ReportGenerator
}

// NewReportingService creates a new reporting service. A nil generator uses the default one.
func NewReportingService(accountRepo portsrepo.AccountReader, entryRepo portsrepo.EntryReader, generator *accounting.ReportGenerator, opts ...ServiceOption) portssvc.ReportingSvc {
	if generator == nil {
		generator = accounting.NewReportGenerator()
	}
	return &reportingService{
		BaseService: newBaseService(opts...),
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		generator:   generator,
	}
}

var _ portssvc.ReportingSvc = (*reportingService)(nil)

// loadBooks fetches every account and the approved entries through cutoff
// concurrently. A nil cutoff loads every approved entry.
func (s *reportingService) loadBooks(ctx context.Context, cutoff *time.Time) ([]domain.Account, []domain.Entry, error) {
	var (
		accounts []domain.Account
		entries  []domain.Entry
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		accounts, err = s.accountRepo.ListAccounts(gctx, "", 0, 0)
		if err != nil {
			return fmt.Errorf("failed to load accounts: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		entries, err = s.entryRepo.ListApprovedEntries(gctx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to load approved entries: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return accounts, entries, nil
}

func (s *reportingService) GenerateReport(ctx context.Context, reportType domain.ReportType, asOf, from, to *time.Time) (*domain.Report, error) {
	req := domain.ReportRequest{Type: reportType, AsOf: asOf, From: from, To: to}

	var cutoff time.Time
	switch {
	case asOf != nil:
		cutoff = accounting.EndOfDay(*asOf)
	case to != nil:
		cutoff = accounting.EndOfDay(*to)
	default:
		// Nothing to load; the generator reports the missing date.
		return s.generator.Generate(req)
	}

	accounts, entries, err := s.loadBooks(ctx, &cutoff)
	if err != nil {
		s.LogError(ctx, err, "Failed to load data for report", slog.String("report_type", string(reportType)))
		return nil, err
	}
	req.Accounts = accounts
	req.Entries = entries

	report, err := s.generator.Generate(req)
	if err != nil {
		s.LogWarn(ctx, "Report not generated", slog.String("report_type", string(reportType)), slog.String("error", err.Error()))
		return nil, err
	}
	return report, nil
}

// CheckBalanceDrift returns the accounts whose cached balance differs from the
// replayed one, plus how many accounts were checked. The cache holds every
// applied entry whatever its date, so the replay covers the whole history.
func (s *reportingService) CheckBalanceDrift(ctx context.Context) ([]domain.BalanceDrift, int, error) {
	accounts, approved, err := s.loadBooks(ctx, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to load data for drift check")
		return nil, 0, err
	}

	drifts := make([]domain.BalanceDrift, 0)
	for _, acc := range accounts {
		replayed, err := accounting.BalanceAsOf(acc, approved)
		if err != nil {
			return nil, 0, err
		}
		if replayed.Equal(acc.Balance) {
			continue
		}
		drifts = append(drifts, domain.BalanceDrift{
			AccountID:       acc.AccountID,
			AccountNumber:   acc.AccountNumber,
			Name:            acc.Name,
			CachedBalance:   acc.Balance,
			ReplayedBalance: replayed,
			Difference:      acc.Balance.Sub(replayed),
		})
	}

	if len(drifts) > 0 {
		s.LogWarn(ctx, "Cached balances drifted from ledger", slog.Int("drifted", len(drifts)), slog.Int("checked", len(accounts)))
	}
	return drifts, len(accounts), nil
}
