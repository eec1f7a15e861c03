package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
	"github.com/SscSPs/ledgerify/internal/dto"
)

var (
	ErrEntryAccountMissing  = errors.New("entry references an unknown account")
	ErrEntryAccountInactive = errors.New("entry references an inactive account")
	ErrRejectionReason      = errors.New("a rejection reason is required")
	ErrNotReviewer          = errors.New("only managers may approve or reject entries")
)

// entryService runs the review workflow of journal and adjusting entries.
type entryService struct {
	BaseService
	entryRepo   portsrepo.EntryRepositoryFacade
	accountRepo portsrepo.AccountReader
	userSvc     portssvc.UserReaderSvc
	balanceSvc  portssvc.BalanceSvc
	eventLog    portssvc.EventLogSvc
}

// NewEntryService creates the entry workflow service.
func NewEntryService(
	entryRepo portsrepo.EntryRepositoryFacade,
	accountRepo portsrepo.AccountReader,
	userSvc portssvc.UserReaderSvc,
	balanceSvc portssvc.BalanceSvc,
	eventLog portssvc.EventLogSvc,
	opts ...ServiceOption,
) portssvc.EntrySvcFacade {
	return &entryService{
		BaseService: newBaseService(opts...),
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
		userSvc:     userSvc,
		balanceSvc:  balanceSvc,
		eventLog:    eventLog,
	}
}

var _ portssvc.EntrySvcFacade = (*entryService)(nil)

func buildLines(entryID string, req dto.CreateEntryRequest) []domain.Line {
	lines := make([]domain.Line, 0, len(req.DebitLines)+len(req.CreditLines))
	add := func(l dto.EntryLineRequest, debit bool) {
		line := domain.Line{
			LineID:    uuid.NewString(),
			EntryID:   entryID,
			AccountID: l.AccountID,
			Debit:     decimal.Zero,
			Credit:    decimal.Zero,
		}
		if debit {
			line.Debit = l.Amount
		} else {
			line.Credit = l.Amount
		}
		if l.Attachment != nil {
			line.Attachment = &domain.Attachment{
				FileName: l.Attachment.FileName,
				FileURL:  l.Attachment.FileURL,
				FileType: l.Attachment.FileType,
			}
		}
		lines = append(lines, line)
	}
	for _, l := range req.DebitLines {
		add(l, true)
	}
	for _, l := range req.CreditLines {
		add(l, false)
	}
	return lines
}

// checkAccounts makes sure every referenced account exists and is active.
func (s *entryService) checkAccounts(ctx context.Context, entry domain.Entry) error {
	ids := entry.AccountIDs()
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, ids)
	if err != nil {
		s.LogError(ctx, err, "Failed to fetch accounts for entry", slog.String("entry_id", entry.EntryID))
		return fmt.Errorf("failed to fetch accounts: %w", err)
	}
	for _, id := range ids {
		acc, ok := accounts[id]
		if !ok {
			return fmt.Errorf("%w: %w '%s'", apperrors.ErrValidation, ErrEntryAccountMissing, id)
		}
		if !acc.IsActive {
			return fmt.Errorf("%w: %w '%s' (%d %s)", apperrors.ErrValidation, ErrEntryAccountInactive, id, acc.AccountNumber, acc.Name)
		}
	}
	return nil
}

// applyEffect runs the balance engine and turns an engine error into a
// result where every account is reported as failed. The entry itself stays.
func (s *entryService) applyEffect(ctx context.Context, entry domain.Entry, direction domain.BalanceDirection, actorID string) *domain.BatchResult {
	result, err := s.balanceSvc.ApplyOrReverseEntryEffect(ctx, entry.EntryID, direction, actorID)
	if err != nil {
		s.LogError(ctx, err, "Balance update failed, entry kept",
			slog.String("entry_id", entry.EntryID),
			slog.String("direction", string(direction)))
		result = domain.BatchResult{EntryID: entry.EntryID, Direction: direction, Succeeded: []string{}}
		for _, id := range entry.AccountIDs() {
			result.Failed = append(result.Failed, domain.AccountFailure{AccountID: id, Reason: err.Error()})
		}
	}
	if result.HasFailures() {
		s.LogWarn(ctx, "Entry balance effect partially applied", slog.String("error", result.Err().Error()))
	}
	return &result
}

// CreateEntry implements portssvc.EntryWriterSvc
func (s *entryService) CreateEntry(ctx context.Context, kind domain.EntryKind, req dto.CreateEntryRequest, creatorID string) (*domain.EntryOutcome, error) {
	role, err := s.userSvc.GetUserRole(ctx, creatorID)
	if err != nil {
		s.LogWarn(ctx, "Could not resolve creator role", slog.String("user_id", creatorID), slog.String("error", err.Error()))
		return nil, err
	}

	now := s.Now()
	entryDate := now
	if req.EntryDate != nil {
		entryDate = req.EntryDate.UTC()
	}

	entryID := uuid.NewString()
	entry := domain.Entry{
		EntryID:        entryID,
		Kind:           kind,
		AdjustmentType: strings.TrimSpace(req.AdjustmentType),
		Description:    req.Description,
		EntryDate:      entryDate,
		Status:         domain.InitialStatus(role),
		UserID:         creatorID,
		Lines:          buildLines(entryID, req),
		AuditFields:    domain.NewAuditFields(creatorID, now),
	}

	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	if err := s.checkAccounts(ctx, entry); err != nil {
		return nil, err
	}

	if err := s.entryRepo.InsertHeader(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save entry header", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}
	if err := s.entryRepo.InsertLines(ctx, entry.Lines); err != nil {
		s.LogError(ctx, err, "Failed to save entry lines, removing header", slog.String("entry_id", entryID))
		if delErr := s.entryRepo.DeleteHeader(ctx, entryID); delErr != nil {
			s.LogError(ctx, delErr, "Failed to remove orphaned entry header", slog.String("entry_id", entryID))
			return nil, fmt.Errorf("%w: entry %s left without lines (lines: %v): %w", apperrors.ErrCompensationFailed, entryID, err, delErr)
		}
		return nil, fmt.Errorf("failed to save entry lines: %w", err)
	}

	outcome := &domain.EntryOutcome{Entry: &entry}
	if entry.Status == domain.StatusApproved {
		outcome.Balance = s.applyEffect(ctx, entry, domain.DirectionApply, creatorID)
	}

	s.eventLog.Record(ctx, domain.TableEntries, entryID, creatorID, domain.ActionInsert, nil, entry)
	s.LogInfo(ctx, "Entry created",
		slog.String("entry_id", entryID),
		slog.String("kind", string(kind)),
		slog.String("status", string(entry.Status)))
	return outcome, nil
}

// UpdateEntryStatus implements portssvc.EntryWriterSvc
func (s *entryService) UpdateEntryStatus(ctx context.Context, kind domain.EntryKind, entryID string, req dto.UpdateEntryStatusRequest, actorID string) (*domain.EntryOutcome, error) {
	role, err := s.userSvc.GetUserRole(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !role.CanReviewEntries() {
		s.LogWarn(ctx, "Status change denied", slog.String("user_id", actorID), slog.String("role", string(role)))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrForbidden, ErrNotReviewer)
	}
	if !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: unknown status '%s'", apperrors.ErrValidation, req.Status)
	}

	current, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if current.Kind != kind {
		return nil, fmt.Errorf("%w: %s entry %s", apperrors.ErrNotFound, strings.ToLower(string(kind)), entryID)
	}

	reason := strings.TrimSpace(req.RejectionReason)
	if req.Status == domain.StatusRejected && reason == "" {
		if kind == domain.KindOrdinary {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, ErrRejectionReason)
		}
		s.LogWarn(ctx, "Adjusting entry rejected without a reason", slog.String("entry_id", entryID))
	}
	if req.Status != domain.StatusRejected {
		reason = ""
	}

	before := *current
	now := s.Now()
	if err := s.entryRepo.UpdateStatus(ctx, entryID, before.Status, req.Status, reason, actorID, now); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.LogWarn(ctx, "Entry status changed by another request",
				slog.String("entry_id", entryID),
				slog.String("expected", string(before.Status)))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to update entry status", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to update entry status: %w", err)
	}

	updated := *current
	updated.Status = req.Status
	updated.RejectionReason = reason
	updated.Touch(actorID, now)

	outcome := &domain.EntryOutcome{Entry: &updated}
	if direction, ok := domain.PlanTransition(before.Status, req.Status); ok {
		outcome.Balance = s.applyEffect(ctx, updated, direction, actorID)
	}

	s.eventLog.Record(ctx, domain.TableEntries, entryID, actorID, domain.ActionUpdate, before, updated)
	s.LogInfo(ctx, "Entry status updated",
		slog.String("entry_id", entryID),
		slog.String("from", string(before.Status)),
		slog.String("to", string(req.Status)))
	return outcome, nil
}

// GetEntryByID implements portssvc.EntryReaderSvc
func (s *entryService) GetEntryByID(ctx context.Context, kind domain.EntryKind, entryID string, userID string) (*domain.Entry, error) {
	role, err := s.userSvc.GetUserRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Kind != kind {
		return nil, fmt.Errorf("%w: %s entry %s", apperrors.ErrNotFound, strings.ToLower(string(kind)), entryID)
	}
	if !role.CanReviewEntries() && entry.UserID != userID {
		return nil, fmt.Errorf("%w: entry %s belongs to another user", apperrors.ErrForbidden, entryID)
	}
	return entry, nil
}

// ListEntries implements portssvc.EntryReaderSvc
func (s *entryService) ListEntries(ctx context.Context, kind domain.EntryKind, params dto.ListEntriesParams, userID string) ([]domain.Entry, *string, error) {
	role, err := s.userSvc.GetUserRole(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	filter := domain.EntryFilter{Kind: kind, Status: params.Status}
	if !role.CanReviewEntries() {
		filter.UserID = userID
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, next, err := s.entryRepo.ListEntries(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entries", slog.String("kind", string(kind)))
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, next, nil
}
