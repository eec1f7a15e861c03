package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledgerify/internal/core/ports/services"
)

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// eventLogService writes and reads the audit trail.
type eventLogService struct {
	BaseService
	repo     portsrepo.EventLogRepository
	userRepo portsrepo.UserReader
}

// NewEventLogService creates a new event log service.
func NewEventLogService(repo portsrepo.EventLogRepository, userRepo portsrepo.UserReader, opts ...ServiceOption) portssvc.EventLogSvc {
	return &eventLogService{
		BaseService: newBaseService(opts...),
		repo:        repo,
		userRepo:    userRepo,
	}
}

var _ portssvc.EventLogSvc = (*eventLogService)(nil)

func snapshot(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

// Record never returns an error; failures are logged and the caller carries on.
func (s *eventLogService) Record(ctx context.Context, tableName, recordID, userID string, action domain.ActionType, before, after any) {
	beforeImage, err := snapshot(before)
	if err != nil {
		s.LogError(ctx, err, "Failed to encode event before image", slog.String("table", tableName), slog.String("record_id", recordID))
		return
	}
	afterImage, err := snapshot(after)
	if err != nil {
		s.LogError(ctx, err, "Failed to encode event after image", slog.String("table", tableName), slog.String("record_id", recordID))
		return
	}

	record := domain.EventLogRecord{
		EventID:     uuid.NewString(),
		TableName:   tableName,
		RecordID:    recordID,
		UserID:      userID,
		ActionType:  action,
		BeforeImage: beforeImage,
		AfterImage:  afterImage,
		EventTime:   s.Now(),
	}
	if err := s.repo.AppendEvent(ctx, record); err != nil {
		s.LogError(ctx, err, "Failed to append event log record",
			slog.String("table", tableName),
			slog.String("record_id", recordID),
			slog.String("action", string(action)))
	}
}

func (s *eventLogService) ListEvents(ctx context.Context, filter domain.EventLogFilter, userID string) ([]domain.EventLogRecord, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != domain.RoleManager && user.Role != domain.RoleAdministrator {
		return nil, fmt.Errorf("%w: event log is restricted to managers and administrators", apperrors.ErrForbidden)
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultEventLimit
	}
	if filter.Limit > maxEventLimit {
		filter.Limit = maxEventLimit
	}

	events, err := s.repo.ListEvents(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list event log", slog.String("table", filter.TableName))
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}
