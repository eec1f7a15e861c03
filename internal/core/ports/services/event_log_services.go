package services

import (
	"context"

	"github.com/SscSPs/ledgerify/internal/core/domain"
)

// EventLogSvc records audit events. Recording never fails the caller.
type EventLogSvc interface {
	// Record appends an event with JSON snapshots of before and after (either may be nil).
	Record(ctx context.Context, tableName, recordID, userID string, action domain.ActionType, before, after any)

	// ListEvents returns events, newest first. Only Managers and Administrators may read the log.
	ListEvents(ctx context.Context, filter domain.EventLogFilter, userID string) ([]domain.EventLogRecord, error)
}
