package repositories

import (
	"context"

	"github.com/SscSPs/ledgerify/internal/core/domain"
)

// EventLogRepository stores the append-only audit trail.
type EventLogRepository interface {
	AppendEvent(ctx context.Context, record domain.EventLogRecord) error
	ListEvents(ctx context.Context, filter domain.EventLogFilter) ([]domain.EventLogRecord, error)
}
