package pgsql

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerify/internal/models"
	"github.com/SscSPs/ledgerify/internal/utils/mapping"
)

var eventLogColumns = []string{
	"event_id", "table_name", "record_id", "user_id", "action_type", "before_image", "after_image", "event_time",
}

type PgxEventLogRepository struct {
	BaseRepository
}

// newPgxEventLogRepository creates the append-only audit trail store.
func newPgxEventLogRepository(db DB) portsrepo.EventLogRepository {
	return &PgxEventLogRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.EventLogRepository = (*PgxEventLogRepository)(nil)

func (r *PgxEventLogRepository) AppendEvent(ctx context.Context, record domain.EventLogRecord) error {
	m := mapping.ToModelEventLog(record)
	query, args, err := psql.Insert("event_logs").
		Columns(eventLogColumns...).
		Values(m.EventID, m.TableName, m.RecordID, m.UserID, m.ActionType, m.BeforeImage, m.AfterImage, m.EventTime).
		ToSql()
	if err != nil {
		return buildError(err, "event log")
	}

	if _, err := r.Q(ctx).Exec(ctx, query, args...); err != nil {
		return mapError(err, "event log", m.EventID)
	}
	return nil
}

// ListEvents returns events newest first.
func (r *PgxEventLogRepository) ListEvents(ctx context.Context, filter domain.EventLogFilter) ([]domain.EventLogRecord, error) {
	builder := psql.Select(eventLogColumns...).
		From("event_logs").
		OrderBy("event_time DESC", "event_id DESC")
	if filter.TableName != "" {
		builder = builder.Where(squirrel.Eq{"table_name": filter.TableName})
	}
	if filter.RecordID != "" {
		builder = builder.Where(squirrel.Eq{"record_id": filter.RecordID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, buildError(err, "event log")
	}

	var ms []models.EventLog
	if err := pgxscan.Select(ctx, r.Q(ctx), &ms, query, args...); err != nil {
		return nil, mapError(err, "event logs", filter.TableName)
	}

	records := make([]domain.EventLogRecord, len(ms))
	for i, m := range ms {
		records[i] = mapping.ToDomainEventLog(m)
	}
	return records, nil
}
