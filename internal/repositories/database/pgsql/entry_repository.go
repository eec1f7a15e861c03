package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	portsrepo "github.com/SscSPs/ledgerify/internal/core/ports/repositories"
	"github.com/SscSPs/ledgerify/internal/models"
	"github.com/SscSPs/ledgerify/internal/utils/mapping"
	"github.com/SscSPs/ledgerify/internal/utils/pagination"
)

var entryColumns = []string{
	"entry_id", "kind", "adjustment_type", "description", "entry_date", "status", "rejection_reason", "user_id",
	"created_at", "created_by", "last_updated_at", "last_updated_by",
}

var lineColumns = []string{
	"line_id", "entry_id", "line_no", "account_id", "debit", "credit", "file_name", "file_url", "file_type",
}

type PgxEntryRepository struct {
	BaseRepository
}

// newPgxEntryRepository creates a new repository for entries and their lines.
func newPgxEntryRepository(db DB) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

// InsertHeader inserts the entry header only.
func (r *PgxEntryRepository) InsertHeader(ctx context.Context, entry domain.Entry) error {
	m := mapping.ToModelEntry(entry)
	query, args, err := psql.Insert("entries").
		Columns(entryColumns...).
		Values(
			m.EntryID, m.Kind, m.AdjustmentType, m.Description, m.EntryDate, m.Status, m.RejectionReason, m.UserID,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		).ToSql()
	if err != nil {
		return buildError(err, "entry")
	}

	if _, err := r.Q(ctx).Exec(ctx, query, args...); err != nil {
		return mapError(err, "entry", m.EntryID)
	}
	return nil
}

// InsertLines inserts all lines of an entry in one statement, numbered in slice order.
func (r *PgxEntryRepository) InsertLines(ctx context.Context, lines []domain.Line) error {
	if len(lines) == 0 {
		return nil
	}

	builder := psql.Insert("entry_lines").Columns(lineColumns...)
	for i, l := range lines {
		m := mapping.ToModelEntryLine(l, i+1)
		builder = builder.Values(m.LineID, m.EntryID, m.LineNo, m.AccountID, m.Debit, m.Credit, m.FileName, m.FileURL, m.FileType)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return buildError(err, "entry line")
	}

	if _, err := r.Q(ctx).Exec(ctx, query, args...); err != nil {
		return mapError(err, "entry lines of", lines[0].EntryID)
	}
	return nil
}

// DeleteHeader removes an entry header; its lines go with it (ON DELETE CASCADE).
func (r *PgxEntryRepository) DeleteHeader(ctx context.Context, entryID string) error {
	query, args, err := psql.Delete("entries").
		Where(squirrel.Eq{"entry_id": entryID}).
		ToSql()
	if err != nil {
		return buildError(err, "entry")
	}

	if _, err := r.Q(ctx).Exec(ctx, query, args...); err != nil {
		return mapError(err, "entry", entryID)
	}
	return nil
}

// UpdateStatus moves an entry from one status to another. The status guard
// lets only one of several concurrent transitions win.
func (r *PgxEntryRepository) UpdateStatus(ctx context.Context, entryID string, from, to domain.EntryStatus, reason string, userID string, now time.Time) error {
	var reasonArg *string
	if reason != "" {
		reasonArg = &reason
	}

	query, args, err := psql.Update("entries").
		Set("status", string(to)).
		Set("rejection_reason", reasonArg).
		Set("last_updated_at", now).
		Set("last_updated_by", userID).
		Where(squirrel.Eq{"entry_id": entryID}).
		Where(squirrel.Eq{"status": string(from)}).
		ToSql()
	if err != nil {
		return buildError(err, "entry")
	}

	tag, err := r.Q(ctx).Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "entry", entryID)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is no longer %s", apperrors.ErrConflict, entryID, from)
	}
	return nil
}

// FindEntryByID retrieves an entry header with its lines.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error) {
	query, args, err := psql.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"entry_id": entryID}).
		ToSql()
	if err != nil {
		return nil, buildError(err, "entry")
	}

	var m models.Entry
	if err := pgxscan.Get(ctx, r.Q(ctx), &m, query, args...); err != nil {
		return nil, mapError(err, "entry", entryID)
	}

	lines, err := r.selectLines(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entries := mapping.AttachLines([]domain.Entry{mapping.ToDomainEntry(m)}, lines)
	return &entries[0], nil
}

// FindLinesByEntryID retrieves the lines of one entry in line order.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.Line, error) {
	lines, err := r.selectLines(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLineSlice(lines), nil
}

func (r *PgxEntryRepository) selectLines(ctx context.Context, entryIDs []string) ([]models.EntryLine, error) {
	if len(entryIDs) == 0 {
		return nil, nil
	}
	query, args, err := psql.Select(lineColumns...).
		From("entry_lines").
		Where(squirrel.Eq{"entry_id": entryIDs}).
		OrderBy("entry_id", "line_no").
		ToSql()
	if err != nil {
		return nil, buildError(err, "entry line")
	}

	var lines []models.EntryLine
	if err := pgxscan.Select(ctx, r.Q(ctx), &lines, query, args...); err != nil {
		return nil, mapError(err, "entry lines", fmt.Sprintf("%v", entryIDs))
	}
	return lines, nil
}

// ListEntries retrieves a page of entries, newest first, with their lines.
// Pages are keyed on (entry_date, created_at, entry_id).
func (r *PgxEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error) {
	builder := psql.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"kind": string(filter.Kind)}).
		OrderBy("entry_date DESC", "created_at DESC", "entry_id DESC").
		Limit(uint64(limit + 1))
	if filter.Status != "" {
		builder = builder.Where(squirrel.Eq{"status": string(filter.Status)})
	}
	if filter.UserID != "" {
		builder = builder.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
		builder = builder.Where(
			squirrel.Expr("(entry_date, created_at, entry_id) < (?, ?, ?)", cursor.EntryDate, cursor.CreatedAt, cursor.EntryID),
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, nil, buildError(err, "entry")
	}

	var ms []models.Entry
	if err := pgxscan.Select(ctx, r.Q(ctx), &ms, query, args...); err != nil {
		return nil, nil, mapError(err, "entries", "list")
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.EncodeToken(pagination.Cursor{
			EntryDate: last.EntryDate,
			CreatedAt: last.CreatedAt,
			EntryID:   last.EntryID,
		})
		next = &token
	}

	entries, err := r.withLines(ctx, ms)
	if err != nil {
		return nil, nil, err
	}
	return entries, next, nil
}

// ListApprovedEntries retrieves every approved entry dated on or before through,
// oldest first, with lines. A nil through loads the whole history.
func (r *PgxEntryRepository) ListApprovedEntries(ctx context.Context, through *time.Time) ([]domain.Entry, error) {
	query, args, err := psql.Select(entryColumns...).
		From("entries").
		Where(approvedThrough("", through)).
		OrderBy("entry_date", "created_at", "entry_id").
		ToSql()
	if err != nil {
		return nil, buildError(err, "entry")
	}

	var ms []models.Entry
	if err := pgxscan.Select(ctx, r.Q(ctx), &ms, query, args...); err != nil {
		return nil, mapError(err, "entries", "approved")
	}

	// Lines are joined on the same predicate; the history can outgrow a bind list.
	lineQuery, lineArgs, err := psql.Select(qualified("l", lineColumns)...).
		From("entry_lines l").
		Join("entries e ON e.entry_id = l.entry_id").
		Where(approvedThrough("e.", through)).
		OrderBy("l.entry_id", "l.line_no").
		ToSql()
	if err != nil {
		return nil, buildError(err, "entry line")
	}

	var lines []models.EntryLine
	if err := pgxscan.Select(ctx, r.Q(ctx), &lines, lineQuery, lineArgs...); err != nil {
		return nil, mapError(err, "entry lines", "approved")
	}

	entries := make([]domain.Entry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainEntry(m)
	}
	return mapping.AttachLines(entries, lines), nil
}

func approvedThrough(prefix string, through *time.Time) squirrel.And {
	pred := squirrel.And{squirrel.Eq{prefix + "status": string(domain.StatusApproved)}}
	if through != nil {
		pred = append(pred, squirrel.LtOrEq{prefix + "entry_date": *through})
	}
	return pred
}

func qualified(alias string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}

func (r *PgxEntryRepository) withLines(ctx context.Context, ms []models.Entry) ([]domain.Entry, error) {
	entries := make([]domain.Entry, len(ms))
	ids := make([]string, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainEntry(m)
		ids[i] = m.EntryID
	}

	lines, err := r.selectLines(ctx, ids)
	if err != nil {
		return nil, err
	}
	return mapping.AttachLines(entries, lines), nil
}

// CountLinesByAccount returns how many lines reference the account.
func (r *PgxEntryRepository) CountLinesByAccount(ctx context.Context, accountID string) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("entry_lines").
		Where(squirrel.Eq{"account_id": accountID}).
		ToSql()
	if err != nil {
		return 0, buildError(err, "entry line")
	}

	var count int
	if err := r.Q(ctx).QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, mapError(err, "entry lines of account", accountID)
	}
	return count, nil
}
