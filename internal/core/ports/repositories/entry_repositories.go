package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
)

// EntryReader defines read operations for entries and their lines
type EntryReader interface {
	// FindEntryByID retrieves an entry header with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.Entry, error)

	// FindLinesByEntryID retrieves the lines of one entry.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.Line, error)

	// ListEntries retrieves a page of entry headers, newest first, using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Entry, *string, error)

	// ListApprovedEntries retrieves every approved entry dated on or before through, with lines.
	// A nil through returns all approved entries.
	ListApprovedEntries(ctx context.Context, through *time.Time) ([]domain.Entry, error)

	// CountLinesByAccount returns how many lines reference the account.
	CountLinesByAccount(ctx context.Context, accountID string) (int, error)
}

// EntryWriter defines write operations for entries. Header and lines are
// written separately; callers compensate with DeleteHeader when lines fail.
type EntryWriter interface {
	// InsertHeader persists the entry header without lines.
	InsertHeader(ctx context.Context, entry domain.Entry) error

	// InsertLines persists the lines of an entry.
	InsertLines(ctx context.Context, lines []domain.Line) error

	// DeleteHeader removes an entry header and any lines attached to it.
	DeleteHeader(ctx context.Context, entryID string) error

	// UpdateStatus moves an entry from one status to another and sets its rejection reason.
	// It returns apperrors.ErrConflict when the entry is no longer in the from status.
	UpdateStatus(ctx context.Context, entryID string, from, to domain.EntryStatus, reason string, userID string, now time.Time) error
}

// EntryRepositoryFacade combines all entry-related repository interfaces
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
}
