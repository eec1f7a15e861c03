package services

import (
	"context"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/SscSPs/ledgerify/internal/dto"
)

// BalanceSvc keeps cached account totals in step with approved entries.
type BalanceSvc interface {
	// ApplyOrReverseEntryEffect adds (Apply) or removes (Reverse) an entry's
	// lines from the totals of every account they reference. Per-account
	// failures are reported in the result; an error means no account was touched.
	ApplyOrReverseEntryEffect(ctx context.Context, entryID string, direction domain.BalanceDirection, actorID string) (domain.BatchResult, error)
}

// EntryReaderSvc defines read operations for entries
type EntryReaderSvc interface {
	// GetEntryByID retrieves an entry of the given kind with its lines.
	// Non-managers only see their own entries.
	GetEntryByID(ctx context.Context, kind domain.EntryKind, entryID string, userID string) (*domain.Entry, error)

	// ListEntries retrieves a page of entries of one kind.
	ListEntries(ctx context.Context, kind domain.EntryKind, params dto.ListEntriesParams, userID string) ([]domain.Entry, *string, error)
}

// EntryWriterSvc defines the review workflow operations
type EntryWriterSvc interface {
	// CreateEntry validates and persists a new entry. Entries created by a
	// Manager are approved and applied immediately.
	CreateEntry(ctx context.Context, kind domain.EntryKind, req dto.CreateEntryRequest, creatorID string) (*domain.EntryOutcome, error)

	// UpdateEntryStatus moves an entry to a new status, applying or reversing
	// its effect when the Approved boundary is crossed.
	UpdateEntryStatus(ctx context.Context, kind domain.EntryKind, entryID string, req dto.UpdateEntryStatusRequest, actorID string) (*domain.EntryOutcome, error)
}

// EntrySvcFacade combines all entry-related service interfaces
type EntrySvcFacade interface {
	EntryReaderSvc
	EntryWriterSvc
}
