package dto

import (
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AttachmentRequest is the metadata of an uploaded source document.
type AttachmentRequest struct {
	FileName string `json:"fileName" binding:"required"`
	FileURL  string `json:"fileURL" binding:"required"`
	FileType string `json:"fileType"`
}

// EntryLineRequest is one debit or credit line of a new entry.
type EntryLineRequest struct {
	AccountID  string             `json:"accountID" binding:"required"`
	Amount     decimal.Decimal    `json:"amount"`
	Attachment *AttachmentRequest `json:"attachment"`
}

// CreateEntryRequest defines the data needed to create a journal or adjusting entry.
type CreateEntryRequest struct {
	Description    string             `json:"description" binding:"max=1000"`
	EntryDate      *time.Time         `json:"entryDate"` // Optional, defaults to now
	AdjustmentType string             `json:"adjustmentType"`
	DebitLines     []EntryLineRequest `json:"debitLines" binding:"required,min=1,dive"`
	CreditLines    []EntryLineRequest `json:"creditLines" binding:"required,min=1,dive"`
}

// UpdateEntryStatusRequest moves an entry through the review workflow.
type UpdateEntryStatusRequest struct {
	Status          domain.EntryStatus `json:"status" binding:"required,entry_status"`
	RejectionReason string             `json:"rejectionReason"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	Status    domain.EntryStatus `form:"status" binding:"omitempty,entry_status"`
	Limit     int                `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string            `form:"nextToken"`
}

// LineResponse defines the data returned for an entry line.
type LineResponse struct {
	LineID     string             `json:"lineID"`
	AccountID  string             `json:"accountID"`
	Debit      decimal.Decimal    `json:"debit"`
	Credit     decimal.Decimal    `json:"credit"`
	Attachment *domain.Attachment `json:"attachment,omitempty"`
}

// EntryResponse defines the data returned for an entry.
type EntryResponse struct {
	EntryID         string             `json:"entryID"`
	Kind            domain.EntryKind   `json:"kind"`
	AdjustmentType  string             `json:"adjustmentType,omitempty"`
	Description     string             `json:"description"`
	EntryDate       time.Time          `json:"entryDate"`
	Status          domain.EntryStatus `json:"status"`
	RejectionReason string             `json:"rejectionReason,omitempty"`
	UserID          string             `json:"userID"`
	DebitLines      []LineResponse     `json:"debitLines"`
	CreditLines     []LineResponse     `json:"creditLines"`
	TotalDebit      decimal.Decimal    `json:"totalDebit"`
	TotalCredit     decimal.Decimal    `json:"totalCredit"`
	CreatedAt       time.Time          `json:"createdAt"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// EntryOutcomeResponse is returned from create and status updates; Warnings
// lists accounts whose cached totals could not be updated.
type EntryOutcomeResponse struct {
	Entry    EntryResponse           `json:"entry"`
	Warnings []domain.AccountFailure `json:"warnings,omitempty"`
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToLineResponses converts domain lines to their DTOs.
func ToLineResponses(lines []domain.Line) []LineResponse {
	out := make([]LineResponse, len(lines))
	for i, l := range lines {
		out[i] = LineResponse{
			LineID:     l.LineID,
			AccountID:  l.AccountID,
			Debit:      l.Debit,
			Credit:     l.Credit,
			Attachment: l.Attachment,
		}
	}
	return out
}

// ToEntryResponse converts a domain.Entry to EntryResponse DTO.
func ToEntryResponse(e *domain.Entry) EntryResponse {
	debit, credit := e.Totals()
	return EntryResponse{
		EntryID:         e.EntryID,
		Kind:            e.Kind,
		AdjustmentType:  e.AdjustmentType,
		Description:     e.Description,
		EntryDate:       e.EntryDate,
		Status:          e.Status,
		RejectionReason: e.RejectionReason,
		UserID:          e.UserID,
		DebitLines:      ToLineResponses(e.DebitLines()),
		CreditLines:     ToLineResponses(e.CreditLines()),
		TotalDebit:      debit,
		TotalCredit:     credit,
		CreatedAt:       e.CreatedAt,
		LastUpdatedAt:   e.LastUpdatedAt,
		LastUpdatedBy:   e.LastUpdatedBy,
	}
}

// ToEntryOutcomeResponse converts an outcome, surfacing balance failures as warnings.
func ToEntryOutcomeResponse(o *domain.EntryOutcome) EntryOutcomeResponse {
	resp := EntryOutcomeResponse{Entry: ToEntryResponse(o.Entry)}
	if o.Balance != nil && o.Balance.HasFailures() {
		resp.Warnings = o.Balance.Failed
	}
	return resp
}

// ToListEntriesResponse converts a page of entries.
func ToListEntriesResponse(entries []domain.Entry, nextToken *string) ListEntriesResponse {
	out := make([]EntryResponse, len(entries))
	for i := range entries {
		out[i] = ToEntryResponse(&entries[i])
	}
	return ListEntriesResponse{Entries: out, NextToken: nextToken}
}
