package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry is the row shape of the entries table (header only).
type Entry struct {
	EntryID         string    `db:"entry_id"`
	Kind            string    `db:"kind"`
	AdjustmentType  *string   `db:"adjustment_type"` // Nullable, set for adjusting entries
	Description     string    `db:"description"`
	EntryDate       time.Time `db:"entry_date"`
	Status          string    `db:"status"`
	RejectionReason *string   `db:"rejection_reason"` // Nullable
	UserID          string    `db:"user_id"`
	AuditFields
}

// EntryLine is the row shape of the entry_lines table.
type EntryLine struct {
	LineID    string          `db:"line_id"`
	EntryID   string          `db:"entry_id"`
	LineNo    int             `db:"line_no"`
	AccountID string          `db:"account_id"`
	Debit     decimal.Decimal `db:"debit"`
	Credit    decimal.Decimal `db:"credit"`
	FileName  *string         `db:"file_name"`
	FileURL   *string         `db:"file_url"`
	FileType  *string         `db:"file_type"`
}
