package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates where an entry is in the review workflow.
type EntryStatus string

const (
	StatusPendingReview EntryStatus = "Pending Review"
	StatusApproved      EntryStatus = "Approved"
	StatusRejected      EntryStatus = "Rejected"
)

// IsValid reports whether s is one of the known statuses.
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusPendingReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// EntryKind distinguishes ordinary journal entries from period-end adjustments.
// Both kinds share the same workflow and balance semantics.
type EntryKind string

const (
	KindOrdinary  EntryKind = "ORDINARY"
	KindAdjusting EntryKind = "ADJUSTING"
)

// IsValid reports whether k is a known kind.
func (k EntryKind) IsValid() bool {
	return k == KindOrdinary || k == KindAdjusting
}

// Attachment is the metadata of a source document attached to a line.
type Attachment struct {
	FileName string `json:"fileName"`
	FileURL  string `json:"fileURL"`
	FileType string `json:"fileType"`
}

// Line is a single debit or credit line of an entry. Exactly one of Debit and
// Credit is non-zero.
type Line struct {
	LineID     string          `json:"lineID"`
	EntryID    string          `json:"entryID"`
	AccountID  string          `json:"accountID"`
	Debit      decimal.Decimal `json:"debit"`
	Credit     decimal.Decimal `json:"credit"`
	Attachment *Attachment     `json:"attachment,omitempty"`
}

// IsDebit reports whether the line sits on the debit side.
func (l Line) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the non-zero side of the line.
func (l Line) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}

// Entry is a journal entry (ordinary or adjusting) with its lines.
type Entry struct {
	EntryID         string      `json:"entryID"`
	Kind            EntryKind   `json:"kind"`
	AdjustmentType  string      `json:"adjustmentType,omitempty"`
	Description     string      `json:"description"`
	EntryDate       time.Time   `json:"entryDate"`
	Status          EntryStatus `json:"status"`
	RejectionReason string      `json:"rejectionReason,omitempty"`
	UserID          string      `json:"userID"`
	Lines           []Line      `json:"lines"`
	AuditFields
}

// DebitLines returns the lines on the debit side.
func (e Entry) DebitLines() []Line {
	out := make([]Line, 0, len(e.Lines))
	for _, l := range e.Lines {
		if l.IsDebit() {
			out = append(out, l)
		}
	}
	return out
}

// CreditLines returns the lines on the credit side.
func (e Entry) CreditLines() []Line {
	out := make([]Line, 0, len(e.Lines))
	for _, l := range e.Lines {
		if !l.IsDebit() {
			out = append(out, l)
		}
	}
	return out
}

// Totals returns the sum of debits and the sum of credits.
func (e Entry) Totals() (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

// Validate checks the structural rules of an entry before it is persisted:
// at least one line on each side, strictly positive amounts on exactly one
// side per line, exact equality of debit and credit totals, and an
// adjustment type for adjusting entries.
func (e Entry) Validate() error {
	if !e.Kind.IsValid() {
		return fmt.Errorf("unknown entry kind %q", e.Kind)
	}
	if e.Kind == KindAdjusting && strings.TrimSpace(e.AdjustmentType) == "" {
		return errors.New("adjustment type is required for adjusting entries")
	}

	var debits, credits int
	for i, l := range e.Lines {
		if l.AccountID == "" {
			return fmt.Errorf("line %d: account is required", i+1)
		}
		if l.Debit.IsNegative() || l.Credit.IsNegative() {
			return fmt.Errorf("line %d: amounts must not be negative", i+1)
		}
		switch {
		case l.Debit.IsPositive() && l.Credit.IsZero():
			debits++
		case l.Credit.IsPositive() && l.Debit.IsZero():
			credits++
		default:
			return fmt.Errorf("line %d: exactly one of debit or credit must be greater than zero", i+1)
		}
	}
	if debits == 0 {
		return errors.New("at least one debit line is required")
	}
	if credits == 0 {
		return errors.New("at least one credit line is required")
	}

	debit, credit := e.Totals()
	if !debit.Equal(credit) {
		return fmt.Errorf("entry is not balanced: debits %s, credits %s", debit.String(), credit.String())
	}
	return nil
}

// AccountIDs returns the distinct accounts referenced by the entry's lines.
func (e Entry) AccountIDs() []string {
	seen := make(map[string]struct{}, len(e.Lines))
	ids := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		if _, ok := seen[l.AccountID]; ok {
			continue
		}
		seen[l.AccountID] = struct{}{}
		ids = append(ids, l.AccountID)
	}
	return ids
}

// InitialStatus returns the status a newly created entry gets for the creator's role.
func InitialStatus(role Role) EntryStatus {
	if role == RoleManager {
		return StatusApproved
	}
	return StatusPendingReview
}

// PlanTransition decides the balance effect of moving an entry from one
// status to another. The boolean is false when the transition does not cross
// the Approved boundary and balances must not be touched.
func PlanTransition(from, to EntryStatus) (BalanceDirection, bool) {
	switch {
	case from != StatusApproved && to == StatusApproved:
		return DirectionApply, true
	case from == StatusApproved && to != StatusApproved:
		return DirectionReverse, true
	}
	return "", false
}

// EntryFilter narrows entry listings.
type EntryFilter struct {
	Kind   EntryKind
	Status EntryStatus
	// UserID restricts results to one creator; empty means all creators.
	UserID string
}

// EntryOutcome is the result of a create or status change, carrying any
// partial balance update so callers can surface it.
type EntryOutcome struct {
	Entry   *Entry       `json:"entry"`
	Balance *BatchResult `json:"balance,omitempty"`
}
