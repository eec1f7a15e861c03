package domain

import (
	"fmt"
	"strings"

	"github.com/SscSPs/ledgerify/internal/apperrors"
)

// BalanceDirection says whether an entry's effect is added to or removed from balances.
type BalanceDirection string

const (
	DirectionApply   BalanceDirection = "apply"
	DirectionReverse BalanceDirection = "reverse"
)

// AccountFailure records one account the balance engine could not update.
type AccountFailure struct {
	AccountID string `json:"accountID"`
	Reason    string `json:"reason"`
}

// BatchResult reports which accounts an apply/reverse pass updated.
// Account updates are not atomic across accounts, so a pass may succeed
// for some accounts and fail for others.
type BatchResult struct {
	EntryID   string           `json:"entryID"`
	Direction BalanceDirection `json:"direction"`
	Succeeded []string         `json:"succeeded"`
	Failed    []AccountFailure `json:"failed,omitempty"`
}

// HasFailures reports whether any account failed to update.
func (r BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Err returns an error wrapping apperrors.ErrPartialUpdate when some accounts failed.
func (r BatchResult) Err() error {
	if !r.HasFailures() {
		return nil
	}
	ids := make([]string, len(r.Failed))
	for i, f := range r.Failed {
		ids[i] = f.AccountID
	}
	return fmt.Errorf("%w: %s of entry %s failed for accounts [%s]",
		apperrors.ErrPartialUpdate, r.Direction, r.EntryID, strings.Join(ids, ", "))
}
