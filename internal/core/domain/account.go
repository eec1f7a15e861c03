package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NormalSide is the side (debit or credit) on which an account increases.
type NormalSide string

const (
	NormalSideDebit  NormalSide = "DEBIT"
	NormalSideCredit NormalSide = "CREDIT"
)

// IsValid reports whether s is one of the two known sides.
func (s NormalSide) IsValid() bool {
	return s == NormalSideDebit || s == NormalSideCredit
}

// AccountCategory is the top level classification of an account.
type AccountCategory string

const (
	CategoryAssets      AccountCategory = "Assets"
	CategoryLiabilities AccountCategory = "Liabilities"
	CategoryEquity      AccountCategory = "Equity"
	CategoryRevenue     AccountCategory = "Revenue"
	CategoryExpenses    AccountCategory = "Expenses"
)

type numberRange struct {
	min int
	max int
}

// account numbers are bucketed by category
var categoryRanges = map[AccountCategory]numberRange{
	CategoryAssets:      {1000, 1999},
	CategoryLiabilities: {2000, 2999},
	CategoryEquity:      {3000, 3999},
	CategoryRevenue:     {4000, 4999},
	CategoryExpenses:    {5000, 5999},
}

// IsValid reports whether c is a known category.
func (c AccountCategory) IsValid() bool {
	_, ok := categoryRanges[c]
	return ok
}

// NumberRange returns the inclusive account number range for the category.
func (c AccountCategory) NumberRange() (int, int, bool) {
	r, ok := categoryRanges[c]
	return r.min, r.max, ok
}

// ValidateAccountNumber checks that number lies in the bucket of category.
func ValidateAccountNumber(category AccountCategory, number int) error {
	lo, hi, ok := category.NumberRange()
	if !ok {
		return fmt.Errorf("unknown account category %q", category)
	}
	if number < lo || number > hi {
		return fmt.Errorf("account number %d must be between %d and %d for %s accounts", number, lo, hi, category)
	}
	return nil
}

// Account represents a ledger account together with its cached running totals.
// Debit and Credit are cumulative non-negative totals; Balance is signed
// relative to NormalSide.
type Account struct {
	AccountID      string          `json:"accountID"`
	AccountNumber  int             `json:"accountNumber"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	NormalSide     NormalSide      `json:"normalSide"`
	Category       AccountCategory `json:"category"`
	Subcategory    string          `json:"subcategory"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	Balance        decimal.Decimal `json:"balance"`
	IsActive       bool            `json:"isActive"`
	UserID         string          `json:"userID"` // owner
	AuditFields
}

// Totals returns the cached running totals of the account.
func (a Account) Totals() AccountTotals {
	return AccountTotals{Debit: a.Debit, Credit: a.Credit, Balance: a.Balance}
}

// AccountTotals is the triple the balance engine reads and writes.
type AccountTotals struct {
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// OpeningTotals returns the totals of a freshly created account: the opening
// balance sits on the normal side.
func OpeningTotals(side NormalSide, initial decimal.Decimal) AccountTotals {
	t := AccountTotals{Debit: decimal.Zero, Credit: decimal.Zero, Balance: initial}
	if side == NormalSideCredit {
		t.Credit = initial
	} else {
		t.Debit = initial
	}
	return t
}

// LedgerLine is one row of an account's ledger view.
type LedgerLine struct {
	EntryID        string          `json:"entryID"`
	EntryKind      EntryKind       `json:"entryKind"`
	EntryDate      string          `json:"entryDate"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// BalanceDrift compares the cached balance of an account with the balance
// obtained by replaying its approved entries.
type BalanceDrift struct {
	AccountID       string          `json:"accountID"`
	AccountNumber   int             `json:"accountNumber"`
	Name            string          `json:"name"`
	CachedBalance   decimal.Decimal `json:"cachedBalance"`
	ReplayedBalance decimal.Decimal `json:"replayedBalance"`
	Difference      decimal.Decimal `json:"difference"`
}
