package models

import (
	"github.com/shopspring/decimal"
)

// Account is the row shape of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	AccountNumber  int             `db:"account_number"`
	Name           string          `db:"name"`
	Description    string          `db:"description"`
	NormalSide     string          `db:"normal_side"`
	Category       string          `db:"category"`
	Subcategory    string          `db:"subcategory"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
	Balance        decimal.Decimal `db:"balance"`
	IsActive       bool            `db:"is_active"`
	UserID         string          `db:"user_id"` // owner
	AuditFields
}
