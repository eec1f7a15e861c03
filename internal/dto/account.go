package dto

import (
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountNumber  int                    `json:"accountNumber" binding:"required"`
	Name           string                 `json:"name" binding:"required,max=255"`
	Description    string                 `json:"description"` // Optional
	NormalSide     domain.NormalSide      `json:"normalSide" binding:"required,normal_side"`
	Category       domain.AccountCategory `json:"category" binding:"required,account_category"`
	Subcategory    string                 `json:"subcategory"`
	InitialBalance decimal.Decimal        `json:"initialBalance"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// NormalSide cannot be changed after creation.
type UpdateAccountRequest struct {
	AccountNumber  *int                    `json:"accountNumber"`
	Name           *string                 `json:"name" binding:"omitempty,max=255"`
	Description    *string                 `json:"description"`
	Category       *domain.AccountCategory `json:"category" binding:"omitempty,account_category"`
	Subcategory    *string                 `json:"subcategory"`
	InitialBalance *decimal.Decimal        `json:"initialBalance"`
	IsActive       *bool                   `json:"isActive"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID      string                 `json:"accountID"`
	AccountNumber  int                    `json:"accountNumber"`
	Name           string                 `json:"name"`
	Description    string                 `json:"description"`
	NormalSide     domain.NormalSide      `json:"normalSide"`
	Category       domain.AccountCategory `json:"category"`
	Subcategory    string                 `json:"subcategory"`
	InitialBalance decimal.Decimal        `json:"initialBalance"`
	Debit          decimal.Decimal        `json:"debit"`
	Credit         decimal.Decimal        `json:"credit"`
	Balance        decimal.Decimal        `json:"balance"`
	IsActive       bool                   `json:"isActive"`
	UserID         string                 `json:"userID"`
	CreatedAt      time.Time              `json:"createdAt"`
	CreatedBy      string                 `json:"createdBy"`
	LastUpdatedAt  time.Time              `json:"lastUpdatedAt"`
	LastUpdatedBy  string                 `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		AccountNumber:  acc.AccountNumber,
		Name:           acc.Name,
		Description:    acc.Description,
		NormalSide:     acc.NormalSide,
		Category:       acc.Category,
		Subcategory:    acc.Subcategory,
		InitialBalance: acc.InitialBalance,
		Debit:          acc.Debit,
		Credit:         acc.Credit,
		Balance:        acc.Balance,
		IsActive:       acc.IsActive,
		UserID:         acc.UserID,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=100" binding:"min=1,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// AccountLedgerResponse is the replayed ledger of one account.
type AccountLedgerResponse struct {
	Account        AccountResponse     `json:"account"`
	Lines          []domain.LedgerLine `json:"lines"`
	ClosingBalance decimal.Decimal     `json:"closingBalance"`
}
