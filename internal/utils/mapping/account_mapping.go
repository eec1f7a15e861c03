package mapping

import (
	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/SscSPs/ledgerify/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		AccountNumber:  d.AccountNumber,
		Name:           d.Name,
		Description:    d.Description,
		NormalSide:     string(d.NormalSide),
		Category:       string(d.Category),
		Subcategory:    d.Subcategory,
		InitialBalance: d.InitialBalance,
		Debit:          d.Debit,
		Credit:         d.Credit,
		Balance:        d.Balance,
		IsActive:       d.IsActive,
		UserID:         d.UserID,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		AccountNumber:  m.AccountNumber,
		Name:           m.Name,
		Description:    m.Description,
		NormalSide:     domain.NormalSide(m.NormalSide),
		Category:       domain.AccountCategory(m.Category),
		Subcategory:    m.Subcategory,
		InitialBalance: m.InitialBalance,
		Debit:          m.Debit,
		Credit:         m.Credit,
		Balance:        m.Balance,
		IsActive:       m.IsActive,
		UserID:         m.UserID,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
