package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportType selects which financial statement to generate.
type ReportType string

const (
	ReportTrialBalance     ReportType = "trial-balance"
	ReportIncomeStatement  ReportType = "income-statement"
	ReportBalanceSheet     ReportType = "balance-sheet"
	ReportRetainedEarnings ReportType = "retained-earnings"
	ReportFinancialRatios  ReportType = "financial-ratios"
)

// ReportRequest is the input of the reporting engine. Entries should hold
// approved entries only; anything else is filtered out.
type ReportRequest struct {
	Type     ReportType
	AsOf     *time.Time
	From     *time.Time
	To       *time.Time
	Accounts []Account
	Entries  []Entry
}

// Report is the uniform output of the reporting engine.
type Report struct {
	Type  ReportType `json:"type"`
	Title string     `json:"title"`
	Date  string     `json:"date"`
	Rows  any        `json:"rows"`
	Meta  any        `json:"meta"`
}

// TrialBalanceRow represents a single row in a trial balance report.
type TrialBalanceRow struct {
	AccountID     string          `json:"accountID"`
	AccountNumber int             `json:"accountNumber"`
	AccountName   string          `json:"accountName"`
	Category      AccountCategory `json:"category"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
}

// TrialBalanceMeta holds the column totals of a trial balance.
type TrialBalanceMeta struct {
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// AccountAmount is an account with its replayed balance.
type AccountAmount struct {
	AccountID     string          `json:"accountID"`
	AccountNumber int             `json:"accountNumber"`
	Name          string          `json:"name"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// IncomeStatementRows lists revenue and expense accounts.
type IncomeStatementRows struct {
	Revenue  []AccountAmount `json:"revenue"`
	Expenses []AccountAmount `json:"expenses"`
}

// IncomeStatementMeta holds the income statement totals.
type IncomeStatementMeta struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// BalanceSheetSection is one section of a balance sheet with its subtotal.
type BalanceSheetSection struct {
	Title    string          `json:"title"`
	Accounts []AccountAmount `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}

// BalanceSheetMeta holds the balance sheet totals.
type BalanceSheetMeta struct {
	TotalAssets               decimal.Decimal `json:"totalAssets"`
	TotalLiabilities          decimal.Decimal `json:"totalLiabilities"`
	TotalEquity               decimal.Decimal `json:"totalEquity"`
	TotalLiabilitiesAndEquity decimal.Decimal `json:"totalLiabilitiesAndEquity"`
	IsBalanced                bool            `json:"isBalanced"`
}

// RetainedEarningsMeta holds the retained earnings statement figures.
type RetainedEarningsMeta struct {
	BeginningRetainedEarnings decimal.Decimal `json:"beginningRetainedEarnings"`
	NetIncome                 decimal.Decimal `json:"netIncome"`
	Dividends                 decimal.Decimal `json:"dividends"`
	EndingRetainedEarnings    decimal.Decimal `json:"endingRetainedEarnings"`
}

// RatioStatus is the traffic-light rating of a financial ratio.
type RatioStatus string

const (
	RatioGreen  RatioStatus = "green"
	RatioYellow RatioStatus = "yellow"
	RatioRed    RatioStatus = "red"
)

// FinancialRatio is one computed ratio. Value is nil when the denominator is zero.
type FinancialRatio struct {
	Name   string           `json:"name"`
	Value  *decimal.Decimal `json:"value"`
	Status RatioStatus      `json:"status"`
}
