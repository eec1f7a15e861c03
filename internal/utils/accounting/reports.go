package accounting

import (
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledgerify/internal/apperrors"
	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/shopspring/decimal"
)

const reportDateLayout = "2006-01-02"

var balanceTolerance = decimal.RequireFromString("0.01")

// ReportGenerator builds financial statements by replaying approved entries.
// It is pure: identical requests produce identical reports.
type ReportGenerator struct {
	classifier CurrentClassifier
}

// ReportOption configures a ReportGenerator.
type ReportOption func(*ReportGenerator)

// WithCurrentClassifier replaces the classifier used for current and quick ratios.
func WithCurrentClassifier(c CurrentClassifier) ReportOption {
	return func(g *ReportGenerator) {
		if c != nil {
			g.classifier = c
		}
	}
}

// NewReportGenerator creates a ReportGenerator.
func NewReportGenerator(opts ...ReportOption) *ReportGenerator {
	g := &ReportGenerator{classifier: KeywordClassifier{}}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateReport is a convenience wrapper using the default classifier.
func GenerateReport(req domain.ReportRequest) (*domain.Report, error) {
	return NewReportGenerator().Generate(req)
}

// Generate builds the report requested by req.
func (g *ReportGenerator) Generate(req domain.ReportRequest) (*domain.Report, error) {
	if req.From != nil && req.To != nil && req.From.After(*req.To) {
		return nil, fmt.Errorf("%w: from date is after to date", apperrors.ErrReportInput)
	}

	switch req.Type {
	case domain.ReportTrialBalance:
		cutoff, err := requireCutoff(req)
		if err != nil {
			return nil, err
		}
		return g.trialBalance(req, cutoff)
	case domain.ReportIncomeStatement:
		cutoff, err := requireCutoff(req)
		if err != nil {
			return nil, err
		}
		return g.incomeStatement(req, cutoff)
	case domain.ReportBalanceSheet:
		if req.AsOf == nil {
			return nil, fmt.Errorf("%w: balance sheet requires an as-of date", apperrors.ErrReportInput)
		}
		return g.balanceSheet(req, EndOfDay(*req.AsOf))
	case domain.ReportRetainedEarnings:
		cutoff, err := requireCutoff(req)
		if err != nil {
			return nil, err
		}
		return g.retainedEarnings(req, cutoff)
	case domain.ReportFinancialRatios:
		if req.AsOf == nil {
			return nil, fmt.Errorf("%w: financial ratios require an as-of date", apperrors.ErrReportInput)
		}
		return g.financialRatios(req, EndOfDay(*req.AsOf)), nil
	default:
		return nil, fmt.Errorf("%w: unsupported report type '%s'", apperrors.ErrReportInput, req.Type)
	}
}

// EndOfDay returns the last instant of t's calendar day in UTC.
func EndOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
}

// ApprovedThrough returns the approved entries dated on or before cutoff.
func ApprovedThrough(entries []domain.Entry, cutoff time.Time) []domain.Entry {
	out := make([]domain.Entry, 0, len(entries))
	for _, e := range entries {
		if e.Status != domain.StatusApproved {
			continue
		}
		if e.EntryDate.After(cutoff) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// requireCutoff picks the as-of date, falling back to the end of the range.
func requireCutoff(req domain.ReportRequest) (time.Time, error) {
	switch {
	case req.AsOf != nil:
		return EndOfDay(*req.AsOf), nil
	case req.To != nil:
		return EndOfDay(*req.To), nil
	default:
		return time.Time{}, fmt.Errorf("%w: report '%s' requires an as-of date or a date range", apperrors.ErrReportInput, req.Type)
	}
}

func dateLabel(req domain.ReportRequest, cutoff time.Time) string {
	if req.AsOf == nil && req.From != nil {
		return req.From.UTC().Format(reportDateLayout) + " to " + cutoff.Format(reportDateLayout)
	}
	return cutoff.Format(reportDateLayout)
}

type replayedAccount struct {
	account domain.Account
	balance decimal.Decimal
}

// replay recomputes every account's balance as of cutoff, sorted by account number.
func replay(accounts []domain.Account, entries []domain.Entry, cutoff time.Time) ([]replayedAccount, error) {
	through := ApprovedThrough(entries, cutoff)

	sorted := make([]domain.Account, len(accounts))
	copy(sorted, accounts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].AccountNumber == sorted[j].AccountNumber {
			return sorted[i].AccountID < sorted[j].AccountID
		}
		return sorted[i].AccountNumber < sorted[j].AccountNumber
	})

	out := make([]replayedAccount, 0, len(sorted))
	for _, acc := range sorted {
		bal, err := BalanceAsOf(acc, through)
		if err != nil {
			return nil, err
		}
		out = append(out, replayedAccount{account: acc, balance: bal})
	}
	return out, nil
}

func toAmount(r replayedAccount) domain.AccountAmount {
	return domain.AccountAmount{
		AccountID:     r.account.AccountID,
		AccountNumber: r.account.AccountNumber,
		Name:          r.account.Name,
		Subcategory:   r.account.Subcategory,
		Amount:        r.balance,
	}
}

func (g *ReportGenerator) trialBalance(req domain.ReportRequest, cutoff time.Time) (*domain.Report, error) {
	replayed, err := replay(req.Accounts, req.Entries, cutoff)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TrialBalanceRow, 0, len(replayed))
	meta := domain.TrialBalanceMeta{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, r := range replayed {
		row := domain.TrialBalanceRow{
			AccountID:     r.account.AccountID,
			AccountNumber: r.account.AccountNumber,
			AccountName:   r.account.Name,
			Category:      r.account.Category,
			Debit:         decimal.Zero,
			Credit:        decimal.Zero,
		}
		debitSide := (r.account.NormalSide == domain.NormalSideDebit && r.balance.IsPositive()) ||
			(r.account.NormalSide == domain.NormalSideCredit && r.balance.IsNegative())
		creditSide := (r.account.NormalSide == domain.NormalSideCredit && r.balance.IsPositive()) ||
			(r.account.NormalSide == domain.NormalSideDebit && r.balance.IsNegative())
		if debitSide {
			row.Debit = r.balance.Abs()
		} else if creditSide {
			row.Credit = r.balance.Abs()
		}
		meta.TotalDebit = meta.TotalDebit.Add(row.Debit)
		meta.TotalCredit = meta.TotalCredit.Add(row.Credit)
		rows = append(rows, row)
	}

	return &domain.Report{
		Type:  domain.ReportTrialBalance,
		Title: "Trial Balance",
		Date:  dateLabel(req, cutoff),
		Rows:  rows,
		Meta:  meta,
	}, nil
}

type incomeFigures struct {
	rows domain.IncomeStatementRows
	meta domain.IncomeStatementMeta
}

func computeIncome(replayed []replayedAccount) incomeFigures {
	f := incomeFigures{
		rows: domain.IncomeStatementRows{Revenue: []domain.AccountAmount{}, Expenses: []domain.AccountAmount{}},
		meta: domain.IncomeStatementMeta{TotalRevenue: decimal.Zero, TotalExpenses: decimal.Zero},
	}
	for _, r := range replayed {
		switch r.account.Category {
		case domain.CategoryRevenue:
			f.rows.Revenue = append(f.rows.Revenue, toAmount(r))
			f.meta.TotalRevenue = f.meta.TotalRevenue.Add(r.balance)
		case domain.CategoryExpenses:
			f.rows.Expenses = append(f.rows.Expenses, toAmount(r))
			f.meta.TotalExpenses = f.meta.TotalExpenses.Add(r.balance)
		}
	}
	f.meta.NetIncome = f.meta.TotalRevenue.Sub(f.meta.TotalExpenses)
	return f
}

func (g *ReportGenerator) incomeStatement(req domain.ReportRequest, cutoff time.Time) (*domain.Report, error) {
	replayed, err := replay(req.Accounts, req.Entries, cutoff)
	if err != nil {
		return nil, err
	}
	f := computeIncome(replayed)
	return &domain.Report{
		Type:  domain.ReportIncomeStatement,
		Title: "Income Statement",
		Date:  dateLabel(req, cutoff),
		Rows:  f.rows,
		Meta:  f.meta,
	}, nil
}

type balanceSheetFigures struct {
	sections []domain.BalanceSheetSection
	meta     domain.BalanceSheetMeta
}

func computeBalanceSheet(replayed []replayedAccount) balanceSheetFigures {
	assets := domain.BalanceSheetSection{Title: "Assets", Accounts: []domain.AccountAmount{}, Total: decimal.Zero}
	liabilities := domain.BalanceSheetSection{Title: "Liabilities", Accounts: []domain.AccountAmount{}, Total: decimal.Zero}
	equity := domain.BalanceSheetSection{Title: "Equity", Accounts: []domain.AccountAmount{}, Total: decimal.Zero}

	for _, r := range replayed {
		var section *domain.BalanceSheetSection
		switch r.account.Category {
		case domain.CategoryAssets:
			section = &assets
		case domain.CategoryLiabilities:
			section = &liabilities
		case domain.CategoryEquity:
			section = &equity
		default:
			continue
		}
		section.Accounts = append(section.Accounts, toAmount(r))
		section.Total = section.Total.Add(r.balance)
	}

	liabilitiesAndEquity := liabilities.Total.Add(equity.Total)
	return balanceSheetFigures{
		sections: []domain.BalanceSheetSection{assets, liabilities, equity},
		meta: domain.BalanceSheetMeta{
			TotalAssets:               assets.Total,
			TotalLiabilities:          liabilities.Total,
			TotalEquity:               equity.Total,
			TotalLiabilitiesAndEquity: liabilitiesAndEquity,
			IsBalanced:                assets.Total.Sub(liabilitiesAndEquity).Abs().LessThan(balanceTolerance),
		},
	}
}

func (g *ReportGenerator) balanceSheet(req domain.ReportRequest, cutoff time.Time) (*domain.Report, error) {
	replayed, err := replay(req.Accounts, req.Entries, cutoff)
	if err != nil {
		return nil, err
	}
	f := computeBalanceSheet(replayed)
	return &domain.Report{
		Type:  domain.ReportBalanceSheet,
		Title: "Balance Sheet",
		Date:  cutoff.Format(reportDateLayout),
		Rows:  f.sections,
		Meta:  f.meta,
	}, nil
}

func (g *ReportGenerator) retainedEarnings(req domain.ReportRequest, cutoff time.Time) (*domain.Report, error) {
	replayed, err := replay(req.Accounts, req.Entries, cutoff)
	if err != nil {
		return nil, err
	}
	income := computeIncome(replayed)

	// No prior-period carry-forward and no dividends are modelled.
	meta := domain.RetainedEarningsMeta{
		BeginningRetainedEarnings: decimal.Zero,
		NetIncome:                 income.meta.NetIncome,
		Dividends:                 decimal.Zero,
	}
	meta.EndingRetainedEarnings = meta.BeginningRetainedEarnings.Add(meta.NetIncome).Sub(meta.Dividends)

	rows := []domain.AccountAmount{
		{Name: "Beginning Retained Earnings", Amount: meta.BeginningRetainedEarnings},
		{Name: "Net Income", Amount: meta.NetIncome},
		{Name: "Dividends", Amount: meta.Dividends},
		{Name: "Ending Retained Earnings", Amount: meta.EndingRetainedEarnings},
	}

	return &domain.Report{
		Type:  domain.ReportRetainedEarnings,
		Title: "Statement of Retained Earnings",
		Date:  dateLabel(req, cutoff),
		Rows:  rows,
		Meta:  meta,
	}, nil
}

func (g *ReportGenerator) financialRatios(req domain.ReportRequest, cutoff time.Time) *domain.Report {
	ratios, err := g.ratios(req, cutoff)
	if err != nil {
		ratios = []domain.FinancialRatio{}
	}
	return &domain.Report{
		Type:  domain.ReportFinancialRatios,
		Title: "Financial Ratios",
		Date:  cutoff.Format(reportDateLayout),
		Rows:  ratios,
		Meta:  map[string]int{"count": len(ratios)},
	}
}
