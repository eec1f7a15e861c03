package accounting

import (
	"strings"
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/shopspring/decimal"
)

const ratioPrecision = 4

// CurrentClassifier decides which accounts count as current for liquidity
// ratios. Accounts carry no current/long-term flag, so any implementation is
// an approximation.
type CurrentClassifier interface {
	IsCurrentAsset(account domain.Account) bool
	IsQuickAsset(account domain.Account) bool
	IsCurrentLiability(account domain.Account) bool
}

// KeywordClassifier classifies accounts by keywords in their subcategory or name.
type KeywordClassifier struct{}

var (
	currentAssetKeywords     = []string{"current", "cash", "receivable", "inventory", "prepaid", "supplies"}
	quickAssetKeywords       = []string{"cash", "receivable", "marketable"}
	currentLiabilityKeywords = []string{"current", "payable", "accrued", "unearned", "short-term"}
)

func matchesAny(account domain.Account, keywords []string) bool {
	haystack := strings.ToLower(account.Subcategory + " " + account.Name)
	for _, k := range keywords {
		if strings.Contains(haystack, k) {
			return true
		}
	}
	return false
}

func (KeywordClassifier) IsCurrentAsset(account domain.Account) bool {
	return account.Category == domain.CategoryAssets && matchesAny(account, currentAssetKeywords)
}

func (KeywordClassifier) IsQuickAsset(account domain.Account) bool {
	return account.Category == domain.CategoryAssets && matchesAny(account, quickAssetKeywords)
}

func (KeywordClassifier) IsCurrentLiability(account domain.Account) bool {
	return account.Category == domain.CategoryLiabilities && matchesAny(account, currentLiabilityKeywords)
}

type threshold struct {
	green  decimal.Decimal
	yellow decimal.Decimal
	// lowerIsBetter flips the comparison (debt-to-equity).
	lowerIsBetter bool
}

func (t threshold) rate(v *decimal.Decimal) domain.RatioStatus {
	if v == nil {
		return domain.RatioRed
	}
	if t.lowerIsBetter {
		switch {
		case v.LessThanOrEqual(t.green):
			return domain.RatioGreen
		case v.LessThanOrEqual(t.yellow):
			return domain.RatioYellow
		}
		return domain.RatioRed
	}
	switch {
	case v.GreaterThanOrEqual(t.green):
		return domain.RatioGreen
	case v.GreaterThanOrEqual(t.yellow):
		return domain.RatioYellow
	}
	return domain.RatioRed
}

var (
	currentRatioThreshold = threshold{green: decimal.RequireFromString("1.5"), yellow: decimal.RequireFromString("1.0")}
	quickRatioThreshold   = threshold{green: decimal.RequireFromString("1.0"), yellow: decimal.RequireFromString("0.5")}
	debtToEquityThreshold = threshold{green: decimal.RequireFromString("1.0"), yellow: decimal.RequireFromString("2.0"), lowerIsBetter: true}
	profitMarginThreshold = threshold{green: decimal.RequireFromString("0.10"), yellow: decimal.Zero}
	returnOnAssetsThresh  = threshold{green: decimal.RequireFromString("0.05"), yellow: decimal.Zero}
)

// SafeDivide returns nil when the denominator is zero.
func SafeDivide(num, den decimal.Decimal) *decimal.Decimal {
	if den.IsZero() {
		return nil
	}
	v := num.DivRound(den, ratioPrecision)
	return &v
}

func (g *ReportGenerator) ratios(req domain.ReportRequest, cutoff time.Time) ([]domain.FinancialRatio, error) {
	replayed, err := replay(req.Accounts, req.Entries, cutoff)
	if err != nil {
		return nil, err
	}
	income := computeIncome(replayed).meta
	sheet := computeBalanceSheet(replayed).meta

	currentAssets, quickAssets, currentLiabilities := decimal.Zero, decimal.Zero, decimal.Zero
	for _, r := range replayed {
		if g.classifier.IsCurrentAsset(r.account) {
			currentAssets = currentAssets.Add(r.balance)
		}
		if g.classifier.IsQuickAsset(r.account) {
			quickAssets = quickAssets.Add(r.balance)
		}
		if g.classifier.IsCurrentLiability(r.account) {
			currentLiabilities = currentLiabilities.Add(r.balance)
		}
	}

	build := func(name string, v *decimal.Decimal, t threshold) domain.FinancialRatio {
		return domain.FinancialRatio{Name: name, Value: v, Status: t.rate(v)}
	}

	return []domain.FinancialRatio{
		build("Current Ratio", SafeDivide(currentAssets, currentLiabilities), currentRatioThreshold),
		build("Quick Ratio", SafeDivide(quickAssets, currentLiabilities), quickRatioThreshold),
		build("Debt-to-Equity", SafeDivide(sheet.TotalLiabilities, sheet.TotalEquity), debtToEquityThreshold),
		build("Net Profit Margin", SafeDivide(income.NetIncome, income.TotalRevenue), profitMarginThreshold),
		build("Return on Assets", SafeDivide(income.NetIncome, sheet.TotalAssets), returnOnAssetsThresh),
	}, nil
}
