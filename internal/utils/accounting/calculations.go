package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedEffect returns the change to an account's balance caused by the given
// debit and credit amounts.
// DEBIT-normal accounts: debit increases (+), credit decreases (-).
// CREDIT-normal accounts: credit increases (+), debit decreases (-).
func SignedEffect(side domain.NormalSide, debit, credit decimal.Decimal) (decimal.Decimal, error) {
	switch side {
	case domain.NormalSideDebit:
		return debit.Sub(credit), nil
	case domain.NormalSideCredit:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal side '%s'", side)
	}
}

// AccountSums holds the debit and credit amounts an entry puts on one account.
type AccountSums struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// SumByAccount groups lines by account, summing debits and credits
// independently. The returned ids are sorted so callers process accounts in a
// deterministic order.
func SumByAccount(lines []domain.Line) (map[string]AccountSums, []string) {
	sums := make(map[string]AccountSums)
	for _, l := range lines {
		s, ok := sums[l.AccountID]
		if !ok {
			s = AccountSums{Debit: decimal.Zero, Credit: decimal.Zero}
		}
		s.Debit = s.Debit.Add(l.Debit)
		s.Credit = s.Credit.Add(l.Credit)
		sums[l.AccountID] = s
	}

	ids := make([]string, 0, len(sums))
	for id := range sums {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return sums, ids
}

// ComputeNewTotals applies or reverses an entry's sums on one account's cached
// totals. Cumulative debit and credit floor at zero; balance may go negative.
func ComputeNewTotals(current domain.AccountTotals, side domain.NormalSide, sums AccountSums, direction domain.BalanceDirection) (domain.AccountTotals, error) {
	change, err := SignedEffect(side, sums.Debit, sums.Credit)
	if err != nil {
		return domain.AccountTotals{}, err
	}

	var next domain.AccountTotals
	switch direction {
	case domain.DirectionApply:
		next.Debit = current.Debit.Add(sums.Debit)
		next.Credit = current.Credit.Add(sums.Credit)
		next.Balance = current.Balance.Add(change)
	case domain.DirectionReverse:
		next.Debit = current.Debit.Sub(sums.Debit)
		next.Credit = current.Credit.Sub(sums.Credit)
		next.Balance = current.Balance.Sub(change)
	default:
		return domain.AccountTotals{}, fmt.Errorf("unknown balance direction '%s'", direction)
	}

	next.Debit = floorAtZero(next.Debit)
	next.Credit = floorAtZero(next.Credit)
	return next, nil
}

// ShiftInitialBalance moves an account's totals after its initial balance was
// edited from oldInitial to newInitial. The delta lands on the normal side.
func ShiftInitialBalance(current domain.AccountTotals, side domain.NormalSide, oldInitial, newInitial decimal.Decimal) domain.AccountTotals {
	delta := newInitial.Sub(oldInitial)
	next := current
	next.Balance = current.Balance.Add(delta)
	if side == domain.NormalSideCredit {
		next.Credit = floorAtZero(current.Credit.Add(delta))
	} else {
		next.Debit = floorAtZero(current.Debit.Add(delta))
	}
	return next
}

// BalanceAsOf replays entries on top of the account's initial balance. Every
// line referencing the account contributes, so an entry with two debit lines
// on the same account counts both. The cached Debit/Credit/Balance fields of
// the account are never read.
func BalanceAsOf(account domain.Account, entries []domain.Entry) (decimal.Decimal, error) {
	balance := account.InitialBalance
	for _, e := range entries {
		for _, l := range e.Lines {
			if l.AccountID != account.AccountID {
				continue
			}
			effect, err := SignedEffect(account.NormalSide, l.Debit, l.Credit)
			if err != nil {
				return decimal.Zero, fmt.Errorf("account %s: %w", account.AccountID, err)
			}
			balance = balance.Add(effect)
		}
	}
	return balance, nil
}

// Ledger lists every line of the given entries that touches the account, in
// entry date order, with the running balance starting from the initial balance.
// It returns the rows and the closing balance.
func Ledger(account domain.Account, entries []domain.Entry) ([]domain.LedgerLine, decimal.Decimal, error) {
	sorted := make([]domain.Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.EntryID < b.EntryID
	})

	running := account.InitialBalance
	rows := make([]domain.LedgerLine, 0)
	for _, e := range sorted {
		for _, l := range e.Lines {
			if l.AccountID != account.AccountID {
				continue
			}
			effect, err := SignedEffect(account.NormalSide, l.Debit, l.Credit)
			if err != nil {
				return nil, decimal.Zero, fmt.Errorf("account %s: %w", account.AccountID, err)
			}
			running = running.Add(effect)
			rows = append(rows, domain.LedgerLine{
				EntryID:        e.EntryID,
				EntryKind:      e.Kind,
				EntryDate:      e.EntryDate.UTC().Format(reportDateLayout),
				Description:    e.Description,
				Debit:          l.Debit,
				Credit:         l.Credit,
				RunningBalance: running,
			})
		}
	}
	return rows, running, nil
}

func floorAtZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
