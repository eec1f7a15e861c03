package dto

import (
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
)

// ReportQueryParams holds the date parameters of a report request.
// Dates use the YYYY-MM-DD format.
type ReportQueryParams struct {
	AsOf string `form:"asOf"`
	From string `form:"from"`
	To   string `form:"to"`
}

const reportQueryLayout = "2006-01-02"

// Parse converts the query strings into optional times.
func (p ReportQueryParams) Parse() (asOf, from, to *time.Time, err error) {
	parse := func(s string) (*time.Time, error) {
		if s == "" {
			return nil, nil
		}
		t, err := time.Parse(reportQueryLayout, s)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
	if asOf, err = parse(p.AsOf); err != nil {
		return nil, nil, nil, err
	}
	if from, err = parse(p.From); err != nil {
		return nil, nil, nil, err
	}
	if to, err = parse(p.To); err != nil {
		return nil, nil, nil, err
	}
	return asOf, from, to, nil
}

// DriftResponse lists accounts whose cached balance differs from the replayed one.
type DriftResponse struct {
	CheckedAt time.Time             `json:"checkedAt"`
	Drifted   []domain.BalanceDrift `json:"drifted"`
	Accounts  int                   `json:"accountsChecked"`
}
