package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledgerify/internal/core/domain"
)

// ReportingSvc defines operations for generating financial reports
type ReportingSvc interface {
	// GenerateReport builds a report by replaying approved entries through the cutoff.
	GenerateReport(ctx context.Context, reportType domain.ReportType, asOf, from, to *time.Time) (*domain.Report, error)

	// CheckBalanceDrift compares every account's cached balance with the balance
	// replayed from all approved entries.
	CheckBalanceDrift(ctx context.Context) ([]domain.BalanceDrift, int, error)
}
