package dto

import "github.com/SscSPs/ledgerify/internal/core/domain"

// ListEventLogsParams defines query parameters for listing event logs.
type ListEventLogsParams struct {
	Table    string `form:"table"`
	RecordID string `form:"recordID"`
	Limit    int    `form:"limit,default=50" binding:"min=1,max=500"`
}

// ToFilter converts the params into a domain filter.
func (p ListEventLogsParams) ToFilter() domain.EventLogFilter {
	return domain.EventLogFilter{TableName: p.Table, RecordID: p.RecordID, Limit: p.Limit}
}

// ListEventLogsResponse wraps event log records.
type ListEventLogsResponse struct {
	Events []domain.EventLogRecord `json:"events"`
}
