package domain

import (
	"encoding/json"
	"time"
)

// ActionType is the kind of change recorded by an event log record.
type ActionType string

const (
	ActionInsert ActionType = "INSERT"
	ActionUpdate ActionType = "UPDATE"
	ActionDelete ActionType = "DELETE"
)

// Tables whose changes are recorded in the event log.
const (
	TableAccounts = "accounts"
	TableEntries  = "entries"
	TableUsers    = "users"
)

// EventLogRecord is an append-only audit record with before/after snapshots.
type EventLogRecord struct {
	EventID     string          `json:"eventID"`
	TableName   string          `json:"tableName"`
	RecordID    string          `json:"recordID"`
	UserID      string          `json:"userID"`
	ActionType  ActionType      `json:"actionType"`
	BeforeImage json.RawMessage `json:"beforeImage,omitempty"`
	AfterImage  json.RawMessage `json:"afterImage,omitempty"`
	EventTime   time.Time       `json:"eventTime"`
}

// EventLogFilter narrows event log listings.
type EventLogFilter struct {
	TableName string
	RecordID  string
	Limit     int
}
