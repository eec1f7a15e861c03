package models

import (
	"time"
)

// EventLog is the row shape of the event_logs table. Images are stored as jsonb.
type EventLog struct {
	EventID     string    `db:"event_id"`
	TableName   string    `db:"table_name"`
	RecordID    string    `db:"record_id"`
	UserID      string    `db:"user_id"`
	ActionType  string    `db:"action_type"`
	BeforeImage []byte    `db:"before_image"`
	AfterImage  []byte    `db:"after_image"`
	EventTime   time.Time `db:"event_time"`
}
