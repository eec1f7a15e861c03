package mapping

import (
	"encoding/json"

	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/SscSPs/ledgerify/internal/models"
)

// ToModelEventLog converts a domain EventLogRecord to a model EventLog.
// Missing images stay NULL.
func ToModelEventLog(d domain.EventLogRecord) models.EventLog {
	m := models.EventLog{
		EventID:    d.EventID,
		TableName:  d.TableName,
		RecordID:   d.RecordID,
		UserID:     d.UserID,
		ActionType: string(d.ActionType),
		EventTime:  d.EventTime,
	}
	if len(d.BeforeImage) > 0 {
		m.BeforeImage = []byte(d.BeforeImage)
	}
	if len(d.AfterImage) > 0 {
		m.AfterImage = []byte(d.AfterImage)
	}
	return m
}

// ToDomainEventLog converts a model EventLog to a domain EventLogRecord
func ToDomainEventLog(m models.EventLog) domain.EventLogRecord {
	d := domain.EventLogRecord{
		EventID:    m.EventID,
		TableName:  m.TableName,
		RecordID:   m.RecordID,
		UserID:     m.UserID,
		ActionType: domain.ActionType(m.ActionType),
		EventTime:  m.EventTime,
	}
	if len(m.BeforeImage) > 0 {
		d.BeforeImage = json.RawMessage(m.BeforeImage)
	}
	if len(m.AfterImage) > 0 {
		d.AfterImage = json.RawMessage(m.AfterImage)
	}
	return d
}
