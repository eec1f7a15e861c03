package mapping

import (
	"github.com/SscSPs/ledgerify/internal/core/domain"
	"github.com/SscSPs/ledgerify/internal/models"
)

// ToModelEntry converts a domain Entry header to a model Entry. Lines are mapped separately.
func ToModelEntry(d domain.Entry) models.Entry {
	return models.Entry{
		EntryID:         d.EntryID,
		Kind:            string(d.Kind),
		AdjustmentType:  optionalString(d.AdjustmentType),
		Description:     d.Description,
		EntryDate:       d.EntryDate,
		Status:          string(d.Status),
		RejectionReason: optionalString(d.RejectionReason),
		UserID:          d.UserID,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model Entry to a domain Entry without lines.
func ToDomainEntry(m models.Entry) domain.Entry {
	return domain.Entry{
		EntryID:         m.EntryID,
		Kind:            domain.EntryKind(m.Kind),
		AdjustmentType:  derefString(m.AdjustmentType),
		Description:     m.Description,
		EntryDate:       m.EntryDate,
		Status:          domain.EntryStatus(m.Status),
		RejectionReason: derefString(m.RejectionReason),
		UserID:          m.UserID,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelEntryLine converts a domain Line to a model EntryLine at position lineNo.
func ToModelEntryLine(d domain.Line, lineNo int) models.EntryLine {
	m := models.EntryLine{
		LineID:    d.LineID,
		EntryID:   d.EntryID,
		LineNo:    lineNo,
		AccountID: d.AccountID,
		Debit:     d.Debit,
		Credit:    d.Credit,
	}
	if d.Attachment != nil {
		m.FileName = optionalString(d.Attachment.FileName)
		m.FileURL = optionalString(d.Attachment.FileURL)
		m.FileType = optionalString(d.Attachment.FileType)
	}
	return m
}

// ToDomainLine converts a model EntryLine to a domain Line.
func ToDomainLine(m models.EntryLine) domain.Line {
	d := domain.Line{
		LineID:    m.LineID,
		EntryID:   m.EntryID,
		AccountID: m.AccountID,
		Debit:     m.Debit,
		Credit:    m.Credit,
	}
	if m.FileName != nil || m.FileURL != nil {
		d.Attachment = &domain.Attachment{
			FileName: derefString(m.FileName),
			FileURL:  derefString(m.FileURL),
			FileType: derefString(m.FileType),
		}
	}
	return d
}

// ToDomainLineSlice converts a slice of model EntryLines to domain Lines
func ToDomainLineSlice(ms []models.EntryLine) []domain.Line {
	ds := make([]domain.Line, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}

// AttachLines groups lines onto their entries, preserving the order of both.
func AttachLines(entries []domain.Entry, lines []models.EntryLine) []domain.Entry {
	byEntry := make(map[string][]domain.Line, len(entries))
	for _, l := range lines {
		byEntry[l.EntryID] = append(byEntry[l.EntryID], ToDomainLine(l))
	}
	for i := range entries {
		entries[i].Lines = byEntry[entries[i].EntryID]
		if entries[i].Lines == nil {
			entries[i].Lines = []domain.Line{}
		}
	}
	return entries
}
