package shared

import "time"

// DocStatus is the three-state workflow lifecycle imposed on transactional
// documents. Only submitted documents affect stock and ledgers.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

// String returns the human-readable lifecycle state
func (s DocStatus) String() string {
	switch s {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Submitted"
	case DocStatusCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Document provides the lifecycle fields shared by all transactional
// documents. Name is the framework-assigned natural key (e.g. NK-2025-00001).
type Document struct {
	BaseEntity
	Name        string    `gorm:"size:140;uniqueIndex;not null"`
	DocStatus   DocStatus `gorm:"not null;default:0;index"`
	Company     string    `gorm:"size:200;not null"`
	PostingDate time.Time `gorm:"not null;index"`
	Remarks     string    `gorm:"size:1000"`
}

// NewDocument creates a draft document. The name is assigned by the naming
// series at insert time.
func NewDocument(company string, postingDate time.Time) Document {
	return Document{
		BaseEntity:  NewBaseEntity(),
		DocStatus:   DocStatusDraft,
		Company:     company,
		PostingDate: postingDate,
	}
}

// IsDraft reports whether the document is still a draft
func (d *Document) IsDraft() bool {
	return d.DocStatus == DocStatusDraft
}

// IsSubmitted reports whether the document has been submitted
func (d *Document) IsSubmitted() bool {
	return d.DocStatus == DocStatusSubmitted
}

// IsCancelled reports whether the document has been cancelled
func (d *Document) IsCancelled() bool {
	return d.DocStatus == DocStatusCancelled
}

// MarkSubmitted transitions the document from draft to submitted
func (d *Document) MarkSubmitted() error {
	switch d.DocStatus {
	case DocStatusSubmitted:
		return ErrAlreadySubmitted
	case DocStatusCancelled:
		return ErrAlreadyCancelled
	}
	d.DocStatus = DocStatusSubmitted
	d.Touch()
	return nil
}

// MarkCancelled transitions the document from submitted to cancelled.
// Drafts are deleted, not cancelled.
func (d *Document) MarkCancelled() error {
	switch d.DocStatus {
	case DocStatusDraft:
		return NewDomainError("INVALID_STATE", "Draft documents are deleted, not cancelled")
	case DocStatusCancelled:
		return ErrAlreadyCancelled
	}
	d.DocStatus = DocStatusCancelled
	d.Touch()
	return nil
}
