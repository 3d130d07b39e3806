package models

import (
	"time"

	"github.com/google/uuid"
)

// Document is a company security document. Only approved documents are
// eligible for inclusion in assistant chat context.
type Document struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"company_id"`
	UserID        uuid.UUID `json:"user_id"`
	DocumentType  string    `json:"document_type"`
	Title         string    `json:"title"`
	Content       string    `json:"content,omitempty"`
	FrameworkTags []string  `json:"framework_tags"`
	AISummary     string    `json:"ai_summary,omitempty"`
	Status        string    `json:"status"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Document type constants.
const (
	DocTypePolicy         = "policy"
	DocTypeProcedure      = "procedure"
	DocTypeAuditReport    = "audit_report"
	DocTypeRiskAssessment = "risk_assessment"
)

// Document status constants.
const (
	DocStatusDraft    = "draft"
	DocStatusReview   = "review"
	DocStatusApproved = "approved"
	DocStatusArchived = "archived"
)

// IsValidDocumentType checks if the given document type is valid.
func IsValidDocumentType(t string) bool {
	switch t {
	case DocTypePolicy, DocTypeProcedure, DocTypeAuditReport, DocTypeRiskAssessment:
		return true
	}
	return false
}

// IsValidDocumentStatus checks if the given document status is valid.
func IsValidDocumentStatus(status string) bool {
	switch status {
	case DocStatusDraft, DocStatusReview, DocStatusApproved, DocStatusArchived:
		return true
	}
	return false
}
