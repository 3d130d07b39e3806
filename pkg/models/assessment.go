package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceAssessment records one control's implementation and risk state
// within a framework for a company. Exactly one row exists per
// (company, framework, control_id).
type ComplianceAssessment struct {
	ID                   uuid.UUID  `json:"id"`
	CompanyID            uuid.UUID  `json:"company_id"`
	Framework            string     `json:"framework"`
	ControlID            string     `json:"control_id"`
	ControlDescription   string     `json:"control_description"`
	ImplementationStatus string     `json:"implementation_status"`
	EvidenceDocuments    []string   `json:"evidence_documents"`
	RiskLevel            string     `json:"risk_level"`
	AssignedTo           *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate              *time.Time `json:"due_date,omitempty"`
	LastReviewed         *time.Time `json:"last_reviewed,omitempty"`
	AIRecommendations    string     `json:"ai_recommendations,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Implementation status constants.
const (
	StatusNotStarted    = "not_started"
	StatusInProgress    = "in_progress"
	StatusImplemented   = "implemented"
	StatusNotApplicable = "not_applicable"
)

// Risk level constants.
const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// IsValidImplementationStatus checks if the given status is valid.
func IsValidImplementationStatus(status string) bool {
	switch status {
	case StatusNotStarted, StatusInProgress, StatusImplemented, StatusNotApplicable:
		return true
	}
	return false
}

// IsValidRiskLevel checks if the given risk level is valid.
func IsValidRiskLevel(level string) bool {
	switch level {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ComplianceSummary aggregates assessment rows for a single framework.
// HighRisk counts rows whose risk level is high or critical.
type ComplianceSummary struct {
	Total       int `json:"total"`
	Implemented int `json:"implemented"`
	InProgress  int `json:"in_progress"`
	HighRisk    int `json:"high_risk"`
}
