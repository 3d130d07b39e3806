package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a dashboard notice addressed to an identity within a company.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CompanyID uuid.UUID `json:"company_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ActionURL string    `json:"action_url,omitempty"`
	Priority  string    `json:"priority"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Notification type constants.
const (
	NotifyComplianceDeadline = "compliance_deadline"
	NotifySecurityAlert      = "security_alert"
	NotifySystemUpdate       = "system_update"
	NotifyTeamInvite         = "team_invite"
)

// Notification priority constants.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// IsValidNotificationType checks if the given notification type is valid.
func IsValidNotificationType(t string) bool {
	switch t {
	case NotifyComplianceDeadline, NotifySecurityAlert, NotifySystemUpdate, NotifyTeamInvite:
		return true
	}
	return false
}

// IsValidPriority checks if the given priority is valid.
func IsValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
