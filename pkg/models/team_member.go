package models

import (
	"time"

	"github.com/google/uuid"
)

// TeamMember links an identity to a company with a role, a status, and a
// permission list. The company creator becomes "owner"; invitees start
// "pending".
type TeamMember struct {
	ID          uuid.UUID `json:"id"`
	CompanyID   uuid.UUID `json:"company_id"`
	UserID      uuid.UUID `json:"user_id"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// Team role constants.
const (
	TeamRoleOwner  = "owner"
	TeamRoleAdmin  = "admin"
	TeamRoleMember = "member"
	TeamRoleViewer = "viewer"
)

// Membership status constants.
const (
	MemberStatusActive   = "active"
	MemberStatusInactive = "inactive"
	MemberStatusPending  = "pending"
)

// ValidTeamRoles contains all valid team role values.
var ValidTeamRoles = []string{TeamRoleOwner, TeamRoleAdmin, TeamRoleMember, TeamRoleViewer}

// IsValidTeamRole checks if the given role is valid.
func IsValidTeamRole(role string) bool {
	for _, r := range ValidTeamRoles {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidMemberStatus checks if the given membership status is valid.
func IsValidMemberStatus(status string) bool {
	switch status {
	case MemberStatusActive, MemberStatusInactive, MemberStatusPending:
		return true
	}
	return false
}
