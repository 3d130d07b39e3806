package models

import (
	"github.com/google/uuid"
)

// Identity is the authenticated user's profile record as the client sees it.
// CompanyID is nil until the user joins or creates a company.
type Identity struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	FullName          string     `json:"full_name,omitempty"`
	CompanyID         *uuid.UUID `json:"company_id,omitempty"`
	ComplianceRole    string     `json:"compliance_role,omitempty"`
	SecurityClearance string     `json:"security_clearance,omitempty"`
	MFAEnabled        bool       `json:"mfa_enabled"`
}

// Compliance role constants.
const (
	RoleCISO              = "CISO"
	RoleITAdmin           = "IT Admin"
	RoleComplianceOfficer = "Compliance Officer"
	RoleAuditor           = "Auditor"
)

// ValidComplianceRoles contains all valid compliance role values.
var ValidComplianceRoles = []string{RoleCISO, RoleITAdmin, RoleComplianceOfficer, RoleAuditor}

// IsValidComplianceRole checks if the given role is valid.
func IsValidComplianceRole(role string) bool {
	for _, r := range ValidComplianceRoles {
		if r == role {
			return true
		}
	}
	return false
}

// FallbackIdentity builds a minimal identity from the auth service's own user
// record. Used when the profile row is unreachable or does not exist yet,
// so the caller always has some identity once auth succeeds.
func FallbackIdentity(id uuid.UUID, email, fullName string) *Identity {
	return &Identity{
		ID:       id,
		Email:    email,
		FullName: fullName,
	}
}
