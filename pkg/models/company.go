package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the tenant an identity belongs to. One company has many team
// members; an identity has at most one company.
type Company struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Industry             string    `json:"industry,omitempty"`
	CompanySize          string    `json:"company_size,omitempty"`
	ComplianceFrameworks []string  `json:"compliance_frameworks"`
	SubscriptionTier     string    `json:"subscription_tier"`
	CreatedAt            time.Time `json:"created_at"`
}

// Company size tiers.
const (
	SizeSMB        = "SMB"
	SizeMidMarket  = "Mid-market"
	SizeEnterprise = "Enterprise"
)

// Subscription tiers.
const (
	TierStarter      = "starter"
	TierProfessional = "professional"
	TierEnterprise   = "enterprise"
)

// ValidSubscriptionTiers contains all valid subscription tier values.
var ValidSubscriptionTiers = []string{TierStarter, TierProfessional, TierEnterprise}

// IsValidSubscriptionTier checks if the given tier is valid.
func IsValidSubscriptionTier(tier string) bool {
	for _, t := range ValidSubscriptionTiers {
		if t == tier {
			return true
		}
	}
	return false
}
