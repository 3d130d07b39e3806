package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vcisolabs/vciso-engine/pkg/apperrors"
	"github.com/vcisolabs/vciso-engine/pkg/database"
	"github.com/vcisolabs/vciso-engine/pkg/models"
)

// ProfileRepository provides data access for user profile records.
type ProfileRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	Create(ctx context.Context, profile *models.Identity) error
	Update(ctx context.Context, profile *models.Identity) error
}

type profileRepository struct {
	db *database.DB
}

// NewProfileRepository creates a new ProfileRepository.
func NewProfileRepository(db *database.DB) ProfileRepository {
	return &profileRepository{db: db}
}

var _ ProfileRepository = (*profileRepository)(nil)

func (r *profileRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	query := `
		SELECT id, email, full_name, company_id, compliance_role, security_clearance, mfa_enabled
		FROM user_profiles
		WHERE id = $1`

	var profile models.Identity
	var complianceRole, securityClearance *string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&profile.ID, &profile.Email, &profile.FullName, &profile.CompanyID,
		&complianceRole, &securityClearance, &profile.MFAEnabled,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if complianceRole != nil {
		profile.ComplianceRole = *complianceRole
	}
	if securityClearance != nil {
		profile.SecurityClearance = *securityClearance
	}

	return &profile, nil
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Identity) error {
	query := `
		INSERT INTO user_profiles (id, email, full_name, company_id, compliance_role, security_clearance, mfa_enabled)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.CompanyID,
		nullable(profile.ComplianceRole), nullable(profile.SecurityClearance), profile.MFAEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Identity) error {
	query := `
		UPDATE user_profiles
		SET email = $2,
		    full_name = $3,
		    company_id = $4,
		    compliance_role = $5,
		    security_clearance = $6,
		    mfa_enabled = $7
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query,
		profile.ID, profile.Email, profile.FullName, profile.CompanyID,
		nullable(profile.ComplianceRole), nullable(profile.SecurityClearance), profile.MFAEnabled,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
