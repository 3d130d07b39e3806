package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vcisolabs/vciso-engine/pkg/apperrors"
	"github.com/vcisolabs/vciso-engine/pkg/database"
	"github.com/vcisolabs/vciso-engine/pkg/models"
)

// CompanyRepository provides data access for company records.
type CompanyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetFrameworks(ctx context.Context, id uuid.UUID) ([]string, error)
	Create(ctx context.Context, company *models.Company) error
}

type companyRepository struct {
	db *database.DB
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(db *database.DB) CompanyRepository {
	return &companyRepository{db: db}
}

var _ CompanyRepository = (*companyRepository)(nil)

func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	query := `
		SELECT id, name, industry, company_size, compliance_frameworks, subscription_tier, created_at
		FROM company_profiles
		WHERE id = $1`

	var company models.Company
	err := r.db.QueryRow(ctx, query, id).Scan(
		&company.ID, &company.Name, &company.Industry, &company.CompanySize,
		&company.ComplianceFrameworks, &company.SubscriptionTier, &company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company: %w", err)
	}

	return &company, nil
}

func (r *companyRepository) GetFrameworks(ctx context.Context, id uuid.UUID) ([]string, error) {
	query := `SELECT compliance_frameworks FROM company_profiles WHERE id = $1`

	var frameworks []string
	err := r.db.QueryRow(ctx, query, id).Scan(&frameworks)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get company frameworks: %w", err)
	}

	return frameworks, nil
}

func (r *companyRepository) Create(ctx context.Context, company *models.Company) error {
	if company.ID == uuid.Nil {
		company.ID = uuid.New()
	}
	company.CreatedAt = time.Now()
	if company.ComplianceFrameworks == nil {
		company.ComplianceFrameworks = []string{}
	}
	if company.SubscriptionTier == "" {
		company.SubscriptionTier = models.TierStarter
	}

	query := `
		INSERT INTO company_profiles (id, name, industry, company_size, compliance_frameworks, subscription_tier, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.Industry, company.CompanySize,
		company.ComplianceFrameworks, company.SubscriptionTier, company.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create company: %w", err)
	}
	return nil
}
