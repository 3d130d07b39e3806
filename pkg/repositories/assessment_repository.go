package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vcisolabs/vciso-engine/pkg/database"
	"github.com/vcisolabs/vciso-engine/pkg/models"
)

// AssessmentRepository provides data access for compliance assessments.
type AssessmentRepository interface {
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.ComplianceAssessment, error)
	// Upsert inserts a control assessment or replaces the existing row for
	// the same (company, framework, control_id).
	Upsert(ctx context.Context, assessment *models.ComplianceAssessment) error
}

type assessmentRepository struct {
	db *database.DB
}

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(db *database.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

var _ AssessmentRepository = (*assessmentRepository)(nil)

func (r *assessmentRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.ComplianceAssessment, error) {
	query := `
		SELECT id, company_id, framework, control_id, control_description, implementation_status,
		       evidence_documents, risk_level, assigned_to, due_date, last_reviewed, ai_recommendations,
		       created_at, updated_at
		FROM compliance_assessments
		WHERE company_id = $1
		ORDER BY framework, control_id`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	var assessments []*models.ComplianceAssessment
	for rows.Next() {
		a, err := scanAssessmentRow(rows)
		if err != nil {
			return nil, err
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return assessments, nil
}

func (r *assessmentRepository) Upsert(ctx context.Context, assessment *models.ComplianceAssessment) error {
	if !models.IsValidImplementationStatus(assessment.ImplementationStatus) {
		return fmt.Errorf("invalid implementation status %q", assessment.ImplementationStatus)
	}
	if !models.IsValidRiskLevel(assessment.RiskLevel) {
		return fmt.Errorf("invalid risk level %q", assessment.RiskLevel)
	}
	if assessment.ID == uuid.Nil {
		assessment.ID = uuid.New()
	}
	now := time.Now()
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = now
	}
	assessment.UpdatedAt = now
	if assessment.EvidenceDocuments == nil {
		assessment.EvidenceDocuments = []string{}
	}

	query := `
		INSERT INTO compliance_assessments (
			id, company_id, framework, control_id, control_description, implementation_status,
			evidence_documents, risk_level, assigned_to, due_date, last_reviewed, ai_recommendations,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (company_id, framework, control_id) DO UPDATE SET
			control_description = EXCLUDED.control_description,
			implementation_status = EXCLUDED.implementation_status,
			evidence_documents = EXCLUDED.evidence_documents,
			risk_level = EXCLUDED.risk_level,
			assigned_to = EXCLUDED.assigned_to,
			due_date = EXCLUDED.due_date,
			last_reviewed = EXCLUDED.last_reviewed,
			ai_recommendations = EXCLUDED.ai_recommendations,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(ctx, query,
		assessment.ID, assessment.CompanyID, assessment.Framework, assessment.ControlID,
		assessment.ControlDescription, assessment.ImplementationStatus,
		assessment.EvidenceDocuments, assessment.RiskLevel, assessment.AssignedTo,
		assessment.DueDate, assessment.LastReviewed, assessment.AIRecommendations,
		assessment.CreatedAt, assessment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert assessment: %w", err)
	}
	return nil
}

func scanAssessmentRow(row pgx.Row) (*models.ComplianceAssessment, error) {
	var a models.ComplianceAssessment
	err := row.Scan(
		&a.ID, &a.CompanyID, &a.Framework, &a.ControlID, &a.ControlDescription, &a.ImplementationStatus,
		&a.EvidenceDocuments, &a.RiskLevel, &a.AssignedTo, &a.DueDate, &a.LastReviewed, &a.AIRecommendations,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan assessment: %w", err)
	}
	return &a, nil
}
