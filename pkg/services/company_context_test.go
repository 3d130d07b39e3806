package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/models"
)

// mockCompanyRepo implements repositories.CompanyRepository for tests.
type mockCompanyRepo struct {
	frameworks    []string
	frameworksErr error
	company       *models.Company
	companyErr    error
}

func (m *mockCompanyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	return m.company, m.companyErr
}

func (m *mockCompanyRepo) GetFrameworks(ctx context.Context, id uuid.UUID) ([]string, error) {
	return m.frameworks, m.frameworksErr
}

func (m *mockCompanyRepo) Create(ctx context.Context, company *models.Company) error {
	return nil
}

// mockDocumentRepo implements repositories.DocumentRepository for tests.
type mockDocumentRepo struct {
	docs      []*models.Document
	docsErr   error
	lastLimit int
}

func (m *mockDocumentRepo) Insert(ctx context.Context, doc *models.Document) error { return nil }

func (m *mockDocumentRepo) ListApprovedByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.Document, error) {
	m.lastLimit = limit
	return m.docs, m.docsErr
}

func (m *mockDocumentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}

// mockAssessmentRepo implements repositories.AssessmentRepository for tests.
type mockAssessmentRepo struct {
	assessments []*models.ComplianceAssessment
	err         error
}

func (m *mockAssessmentRepo) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.ComplianceAssessment, error) {
	return m.assessments, m.err
}

func (m *mockAssessmentRepo) Upsert(ctx context.Context, assessment *models.ComplianceAssessment) error {
	return nil
}

func assessment(framework, status, risk string) *models.ComplianceAssessment {
	return &models.ComplianceAssessment{
		ID:                   uuid.New(),
		Framework:            framework,
		ImplementationStatus: status,
		RiskLevel:            risk,
	}
}

func TestSummarizeAssessments(t *testing.T) {
	assessments := []*models.ComplianceAssessment{
		assessment("NIST", models.StatusImplemented, models.RiskLow),
		assessment("NIST", models.StatusInProgress, models.RiskHigh),
		assessment("NIST", models.StatusNotStarted, models.RiskCritical),
		assessment("SOC2", models.StatusImplemented, models.RiskMedium),
	}

	summary := SummarizeAssessments(assessments)
	require.Len(t, summary, 2)

	nist := summary["NIST"]
	require.NotNil(t, nist)
	assert.Equal(t, 3, nist.Total)
	assert.Equal(t, 1, nist.Implemented)
	assert.Equal(t, 1, nist.InProgress)
	assert.Equal(t, 2, nist.HighRisk)

	soc2 := summary["SOC2"]
	require.NotNil(t, soc2)
	assert.Equal(t, 1, soc2.Total)
	assert.Equal(t, 1, soc2.Implemented)
	assert.Equal(t, 0, soc2.InProgress)
	assert.Equal(t, 0, soc2.HighRisk)
}

func TestSummarizeAssessments_Empty(t *testing.T) {
	summary := SummarizeAssessments(nil)
	assert.Empty(t, summary)
}

func TestCompanyContextService_Load(t *testing.T) {
	companyID := uuid.New()

	t.Run("all reads succeed", func(t *testing.T) {
		companies := &mockCompanyRepo{frameworks: []string{"SOC2", "NIST"}}
		documents := &mockDocumentRepo{docs: []*models.Document{{Title: "Policy"}}}
		assessments := &mockAssessmentRepo{assessments: []*models.ComplianceAssessment{
			assessment("SOC2", models.StatusImplemented, models.RiskLow),
		}}

		svc := NewCompanyContextService(companies, documents, assessments, zap.NewNop())
		cc := svc.Load(context.Background(), companyID)

		assert.Equal(t, []string{"SOC2", "NIST"}, cc.Frameworks)
		assert.Len(t, cc.Documents, 1)
		assert.Len(t, cc.Assessments, 1)
		assert.Equal(t, 1, cc.Summary["SOC2"].Implemented)
		assert.Equal(t, 10, documents.lastLimit)
	})

	t.Run("failed reads default independently", func(t *testing.T) {
		companies := &mockCompanyRepo{frameworksErr: errors.New("boom")}
		documents := &mockDocumentRepo{docs: []*models.Document{{Title: "Policy"}}}
		assessments := &mockAssessmentRepo{err: errors.New("boom")}

		svc := NewCompanyContextService(companies, documents, assessments, zap.NewNop())
		cc := svc.Load(context.Background(), companyID)

		assert.Empty(t, cc.Frameworks)
		assert.Len(t, cc.Documents, 1)
		assert.Nil(t, cc.Assessments)
		assert.Empty(t, cc.Summary)
	})
}
