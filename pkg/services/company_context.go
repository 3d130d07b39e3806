package services

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vcisolabs/vciso-engine/pkg/models"
	"github.com/vcisolabs/vciso-engine/pkg/repositories"
)

// contextDocumentLimit caps how many approved documents feed assistant context.
const contextDocumentLimit = 10

// CompanyContext is everything the assistant needs to know about a company:
// its enabled frameworks, recent approved documents, raw assessments, and
// the derived per-framework compliance summary.
type CompanyContext struct {
	Frameworks  []string
	Documents   []*models.Document
	Assessments []*models.ComplianceAssessment
	Summary     map[string]*models.ComplianceSummary
}

// CompanyContextService loads a company's assistant context.
type CompanyContextService interface {
	// Load performs three independent reads (frameworks, approved documents,
	// assessments). A failed read leaves its slice of context empty and the
	// others proceed; reads are not transactional with respect to each other.
	Load(ctx context.Context, companyID uuid.UUID) *CompanyContext
}

type companyContextService struct {
	companies   repositories.CompanyRepository
	documents   repositories.DocumentRepository
	assessments repositories.AssessmentRepository
	logger      *zap.Logger
}

// NewCompanyContextService creates a new company context service.
func NewCompanyContextService(
	companies repositories.CompanyRepository,
	documents repositories.DocumentRepository,
	assessments repositories.AssessmentRepository,
	logger *zap.Logger,
) CompanyContextService {
	return &companyContextService{
		companies:   companies,
		documents:   documents,
		assessments: assessments,
		logger:      logger.Named("company-context"),
	}
}

var _ CompanyContextService = (*companyContextService)(nil)

func (s *companyContextService) Load(ctx context.Context, companyID uuid.UUID) *CompanyContext {
	cc := &CompanyContext{
		Frameworks: []string{},
		Summary:    map[string]*models.ComplianceSummary{},
	}

	frameworks, err := s.companies.GetFrameworks(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to load company frameworks",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
	} else if frameworks != nil {
		cc.Frameworks = frameworks
	}

	documents, err := s.documents.ListApprovedByCompany(ctx, companyID, contextDocumentLimit)
	if err != nil {
		s.logger.Error("Failed to load company documents",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
	} else {
		cc.Documents = documents
	}

	assessments, err := s.assessments.ListByCompany(ctx, companyID)
	if err != nil {
		s.logger.Error("Failed to load compliance assessments",
			zap.String("company_id", companyID.String()),
			zap.Error(err))
	} else {
		cc.Assessments = assessments
		cc.Summary = SummarizeAssessments(assessments)
	}

	return cc
}

// SummarizeAssessments derives per-framework counters in a single pass:
// total controls, implemented, in progress, and rows whose risk level is
// high or critical.
func SummarizeAssessments(assessments []*models.ComplianceAssessment) map[string]*models.ComplianceSummary {
	summary := make(map[string]*models.ComplianceSummary)
	for _, a := range assessments {
		s, ok := summary[a.Framework]
		if !ok {
			s = &models.ComplianceSummary{}
			summary[a.Framework] = s
		}
		s.Total++

		switch a.ImplementationStatus {
		case models.StatusImplemented:
			s.Implemented++
		case models.StatusInProgress:
			s.InProgress++
		}
		if a.RiskLevel == models.RiskHigh || a.RiskLevel == models.RiskCritical {
			s.HighRisk++
		}
	}
	return summary
}
