package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vcisolabs/vciso-engine/pkg/apperrors"
	"github.com/vcisolabs/vciso-engine/pkg/database"
	"github.com/vcisolabs/vciso-engine/pkg/models"
)

// DocumentRepository provides data access for company documents.
type DocumentRepository interface {
	Insert(ctx context.Context, doc *models.Document) error
	// ListApprovedByCompany returns up to limit approved documents for the
	// company, most recently updated first.
	ListApprovedByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type documentRepository struct {
	db *database.DB
}

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(db *database.DB) DocumentRepository {
	return &documentRepository{db: db}
}

var _ DocumentRepository = (*documentRepository)(nil)

func (r *documentRepository) Insert(ctx context.Context, doc *models.Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	now := time.Now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if doc.Status == "" {
		doc.Status = models.DocStatusDraft
	}
	if doc.Version == 0 {
		doc.Version = 1
	}
	if doc.FrameworkTags == nil {
		doc.FrameworkTags = []string{}
	}

	query := `
		INSERT INTO documents (id, company_id, user_id, document_type, title, content, framework_tags, ai_summary, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		doc.ID, doc.CompanyID, doc.UserID, doc.DocumentType, doc.Title, doc.Content,
		doc.FrameworkTags, doc.AISummary, doc.Status, doc.Version, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}
	return nil
}

func (r *documentRepository) ListApprovedByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*models.Document, error) {
	query := `
		SELECT id, company_id, user_id, document_type, title, content, framework_tags, ai_summary, status, version, created_at, updated_at
		FROM documents
		WHERE company_id = $1 AND status = $2
		ORDER BY updated_at DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, companyID, models.DocStatusApproved, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocumentRow(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return docs, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !models.IsValidDocumentStatus(status) {
		return fmt.Errorf("invalid document status %q", status)
	}

	result, err := r.db.Exec(ctx,
		`UPDATE documents SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update document status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanDocumentRow(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID, &doc.CompanyID, &doc.UserID, &doc.DocumentType, &doc.Title, &doc.Content,
		&doc.FrameworkTags, &doc.AISummary, &doc.Status, &doc.Version, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return &doc, nil
}
