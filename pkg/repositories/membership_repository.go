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

// MembershipRepository provides data access for team membership records.
type MembershipRepository interface {
	GetByCompanyAndUser(ctx context.Context, companyID, userID uuid.UUID) (*models.TeamMember, error)
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.TeamMember, error)
	Create(ctx context.Context, member *models.TeamMember) error
}

type membershipRepository struct {
	db *database.DB
}

// NewMembershipRepository creates a new MembershipRepository.
func NewMembershipRepository(db *database.DB) MembershipRepository {
	return &membershipRepository{db: db}
}

var _ MembershipRepository = (*membershipRepository)(nil)

func (r *membershipRepository) GetByCompanyAndUser(ctx context.Context, companyID, userID uuid.UUID) (*models.TeamMember, error) {
	query := `
		SELECT id, company_id, user_id, role, permissions, status, created_at
		FROM team_members
		WHERE company_id = $1 AND user_id = $2`

	member, err := scanMemberRow(r.db.QueryRow(ctx, query, companyID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *membershipRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*models.TeamMember, error) {
	query := `
		SELECT id, company_id, user_id, role, permissions, status, created_at
		FROM team_members
		WHERE company_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query team members: %w", err)
	}
	defer rows.Close()

	var members []*models.TeamMember
	for rows.Next() {
		member, err := scanMemberRow(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return members, nil
}

func (r *membershipRepository) Create(ctx context.Context, member *models.TeamMember) error {
	if !models.IsValidTeamRole(member.Role) {
		return apperrors.ErrInvalidRole
	}
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	member.CreatedAt = time.Now()
	if member.Permissions == nil {
		member.Permissions = []string{}
	}
	if member.Status == "" {
		member.Status = models.MemberStatusPending
	}

	query := `
		INSERT INTO team_members (id, company_id, user_id, role, permissions, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		member.ID, member.CompanyID, member.UserID, member.Role,
		member.Permissions, member.Status, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create team member: %w", err)
	}
	return nil
}

func scanMemberRow(row pgx.Row) (*models.TeamMember, error) {
	var member models.TeamMember
	err := row.Scan(
		&member.ID, &member.CompanyID, &member.UserID, &member.Role,
		&member.Permissions, &member.Status, &member.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan team member: %w", err)
	}
	return &member, nil
}
