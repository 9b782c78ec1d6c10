package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/persistence"
)

// MembershipRepository manages the (team, user) -> role relation. Rows are
// insert-only; the unique (team_id, user_id) constraint is the final
// authority on duplicates.
type MembershipRepository interface {
	Insert(ctx context.Context, membership *domain.Membership) error
	Lookup(ctx context.Context, teamID, userID int64) (*domain.Membership, error)
	GetDetail(ctx context.Context, teamID, userID int64) (*domain.MemberDetail, error)
	ListByTeam(ctx context.Context, teamID int64) ([]domain.MemberDetail, error)
}

type membershipRepository struct {
	pool *pgxpool.Pool
}

// NewMembershipRepository constructs repository.
func NewMembershipRepository(pool *pgxpool.Pool) MembershipRepository {
	return &membershipRepository{pool: pool}
}

func (r *membershipRepository) db(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

func (r *membershipRepository) Insert(ctx context.Context, membership *domain.Membership) error {
	const query = `
        INSERT INTO team_members (team_id, user_id, role)
        VALUES ($1,$2,$3)
        RETURNING id, joined_at`
	return r.db(ctx).QueryRow(ctx, query,
		membership.TeamID,
		membership.UserID,
		membership.Role,
	).Scan(&membership.ID, &membership.JoinedAt)
}

func (r *membershipRepository) Lookup(ctx context.Context, teamID, userID int64) (*domain.Membership, error) {
	const query = `
        SELECT id, team_id, user_id, role, joined_at
        FROM team_members WHERE team_id=$1 AND user_id=$2`
	var membership domain.Membership
	if err := r.db(ctx).QueryRow(ctx, query, teamID, userID).Scan(
		&membership.ID,
		&membership.TeamID,
		&membership.UserID,
		&membership.Role,
		&membership.JoinedAt,
	); err != nil {
		return nil, err
	}
	return &membership, nil
}

const memberDetailColumns = `
        tm.id, tm.team_id, tm.user_id, tm.role, tm.joined_at,
        u.username, u.email, u.first_name, u.last_name`

func (r *membershipRepository) GetDetail(ctx context.Context, teamID, userID int64) (*domain.MemberDetail, error) {
	const query = `
        SELECT` + memberDetailColumns + `
        FROM team_members tm
        JOIN users u ON u.id = tm.user_id
        WHERE tm.team_id=$1 AND tm.user_id=$2`
	var detail domain.MemberDetail
	if err := scanMemberDetail(r.db(ctx).QueryRow(ctx, query, teamID, userID), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByTeam returns the roster joined with user profiles, oldest member
// first with a stable id tie-break.
func (r *membershipRepository) ListByTeam(ctx context.Context, teamID int64) ([]domain.MemberDetail, error) {
	const query = `
        SELECT` + memberDetailColumns + `
        FROM team_members tm
        JOIN users u ON u.id = tm.user_id
        WHERE tm.team_id=$1
        ORDER BY tm.joined_at ASC, tm.id ASC`
	rows, err := r.db(ctx).Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MemberDetail
	for rows.Next() {
		var detail domain.MemberDetail
		if err := scanMemberDetail(rows, &detail); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMemberDetail(row rowScanner, detail *domain.MemberDetail) error {
	return row.Scan(
		&detail.ID,
		&detail.TeamID,
		&detail.UserID,
		&detail.Role,
		&detail.JoinedAt,
		&detail.Username,
		&detail.Email,
		&detail.FirstName,
		&detail.LastName,
	)
}
