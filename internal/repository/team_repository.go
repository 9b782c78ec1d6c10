package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/persistence"
)

// TeamRepository manages persistence for teams.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id int64) (*domain.Team, error)
	GetByName(ctx context.Context, name string) (*domain.Team, error)
	ListForUser(ctx context.Context, userID int64) ([]domain.TeamWithRole, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) db(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (name, description, created_by)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query,
		team.Name,
		team.Description,
		team.CreatedBy,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	const query = `
        SELECT id, name, description, created_by, created_at, updated_at
        FROM teams WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *teamRepository) GetByName(ctx context.Context, name string) (*domain.Team, error) {
	const query = `
        SELECT id, name, description, created_by, created_at, updated_at
        FROM teams WHERE name=$1`
	return r.fetchSingle(ctx, query, name)
}

func (r *teamRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Team, error) {
	var team domain.Team
	if err := r.db(ctx).QueryRow(ctx, query, arg).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.CreatedBy,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}

// ListForUser returns every team the user belongs to, joined with the user's
// role, newest first with a stable id tie-break.
func (r *teamRepository) ListForUser(ctx context.Context, userID int64) ([]domain.TeamWithRole, error) {
	const query = `
        SELECT t.id, t.name, t.description, t.created_by, t.created_at, t.updated_at, tm.role
        FROM teams t
        JOIN team_members tm ON tm.team_id = t.id
        WHERE tm.user_id = $1
        ORDER BY t.created_at DESC, t.id DESC`
	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamWithRole
	for rows.Next() {
		var team domain.TeamWithRole
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Description,
			&team.CreatedBy,
			&team.CreatedAt,
			&team.UpdatedAt,
			&team.Role,
		); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}
