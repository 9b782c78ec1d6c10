package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/persistence"
)

// ProjectRepository encapsulates project persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	Update(ctx context.Context, project *domain.Project) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	GetByTeamAndName(ctx context.Context, teamID int64, name string, excludeID int64) (*domain.Project, error)
	ListByTeam(ctx context.Context, teamID int64) ([]domain.Project, error)
}

type projectRepository struct {
	pool *pgxpool.Pool
}

// NewProjectRepository constructs repository.
func NewProjectRepository(pool *pgxpool.Pool) ProjectRepository {
	return &projectRepository{pool: pool}
}

func (r *projectRepository) db(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

const projectColumns = `id, team_id, name, description, created_by, created_at, updated_at`

func (r *projectRepository) Create(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (team_id, name, description, created_by)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query,
		project.TeamID,
		project.Name,
		project.Description,
		project.CreatedBy,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
}

func (r *projectRepository) Update(ctx context.Context, project *domain.Project) error {
	const query = `
        UPDATE projects SET name=$1, description=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	return r.db(ctx).QueryRow(ctx, query,
		project.Name,
		project.Description,
		project.ID,
	).Scan(&project.UpdatedAt)
}

// Delete removes the project; tasks go with it via the FK cascade.
func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db(ctx).Exec(ctx, `DELETE FROM projects WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	const query = `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	var project domain.Project
	if err := scanProject(r.db(ctx).QueryRow(ctx, query, id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// GetByTeamAndName checks per-team name uniqueness. excludeID skips the
// project's own row on rename; pass 0 on create.
func (r *projectRepository) GetByTeamAndName(ctx context.Context, teamID int64, name string, excludeID int64) (*domain.Project, error) {
	const query = `
        SELECT ` + projectColumns + `
        FROM projects WHERE team_id=$1 AND name=$2 AND id<>$3`
	var project domain.Project
	if err := scanProject(r.db(ctx).QueryRow(ctx, query, teamID, name, excludeID), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) ListByTeam(ctx context.Context, teamID int64) ([]domain.Project, error) {
	const query = `
        SELECT ` + projectColumns + `
        FROM projects WHERE team_id=$1
        ORDER BY created_at DESC, id DESC`
	rows, err := r.db(ctx).Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := scanProject(rows, &project); err != nil {
			return nil, err
		}
		result = append(result, project)
	}
	return result, rows.Err()
}

func scanProject(row rowScanner, project *domain.Project) error {
	return row.Scan(
		&project.ID,
		&project.TeamID,
		&project.Name,
		&project.Description,
		&project.CreatedBy,
		&project.CreatedAt,
		&project.UpdatedAt,
	)
}
