package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/persistence"
)

// TaskFilter narrows the visible-task listing. CallerID is mandatory: the
// listing joins through team_members so only tasks in the caller's teams are
// ever returned.
type TaskFilter struct {
	CallerID       int64
	ProjectID      *int64
	Status         *domain.TaskStatus
	AssignedUserID *int64
}

// TaskRepository encapsulates task persistence.
type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) error
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Task, error)
	GetDetail(ctx context.Context, id int64) (*domain.TaskDetail, error)
	ListVisible(ctx context.Context, filter TaskFilter) ([]domain.TaskDetail, error)
	ListAssigned(ctx context.Context, userID int64) ([]domain.TaskDetail, error)
	CountDistinctProjects(ctx context.Context, userID int64) (int64, error)
}

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(pool *pgxpool.Pool) TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) db(ctx context.Context) persistence.Querier {
	return persistence.QuerierFrom(ctx, r.pool)
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) error {
	const query = `
        INSERT INTO tasks (project_id, title, description, status, assigned_user_id, due_date, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`
	return r.db(ctx).QueryRow(ctx, query,
		task.ProjectID,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedUserID,
		task.DueDate,
		task.CreatedBy,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	const query = `
        UPDATE tasks SET title=$1, description=$2, status=$3, assigned_user_id=$4, due_date=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	return r.db(ctx).QueryRow(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.AssignedUserID,
		task.DueDate,
		task.ID,
	).Scan(&task.UpdatedAt)
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db(ctx).Exec(ctx, `DELETE FROM tasks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	const query = `
        SELECT id, project_id, title, description, status, assigned_user_id, due_date, created_by, created_at, updated_at
        FROM tasks WHERE id=$1`
	var task domain.Task
	if err := r.db(ctx).QueryRow(ctx, query, id).Scan(
		&task.ID,
		&task.ProjectID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.AssignedUserID,
		&task.DueDate,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &task, nil
}

const taskDetailSelect = `
        SELECT t.id, t.project_id, t.title, t.description, t.status, t.assigned_user_id, t.due_date,
               t.created_by, t.created_at, t.updated_at,
               p.name, u.username, u.first_name, u.last_name
        FROM tasks t
        JOIN projects p ON p.id = t.project_id
        LEFT JOIN users u ON u.id = t.assigned_user_id`

func (r *taskRepository) GetDetail(ctx context.Context, id int64) (*domain.TaskDetail, error) {
	query := taskDetailSelect + ` WHERE t.id=$1`
	var detail domain.TaskDetail
	if err := scanTaskDetail(r.db(ctx).QueryRow(ctx, query, id), &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListVisible returns every task in any project of any team the caller
// belongs to. Visibility is the single join through team_members; no per-row
// membership re-checks.
func (r *taskRepository) ListVisible(ctx context.Context, filter TaskFilter) ([]domain.TaskDetail, error) {
	base := taskDetailSelect + `
        JOIN team_members tm ON tm.team_id = p.team_id`

	args := []any{filter.CallerID}
	clauses := []string{"tm.user_id = $1"}

	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		clauses = append(clauses, fmt.Sprintf("t.project_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if filter.AssignedUserID != nil {
		args = append(args, *filter.AssignedUserID)
		clauses = append(clauses, fmt.Sprintf("t.assigned_user_id = $%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC, t.id DESC`,
		base, strings.Join(clauses, " AND "))

	rows, err := r.db(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaskDetails(rows)
}

// ListAssigned returns the user's assigned tasks ordered by due date with
// nulls last, then newest first.
func (r *taskRepository) ListAssigned(ctx context.Context, userID int64) ([]domain.TaskDetail, error) {
	query := taskDetailSelect + `
        WHERE t.assigned_user_id = $1
        ORDER BY t.due_date ASC NULLS LAST, t.created_at DESC`
	rows, err := r.db(ctx).Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTaskDetails(rows)
}

func (r *taskRepository) CountDistinctProjects(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT COUNT(DISTINCT project_id) FROM tasks WHERE assigned_user_id=$1`
	var count int64
	if err := r.db(ctx).QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func scanTaskDetail(row rowScanner, detail *domain.TaskDetail) error {
	return row.Scan(
		&detail.ID,
		&detail.ProjectID,
		&detail.Title,
		&detail.Description,
		&detail.Status,
		&detail.AssignedUserID,
		&detail.DueDate,
		&detail.CreatedBy,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.ProjectName,
		&detail.AssignedUsername,
		&detail.AssignedFirstName,
		&detail.AssignedLastName,
	)
}

func scanTaskDetails(rows pgx.Rows) ([]domain.TaskDetail, error) {
	var result []domain.TaskDetail
	for rows.Next() {
		var detail domain.TaskDetail
		if err := scanTaskDetail(rows, &detail); err != nil {
			return nil, err
		}
		result = append(result, detail)
	}
	return result, rows.Err()
}
