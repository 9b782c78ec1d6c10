package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/hunde51/task-management-app/internal/authz"
	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/events"
	"github.com/hunde51/task-management-app/internal/persistence"
	"github.com/hunde51/task-management-app/internal/repository"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// TaskService coordinates task workflows: creation, join-based visibility
// listing, the assignee-only mutation rule, and assignment management.
type TaskService struct {
	tasks      repository.TaskRepository
	projects   repository.ProjectRepository
	access     *authz.Checker
	tx         persistence.TxRunner
	dispatcher events.Dispatcher
}

// TaskDependencies bundles requirements for the task service.
type TaskDependencies struct {
	TaskRepo    repository.TaskRepository
	ProjectRepo repository.ProjectRepository
	Access      *authz.Checker
	Tx          persistence.TxRunner
	Dispatcher  events.Dispatcher
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	return &TaskService{
		tasks:      deps.TaskRepo,
		projects:   deps.ProjectRepo,
		access:     deps.Access,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// TaskCreateInput describes a task creation payload.
type TaskCreateInput struct {
	ProjectID      int64
	Title          string
	Description    *string
	AssignedUserID *int64
	DueDate        *time.Time
}

// TaskPatch describes a partial task update. Only non-nil fields are applied.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
}

// TaskListFilter narrows the visible-task listing.
type TaskListFilter struct {
	ProjectID      *int64
	Status         *domain.TaskStatus
	AssignedUserID *int64
}

// TaskSummary aggregates the caller's assigned tasks.
type TaskSummary struct {
	Tasks         []domain.TaskDetail
	StatusCounts  map[domain.TaskStatus]int
	TotalProjects int64
}

// CreateTask creates a task in a project of a team the caller belongs to.
// An assignee must be a current member of that team. Status is always todo
// regardless of any caller-supplied value.
func (s *TaskService) CreateTask(ctx context.Context, input TaskCreateInput, callerID int64) (*domain.TaskDetail, error) {
	project, err := s.getProject(ctx, input.ProjectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, project.TeamID, callerID); err != nil {
		return nil, err
	}
	if input.AssignedUserID != nil {
		if err := s.access.EnsureTeamMember(ctx, project.TeamID, *input.AssignedUserID); err != nil {
			return nil, err
		}
	}

	task := &domain.Task{
		ProjectID:      project.ID,
		Title:          strings.TrimSpace(input.Title),
		Description:    normalizeDescription(input.Description),
		Status:         domain.TaskStatusTodo,
		AssignedUserID: input.AssignedUserID,
		DueDate:        input.DueDate,
		CreatedBy:      callerID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	detail, err := s.tasks.GetDetail(ctx, task.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventTaskCreated,
		ActorID: callerID,
		Payload: events.TaskCreatedPayload{
			TaskID:         task.ID,
			ProjectID:      task.ProjectID,
			Title:          task.Title,
			AssignedUserID: task.AssignedUserID,
		},
	})
	return detail, nil
}

// ListTasks returns every task visible to the caller, narrowed by the
// filter. Visibility is the Task -> Project -> Membership join; a projectId
// filter additionally validates membership up front so a non-member gets a
// clear Forbidden instead of an empty list.
func (s *TaskService) ListTasks(ctx context.Context, callerID int64, filter TaskListFilter) ([]domain.TaskDetail, error) {
	if filter.ProjectID != nil {
		project, err := s.getProject(ctx, *filter.ProjectID)
		if err != nil {
			return nil, err
		}
		if _, err := s.access.RequireMember(ctx, project.TeamID, callerID); err != nil {
			return nil, err
		}
	}
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status filter", map[string]any{"status": "must be one of todo, in-progress, done"})
	}

	tasks, err := s.tasks.ListVisible(ctx, repository.TaskFilter{
		CallerID:       callerID,
		ProjectID:      filter.ProjectID,
		Status:         filter.Status,
		AssignedUserID: filter.AssignedUserID,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

// UpdateTask applies a partial content update. Assignee-only: team and
// project roles grant no mutation rights here.
func (s *TaskService) UpdateTask(ctx context.Context, taskID int64, patch TaskPatch, callerID int64) (*domain.TaskDetail, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdateTask(task, callerID) {
		return nil, apperrors.NewForbidden("only the assigned user can update this task")
	}

	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = normalizeDescription(patch.Description)
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}

	return s.saveAndFetch(ctx, task)
}

// UpdateTaskStatus moves a task between todo, in-progress and done.
// Assignee-only, like content updates.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, taskID int64, status domain.TaskStatus, callerID int64) (*domain.TaskDetail, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": "must be one of todo, in-progress, done"})
	}

	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if !authz.CanUpdateTask(task, callerID) {
		return nil, apperrors.NewForbidden("only the assigned user can update task status")
	}

	oldStatus := task.Status
	task.Status = status

	detail, err := s.saveAndFetch(ctx, task)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventTaskStatusChanged,
		ActorID: callerID,
		Payload: events.TaskStatusChangedPayload{TaskID: task.ID, OldStatus: oldStatus, NewStatus: status},
	})
	return detail, nil
}

// AssignTask sets or clears the assignee. Allowed for the project creator,
// a team owner, or the task creator; a non-nil assignee must be a current
// team member. Clearing always succeeds for an authorized caller.
func (s *TaskService) AssignTask(ctx context.Context, taskID int64, assignedUserID *int64, callerID int64) (*domain.TaskDetail, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return nil, err
	}
	membership, err := s.access.RequireMember(ctx, project.TeamID, callerID)
	if err != nil {
		return nil, err
	}
	if !authz.CanManageAssignment(project, membership, task, callerID) {
		return nil, apperrors.NewForbidden("only the team owner, project creator or task creator can assign this task")
	}
	if assignedUserID != nil {
		if err := s.access.EnsureTeamMember(ctx, project.TeamID, *assignedUserID); err != nil {
			return nil, err
		}
	}

	task.AssignedUserID = assignedUserID

	detail, err := s.saveAndFetch(ctx, task)
	if err != nil {
		return nil, err
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventTaskAssigned,
		ActorID: callerID,
		Payload: events.TaskAssignedPayload{TaskID: task.ID, AssignedUserID: assignedUserID},
	})
	return detail, nil
}

// DeleteTask removes a task. Allowed for the task creator, the project
// creator, or a team owner; the current assignee gets no say.
func (s *TaskService) DeleteTask(ctx context.Context, taskID, callerID int64) error {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return err
	}
	project, err := s.getProject(ctx, task.ProjectID)
	if err != nil {
		return err
	}
	membership, err := s.access.RequireMember(ctx, project.TeamID, callerID)
	if err != nil {
		return err
	}
	if !authz.CanDeleteTask(project, membership, task, callerID) {
		return apperrors.NewForbidden("you do not have permission to delete this task")
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// GetMyTasksSummary returns the caller's assigned tasks ordered by due date
// (nulls last) with a histogram over every known status and the number of
// distinct projects involved.
func (s *TaskService) GetMyTasksSummary(ctx context.Context, callerID int64) (*TaskSummary, error) {
	tasks, err := s.tasks.ListAssigned(ctx, callerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	counts := make(map[domain.TaskStatus]int, len(domain.TaskStatuses))
	for _, status := range domain.TaskStatuses {
		counts[status] = 0
	}
	for i := range tasks {
		counts[tasks[i].Status]++
	}

	totalProjects, err := s.tasks.CountDistinctProjects(ctx, callerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	return &TaskSummary{
		Tasks:         tasks,
		StatusCounts:  counts,
		TotalProjects: totalProjects,
	}, nil
}

func (s *TaskService) saveAndFetch(ctx context.Context, task *domain.Task) (*domain.TaskDetail, error) {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.tasks.Update(ctx, task)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	detail, err := s.tasks.GetDetail(ctx, task.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return detail, nil
}

func (s *TaskService) getTask(ctx context.Context, taskID int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("task", map[string]any{"task_id": taskID})
		}
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

func (s *TaskService) getProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}
