package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/hunde51/task-management-app/internal/authz"
	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/events"
	"github.com/hunde51/task-management-app/internal/persistence"
	"github.com/hunde51/task-management-app/internal/repository"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// ProjectService coordinates project workflows. Any team member may create
// and edit projects; only the project creator may delete one.
type ProjectService struct {
	projects   repository.ProjectRepository
	access     *authz.Checker
	tx         persistence.TxRunner
	dispatcher events.Dispatcher
}

// ProjectDependencies bundles requirements for the project service.
type ProjectDependencies struct {
	ProjectRepo repository.ProjectRepository
	Access      *authz.Checker
	Tx          persistence.TxRunner
	Dispatcher  events.Dispatcher
}

// NewProjectService constructs the service.
func NewProjectService(deps ProjectDependencies) *ProjectService {
	return &ProjectService{
		projects:   deps.ProjectRepo,
		access:     deps.Access,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// ProjectPatch describes a partial project update. Only non-nil fields are
// applied.
type ProjectPatch struct {
	Name        *string
	Description *string
}

// CreateProject creates a project in the team. Names are unique per team;
// the same name in another team is fine.
func (s *ProjectService) CreateProject(ctx context.Context, teamID int64, name string, description *string, callerID int64) (*domain.Project, error) {
	if _, err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := s.checkNameFree(ctx, teamID, name, 0); err != nil {
		return nil, err
	}

	project := &domain.Project{
		TeamID:      teamID,
		Name:        name,
		Description: normalizeDescription(description),
		CreatedBy:   callerID,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventProjectCreated,
		ActorID: callerID,
		Payload: events.ProjectCreatedPayload{ProjectID: project.ID, TeamID: teamID, Name: project.Name},
	})
	return project, nil
}

// ListTeamProjects returns the team's projects, newest first.
func (s *ProjectService) ListTeamProjects(ctx context.Context, teamID, callerID int64) ([]domain.Project, error) {
	if _, err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	projects, err := s.projects.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// UpdateProject applies a partial update. Renaming re-checks per-team name
// uniqueness excluding the project itself.
func (s *ProjectService) UpdateProject(ctx context.Context, projectID int64, patch ProjectPatch, callerID int64) (*domain.Project, error) {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if _, err := s.access.RequireMember(ctx, project.TeamID, callerID); err != nil {
		return nil, err
	}

	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := s.checkNameFree(ctx, project.TeamID, name, project.ID); err != nil {
			return nil, err
		}
		project.Name = name
	}
	if patch.Description != nil {
		project.Description = normalizeDescription(patch.Description)
	}

	err = s.tx.InTx(ctx, func(ctx context.Context) error {
		return s.projects.Update(ctx, project)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// DeleteProject removes a project and, via the FK cascade, its tasks. Team
// membership is required but not sufficient: only the project creator may
// delete, whatever their team role.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID, callerID int64) error {
	project, err := s.getProject(ctx, projectID)
	if err != nil {
		return err
	}
	if _, err := s.access.RequireMember(ctx, project.TeamID, callerID); err != nil {
		return err
	}
	if project.CreatedBy != callerID {
		return apperrors.NewForbidden("only the project creator can delete this project")
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *ProjectService) getProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"project_id": projectID})
		}
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

func (s *ProjectService) checkNameFree(ctx context.Context, teamID int64, name string, excludeID int64) error {
	if _, err := s.projects.GetByTeamAndName(ctx, teamID, name, excludeID); err == nil {
		return apperrors.NewBadRequest("project name already exists in this team")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return apperrors.MapError(err)
	}
	return nil
}
