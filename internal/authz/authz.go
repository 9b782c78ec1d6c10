// Package authz is the single capability checker for team-scoped resources.
// Every team, project and task service routes its role and relationship
// checks through here so the rules cannot drift between services.
package authz

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/repository"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// Checker evaluates access rules against the membership store.
type Checker struct {
	teams   repository.TeamRepository
	members repository.MembershipRepository
	users   repository.UserRepository
}

// NewChecker constructs the checker.
func NewChecker(teams repository.TeamRepository, members repository.MembershipRepository, users repository.UserRepository) *Checker {
	return &Checker{teams: teams, members: members, users: users}
}

// RequireMember fails with NotFound when the team does not exist and
// Forbidden when the caller holds no membership. Every team, project and
// task mutation routes through this check.
func (c *Checker) RequireMember(ctx context.Context, teamID, userID int64) (*domain.Membership, error) {
	if _, err := c.teams.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": teamID})
		}
		return nil, apperrors.MapError(err)
	}

	membership, err := c.members.Lookup(ctx, teamID, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewForbidden("only team members can access this team")
		}
		return nil, apperrors.MapError(err)
	}
	return membership, nil
}

// RequireOwner fails with Forbidden unless the caller's membership role is
// owner. Gates roster management.
func (c *Checker) RequireOwner(ctx context.Context, teamID, userID int64) (*domain.Membership, error) {
	membership, err := c.RequireMember(ctx, teamID, userID)
	if err != nil {
		return nil, err
	}
	if membership.Role != domain.TeamRoleOwner {
		return nil, apperrors.NewForbidden("only team owners can perform this action")
	}
	return membership, nil
}

// EnsureTeamMember validates an assignee: the user must exist (NotFound
// otherwise) and hold a current membership in the team (BadRequest
// otherwise). Resolved via the membership store, not mere user existence.
func (c *Checker) EnsureTeamMember(ctx context.Context, teamID, userID int64) error {
	if _, err := c.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundMessage("assignee user not found")
		}
		return apperrors.MapError(err)
	}

	if _, err := c.members.Lookup(ctx, teamID, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewBadRequest("user is not a member of this team")
		}
		return apperrors.MapError(err)
	}
	return nil
}

// CanManageAssignment reports whether the caller may change a task's
// assignee: project creator, team owner, or task creator. The caller is
// assumed to already hold the given membership.
func CanManageAssignment(project *domain.Project, membership *domain.Membership, task *domain.Task, callerID int64) bool {
	return project.CreatedBy == callerID ||
		membership.Role == domain.TeamRoleOwner ||
		task.CreatedBy == callerID
}

// CanDeleteTask reports whether the caller may delete a task: task creator,
// project creator, or team owner. Independent of the current assignee.
func CanDeleteTask(project *domain.Project, membership *domain.Membership, task *domain.Task, callerID int64) bool {
	return task.CreatedBy == callerID ||
		project.CreatedBy == callerID ||
		membership.Role == domain.TeamRoleOwner
}

// CanUpdateTask reports the assignee-only rule: task content and status
// edits are restricted to the currently assigned user regardless of team or
// project role.
func CanUpdateTask(task *domain.Task, callerID int64) bool {
	return task.AssignedUserID != nil && *task.AssignedUserID == callerID
}
