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

// TeamService coordinates team and membership workflows.
type TeamService struct {
	teams      repository.TeamRepository
	members    repository.MembershipRepository
	users      repository.UserRepository
	access     *authz.Checker
	tx         persistence.TxRunner
	dispatcher events.Dispatcher
}

// TeamDependencies bundles requirements for the team service.
type TeamDependencies struct {
	TeamRepo       repository.TeamRepository
	MembershipRepo repository.MembershipRepository
	UserRepo       repository.UserRepository
	Access         *authz.Checker
	Tx             persistence.TxRunner
	Dispatcher     events.Dispatcher
}

// NewTeamService constructs the service.
func NewTeamService(deps TeamDependencies) *TeamService {
	return &TeamService{
		teams:      deps.TeamRepo,
		members:    deps.MembershipRepo,
		users:      deps.UserRepo,
		access:     deps.Access,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTeam creates a team and grants the creator an owner membership in
// the same transaction: a team must never exist without its creator's
// ownership.
func (s *TeamService) CreateTeam(ctx context.Context, name string, description *string, creatorID int64) (*domain.Team, error) {
	name = strings.TrimSpace(name)

	if _, err := s.teams.GetByName(ctx, name); err == nil {
		return nil, apperrors.NewBadRequest("team name already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	team := &domain.Team{
		Name:        name,
		Description: normalizeDescription(description),
		CreatedBy:   creatorID,
	}

	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.teams.Create(ctx, team); err != nil {
			return err
		}
		membership := &domain.Membership{
			TeamID: team.ID,
			UserID: creatorID,
			Role:   domain.TeamRoleOwner,
		}
		return s.members.Insert(ctx, membership)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventTeamCreated,
		ActorID: creatorID,
		Payload: events.TeamCreatedPayload{TeamID: team.ID, Name: team.Name},
	})
	return team, nil
}

// ListMyTeams returns the caller's teams with their role in each.
func (s *TeamService) ListMyTeams(ctx context.Context, callerID int64) ([]domain.TeamWithRole, error) {
	teams, err := s.teams.ListForUser(ctx, callerID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// ListMembers returns the team roster for a member.
func (s *TeamService) ListMembers(ctx context.Context, teamID, callerID int64) ([]domain.MemberDetail, error) {
	if _, err := s.access.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}
	members, err := s.members.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}

// AddMember adds a user to the team by id. Only owners manage the roster.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID int64, role domain.TeamRole, callerID int64) (*domain.MemberDetail, error) {
	if _, err := s.access.RequireOwner(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	return s.insertMembership(ctx, teamID, userID, role, callerID)
}

// InviteMember adds a user identified by exact username or email.
func (s *TeamService) InviteMember(ctx context.Context, teamID int64, identifier string, role domain.TeamRole, callerID int64) (*domain.MemberDetail, error) {
	if _, err := s.access.RequireOwner(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	user, err := s.users.GetByIdentifier(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundMessage("user not found; use an existing username or email")
		}
		return nil, apperrors.MapError(err)
	}

	return s.insertMembership(ctx, teamID, user.ID, role, callerID)
}

// insertMembership is the only path that grants roles. There is no role
// update: changing a role means remove and re-invite.
func (s *TeamService) insertMembership(ctx context.Context, teamID, userID int64, role domain.TeamRole, actorID int64) (*domain.MemberDetail, error) {
	if _, err := s.members.Lookup(ctx, teamID, userID); err == nil {
		return nil, apperrors.NewBadRequest("user is already a team member")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	membership := &domain.Membership{
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	}
	if err := s.members.Insert(ctx, membership); err != nil {
		// a concurrent insert loses the race against the unique pair
		// constraint and surfaces as the same already-exists kind
		return nil, apperrors.MapError(err)
	}

	detail, err := s.members.GetDetail(ctx, teamID, userID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:    events.EventMemberAdded,
		ActorID: actorID,
		Payload: events.MemberAddedPayload{TeamID: teamID, UserID: userID, Role: role},
	})
	return detail, nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
