package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hunde51/task-management-app/internal/api/dto"
	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/service"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// TeamsHandler exposes team and membership endpoints.
type TeamsHandler struct {
	teams *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teamService *service.TeamService) *TeamsHandler {
	return &TeamsHandler{teams: teamService}
}

// Create handles POST /teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("invalid team payload", map[string]any{"name": "required"})
	}

	team, err := h.teams.CreateTeam(c.UserContext(), req.Name, req.Description, user.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Success("Team created successfully",
		dto.NewTeamResponse(team, domain.TeamRoleOwner)))
}

// ListMine handles GET /teams.
func (h *TeamsHandler) ListMine(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	teams, err := h.teams.ListMyTeams(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	items := make([]dto.TeamResponse, 0, len(teams))
	for i := range teams {
		items = append(items, dto.NewTeamResponse(&teams[i].Team, teams[i].Role))
	}
	return c.JSON(dto.Success("Teams retrieved successfully", items))
}

// ListMembers handles GET /teams/:id/members.
func (h *TeamsHandler) ListMembers(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	members, err := h.teams.ListMembers(c.UserContext(), teamID, user.ID)
	if err != nil {
		return err
	}

	items := make([]dto.TeamMemberResponse, 0, len(members))
	for i := range members {
		items = append(items, dto.NewTeamMemberResponse(&members[i]))
	}
	return c.JSON(dto.Success("Team members retrieved successfully", items))
}

// AddMember handles POST /teams/:id/members.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AddMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.UserID <= 0 {
		return apperrors.NewValidationError("invalid member payload", map[string]any{"user_id": "must be a positive integer"})
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return err
	}

	member, err := h.teams.AddMember(c.UserContext(), teamID, req.UserID, role, user.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Success("Member added successfully", dto.NewTeamMemberResponse(member)))
}

// InviteMember handles POST /teams/:id/members/invite.
func (h *TeamsHandler) InviteMember(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.InviteMemberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if strings.TrimSpace(req.Identifier) == "" {
		return apperrors.NewValidationError("invalid invite payload", map[string]any{"identifier": "required"})
	}
	role, err := parseRole(req.Role)
	if err != nil {
		return err
	}

	member, err := h.teams.InviteMember(c.UserContext(), teamID, req.Identifier, role, user.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Success("Member invited successfully", dto.NewTeamMemberResponse(member)))
}
