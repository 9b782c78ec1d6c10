package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hunde51/task-management-app/internal/api/dto"
	"github.com/hunde51/task-management-app/internal/service"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// ProjectsHandler exposes project endpoints.
type ProjectsHandler struct {
	projects *service.ProjectService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(projectService *service.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projects: projectService}
}

// Create handles POST /teams/:id/projects.
func (h *ProjectsHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.CreateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if strings.TrimSpace(req.Name) == "" {
		return apperrors.NewValidationError("invalid project payload", map[string]any{"name": "required"})
	}

	project, err := h.projects.CreateProject(c.UserContext(), teamID, req.Name, req.Description, user.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Success("Project created successfully",
		dto.NewProjectResponse(project, user.ID)))
}

// ListByTeam handles GET /teams/:id/projects.
func (h *ProjectsHandler) ListByTeam(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	teamID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	projects, err := h.projects.ListTeamProjects(c.UserContext(), teamID, user.ID)
	if err != nil {
		return err
	}

	items := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		items = append(items, dto.NewProjectResponse(&projects[i], user.ID))
	}
	return c.JSON(dto.Success("Projects retrieved successfully", items))
}

// Update handles PATCH /projects/:id.
func (h *ProjectsHandler) Update(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateProjectRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return apperrors.NewValidationError("invalid project payload", map[string]any{"name": "must not be empty"})
	}

	project, err := h.projects.UpdateProject(c.UserContext(), projectID, service.ProjectPatch{
		Name:        req.Name,
		Description: req.Description,
	}, user.ID)
	if err != nil {
		return err
	}

	return c.JSON(dto.Success("Project updated successfully", dto.NewProjectResponse(project, user.ID)))
}

// Delete handles DELETE /projects/:id.
func (h *ProjectsHandler) Delete(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.projects.DeleteProject(c.UserContext(), projectID, user.ID); err != nil {
		return err
	}
	return c.JSON(dto.Success("Project deleted successfully", nil))
}
