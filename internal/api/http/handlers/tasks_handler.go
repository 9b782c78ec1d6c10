package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hunde51/task-management-app/internal/api/dto"
	"github.com/hunde51/task-management-app/internal/domain"
	"github.com/hunde51/task-management-app/internal/service"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// TasksHandler exposes task endpoints.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs handler.
func NewTasksHandler(taskService *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: taskService}
}

// Create handles POST /tasks.
func (h *TasksHandler) Create(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	fields := map[string]any{}
	if req.ProjectID <= 0 {
		fields["project_id"] = "must be a positive integer"
	}
	if strings.TrimSpace(req.Title) == "" {
		fields["title"] = "required"
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("invalid task payload", fields)
	}

	task, err := h.tasks.CreateTask(c.UserContext(), service.TaskCreateInput{
		ProjectID:      req.ProjectID,
		Title:          req.Title,
		Description:    req.Description,
		AssignedUserID: req.AssignedUserID,
		DueDate:        req.DueDate,
	}, user.ID)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(dto.Success("Task created successfully",
		dto.NewTaskResponse(task, user.ID)))
}

// List handles GET /tasks with optional project_id, status and
// assigned_user_id query filters.
func (h *TasksHandler) List(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	filter, err := parseTaskFilter(c)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.UserContext(), user.ID, filter)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Tasks retrieved successfully", dto.NewTaskResponses(tasks, user.ID)))
}

// Update handles PATCH /tasks/:id.
func (h *TasksHandler) Update(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return apperrors.NewValidationError("invalid task payload", map[string]any{"title": "must not be empty"})
	}

	task, err := h.tasks.UpdateTask(c.UserContext(), taskID, service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Task updated successfully", dto.NewTaskResponse(task, user.ID)))
}

// UpdateStatus handles PATCH /tasks/:id/status.
func (h *TasksHandler) UpdateStatus(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateTaskStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	task, err := h.tasks.UpdateTaskStatus(c.UserContext(), taskID, domain.TaskStatus(req.Status), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Task status updated successfully", dto.NewTaskResponse(task, user.ID)))
}

// Assign handles PATCH /tasks/:id/assign. A null assigned_user_id unassigns.
func (h *TasksHandler) Assign(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req dto.AssignTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	task, err := h.tasks.AssignTask(c.UserContext(), taskID, req.AssignedUserID, user.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.Success("Task assignment updated successfully", dto.NewTaskResponse(task, user.ID)))
}

// Delete handles DELETE /tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	taskID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.tasks.DeleteTask(c.UserContext(), taskID, user.ID); err != nil {
		return err
	}
	return c.JSON(dto.Success("Task deleted successfully", nil))
}

// MySummary handles GET /tasks/me/summary.
func (h *TasksHandler) MySummary(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}

	summary, err := h.tasks.GetMyTasksSummary(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(dto.Success("Task summary retrieved successfully", dto.MyTasksSummaryResponse{
		Tasks:         dto.NewTaskResponses(summary.Tasks, user.ID),
		StatusCounts:  summary.StatusCounts,
		TotalProjects: summary.TotalProjects,
	}))
}

func parseTaskFilter(c *fiber.Ctx) (service.TaskListFilter, error) {
	var filter service.TaskListFilter

	if raw := c.Query("project_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, apperrors.NewValidationError("invalid filter", map[string]any{"project_id": "must be a positive integer"})
		}
		filter.ProjectID = &id
	}
	if raw := c.Query("status"); raw != "" {
		status := domain.TaskStatus(raw)
		filter.Status = &status
	}
	if raw := c.Query("assigned_user_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return filter, apperrors.NewValidationError("invalid filter", map[string]any{"assigned_user_id": "must be a positive integer"})
		}
		filter.AssignedUserID = &id
	}
	return filter, nil
}
