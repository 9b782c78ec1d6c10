package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/hunde51/task-management-app/internal/auth"
	"github.com/hunde51/task-management-app/internal/domain"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

func requireUser(c *fiber.Ctx) (*domain.User, error) {
	user, ok := auth.CurrentUser(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return user, nil
}

func parseIDParam(c *fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid path parameter", map[string]any{name: "must be a positive integer"})
	}
	return id, nil
}

// parseRole maps the wire role to a domain role, defaulting to member.
func parseRole(raw string) (domain.TeamRole, error) {
	if raw == "" {
		return domain.TeamRoleMember, nil
	}
	role := domain.TeamRole(raw)
	if !role.Valid() {
		return "", apperrors.NewValidationError("invalid role", map[string]any{"role": "must be owner or member"})
	}
	return role, nil
}
