package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hunde51/task-management-app/internal/api/http/handlers"
	"github.com/hunde51/task-management-app/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Teams          *handlers.TeamsHandler
	Projects       *handlers.ProjectsHandler
	Tasks          *handlers.TasksHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	teams := app.Group("/teams", cfg.AuthMiddleware.Handle)
	teams.Post("/", cfg.Teams.Create)
	teams.Get("/", cfg.Teams.ListMine)
	teams.Get("/:id/members", cfg.Teams.ListMembers)
	teams.Post("/:id/members", cfg.Teams.AddMember)
	teams.Post("/:id/members/invite", cfg.Teams.InviteMember)
	teams.Post("/:id/projects", cfg.Projects.Create)
	teams.Get("/:id/projects", cfg.Projects.ListByTeam)

	projects := app.Group("/projects", cfg.AuthMiddleware.Handle)
	projects.Patch("/:id", cfg.Projects.Update)
	projects.Delete("/:id", cfg.Projects.Delete)

	tasks := app.Group("/tasks", cfg.AuthMiddleware.Handle)
	tasks.Get("/me/summary", cfg.Tasks.MySummary)
	tasks.Post("/", cfg.Tasks.Create)
	tasks.Get("/", cfg.Tasks.List)
	tasks.Patch("/:id", cfg.Tasks.Update)
	tasks.Patch("/:id/status", cfg.Tasks.UpdateStatus)
	tasks.Patch("/:id/assign", cfg.Tasks.Assign)
	tasks.Delete("/:id", cfg.Tasks.Delete)
}
