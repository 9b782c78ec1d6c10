package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/hunde51/task-management-app/internal/api/http"
	"github.com/hunde51/task-management-app/internal/api/http/handlers"
	"github.com/hunde51/task-management-app/internal/auth"
	"github.com/hunde51/task-management-app/internal/authz"
	"github.com/hunde51/task-management-app/internal/config"
	"github.com/hunde51/task-management-app/internal/events"
	"github.com/hunde51/task-management-app/internal/observability"
	"github.com/hunde51/task-management-app/internal/persistence"
	"github.com/hunde51/task-management-app/internal/repository"
	"github.com/hunde51/task-management-app/internal/service"
	"github.com/hunde51/task-management-app/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	membershipRepo := repository.NewMembershipRepository(pool)
	projectRepo := repository.NewProjectRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)

	access := authz.NewChecker(teamRepo, membershipRepo, userRepo)
	txRunner := persistence.NewTxRunner(pool)
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()

	authService := service.NewAuthService(cfg.Auth, userRepo)
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:       teamRepo,
		MembershipRepo: membershipRepo,
		UserRepo:       userRepo,
		Access:         access,
		Tx:             txRunner,
		Dispatcher:     dispatcher,
	})
	projectService := service.NewProjectService(service.ProjectDependencies{
		ProjectRepo: projectRepo,
		Access:      access,
		Tx:          txRunner,
		Dispatcher:  dispatcher,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:    taskRepo,
		ProjectRepo: projectRepo,
		Access:      access,
		Tx:          txRunner,
		Dispatcher:  dispatcher,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.IsProduction())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg),
		Auth:           handlers.NewAuthHandler(authService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Tasks:          handlers.NewTasksHandler(taskService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
