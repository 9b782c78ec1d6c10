package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/hunde51/task-management-app/internal/api/dto"
	"github.com/hunde51/task-management-app/internal/observability"
	apperrors "github.com/hunde51/task-management-app/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, production bool) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	// the request logger wraps the error handler so it observes the
	// translated status, not the pre-translation 200
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics, production))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware translates every error into the standard response
// envelope. Internal error detail is only exposed outside production.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, production bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed",
						zap.String("path", c.Path()),
						zap.String("method", c.Method()),
						zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(dto.Failure(domainErr.Message, errorDetails(domainErr, production)))
				err = nil
			}
		}()
		return c.Next()
	}
}

func errorDetails(domainErr *apperrors.DomainError, production bool) []dto.ErrorDetail {
	var details []dto.ErrorDetail
	for field, msg := range domainErr.Details {
		details = append(details, dto.ErrorDetail{Field: field, Message: fmt.Sprint(msg)})
	}
	if !production && domainErr.HTTPStatus >= 500 && domainErr.Err != nil {
		details = append(details, dto.ErrorDetail{Message: domainErr.Err.Error()})
	}
	return details
}
