package http

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/observability"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// RegisterMiddlewares installs, outermost first, request logging, the JSON
// error envelope, uncacheable responses and the per-request deadline.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(renderErrors(logger, metrics))
	app.Use(noStore)
	if timeout > 0 {
		app.Use(withDeadline(timeout))
	}
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// renderErrors renders every returned error or panic as
// {"error":{code,message,details}} with the error's status.
func renderErrors(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("route", c.Route().Path),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err == nil {
				return
			}
			de := apperrors.ToDomainError(err)
			metrics.RecordError(c.Route().Path, c.Method(), de.Code)
			if de.HTTPStatus >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("request_id", string(c.Response().Header.Peek(fiber.HeaderXRequestID))),
					zap.String("method", c.Method()),
					zap.String("route", c.Route().Path),
					zap.Error(de))
			}
			c.Response().ResetBody()
			err = c.Status(de.HTTPStatus).JSON(fiber.Map{"error": errorBody{
				Code:    de.Code,
				Message: de.Message,
				Details: de.Details,
			}})
		}()
		return c.Next()
	}
}

func noStore(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.Next()
}

// withDeadline bounds the handler's context; work cut short by it is
// reported as a timeout rather than whatever error the handler surfaced.
func withDeadline(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return apperrors.NewTimeout(err)
		}
		return err
	}
}
