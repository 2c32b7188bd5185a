package portal

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/observability"
)

// NewApp builds the portal fiber app around p. Errors are rendered as
// {"detail": ...} bodies.
func NewApp(name string, logger *zap.Logger, metrics *observability.Metrics, p *Proxy) *fiber.App {
	if logger == nil {
		logger = zap.NewNop()
	}
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(recover.New())

	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))
	}
	p.Register(app)
	return app
}

func errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(internalErrorBody)
}
