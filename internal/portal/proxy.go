package portal

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/proxy"
	"go.uber.org/zap"

	"github.com/spec-kit/fras-portal/internal/domain"
)

// internalErrorBody is returned when the backend cannot be reached.
var internalErrorBody = fiber.Map{"detail": "Internal server error"}

// Proxy forwards browser API calls to the backend, carrying the caller's
// Authorization header and relaying the backend status and body.
type Proxy struct {
	backend string
	timeout time.Duration
	logger  *zap.Logger
}

// NewProxy builds a proxy for the backend at backendURL.
func NewProxy(backendURL string, timeout time.Duration, logger *zap.Logger) *Proxy {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Proxy{backend: backendURL, timeout: timeout, logger: logger}
}

// Register mounts the /api routes on router.
func (p *Proxy) Register(router fiber.Router) {
	api := router.Group("/api")

	admin := api.Group("/admin")
	admin.Get("/tickets", p.adminTickets)
	admin.Put("/tickets/:id", p.passthrough)
	admin.Get("/employees", p.passthrough)
	admin.Post("/employees", p.passthrough)
	admin.Get("/employees/:id", p.passthrough)
	admin.Put("/employees/:id", p.passthrough)
	admin.Delete("/employees/:id", p.passthrough)
	admin.Get("/profile", p.passthrough)
	admin.Put("/profile", p.passthrough)
	admin.Put("/profile/password", p.passthrough)
	admin.Get("/attendance", p.passthrough)
	admin.Post("/attendance", p.passthrough)
	admin.Put("/attendance/:id", p.passthrough)

	employee := api.Group("/employee")
	employee.Get("/tickets", p.passthrough)
	employee.Post("/tickets", p.passthrough)
	employee.Get("/tickets/:id", p.passthrough)
	employee.Get("/profile", p.passthrough)
	employee.Get("/attendance", p.passthrough)
}

// adminTickets forwards the listing, dropping status_filter=all.
func (p *Proxy) adminTickets(c *fiber.Ctx) error {
	query := url.Values{}
	if filter := c.Query("status_filter"); filter != "" && filter != domain.StatusFilterAll {
		query.Set("status_filter", filter)
	}
	return p.forward(c, "/admin/tickets", query.Encode())
}

// passthrough forwards the request to the same path without the /api prefix.
func (p *Proxy) passthrough(c *fiber.Ctx) error {
	path := c.Path()[len("/api"):]
	return p.forward(c, path, string(c.Request().URI().QueryString()))
}

func (p *Proxy) forward(c *fiber.Ctx, path, rawQuery string) error {
	target := p.backend + path
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	c.Request().Header.Del(fiber.HeaderCookie)
	if err := proxy.DoTimeout(c, target, p.timeout); err != nil {
		p.logger.Error("backend request failed",
			zap.String("method", c.Method()),
			zap.String("target", target),
			zap.Error(err))
		c.Response().Reset()
		return c.Status(fiber.StatusInternalServerError).JSON(internalErrorBody)
	}
	c.Response().Header.Del(fiber.HeaderServer)
	return nil
}
