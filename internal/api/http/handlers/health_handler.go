package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Dependency is a backing service the readiness endpoint pings.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness checks.
type HealthHandler struct {
	serviceName string
	version     string
	store       string
	started     time.Time
	deps        []Dependency
}

// NewHealthHandler reports on serviceName. store names the ticket store in
// use ("postgres" or "memory").
func NewHealthHandler(serviceName, version, store string, deps ...Dependency) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
		started:     time.Now(),
		deps:        deps,
	}
}

// Live GET /health/live.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":         "alive",
		"service":        h.serviceName,
		"version":        h.version,
		"uptime_seconds": int64(time.Since(h.started).Seconds()),
	})
}

// Ready GET /health/ready. Every dependency must answer within two seconds.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	report := make(fiber.Map, len(h.deps))
	ready := true
	for _, dep := range h.deps {
		start := time.Now()
		err := dep.Ping(ctx)
		entry := fiber.Map{"latency_ms": time.Since(start).Milliseconds()}
		if err != nil {
			entry["status"] = "down"
			entry["error"] = err.Error()
			ready = false
		} else {
			entry["status"] = "ok"
		}
		report[dep.Name] = entry
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"store":        h.store,
			"dependencies": report,
		})
	}
	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": report,
		},
	})
}
