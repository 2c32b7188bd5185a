package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/fras-portal/internal/api/http/handlers"
	"github.com/spec-kit/fras-portal/internal/auth"
	"github.com/spec-kit/fras-portal/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	EmployeeTickets *handlers.EmployeeTicketsHandler
	AdminTickets    *handlers.AdminTicketsHandler
	Employees       *handlers.EmployeesHandler
	Profile         *handlers.ProfileHandler
	Attendance      *handlers.AttendanceHandler
	AuthMiddleware  *auth.AuthMiddleware
	Metrics         *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth")
	authGroup.Post("/admin/register", cfg.Auth.RegisterAdmin)
	authGroup.Post("/admin/login", cfg.Auth.LoginAdmin)
	authGroup.Post("/employee/login", cfg.Auth.LoginEmployee)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.Logout)

	employee := app.Group("/employee", cfg.AuthMiddleware.Handle, auth.RequireEmployee())
	employee.Get("/tickets", cfg.EmployeeTickets.List)
	employee.Post("/tickets", cfg.EmployeeTickets.Create)
	employee.Get("/tickets/:id", cfg.EmployeeTickets.Get)
	employee.Get("/profile", cfg.Profile.EmployeeProfile)
	employee.Get("/attendance", cfg.Attendance.ListOwn)

	admin := app.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Get("/tickets", cfg.AdminTickets.List)
	admin.Put("/tickets/:id", cfg.AdminTickets.UpdateStatus)
	admin.Get("/tickets/:id/history", cfg.AdminTickets.History)

	admin.Get("/employees", cfg.Employees.List)
	admin.Post("/employees", cfg.Employees.Create)
	admin.Get("/employees/:id", cfg.Employees.Get)
	admin.Put("/employees/:id", cfg.Employees.Update)
	admin.Delete("/employees/:id", cfg.Employees.Delete)

	admin.Get("/attendance", cfg.Attendance.List)
	admin.Post("/attendance", cfg.Attendance.Create)
	admin.Put("/attendance/:id", cfg.Attendance.Update)

	admin.Get("/profile", cfg.Profile.Get)
	admin.Put("/profile", cfg.Profile.Update)
	admin.Put("/profile/password", cfg.Profile.ChangePassword)
}
