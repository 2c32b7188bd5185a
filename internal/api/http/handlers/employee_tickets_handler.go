package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/service"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// EmployeeTicketsHandler manages the employee's own tickets.
type EmployeeTicketsHandler struct {
	service *service.TicketService
}

// NewEmployeeTicketsHandler constructs handler.
func NewEmployeeTicketsHandler(ticketService *service.TicketService) *EmployeeTicketsHandler {
	return &EmployeeTicketsHandler{service: ticketService}
}

// List GET /employee/tickets.
func (h *EmployeeTicketsHandler) List(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListEmployeeTickets(c.UserContext(), employee)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketList(tickets))
}

// Create POST /employee/tickets.
func (h *EmployeeTicketsHandler) Create(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.CreateTicket(c.UserContext(), employee, req.Message)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewTicketResponse(ticket))
}

// Get GET /employee/tickets/:id.
func (h *EmployeeTicketsHandler) Get(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	ticket, err := h.service.GetEmployeeTicket(c.UserContext(), employee, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}
