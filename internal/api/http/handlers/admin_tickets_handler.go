package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/domain"
	"github.com/spec-kit/fras-portal/internal/service"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// AdminTicketsHandler exposes ticket triage for admins.
type AdminTicketsHandler struct {
	service *service.TicketService
}

// NewAdminTicketsHandler constructs handler.
func NewAdminTicketsHandler(ticketService *service.TicketService) *AdminTicketsHandler {
	return &AdminTicketsHandler{service: ticketService}
}

// List GET /admin/tickets?status_filter=.
func (h *AdminTicketsHandler) List(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	status, err := domain.ParseStatusFilter(c.Query("status_filter"))
	if err != nil {
		return apperrors.NewValidationError("invalid status_filter", map[string]any{
			"status_filter": c.Query("status_filter"),
			"allowed":       domain.TicketStatuses(),
		})
	}
	tickets, err := h.service.ListAdminTickets(c.UserContext(), admin, status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketList(tickets))
}

// UpdateStatus PUT /admin/tickets/:id.
func (h *AdminTicketsHandler) UpdateStatus(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.service.UpdateStatus(c.UserContext(), admin, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponse(ticket))
}

// History GET /admin/tickets/:id/history.
func (h *AdminTicketsHandler) History(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	history, err := h.service.ListHistory(c.UserContext(), admin, id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketHistoryList(history))
}
