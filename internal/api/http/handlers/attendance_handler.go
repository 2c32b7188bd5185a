package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/fras-portal/internal/api/dto"
	"github.com/spec-kit/fras-portal/internal/service"
	apperrors "github.com/spec-kit/fras-portal/pkg/util"
)

// AttendanceHandler serves attendance records to employees and admins.
type AttendanceHandler struct {
	service *service.AttendanceService
}

// NewAttendanceHandler constructs handler.
func NewAttendanceHandler(attendanceService *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{service: attendanceService}
}

// ListOwn GET /employee/attendance.
func (h *AttendanceHandler) ListOwn(c *fiber.Ctx) error {
	employee, err := currentEmployee(c)
	if err != nil {
		return err
	}
	records, err := h.service.ListForEmployee(c.UserContext(), employee, service.AttendanceQuery{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttendanceList(records))
}

// List GET /admin/attendance.
func (h *AttendanceHandler) List(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	query := service.AttendanceQuery{
		DateFrom: c.Query("date_from"),
		DateTo:   c.Query("date_to"),
	}
	if raw := c.Query("employee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return apperrors.NewValidationError("invalid employee_id", map[string]any{"employee_id": raw})
		}
		query.EmployeeID = &id
	}
	records, err := h.service.ListForAdmin(c.UserContext(), admin, query)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttendanceList(records))
}

// Create POST /admin/attendance.
func (h *AttendanceHandler) Create(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	var req dto.AttendanceCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.service.Create(c.UserContext(), admin, service.AttendanceInput{
		EmployeeID:    req.EmployeeID,
		ArrivalTime:   req.ArrivalTime,
		DepartureTime: req.DepartureTime,
		HoursWorked:   req.HoursWorked,
		Status:        req.Status,
		CameraUsed:    req.CameraUsed,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAttendanceResponse(record))
}

// Update PUT /admin/attendance/:id.
func (h *AttendanceHandler) Update(c *fiber.Ctx) error {
	admin, err := currentAdmin(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.AttendanceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	record, err := h.service.Update(c.UserContext(), admin, id, service.AttendanceUpdateInput{
		ArrivalTime:   req.ArrivalTime,
		DepartureTime: req.DepartureTime,
		HoursWorked:   req.HoursWorked,
		Status:        req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAttendanceResponse(record))
}
