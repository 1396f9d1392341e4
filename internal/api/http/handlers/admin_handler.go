package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/growflow/backend/internal/api/dto"
	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/service"
	apperrors "github.com/growflow/backend/pkg/util"
)

// AdminHandler exposes dashboards, reports, bulk import and staff management.
type AdminHandler struct {
	reports  *service.ReportService
	importer *service.ImportService
	auth     *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(reports *service.ReportService, importer *service.ImportService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{reports: reports, importer: importer, auth: authService}
}

// Metrics handles GET /admin/metrics.
func (h *AdminHandler) Metrics(c *fiber.Ctx) error {
	metrics, err := h.reports.Metrics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMetricsResponse(metrics)})
}

// Revenue handles GET /admin/reports/revenue?year=YYYY.
func (h *AdminHandler) Revenue(c *fiber.Ctx) error {
	rows, err := h.reports.Revenue(c.UserContext(), c.QueryInt("year", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRevenueResponse(rows)})
}

// ExportCustomers handles GET /admin/export/customers.
func (h *AdminHandler) ExportCustomers(c *fiber.Ctx) error {
	rows, err := h.reports.ExportCustomers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerExportResponse(rows)})
}

// ExportPayments handles GET /admin/export/payments.
func (h *AdminHandler) ExportPayments(c *fiber.Ctx) error {
	payments, err := h.reports.ExportPayments(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentListResponse(payments)})
}

// Import handles POST /admin/import/customers.
func (h *AdminHandler) Import(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.ImportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Rows) == 0 {
		return apperrors.NewValidationError("rows are required", nil)
	}

	rows := make([]service.ImportRow, 0, len(req.Rows))
	for _, raw := range req.Rows {
		row := service.ImportRow{
			FullName:        raw.FullName,
			Phone:           raw.Phone,
			Email:           raw.Email,
			City:            raw.City,
			Community:       raw.Community,
			Landmark:        raw.Landmark,
			WasteType:       raw.WasteType,
			Frequency:       raw.Frequency,
			AgreedAmountUSD: raw.AgreedAmountUSD,
			AgreedAmountLRD: raw.AgreedAmountLRD,
			Notes:           raw.Notes,
		}
		if raw.StartDate != nil {
			if parsed, err := time.Parse("2006-01-02", *raw.StartDate); err == nil {
				row.StartDate = &parsed
			}
		}
		rows = append(rows, row)
	}

	result := h.importer.Import(c.UserContext(), principal.Staff.ID, rows)
	return c.JSON(fiber.Map{"data": result})
}

// CreateStaff handles POST /admin/staff.
func (h *AdminHandler) CreateStaff(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, err := h.auth.CreateStaffUser(c.UserContext(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// ListStaff handles GET /admin/staff.
func (h *AdminHandler) ListStaff(c *fiber.Ctx) error {
	staff, err := h.auth.ListStaffUsers(c.UserContext())
	if err != nil {
		return err
	}
	out := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		out = append(out, *dto.NewStaffResponse(&staff[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}
