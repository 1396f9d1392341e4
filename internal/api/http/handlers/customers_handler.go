package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/growflow/backend/internal/api/dto"
	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/repository"
	"github.com/growflow/backend/internal/service"
	apperrors "github.com/growflow/backend/pkg/util"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CustomersHandler exposes customer profile and staff management endpoints.
type CustomersHandler struct {
	customers *service.CustomerService
	quotes    *service.QuoteService
	payments  *service.PaymentService
}

// NewCustomersHandler constructs handler.
func NewCustomersHandler(customers *service.CustomerService, quotes *service.QuoteService, payments *service.PaymentService) *CustomersHandler {
	return &CustomersHandler{customers: customers, quotes: quotes, payments: payments}
}

// Me handles GET /customers/me. Served from the summary cache when warm.
func (h *CustomersHandler) Me(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	summary, err := h.customers.Summary(c.UserContext(), principal.Customer.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerSummaryResponse(summary)})
}

// MySubscription handles GET /customers/me/subscription. Data is null until
// staff issues a quote.
func (h *CustomersHandler) MySubscription(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	sub, err := h.quotes.GetForCustomer(c.UserContext(), principal.Customer.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSubscriptionResponse(sub)})
}

// List handles GET /customers for staff.
func (h *CustomersHandler) List(c *fiber.Ctx) error {
	filter := repository.CustomerFilter{
		Limit:  defaultPageSize,
		Offset: 0,
	}
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		filter.Search = &search
	}
	if status := c.Query("status"); status != "" {
		parsed := domain.CustomerStatus(status)
		if !parsed.Valid() {
			return apperrors.NewValidationError("invalid status filter", nil)
		}
		filter.Status = &parsed
	}
	if city := strings.TrimSpace(c.Query("city")); city != "" {
		filter.City = &city
	}

	pageSize := c.QueryInt("page_size", defaultPageSize)
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	customers, err := h.customers.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.NewCustomerListResponse(customers),
		"meta": fiber.Map{"page": page, "page_size": pageSize},
	})
}

// Get handles GET /customers/:id for staff.
func (h *CustomersHandler) Get(c *fiber.Ctx) error {
	customer, err := h.customers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	sub, err := h.quotes.GetForCustomer(c.UserContext(), customer.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"customer":     dto.NewCustomerResponse(customer),
		"subscription": dto.NewSubscriptionResponse(sub),
	}})
}

// Update handles PATCH /customers/:id for staff.
func (h *CustomersHandler) Update(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.CustomerUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	customer, err := h.customers.UpdateByStaff(c.UserContext(), principal.Staff.ID, c.Params("id"), service.CustomerUpdateInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		City:      req.City,
		Community: req.Community,
		Landmark:  req.Landmark,
		WasteType: req.WasteType,
		Frequency: req.Frequency,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCustomerResponse(customer)})
}

// IssueQuote handles POST /customers/:id/quote for staff.
func (h *CustomersHandler) IssueQuote(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return apperrors.NewValidationError("start_date must be YYYY-MM-DD", nil)
	}

	sub, firstQuote, err := h.quotes.IssueQuote(c.UserContext(), principal.Staff.ID, c.Params("id"), service.QuoteInput{
		AmountUSD: req.AgreedAmountUSD,
		AmountLRD: req.AgreedAmountLRD,
		StartDate: startDate,
		Notes:     req.Notes,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"subscription": dto.NewSubscriptionResponse(sub),
		"first_quote":  firstQuote,
	}})
}

// Payments handles GET /customers/:id/payments for staff.
func (h *CustomersHandler) Payments(c *fiber.Ctx) error {
	if _, err := h.customers.Get(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	payments, err := h.payments.ListForCustomer(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentListResponse(payments)})
}

func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", strings.TrimSpace(raw))
}
