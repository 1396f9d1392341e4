package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/growflow/backend/internal/api/dto"
	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/service"
	apperrors "github.com/growflow/backend/pkg/util"
)

// PaymentsHandler exposes payment submission and verification endpoints.
type PaymentsHandler struct {
	payments     *service.PaymentService
	verification *service.VerificationService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(payments *service.PaymentService, verification *service.VerificationService) *PaymentsHandler {
	return &PaymentsHandler{payments: payments, verification: verification}
}

// Submit handles POST /payments for customers.
func (h *PaymentsHandler) Submit(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.SubmitPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	payment, err := h.payments.SubmitPayment(c.UserContext(), principal.Customer.ID, service.SubmitPaymentInput{
		Month:     req.PaymentMonth,
		Year:      req.PaymentYear,
		Currency:  req.PaidCurrency,
		Amount:    req.PaidAmount,
		Method:    req.Method,
		Reference: req.Reference,
		ProofURL:  req.ProofURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPaymentResponse(payment)})
}

// MyPayments handles GET /payments/me for customers.
func (h *PaymentsHandler) MyPayments(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	payments, err := h.payments.ListForCustomer(c.UserContext(), principal.Customer.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentListResponse(payments)})
}

// ListPending handles GET /payments/pending for staff, oldest first.
func (h *PaymentsHandler) ListPending(c *fiber.Ctx) error {
	rows, err := h.verification.ListPending(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPendingPaymentListResponse(rows)})
}

// Verify handles PATCH /payments/:id/verify for staff.
func (h *PaymentsHandler) Verify(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)
	var req dto.VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	payment, err := h.verification.VerifyPayment(c.UserContext(), principal.Staff.ID, c.Params("id"), req.Status, req.RejectionReason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPaymentResponse(payment)})
}
