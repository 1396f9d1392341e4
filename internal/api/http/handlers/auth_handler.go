package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/growflow/backend/internal/api/dto"
	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/service"
	apperrors "github.com/growflow/backend/pkg/util"
)

// AuthHandler exposes signup, login and password reset endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignupCustomer handles POST /auth/customers/signup.
func (h *AuthHandler) SignupCustomer(c *fiber.Ctx) error {
	var req dto.CustomerSignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.auth.SignupCustomer(c.UserContext(), service.RegisterInput{
		FullName:  req.FullName,
		Phone:     req.Phone,
		Email:     req.Email,
		Password:  req.Password,
		City:      req.City,
		Community: req.Community,
		Landmark:  req.Landmark,
		WasteType: req.WasteType,
		Frequency: req.Frequency,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Customer:  dto.NewCustomerResponse(result.Customer),
		},
	})
}

// LoginCustomer handles POST /auth/customers/login.
func (h *AuthHandler) LoginCustomer(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.LoginCustomer(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Customer:  dto.NewCustomerResponse(result.Customer),
		},
	})
}

// LoginStaff handles POST /auth/staff/login.
func (h *AuthHandler) LoginStaff(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	result, err := h.auth.LoginStaff(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": dto.AuthResponse{
			Token:     result.Token,
			ExpiresAt: result.ExpiresAt,
			Staff:     dto.NewStaffResponse(result.Staff),
		},
	})
}

// RequestPasswordReset handles POST /auth/customers/password-reset/request.
// The response does not reveal whether the email is registered.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"message": "if the email is registered, a reset code has been sent",
		},
	})
}

// ConfirmPasswordReset handles POST /auth/customers/password-reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Code, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"message": "password updated",
		},
	})
}

// Me handles GET /auth/me for any authenticated caller.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if principal.Customer != nil {
		return c.JSON(fiber.Map{"data": fiber.Map{
			"subject":  principal.SubjectType,
			"customer": dto.NewCustomerResponse(principal.Customer),
		}})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"subject": principal.SubjectType,
		"staff":   dto.NewStaffResponse(principal.Staff),
	}})
}
