package dto

import (
	"time"

	"github.com/growflow/backend/internal/domain"
)

// CustomerSignupRequest payload for customer registration.
type CustomerSignupRequest struct {
	FullName  string           `json:"full_name"`
	Phone     string           `json:"phone"`
	Email     string           `json:"email"`
	Password  string           `json:"password"`
	City      string           `json:"city"`
	Community string           `json:"community"`
	Landmark  string           `json:"landmark"`
	WasteType domain.WasteType `json:"waste_type"`
	Frequency domain.Frequency `json:"frequency"`
}

// LoginRequest payload for customer and staff login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Customer  *CustomerResponse `json:"customer,omitempty"`
	Staff     *StaffResponse    `json:"staff,omitempty"`
}

// PasswordResetRequest asks for a reset code.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm redeems a reset code.
type PasswordResetConfirm struct {
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

// CreateStaffRequest payload for admin-created staff accounts.
type CreateStaffRequest struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Password string           `json:"password"`
	Role     domain.StaffRole `json:"role"`
}

// StaffResponse staff account representation.
type StaffResponse struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	Role      domain.StaffRole `json:"role"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewStaffResponse maps a staff user.
func NewStaffResponse(staff *domain.StaffUser) *StaffResponse {
	if staff == nil {
		return nil
	}
	return &StaffResponse{
		ID:        staff.ID,
		Name:      staff.Name,
		Email:     staff.Email,
		Role:      staff.Role,
		CreatedAt: staff.CreatedAt,
	}
}
