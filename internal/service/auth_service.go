package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/config"
	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
	"github.com/growflow/backend/internal/repository"
	apperrors "github.com/growflow/backend/pkg/util"
)

// AuthService handles login, signup delegation and password resets.
type AuthService struct {
	customers   repository.CustomerRepository
	staff       repository.StaffUserRepository
	customerSvc *CustomerService
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	bcryptCost  int
	resetTTL    time.Duration
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	CustomerRepo    repository.CustomerRepository
	StaffRepo       repository.StaffUserRepository
	CustomerService *CustomerService
	TokenManager    *auth.TokenManager
	Dispatcher      events.Dispatcher
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		customers:   deps.CustomerRepo,
		staff:       deps.StaffRepo,
		customerSvc: deps.CustomerService,
		tokens:      deps.TokenManager,
		dispatcher:  deps.Dispatcher,
		bcryptCost:  cfg.BcryptCost,
		resetTTL:    cfg.ResetTokenTTL(),
	}
}

// AuthResult carries a signed token alongside its subject.
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	Customer  *domain.Customer
	Staff     *domain.StaffUser
}

// SignupCustomer registers a customer and signs them in.
func (s *AuthService) SignupCustomer(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	customer, err := s.customerSvc.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.tokens.GenerateToken(customer.ID, domain.SubjectTypeCustomer, nil)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Customer: customer}, nil
}

// LoginCustomer authenticates a customer. Unknown emails and wrong passwords
// produce the same error.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(customer.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}
	token, expiresAt, err := s.tokens.GenerateToken(customer.ID, domain.SubjectTypeCustomer, nil)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Customer: customer}, nil
}

// LoginStaff authenticates a staff user.
func (s *AuthService) LoginStaff(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	staff, err := s.staff.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(staff.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}
	role := staff.Role
	token, expiresAt, err := s.tokens.GenerateToken(staff.ID, domain.SubjectTypeStaff, &role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{Token: token, ExpiresAt: expiresAt, Staff: staff}, nil
}

// CreateStaffUser creates a staff account. Admin-only at the route level;
// collector accounts are provisioned elsewhere.
func (s *AuthService) CreateStaffUser(ctx context.Context, name, email, password string, role domain.StaffRole) (*domain.StaffUser, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	switch {
	case name == "":
		return nil, apperrors.NewValidationError("name is required", nil)
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperrors.NewValidationError("email is invalid", nil)
	case len(password) < 6:
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	case role != domain.StaffRoleAdmin && role != domain.StaffRoleStaff:
		return nil, apperrors.NewValidationError("role must be admin or staff", nil)
	}

	if _, err := s.staff.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewDuplicateKey("email")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	staff := &domain.StaffUser{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if _, ok := repository.UniqueViolation(err); ok {
			return nil, apperrors.NewDuplicateKey("email")
		}
		return nil, apperrors.NewInternalError(err)
	}
	return staff, nil
}

// ListStaffUsers returns all staff accounts.
func (s *AuthService) ListStaffUsers(ctx context.Context) ([]domain.StaffUser, error) {
	staff, err := s.staff.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return staff, nil
}

// RequestPasswordReset issues a reset code for the account if it exists. The
// response is identical either way so the endpoint cannot be used to probe
// for registered emails.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.NewValidationError("email is required", nil)
	}
	customer, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.NewInternalError(err)
	}

	otp, err := auth.GenerateOTP()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.customers.SetResetToken(ctx, customer.ID, otp, time.Now().Add(s.resetTTL)); err != nil {
		return apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventPasswordResetRequested,
		CustomerID: customer.ID,
		Actor:      customerActor(customer.ID),
		Payload: events.PasswordResetRequestedPayload{
			Email: customer.Email,
			OTP:   otp,
		},
	})
	return nil
}

// ConfirmPasswordReset redeems a reset code. Expired, unknown and already
// used codes all fail with the same message.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.NewValidationError("reset code is required", nil)
	}
	if len(newPassword) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	customer, err := s.customers.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("invalid or expired reset code", nil)
		}
		return apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	if err := s.customers.ResetPassword(ctx, customer.ID, hash); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}
