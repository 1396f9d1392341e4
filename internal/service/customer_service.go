package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/cache"
	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
	"github.com/growflow/backend/internal/repository"
	apperrors "github.com/growflow/backend/pkg/util"
)

// CustomerService coordinates customer registration and staff-side updates.
type CustomerService struct {
	customers     repository.CustomerRepository
	subscriptions repository.SubscriptionRepository
	dispatcher    events.Dispatcher
	summaries     *cache.CustomerSummaryCache
	bcryptCost    int
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	CustomerRepo     repository.CustomerRepository
	SubscriptionRepo repository.SubscriptionRepository
	Dispatcher       events.Dispatcher
	SummaryCache     *cache.CustomerSummaryCache
	BcryptCost       int
}

// RegisterInput describes a customer signup payload.
type RegisterInput struct {
	FullName  string
	Phone     string
	Email     string
	Password  string
	City      string
	Community string
	Landmark  string
	WasteType domain.WasteType
	Frequency domain.Frequency
}

// CustomerUpdateInput is the staff-side partial update. Nil fields keep the
// stored value.
type CustomerUpdateInput struct {
	FullName  *string
	Phone     *string
	City      *string
	Community *string
	Landmark  *string
	WasteType *domain.WasteType
	Frequency *domain.Frequency
	Status    *domain.CustomerStatus
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	return &CustomerService{
		customers:     deps.CustomerRepo,
		subscriptions: deps.SubscriptionRepo,
		dispatcher:    deps.Dispatcher,
		summaries:     deps.SummaryCache,
		bcryptCost:    deps.BcryptCost,
	}
}

func (in *RegisterInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.City = strings.TrimSpace(in.City)
	in.Community = strings.TrimSpace(in.Community)
	in.Landmark = strings.TrimSpace(in.Landmark)
}

func (in *RegisterInput) validate() error {
	switch {
	case in.FullName == "":
		return apperrors.NewValidationError("full_name is required", nil)
	case in.Phone == "":
		return apperrors.NewValidationError("phone is required", nil)
	case in.Email == "":
		return apperrors.NewValidationError("email is required", nil)
	case !strings.Contains(in.Email, "@"):
		return apperrors.NewValidationError("email is invalid", nil)
	case len(in.Password) < 6:
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	case in.City == "":
		return apperrors.NewValidationError("city is required", nil)
	case in.Community == "":
		return apperrors.NewValidationError("community is required", nil)
	case !in.WasteType.Valid():
		return apperrors.NewValidationError("waste_type must be household, mixed, business or construction", nil)
	case !in.Frequency.Valid():
		return apperrors.NewValidationError("frequency must be weekly, twice_weekly or special", nil)
	}
	return nil
}

// Register creates a customer in pending_quote. Email and phone must be
// unique; the database constraints back up the pre-checks under races.
func (s *CustomerService) Register(ctx context.Context, input RegisterInput) (*domain.Customer, error) {
	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	if _, err := s.customers.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicateKey("email")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}
	if _, err := s.customers.GetByPhone(ctx, input.Phone); err == nil {
		return nil, apperrors.NewDuplicateKey("phone")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewInternalError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	customer := &domain.Customer{
		FullName:     input.FullName,
		Phone:        input.Phone,
		Email:        input.Email,
		PasswordHash: hash,
		City:         input.City,
		Community:    input.Community,
		Landmark:     input.Landmark,
		WasteType:    input.WasteType,
		Frequency:    input.Frequency,
		Status:       domain.CustomerStatusPendingQuote,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if constraint, ok := repository.UniqueViolation(err); ok {
			if strings.Contains(constraint, "phone") {
				return nil, apperrors.NewDuplicateKey("phone")
			}
			return nil, apperrors.NewDuplicateKey("email")
		}
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventCustomerCreated,
		CustomerID: customer.ID,
		Actor:      customerActor(customer.ID),
		Payload: events.CustomerCreatedPayload{
			FullName:  customer.FullName,
			City:      customer.City,
			WasteType: customer.WasteType,
			Frequency: customer.Frequency,
			Status:    customer.Status,
		},
	})
	return customer, nil
}

// Get fetches a customer by id.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return customer, nil
}

// List returns customers matching a staff-side filter.
func (s *CustomerService) List(ctx context.Context, filter repository.CustomerFilter) ([]domain.Customer, error) {
	customers, err := s.customers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return customers, nil
}

// UpdateByStaff applies a partial update. Status changes here are the manual
// escape hatch outside the payment flow, suspension included.
func (s *CustomerService) UpdateByStaff(ctx context.Context, staffID, customerID string, input CustomerUpdateInput) (*domain.Customer, error) {
	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	oldStatus := customer.Status

	if input.FullName != nil {
		if v := strings.TrimSpace(*input.FullName); v != "" {
			customer.FullName = v
		}
	}
	if input.Phone != nil {
		if v := strings.TrimSpace(*input.Phone); v != "" {
			customer.Phone = v
		}
	}
	if input.City != nil {
		customer.City = strings.TrimSpace(*input.City)
	}
	if input.Community != nil {
		customer.Community = strings.TrimSpace(*input.Community)
	}
	if input.Landmark != nil {
		customer.Landmark = strings.TrimSpace(*input.Landmark)
	}
	if input.WasteType != nil {
		if !input.WasteType.Valid() {
			return nil, apperrors.NewValidationError("waste_type must be household, mixed, business or construction", nil)
		}
		customer.WasteType = *input.WasteType
	}
	if input.Frequency != nil {
		if !input.Frequency.Valid() {
			return nil, apperrors.NewValidationError("frequency must be weekly, twice_weekly or special", nil)
		}
		customer.Frequency = *input.Frequency
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("invalid status", nil)
		}
		customer.Status = *input.Status
	}

	if err := s.customers.Update(ctx, customer); err != nil {
		if constraint, ok := repository.UniqueViolation(err); ok {
			if strings.Contains(constraint, "phone") {
				return nil, apperrors.NewDuplicateKey("phone")
			}
			return nil, apperrors.NewDuplicateKey("email")
		}
		return nil, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventCustomerUpdated,
		CustomerID: customer.ID,
		Actor:      staffActor(staffID),
		Payload: events.CustomerUpdatedPayload{
			OldStatus: oldStatus,
			NewStatus: customer.Status,
		},
	})
	return customer, nil
}

// Summary returns the cached read-only projection of a customer and their
// subscription, rebuilding it on a miss.
func (s *CustomerService) Summary(ctx context.Context, customerID string) (*cache.CustomerSummary, error) {
	if summary, ok := s.summaries.Get(ctx, customerID); ok {
		return summary, nil
	}

	customer, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	summary := &cache.CustomerSummary{
		ID:        customer.ID,
		FullName:  customer.FullName,
		Phone:     customer.Phone,
		Email:     customer.Email,
		City:      customer.City,
		Community: customer.Community,
		Landmark:  customer.Landmark,
		WasteType: customer.WasteType,
		Frequency: customer.Frequency,
		Status:    customer.Status,
		CreatedAt: customer.CreatedAt,
	}

	sub, err := s.subscriptions.GetByCustomer(ctx, customerID)
	switch {
	case err == nil:
		summary.AgreedAmountUSD = &sub.AgreedAmountUSD
		summary.AgreedAmountLRD = sub.AgreedAmountLRD
		summary.QuoteStartDate = &sub.StartDate
	case errors.Is(err, pgx.ErrNoRows):
		// no quote yet
	default:
		return nil, apperrors.NewInternalError(err)
	}

	s.summaries.Set(ctx, summary)
	return summary, nil
}
