package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
	"github.com/growflow/backend/internal/repository"
	apperrors "github.com/growflow/backend/pkg/util"
)

// PaymentService handles customer payment submission.
type PaymentService struct {
	payments      repository.PaymentRepository
	subscriptions repository.SubscriptionRepository
	customers     repository.CustomerRepository
	dispatcher    events.Dispatcher
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	PaymentRepo      repository.PaymentRepository
	SubscriptionRepo repository.SubscriptionRepository
	CustomerRepo     repository.CustomerRepository
	Dispatcher       events.Dispatcher
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	return &PaymentService{
		payments:      deps.PaymentRepo,
		subscriptions: deps.SubscriptionRepo,
		customers:     deps.CustomerRepo,
		dispatcher:    deps.Dispatcher,
	}
}

// SubmitPaymentInput describes a payment submission.
type SubmitPaymentInput struct {
	Month     int
	Year      int
	Currency  domain.Currency
	Amount    domain.Amount
	Method    domain.PaymentMethod
	Reference *string
	ProofURL  *string
}

// SubmitPayment records a pending payment for a billing month. The paid
// amount must equal the agreed amount for the chosen currency exactly, and a
// month can hold at most one pending and one approved payment.
func (s *PaymentService) SubmitPayment(ctx context.Context, customerID string, input SubmitPaymentInput) (*domain.Payment, error) {
	key := domain.MonthKey{Month: input.Month, Year: input.Year}
	if !key.Valid() {
		return nil, apperrors.NewValidationError("payment_month must be 1-12 and payment_year 2000 or later", nil)
	}
	if !input.Currency.Valid() {
		return nil, apperrors.NewValidationError("paid_currency must be USD or LRD", nil)
	}
	if input.Amount <= 0 {
		return nil, apperrors.NewValidationError("paid_amount must be greater than zero", nil)
	}
	if !input.Method.Valid() {
		return nil, apperrors.NewValidationError("method must be cash or mobile_money", nil)
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("customer", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if !customer.Status.CanSubmitPayment() {
		return nil, apperrors.NewInvalidStateTransition("suspended customers cannot submit payments")
	}

	sub, err := s.subscriptions.GetByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNoSubscription()
		}
		return nil, apperrors.NewInternalError(err)
	}

	switch input.Currency {
	case domain.CurrencyUSD:
		if input.Amount != sub.AgreedAmountUSD {
			return nil, apperrors.NewAmountMismatch("USD", sub.AgreedAmountUSD.String())
		}
	case domain.CurrencyLRD:
		if sub.AgreedAmountLRD == nil {
			return nil, apperrors.NewCurrencyNotConfigured("LRD")
		}
		if input.Amount != *sub.AgreedAmountLRD {
			return nil, apperrors.NewAmountMismatch("LRD", sub.AgreedAmountLRD.String())
		}
	}

	if input.Method == domain.PaymentMethodMobileMoney {
		if input.Reference == nil || strings.TrimSpace(*input.Reference) == "" {
			return nil, apperrors.NewMissingReference()
		}
	}

	payment := &domain.Payment{
		CustomerID:     customerID,
		SubscriptionID: sub.ID,
		PaymentMonth:   input.Month,
		PaymentYear:    input.Year,
		PaidCurrency:   input.Currency,
		PaidAmount:     input.Amount,
		Method:         input.Method,
		Reference:      input.Reference,
		ProofURL:       input.ProofURL,
		Status:         domain.PaymentStatusPending,
	}

	err = s.payments.Submit(ctx, payment)
	if repository.Retryable(err) {
		err = s.payments.Submit(ctx, payment)
	}
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrApprovedExists):
			return nil, apperrors.NewAlreadyApproved()
		case errors.Is(err, repository.ErrPendingExists):
			return nil, apperrors.NewAlreadyPending()
		default:
			if _, ok := repository.ForeignKeyViolation(err); ok {
				return nil, apperrors.NewDanglingReference("subscription")
			}
			return nil, apperrors.NewInternalError(err)
		}
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventPaymentSubmitted,
		CustomerID: customerID,
		Actor:      customerActor(customerID),
		Payload: events.PaymentSubmittedPayload{
			PaymentID:    payment.ID,
			PaymentMonth: payment.PaymentMonth,
			PaymentYear:  payment.PaymentYear,
			Currency:     payment.PaidCurrency,
			Amount:       payment.PaidAmount,
			Method:       payment.Method,
		},
	})
	return payment, nil
}

// ListForCustomer returns the customer's payment history, newest month first.
func (s *PaymentService) ListForCustomer(ctx context.Context, customerID string) ([]domain.Payment, error) {
	payments, err := s.payments.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return payments, nil
}
