package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
	"github.com/growflow/backend/internal/repository"
	apperrors "github.com/growflow/backend/pkg/util"
)

// QuoteService manages staff-issued subscription quotes.
type QuoteService struct {
	subscriptions repository.SubscriptionRepository
	customers     repository.CustomerRepository
	dispatcher    events.Dispatcher
}

// NewQuoteService constructs the service.
func NewQuoteService(subscriptions repository.SubscriptionRepository, customers repository.CustomerRepository, dispatcher events.Dispatcher) *QuoteService {
	return &QuoteService{
		subscriptions: subscriptions,
		customers:     customers,
		dispatcher:    dispatcher,
	}
}

// QuoteInput describes a quote payload.
type QuoteInput struct {
	AmountUSD domain.Amount
	AmountLRD *domain.Amount
	StartDate time.Time
	Notes     *string
}

// IssueQuote creates or replaces the customer's subscription. A customer has
// at most one; re-issuing updates the stored quote in place. The returned
// flag reports whether this was the customer's first quote.
func (s *QuoteService) IssueQuote(ctx context.Context, staffID, customerID string, input QuoteInput) (*domain.Subscription, bool, error) {
	if input.AmountUSD <= 0 {
		return nil, false, apperrors.NewValidationError("agreed_amount_usd must be greater than zero", nil)
	}
	if input.AmountLRD != nil && *input.AmountLRD <= 0 {
		return nil, false, apperrors.NewValidationError("agreed_amount_lrd must be greater than zero", nil)
	}
	if input.StartDate.IsZero() {
		return nil, false, apperrors.NewValidationError("start_date is required", nil)
	}
	if input.Notes != nil {
		trimmed := strings.TrimSpace(*input.Notes)
		if trimmed == "" {
			input.Notes = nil
		} else {
			input.Notes = &trimmed
		}
	}

	if _, err := s.customers.GetByID(ctx, customerID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, apperrors.NewNotFound("customer", nil)
		}
		return nil, false, apperrors.NewInternalError(err)
	}

	sub := &domain.Subscription{
		CustomerID:      customerID,
		AgreedAmountUSD: input.AmountUSD,
		AgreedAmountLRD: input.AmountLRD,
		StartDate:       input.StartDate,
		SetBy:           staffID,
		Notes:           input.Notes,
	}
	firstQuote, err := s.subscriptions.UpsertQuote(ctx, sub)
	if err != nil {
		if _, ok := repository.ForeignKeyViolation(err); ok {
			return nil, false, apperrors.NewDanglingReference("customer")
		}
		return nil, false, apperrors.NewInternalError(err)
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventQuoteIssued,
		CustomerID: customerID,
		Actor:      staffActor(staffID),
		Payload: events.QuoteIssuedPayload{
			SubscriptionID:  sub.ID,
			AgreedAmountUSD: sub.AgreedAmountUSD,
			AgreedAmountLRD: sub.AgreedAmountLRD,
			FirstQuote:      firstQuote,
		},
	})
	return sub, firstQuote, nil
}

// GetForCustomer returns the customer's subscription, or nil when no quote
// has been issued yet.
func (s *QuoteService) GetForCustomer(ctx context.Context, customerID string) (*domain.Subscription, error) {
	sub, err := s.subscriptions.GetByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewInternalError(err)
	}
	return sub, nil
}
