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

// VerificationService applies staff decisions to pending payments.
type VerificationService struct {
	payments   repository.PaymentRepository
	dispatcher events.Dispatcher
}

// NewVerificationService constructs the service.
func NewVerificationService(payments repository.PaymentRepository, dispatcher events.Dispatcher) *VerificationService {
	return &VerificationService{payments: payments, dispatcher: dispatcher}
}

// VerifyPayment approves or rejects a pending payment. Rejection requires a
// reason. The decision and the customer status change commit together, and a
// payment can be decided only once.
func (s *VerificationService) VerifyPayment(ctx context.Context, staffID, paymentID string, decision domain.PaymentStatus, rejectionReason string) (*domain.Payment, error) {
	if decision != domain.PaymentStatusApproved && decision != domain.PaymentStatusRejected {
		return nil, apperrors.NewValidationError("status must be approved or rejected", nil)
	}
	var reason *string
	if decision == domain.PaymentStatusRejected {
		trimmed := strings.TrimSpace(rejectionReason)
		if trimmed == "" {
			return nil, apperrors.NewMissingReason()
		}
		reason = &trimmed
	}

	payment, err := s.payments.Verify(ctx, paymentID, staffID, decision, reason)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return nil, apperrors.NewNotFound("payment", nil)
		case errors.Is(err, repository.ErrNotPending):
			return nil, apperrors.NewInvalidStateTransition("payment has already been verified")
		default:
			return nil, apperrors.NewInternalError(err)
		}
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:       events.EventPaymentVerified,
		CustomerID: payment.CustomerID,
		Actor:      staffActor(staffID),
		Payload: events.PaymentVerifiedPayload{
			PaymentID:       payment.ID,
			Decision:        decision,
			RejectionReason: reason,
		},
	})
	return payment, nil
}

// ListPending returns the verification queue, oldest submission first.
func (s *VerificationService) ListPending(ctx context.Context) ([]repository.PendingPaymentRow, error) {
	rows, err := s.payments.ListPending(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return rows, nil
}
