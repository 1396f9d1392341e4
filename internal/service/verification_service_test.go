package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growflow/backend/internal/domain"
)

func TestVerifyPayment(t *testing.T) {
	t.Run("approval moves the customer to active_paid", func(t *testing.T) {
		f := newPaymentFixture(t)
		submitted, err := f.service.SubmitPayment(context.Background(), f.customerID, f.submitInput())
		require.NoError(t, err)

		verification := NewVerificationService(f.payments, f.dispatcher)
		decided, err := verification.VerifyPayment(context.Background(), "staff-1", submitted.ID, domain.PaymentStatusApproved, "")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusApproved, decided.Status)
		require.NotNil(t, decided.VerifiedBy)
		assert.Equal(t, "staff-1", *decided.VerifiedBy)
		assert.NotNil(t, decided.VerifiedAt)
		assert.Nil(t, decided.RejectionReason)

		customer, err := f.customers.GetByID(context.Background(), f.customerID)
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusActivePaid, customer.Status)
	})

	t.Run("rejection returns the customer to active_payment_required", func(t *testing.T) {
		f := newPaymentFixture(t)
		submitted, err := f.service.SubmitPayment(context.Background(), f.customerID, f.submitInput())
		require.NoError(t, err)

		verification := NewVerificationService(f.payments, f.dispatcher)
		decided, err := verification.VerifyPayment(context.Background(), "staff-1", submitted.ID, domain.PaymentStatusRejected, "reference does not match")
		require.NoError(t, err)
		assert.Equal(t, domain.PaymentStatusRejected, decided.Status)
		require.NotNil(t, decided.RejectionReason)
		assert.Equal(t, "reference does not match", *decided.RejectionReason)

		customer, err := f.customers.GetByID(context.Background(), f.customerID)
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusPaymentRequired, customer.Status)
	})

	t.Run("rejection without a reason fails", func(t *testing.T) {
		f := newPaymentFixture(t)
		submitted, err := f.service.SubmitPayment(context.Background(), f.customerID, f.submitInput())
		require.NoError(t, err)

		verification := NewVerificationService(f.payments, f.dispatcher)
		_, err = verification.VerifyPayment(context.Background(), "staff-1", submitted.ID, domain.PaymentStatusRejected, "  ")
		assert.Equal(t, "MISSING_REASON", errorCode(t, err))
	})

	t.Run("decision must be approved or rejected", func(t *testing.T) {
		f := newPaymentFixture(t)
		verification := NewVerificationService(f.payments, f.dispatcher)
		_, err := verification.VerifyPayment(context.Background(), "staff-1", "any", domain.PaymentStatusPending, "")
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("a payment can be decided only once", func(t *testing.T) {
		f := newPaymentFixture(t)
		submitted, err := f.service.SubmitPayment(context.Background(), f.customerID, f.submitInput())
		require.NoError(t, err)

		verification := NewVerificationService(f.payments, f.dispatcher)
		_, err = verification.VerifyPayment(context.Background(), "staff-1", submitted.ID, domain.PaymentStatusApproved, "")
		require.NoError(t, err)

		_, err = verification.VerifyPayment(context.Background(), "staff-2", submitted.ID, domain.PaymentStatusRejected, "too late")
		assert.Equal(t, "INVALID_STATE_TRANSITION", errorCode(t, err))
	})

	t.Run("unknown payment id is not found", func(t *testing.T) {
		f := newPaymentFixture(t)
		verification := NewVerificationService(f.payments, f.dispatcher)
		_, err := verification.VerifyPayment(context.Background(), "staff-1", "missing", domain.PaymentStatusApproved, "")
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})

	t.Run("pending queue lists submissions with customer context", func(t *testing.T) {
		f := newPaymentFixture(t)
		_, err := f.service.SubmitPayment(context.Background(), f.customerID, f.submitInput())
		require.NoError(t, err)

		verification := NewVerificationService(f.payments, f.dispatcher)
		rows, err := verification.ListPending(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Miatta Kollie", rows[0].CustomerName)
		assert.Equal(t, domain.Amount(5000), rows[0].AgreedAmountUSD)
	})
}
