package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growflow/backend/internal/domain"
)

func TestReports(t *testing.T) {
	f := newPaymentFixture(t)
	reports := NewReportService(f.payments, f.customers, f.subs)
	now := time.Now()
	reports.now = func() time.Time { return now }

	input := f.submitInput()
	input.Month = int(now.Month())
	input.Year = now.Year()
	submitted, err := f.service.SubmitPayment(context.Background(), f.customerID, input)
	require.NoError(t, err)

	verification := NewVerificationService(f.payments, f.dispatcher)
	_, err = verification.VerifyPayment(context.Background(), "staff-1", submitted.ID, domain.PaymentStatusApproved, "")
	require.NoError(t, err)

	t.Run("dashboard counts the approved month", func(t *testing.T) {
		metrics, err := reports.Metrics(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(1), metrics.ActiveCustomers)
		assert.Equal(t, int64(0), metrics.PendingPayments)
		assert.Equal(t, int64(1), metrics.ApprovedThisMonth)
		assert.Equal(t, domain.Amount(5000), metrics.RevenueUSD)
	})

	t.Run("revenue buckets by month and currency", func(t *testing.T) {
		rows, err := reports.Revenue(context.Background(), now.Year())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, int(now.Month()), rows[0].Month)
		assert.Equal(t, domain.CurrencyUSD, rows[0].Currency)
		assert.Equal(t, domain.Amount(5000), rows[0].Total)
	})

	t.Run("customer export joins quote amounts", func(t *testing.T) {
		rows, err := reports.ExportCustomers(context.Background())
		require.NoError(t, err)
		require.Len(t, rows, 1)
		require.NotNil(t, rows[0].AgreedAmountUSD)
		assert.Equal(t, domain.Amount(5000), *rows[0].AgreedAmountUSD)
	})

	t.Run("payment export returns the full ledger", func(t *testing.T) {
		payments, err := reports.ExportPayments(context.Background())
		require.NoError(t, err)
		assert.Len(t, payments, 1)
	})
}
