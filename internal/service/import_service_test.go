package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
)

func newImportFixture(t *testing.T) (*ImportService, *fakeCustomerRepo, *fakeSubscriptionRepo) {
	t.Helper()
	customers := newFakeCustomerRepo()
	subs := newFakeSubscriptionRepo(customers)
	dispatcher := events.NewInMemoryDispatcher()
	customerSvc := NewCustomerService(CustomerDependencies{
		CustomerRepo:     customers,
		SubscriptionRepo: subs,
		Dispatcher:       dispatcher,
		BcryptCost:       4,
	})
	quoteSvc := NewQuoteService(subs, customers, dispatcher)
	return NewImportService(customerSvc, quoteSvc), customers, subs
}

func importRow(email, phone string) ImportRow {
	return ImportRow{
		FullName:  "Imported Customer",
		Phone:     phone,
		Email:     email,
		City:      "Monrovia",
		Community: "West Point",
		WasteType: domain.WasteTypeHousehold,
		Frequency: domain.FrequencySpecial,
	}
}

func TestImport(t *testing.T) {
	t.Run("a bad row fails alone and reports its spreadsheet position", func(t *testing.T) {
		svc, customers, _ := newImportFixture(t)

		bad := importRow("bad@example.com", "0770000002")
		bad.Frequency = "daily"
		rows := []ImportRow{
			importRow("ok@example.com", "0770000001"),
			bad,
			importRow("also-ok@example.com", "0770000003"),
		}

		result := svc.Import(context.Background(), "staff-1", rows)
		assert.Equal(t, 2, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Row 3:")

		_, err := customers.GetByEmail(context.Background(), "ok@example.com")
		require.NoError(t, err)
		_, err = customers.GetByEmail(context.Background(), "also-ok@example.com")
		require.NoError(t, err)
	})

	t.Run("rows with an agreed amount also get a quote", func(t *testing.T) {
		svc, customers, subs := newImportFixture(t)

		amount := domain.Amount(5000)
		row := importRow("quoted@example.com", "0770000010")
		row.AgreedAmountUSD = &amount

		result := svc.Import(context.Background(), "staff-1", []ImportRow{row})
		require.Equal(t, 1, result.Succeeded)

		customer, err := customers.GetByEmail(context.Background(), "quoted@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusPaymentRequired, customer.Status)

		sub, err := subs.GetByCustomer(context.Background(), customer.ID)
		require.NoError(t, err)
		assert.Equal(t, amount, sub.AgreedAmountUSD)
		assert.Equal(t, "staff-1", sub.SetBy)
	})

	t.Run("rows without an amount stay in pending_quote", func(t *testing.T) {
		svc, customers, _ := newImportFixture(t)

		result := svc.Import(context.Background(), "staff-1", []ImportRow{importRow("plain@example.com", "0770000020")})
		require.Equal(t, 1, result.Succeeded)

		customer, err := customers.GetByEmail(context.Background(), "plain@example.com")
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusPendingQuote, customer.Status)
	})

	t.Run("duplicate rows in one batch surface as row errors", func(t *testing.T) {
		svc, _, _ := newImportFixture(t)

		rows := []ImportRow{
			importRow("dup@example.com", "0770000030"),
			importRow("dup@example.com", "0770000031"),
		}
		result := svc.Import(context.Background(), "staff-1", rows)
		assert.Equal(t, 1, result.Succeeded)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Row 3:")
	})
}
