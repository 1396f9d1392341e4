package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
)

func newCustomerService(customers *fakeCustomerRepo, dispatcher events.Dispatcher) *CustomerService {
	return NewCustomerService(CustomerDependencies{
		CustomerRepo:     customers,
		SubscriptionRepo: newFakeSubscriptionRepo(customers),
		Dispatcher:       dispatcher,
		BcryptCost:       4,
	})
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FullName:  "Joseph Weah",
		Phone:     "0775550000",
		Email:     "Joseph@Example.com",
		Password:  "secret1",
		City:      "Monrovia",
		Community: "Congo Town",
		Landmark:  "near the junction",
		WasteType: domain.WasteTypeBusiness,
		Frequency: domain.FrequencyTwiceWeekly,
	}
}

func TestRegisterCustomer(t *testing.T) {
	t.Run("new customers start in pending_quote with normalized email", func(t *testing.T) {
		svc := newCustomerService(newFakeCustomerRepo(), events.NewInMemoryDispatcher())
		customer, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusPendingQuote, customer.Status)
		assert.Equal(t, "joseph@example.com", customer.Email)
		assert.NotEmpty(t, customer.PasswordHash)
		assert.NotEqual(t, "secret1", customer.PasswordHash)
	})

	t.Run("duplicate email is rejected without leaking the stored value", func(t *testing.T) {
		svc := newCustomerService(newFakeCustomerRepo(), events.NewInMemoryDispatcher())
		_, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		dup := validRegisterInput()
		dup.Phone = "0775550001"
		_, err = svc.Register(context.Background(), dup)
		assert.Equal(t, "DUPLICATE_KEY", errorCode(t, err))
	})

	t.Run("duplicate phone is rejected", func(t *testing.T) {
		svc := newCustomerService(newFakeCustomerRepo(), events.NewInMemoryDispatcher())
		_, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		dup := validRegisterInput()
		dup.Email = "other@example.com"
		_, err = svc.Register(context.Background(), dup)
		assert.Equal(t, "DUPLICATE_KEY", errorCode(t, err))
	})

	t.Run("field validation", func(t *testing.T) {
		cases := []struct {
			name   string
			mutate func(*RegisterInput)
		}{
			{"missing name", func(in *RegisterInput) { in.FullName = " " }},
			{"missing phone", func(in *RegisterInput) { in.Phone = "" }},
			{"bad email", func(in *RegisterInput) { in.Email = "not-an-email" }},
			{"short password", func(in *RegisterInput) { in.Password = "abc" }},
			{"bad waste type", func(in *RegisterInput) { in.WasteType = "industrial" }},
			{"bad frequency", func(in *RegisterInput) { in.Frequency = "daily" }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				svc := newCustomerService(newFakeCustomerRepo(), events.NewInMemoryDispatcher())
				input := validRegisterInput()
				tc.mutate(&input)
				_, err := svc.Register(context.Background(), input)
				assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
			})
		}
	})

	t.Run("registration publishes customer_created", func(t *testing.T) {
		dispatcher := events.NewInMemoryDispatcher()
		var got []events.Event
		dispatcher.Subscribe(events.EventCustomerCreated, func(_ context.Context, event events.Event) error {
			got = append(got, event)
			return nil
		})

		svc := newCustomerService(newFakeCustomerRepo(), dispatcher)
		customer, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, customer.ID, got[0].CustomerID)
	})
}

func TestUpdateByStaff(t *testing.T) {
	t.Run("partial update keeps unset fields", func(t *testing.T) {
		customers := newFakeCustomerRepo()
		svc := newCustomerService(customers, events.NewInMemoryDispatcher())
		customer, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		city := "Paynesville"
		updated, err := svc.UpdateByStaff(context.Background(), "staff-1", customer.ID, CustomerUpdateInput{City: &city})
		require.NoError(t, err)
		assert.Equal(t, "Paynesville", updated.City)
		assert.Equal(t, customer.FullName, updated.FullName)
		assert.Equal(t, customer.Status, updated.Status)
	})

	t.Run("staff can suspend a customer", func(t *testing.T) {
		customers := newFakeCustomerRepo()
		svc := newCustomerService(customers, events.NewInMemoryDispatcher())
		customer, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		suspended := domain.CustomerStatusSuspended
		updated, err := svc.UpdateByStaff(context.Background(), "staff-1", customer.ID, CustomerUpdateInput{Status: &suspended})
		require.NoError(t, err)
		assert.Equal(t, domain.CustomerStatusSuspended, updated.Status)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		customers := newFakeCustomerRepo()
		svc := newCustomerService(customers, events.NewInMemoryDispatcher())
		customer, err := svc.Register(context.Background(), validRegisterInput())
		require.NoError(t, err)

		bogus := domain.CustomerStatus("archived")
		_, err = svc.UpdateByStaff(context.Background(), "staff-1", customer.ID, CustomerUpdateInput{Status: &bogus})
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("unknown customer is not found", func(t *testing.T) {
		svc := newCustomerService(newFakeCustomerRepo(), events.NewInMemoryDispatcher())
		_, err := svc.UpdateByStaff(context.Background(), "staff-1", "missing", CustomerUpdateInput{})
		assert.Equal(t, "NOT_FOUND", errorCode(t, err))
	})
}
