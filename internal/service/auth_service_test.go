package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/growflow/backend/internal/auth"
	"github.com/growflow/backend/internal/config"
	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/events"
	apperrors "github.com/growflow/backend/pkg/util"
)

type authFixture struct {
	customers  *fakeCustomerRepo
	staff      *fakeStaffRepo
	dispatcher events.Dispatcher
	service    *AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	customers := newFakeCustomerRepo()
	staff := newFakeStaffRepo()
	dispatcher := events.NewInMemoryDispatcher()
	customerSvc := NewCustomerService(CustomerDependencies{
		CustomerRepo:     customers,
		SubscriptionRepo: newFakeSubscriptionRepo(customers),
		Dispatcher:       dispatcher,
		BcryptCost:       4,
	})
	cfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		ResetTokenTTLMinutes:  60,
		BcryptCost:            4,
	}
	return &authFixture{
		customers:  customers,
		staff:      staff,
		dispatcher: dispatcher,
		service: NewAuthService(cfg, AuthDependencies{
			CustomerRepo:    customers,
			StaffRepo:       staff,
			CustomerService: customerSvc,
			TokenManager:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
			Dispatcher:      dispatcher,
		}),
	}
}

func TestCustomerLogin(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.service.SignupCustomer(context.Background(), validRegisterInput())
	require.NoError(t, err)

	t.Run("valid credentials sign in", func(t *testing.T) {
		result, err := f.service.LoginCustomer(context.Background(), "joseph@example.com", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		require.NotNil(t, result.Customer)
	})

	t.Run("unknown email and wrong password fail identically", func(t *testing.T) {
		_, errUnknown := f.service.LoginCustomer(context.Background(), "ghost@example.com", "secret1")
		_, errWrong := f.service.LoginCustomer(context.Background(), "joseph@example.com", "wrong")
		require.Error(t, errUnknown)
		require.Error(t, errWrong)
		assert.Equal(t, apperrors.ToDomainError(errUnknown).Message, apperrors.ToDomainError(errWrong).Message)
		assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(errUnknown).Code)
	})
}

func TestStaffAccounts(t *testing.T) {
	f := newAuthFixture(t)

	t.Run("admin-creatable roles are admin and staff", func(t *testing.T) {
		staff, err := f.service.CreateStaffUser(context.Background(), "Ops Lead", "ops@growflow.local", "letmein", domain.StaffRoleStaff)
		require.NoError(t, err)
		assert.Equal(t, domain.StaffRoleStaff, staff.Role)

		_, err = f.service.CreateStaffUser(context.Background(), "Driver", "driver@growflow.local", "letmein", domain.StaffRoleCollector)
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("staff login works and duplicate email conflicts", func(t *testing.T) {
		result, err := f.service.LoginStaff(context.Background(), "ops@growflow.local", "letmein")
		require.NoError(t, err)
		require.NotNil(t, result.Staff)

		_, err = f.service.CreateStaffUser(context.Background(), "Other", "ops@growflow.local", "letmein", domain.StaffRoleAdmin)
		assert.Equal(t, "DUPLICATE_KEY", errorCode(t, err))
	})
}

func TestPasswordReset(t *testing.T) {
	t.Run("requests for unknown emails succeed without an event", func(t *testing.T) {
		f := newAuthFixture(t)
		f.dispatcher.Subscribe(events.EventPasswordResetRequested, func(_ context.Context, _ events.Event) error {
			t.Fatal("no event expected for unknown email")
			return nil
		})
		require.NoError(t, f.service.RequestPasswordReset(context.Background(), "ghost@example.com"))
	})

	t.Run("full reset round trip", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.service.SignupCustomer(context.Background(), validRegisterInput())
		require.NoError(t, err)

		var otp string
		f.dispatcher.Subscribe(events.EventPasswordResetRequested, func(_ context.Context, event events.Event) error {
			payload := event.Payload.(events.PasswordResetRequestedPayload)
			otp = payload.OTP
			return nil
		})
		require.NoError(t, f.service.RequestPasswordReset(context.Background(), "joseph@example.com"))
		require.Len(t, otp, 6)

		require.NoError(t, f.service.ConfirmPasswordReset(context.Background(), otp, "brandnew"))

		_, err = f.service.LoginCustomer(context.Background(), "joseph@example.com", "brandnew")
		require.NoError(t, err)
		_, err = f.service.LoginCustomer(context.Background(), "joseph@example.com", "secret1")
		require.Error(t, err)
	})

	t.Run("a reset code is single use", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.service.SignupCustomer(context.Background(), validRegisterInput())
		require.NoError(t, err)

		var otp string
		f.dispatcher.Subscribe(events.EventPasswordResetRequested, func(_ context.Context, event events.Event) error {
			otp = event.Payload.(events.PasswordResetRequestedPayload).OTP
			return nil
		})
		require.NoError(t, f.service.RequestPasswordReset(context.Background(), "joseph@example.com"))
		require.NoError(t, f.service.ConfirmPasswordReset(context.Background(), otp, "brandnew"))

		err = f.service.ConfirmPasswordReset(context.Background(), otp, "anothernew")
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("an expired code fails like a bad one", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.service.SignupCustomer(context.Background(), validRegisterInput())
		require.NoError(t, err)

		customer, err := f.customers.GetByEmail(context.Background(), "joseph@example.com")
		require.NoError(t, err)
		require.NoError(t, f.customers.SetResetToken(context.Background(), customer.ID, "123456", time.Now().Add(-time.Minute)))

		err = f.service.ConfirmPasswordReset(context.Background(), "123456", "brandnew")
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})

	t.Run("bad code and short password are rejected", func(t *testing.T) {
		f := newAuthFixture(t)
		err := f.service.ConfirmPasswordReset(context.Background(), "000000", "brandnew")
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))

		err = f.service.ConfirmPasswordReset(context.Background(), "000000", "abc")
		assert.Equal(t, "VALIDATION_FAILED", errorCode(t, err))
	})
}
