package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/repository"
)

type fakeCustomerRepo struct {
	mu        sync.Mutex
	customers map[string]*domain.Customer
}

func newFakeCustomerRepo() *fakeCustomerRepo {
	return &fakeCustomerRepo{customers: map[string]*domain.Customer{}}
}

func (r *fakeCustomerRepo) Create(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer.ID = uuid.NewString()
	customer.CreatedAt = time.Now()
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) Update(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.customers[customer.ID]; !ok {
		return pgx.ErrNoRows
	}
	copied := *customer
	r.customers[customer.ID] = &copied
	return nil
}

func (r *fakeCustomerRepo) UpdateStatus(_ context.Context, id string, status domain.CustomerStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	customer.Status = status
	return nil
}

func (r *fakeCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *customer
	return &copied, nil
}

func (r *fakeCustomerRepo) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.Email == email {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) GetByPhone(_ context.Context, phone string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.Phone == phone {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) GetByResetToken(_ context.Context, token string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, customer := range r.customers {
		if customer.ResetToken != nil && *customer.ResetToken == token &&
			customer.ResetTokenExpires != nil && customer.ResetTokenExpires.After(time.Now()) {
			copied := *customer
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCustomerRepo) SetResetToken(_ context.Context, id, token string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	customer.ResetToken = &token
	customer.ResetTokenExpires = &expires
	return nil
}

func (r *fakeCustomerRepo) ResetPassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	customer, ok := r.customers[id]
	if !ok {
		return pgx.ErrNoRows
	}
	customer.PasswordHash = passwordHash
	customer.ResetToken = nil
	customer.ResetTokenExpires = nil
	return nil
}

func (r *fakeCustomerRepo) List(_ context.Context, filter repository.CustomerFilter) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for _, customer := range r.customers {
		if filter.Status != nil && customer.Status != *filter.Status {
			continue
		}
		if filter.Search != nil && !strings.Contains(strings.ToLower(customer.FullName), strings.ToLower(*filter.Search)) {
			continue
		}
		out = append(out, *customer)
	}
	return out, nil
}

type fakeSubscriptionRepo struct {
	mu        sync.Mutex
	customers *fakeCustomerRepo
	subs      map[string]*domain.Subscription
}

func newFakeSubscriptionRepo(customers *fakeCustomerRepo) *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{customers: customers, subs: map[string]*domain.Subscription{}}
}

func (r *fakeSubscriptionRepo) GetByCustomer(_ context.Context, customerID string) (*domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subs[customerID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *sub
	return &copied, nil
}

func (r *fakeSubscriptionRepo) UpsertQuote(ctx context.Context, sub *domain.Subscription) (bool, error) {
	r.mu.Lock()
	existing, ok := r.subs[sub.CustomerID]
	if ok {
		sub.ID = existing.ID
	} else {
		sub.ID = uuid.NewString()
	}
	sub.SetAt = time.Now()
	copied := *sub
	r.subs[sub.CustomerID] = &copied
	r.mu.Unlock()

	if ok {
		return false, nil
	}
	customer, err := r.customers.GetByID(ctx, sub.CustomerID)
	if err != nil {
		return false, err
	}
	if customer.Status == domain.CustomerStatusPendingQuote {
		if err := r.customers.UpdateStatus(ctx, sub.CustomerID, domain.CustomerStatusPaymentRequired); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *fakeSubscriptionRepo) ListAll(_ context.Context) ([]domain.Subscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Subscription
	for _, sub := range r.subs {
		out = append(out, *sub)
	}
	return out, nil
}

type fakePaymentRepo struct {
	mu        sync.Mutex
	customers *fakeCustomerRepo
	subs      *fakeSubscriptionRepo
	payments  map[string]*domain.Payment
}

func newFakePaymentRepo(customers *fakeCustomerRepo, subs *fakeSubscriptionRepo) *fakePaymentRepo {
	return &fakePaymentRepo{customers: customers, subs: subs, payments: map[string]*domain.Payment{}}
}

// Submit mirrors the transactional month-key check: at most one pending and
// one approved payment per (customer, month, year), approved checked first.
func (r *fakePaymentRepo) Submit(ctx context.Context, payment *domain.Payment) error {
	r.mu.Lock()
	for _, existing := range r.payments {
		if existing.CustomerID != payment.CustomerID ||
			existing.PaymentMonth != payment.PaymentMonth ||
			existing.PaymentYear != payment.PaymentYear {
			continue
		}
		if existing.Status == domain.PaymentStatusApproved {
			r.mu.Unlock()
			return repository.ErrApprovedExists
		}
	}
	for _, existing := range r.payments {
		if existing.CustomerID == payment.CustomerID &&
			existing.PaymentMonth == payment.PaymentMonth &&
			existing.PaymentYear == payment.PaymentYear &&
			existing.Status == domain.PaymentStatusPending {
			r.mu.Unlock()
			return repository.ErrPendingExists
		}
	}
	payment.ID = uuid.NewString()
	payment.SubmittedAt = time.Now()
	copied := *payment
	r.payments[payment.ID] = &copied
	r.mu.Unlock()

	return r.customers.UpdateStatus(ctx, payment.CustomerID, domain.CustomerStatusPendingVerification)
}

func (r *fakePaymentRepo) Verify(ctx context.Context, paymentID, staffID string, decision domain.PaymentStatus, rejectionReason *string) (*domain.Payment, error) {
	r.mu.Lock()
	payment, ok := r.payments[paymentID]
	if !ok {
		r.mu.Unlock()
		return nil, pgx.ErrNoRows
	}
	if payment.Status != domain.PaymentStatusPending {
		r.mu.Unlock()
		return nil, repository.ErrNotPending
	}
	now := time.Now()
	payment.Status = decision
	payment.VerifiedAt = &now
	payment.VerifiedBy = &staffID
	payment.RejectionReason = rejectionReason
	copied := *payment
	r.mu.Unlock()

	next := domain.CustomerStatusActivePaid
	if decision == domain.PaymentStatusRejected {
		next = domain.CustomerStatusPaymentRequired
	}
	if err := r.customers.UpdateStatus(ctx, payment.CustomerID, next); err != nil {
		return nil, err
	}
	return &copied, nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	payment, ok := r.payments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *payment
	return &copied, nil
}

func (r *fakePaymentRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, payment := range r.payments {
		if payment.CustomerID == customerID {
			out = append(out, *payment)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) ListPending(ctx context.Context) ([]repository.PendingPaymentRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []repository.PendingPaymentRow
	for _, payment := range r.payments {
		if payment.Status != domain.PaymentStatusPending {
			continue
		}
		row := repository.PendingPaymentRow{Payment: *payment}
		if customer, ok := r.customers.customers[payment.CustomerID]; ok {
			row.CustomerName = customer.FullName
			row.CustomerPhone = customer.Phone
			row.CustomerEmail = customer.Email
		}
		if sub, ok := r.subs.subs[payment.CustomerID]; ok {
			row.AgreedAmountUSD = sub.AgreedAmountUSD
			row.AgreedAmountLRD = sub.AgreedAmountLRD
		}
		out = append(out, row)
	}
	return out, nil
}

func (r *fakePaymentRepo) ListAll(_ context.Context) ([]domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Payment
	for _, payment := range r.payments {
		out = append(out, *payment)
	}
	return out, nil
}

func (r *fakePaymentRepo) Metrics(_ context.Context, month, year int) (*repository.DashboardMetrics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	metrics := &repository.DashboardMetrics{}
	for _, customer := range r.customers.customers {
		if customer.Status == domain.CustomerStatusActivePaid {
			metrics.ActiveCustomers++
		}
	}
	for _, payment := range r.payments {
		if payment.Status == domain.PaymentStatusPending {
			metrics.PendingPayments++
		}
		if payment.Status == domain.PaymentStatusApproved && payment.PaymentMonth == month && payment.PaymentYear == year {
			metrics.ApprovedThisMonth++
			switch payment.PaidCurrency {
			case domain.CurrencyUSD:
				metrics.RevenueUSD += payment.PaidAmount
			case domain.CurrencyLRD:
				metrics.RevenueLRD += payment.PaidAmount
			}
		}
	}
	return metrics, nil
}

func (r *fakePaymentRepo) RevenueByMonth(_ context.Context, year int) ([]repository.RevenueRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	totals := map[string]*repository.RevenueRow{}
	for _, payment := range r.payments {
		if payment.Status != domain.PaymentStatusApproved || payment.PaymentYear != year {
			continue
		}
		key := fmt.Sprintf("%d-%s", payment.PaymentMonth, payment.PaidCurrency)
		row, ok := totals[key]
		if !ok {
			row = &repository.RevenueRow{Month: payment.PaymentMonth, Year: year, Currency: payment.PaidCurrency}
			totals[key] = row
		}
		row.Count++
		row.Total += payment.PaidAmount
	}
	var out []repository.RevenueRow
	for _, row := range totals {
		out = append(out, *row)
	}
	return out, nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	staff map[string]*domain.StaffUser
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: map[string]*domain.StaffUser{}}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff.ID = uuid.NewString()
	staff.CreatedAt = time.Now()
	copied := *staff
	r.staff[staff.ID] = &copied
	return nil
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	staff, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *staff
	return &copied, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, staff := range r.staff {
		if staff.Email == email {
			copied := *staff
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context) ([]domain.StaffUser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.StaffUser
	for _, staff := range r.staff {
		out = append(out, *staff)
	}
	return out, nil
}
