package domain

import "time"

// PaymentStatus enumerates verification states for a payment row.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusApproved PaymentStatus = "approved"
	PaymentStatusRejected PaymentStatus = "rejected"
)

// PaymentMethod enumerates how a customer paid.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
)

// Valid reports whether the method is a known one.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodMobileMoney
}

// Payment is a customer-submitted payment confirmation for one billing month.
// A row is created pending and mutated exactly once by staff verification;
// a rejected row does not block a new submission for the same month.
type Payment struct {
	ID              string
	CustomerID      string
	SubscriptionID  string
	PaymentMonth    int
	PaymentYear     int
	PaidCurrency    Currency
	PaidAmount      Amount
	Method          PaymentMethod
	Reference       *string
	ProofURL        *string
	Status          PaymentStatus
	SubmittedAt     time.Time
	VerifiedAt      *time.Time
	VerifiedBy      *string
	RejectionReason *string
}

// MonthKey identifies the billing period a payment covers.
type MonthKey struct {
	Month int
	Year  int
}

// Valid reports whether the month is in [1,12] and the year plausible.
func (k MonthKey) Valid() bool {
	return k.Month >= 1 && k.Month <= 12 && k.Year >= 2000
}
