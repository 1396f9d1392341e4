package events

import (
	"time"

	"github.com/growflow/backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated        EventType = "customer_created"
	EventCustomerUpdated        EventType = "customer_updated"
	EventQuoteIssued            EventType = "quote_issued"
	EventPaymentSubmitted       EventType = "payment_submitted"
	EventPaymentVerified        EventType = "payment_verified"
	EventPasswordResetRequested EventType = "password_reset_requested"
)

// AllEventTypes lists every event the dispatcher can carry, for sinks that
// subscribe to the full stream.
var AllEventTypes = []EventType{
	EventCustomerCreated,
	EventCustomerUpdated,
	EventQuoteIssued,
	EventPaymentSubmitted,
	EventPaymentVerified,
	EventPasswordResetRequested,
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type       domain.SubjectType `json:"type"`
	CustomerID *string            `json:"customer_id,omitempty"`
	StaffID    *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CustomerID string      `json:"customer_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CustomerCreatedPayload payload.
type CustomerCreatedPayload struct {
	FullName  string                `json:"full_name"`
	City      string                `json:"city"`
	WasteType domain.WasteType      `json:"waste_type"`
	Frequency domain.Frequency      `json:"frequency"`
	Status    domain.CustomerStatus `json:"status"`
}

// CustomerUpdatedPayload payload.
type CustomerUpdatedPayload struct {
	OldStatus domain.CustomerStatus `json:"old_status"`
	NewStatus domain.CustomerStatus `json:"new_status"`
}

// QuoteIssuedPayload payload.
type QuoteIssuedPayload struct {
	SubscriptionID  string         `json:"subscription_id"`
	AgreedAmountUSD domain.Amount  `json:"agreed_amount_usd"`
	AgreedAmountLRD *domain.Amount `json:"agreed_amount_lrd,omitempty"`
	FirstQuote      bool           `json:"first_quote"`
}

// PaymentSubmittedPayload payload.
type PaymentSubmittedPayload struct {
	PaymentID    string               `json:"payment_id"`
	PaymentMonth int                  `json:"payment_month"`
	PaymentYear  int                  `json:"payment_year"`
	Currency     domain.Currency      `json:"currency"`
	Amount       domain.Amount        `json:"amount"`
	Method       domain.PaymentMethod `json:"method"`
}

// PaymentVerifiedPayload payload.
type PaymentVerifiedPayload struct {
	PaymentID       string               `json:"payment_id"`
	Decision        domain.PaymentStatus `json:"decision"`
	RejectionReason *string              `json:"rejection_reason,omitempty"`
}

// PasswordResetRequestedPayload payload. The OTP is carried to the
// notification stub only; it is never returned to API clients.
type PasswordResetRequestedPayload struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}
