package domain

import "time"

// CustomerStatus enumerates lifecycle states for customers.
type CustomerStatus string

const (
	CustomerStatusPendingQuote        CustomerStatus = "pending_quote"
	CustomerStatusPaymentRequired     CustomerStatus = "active_payment_required"
	CustomerStatusPendingVerification CustomerStatus = "payment_pending_verification"
	CustomerStatusActivePaid          CustomerStatus = "active_paid"
	CustomerStatusSuspended           CustomerStatus = "suspended"
)

// Valid reports whether the status is one of the five defined states.
func (s CustomerStatus) Valid() bool {
	switch s {
	case CustomerStatusPendingQuote, CustomerStatusPaymentRequired,
		CustomerStatusPendingVerification, CustomerStatusActivePaid,
		CustomerStatusSuspended:
		return true
	}
	return false
}

// CanSubmitPayment reports whether a customer in this state may submit a
// payment confirmation. Suspended is terminal for the payment flow; every
// other state is gated by the subscription and month-key checks instead.
func (s CustomerStatus) CanSubmitPayment() bool {
	return s != CustomerStatusSuspended
}

// WasteType enumerates collected waste categories.
type WasteType string

const (
	WasteTypeHousehold    WasteType = "household"
	WasteTypeMixed        WasteType = "mixed"
	WasteTypeBusiness     WasteType = "business"
	WasteTypeConstruction WasteType = "construction"
)

// Valid reports whether the waste type is a known one.
func (w WasteType) Valid() bool {
	switch w {
	case WasteTypeHousehold, WasteTypeMixed, WasteTypeBusiness, WasteTypeConstruction:
		return true
	}
	return false
}

// Frequency enumerates collection schedules.
type Frequency string

const (
	FrequencyWeekly      Frequency = "weekly"
	FrequencyTwiceWeekly Frequency = "twice_weekly"
	FrequencySpecial     Frequency = "special"
)

// Valid reports whether the frequency is a known one.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyWeekly, FrequencyTwiceWeekly, FrequencySpecial:
		return true
	}
	return false
}

// Customer is the aggregate for service subscribers. Phone and email are
// globally unique. A new customer always starts in pending_quote.
type Customer struct {
	ID                string
	FullName          string
	Phone             string
	Email             string
	PasswordHash      string
	City              string
	Community         string
	Landmark          string
	WasteType         WasteType
	Frequency         Frequency
	Status            CustomerStatus
	CreatedAt         time.Time
	ResetToken        *string
	ResetTokenExpires *time.Time
}
