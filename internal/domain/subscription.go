package domain

import "time"

// Subscription records the monthly fee a staff member agreed with a customer.
// Each customer has at most one subscription row; a re-quote updates it in
// place rather than creating history.
type Subscription struct {
	ID              string
	CustomerID      string
	AgreedAmountUSD Amount
	AgreedAmountLRD *Amount
	StartDate       time.Time
	SetBy           string
	SetAt           time.Time
	Notes           *string
}
