package dto

import (
	"time"

	"github.com/growflow/backend/internal/cache"
	"github.com/growflow/backend/internal/domain"
)

// CustomerResponse public customer representation.
type CustomerResponse struct {
	ID        string                `json:"id"`
	FullName  string                `json:"full_name"`
	Phone     string                `json:"phone"`
	Email     string                `json:"email"`
	City      string                `json:"city"`
	Community string                `json:"community"`
	Landmark  string                `json:"landmark"`
	WasteType domain.WasteType      `json:"waste_type"`
	Frequency domain.Frequency      `json:"frequency"`
	Status    domain.CustomerStatus `json:"status"`
	CreatedAt time.Time             `json:"created_at"`
}

// NewCustomerResponse strips credentials and reset state.
func NewCustomerResponse(customer *domain.Customer) *CustomerResponse {
	if customer == nil {
		return nil
	}
	return &CustomerResponse{
		ID:        customer.ID,
		FullName:  customer.FullName,
		Phone:     customer.Phone,
		Email:     customer.Email,
		City:      customer.City,
		Community: customer.Community,
		Landmark:  customer.Landmark,
		WasteType: customer.WasteType,
		Frequency: customer.Frequency,
		Status:    customer.Status,
		CreatedAt: customer.CreatedAt,
	}
}

// NewCustomerListResponse maps a customer slice.
func NewCustomerListResponse(customers []domain.Customer) []CustomerResponse {
	out := make([]CustomerResponse, 0, len(customers))
	for i := range customers {
		out = append(out, *NewCustomerResponse(&customers[i]))
	}
	return out
}

// CustomerUpdateRequest staff-side partial update; absent fields are kept.
type CustomerUpdateRequest struct {
	FullName  *string                `json:"full_name"`
	Phone     *string                `json:"phone"`
	City      *string                `json:"city"`
	Community *string                `json:"community"`
	Landmark  *string                `json:"landmark"`
	WasteType *domain.WasteType      `json:"waste_type"`
	Frequency *domain.Frequency      `json:"frequency"`
	Status    *domain.CustomerStatus `json:"status"`
}

// SubscriptionResponse quote representation.
type SubscriptionResponse struct {
	ID              string         `json:"id"`
	CustomerID      string         `json:"customer_id"`
	AgreedAmountUSD domain.Amount  `json:"agreed_amount_usd"`
	AgreedAmountLRD *domain.Amount `json:"agreed_amount_lrd"`
	StartDate       time.Time      `json:"start_date"`
	SetBy           string         `json:"set_by"`
	SetAt           time.Time      `json:"set_at"`
	Notes           *string        `json:"notes"`
}

// NewSubscriptionResponse maps a subscription.
func NewSubscriptionResponse(sub *domain.Subscription) *SubscriptionResponse {
	if sub == nil {
		return nil
	}
	return &SubscriptionResponse{
		ID:              sub.ID,
		CustomerID:      sub.CustomerID,
		AgreedAmountUSD: sub.AgreedAmountUSD,
		AgreedAmountLRD: sub.AgreedAmountLRD,
		StartDate:       sub.StartDate,
		SetBy:           sub.SetBy,
		SetAt:           sub.SetAt,
		Notes:           sub.Notes,
	}
}

// QuoteRequest payload for staff-issued quotes.
type QuoteRequest struct {
	AgreedAmountUSD domain.Amount  `json:"agreed_amount_usd"`
	AgreedAmountLRD *domain.Amount `json:"agreed_amount_lrd"`
	StartDate       string         `json:"start_date"`
	Notes           *string        `json:"notes"`
}

// CustomerSummaryResponse is the cached profile projection.
type CustomerSummaryResponse struct {
	CustomerResponse
	AgreedAmountUSD *domain.Amount `json:"agreed_amount_usd,omitempty"`
	AgreedAmountLRD *domain.Amount `json:"agreed_amount_lrd,omitempty"`
	QuoteStartDate  *time.Time     `json:"quote_start_date,omitempty"`
}

// NewCustomerSummaryResponse maps the cache projection.
func NewCustomerSummaryResponse(summary *cache.CustomerSummary) *CustomerSummaryResponse {
	if summary == nil {
		return nil
	}
	return &CustomerSummaryResponse{
		CustomerResponse: CustomerResponse{
			ID:        summary.ID,
			FullName:  summary.FullName,
			Phone:     summary.Phone,
			Email:     summary.Email,
			City:      summary.City,
			Community: summary.Community,
			Landmark:  summary.Landmark,
			WasteType: summary.WasteType,
			Frequency: summary.Frequency,
			Status:    summary.Status,
			CreatedAt: summary.CreatedAt,
		},
		AgreedAmountUSD: summary.AgreedAmountUSD,
		AgreedAmountLRD: summary.AgreedAmountLRD,
		QuoteStartDate:  summary.QuoteStartDate,
	}
}
