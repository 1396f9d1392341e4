package dto

import (
	"time"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/repository"
)

// SubmitPaymentRequest payload for customer payment submission. Amount
// accepts a decimal string ("50.25") or a number.
type SubmitPaymentRequest struct {
	PaymentMonth int                  `json:"payment_month"`
	PaymentYear  int                  `json:"payment_year"`
	PaidCurrency domain.Currency      `json:"paid_currency"`
	PaidAmount   domain.Amount        `json:"paid_amount"`
	Method       domain.PaymentMethod `json:"method"`
	Reference    *string              `json:"reference"`
	ProofURL     *string              `json:"proof_url"`
}

// VerifyPaymentRequest staff decision payload.
type VerifyPaymentRequest struct {
	Status          domain.PaymentStatus `json:"status"`
	RejectionReason string               `json:"rejection_reason"`
}

// PaymentResponse payment representation.
type PaymentResponse struct {
	ID              string               `json:"id"`
	CustomerID      string               `json:"customer_id"`
	SubscriptionID  string               `json:"subscription_id"`
	PaymentMonth    int                  `json:"payment_month"`
	PaymentYear     int                  `json:"payment_year"`
	PaidCurrency    domain.Currency      `json:"paid_currency"`
	PaidAmount      domain.Amount        `json:"paid_amount"`
	Method          domain.PaymentMethod `json:"method"`
	Reference       *string              `json:"reference"`
	ProofURL        *string              `json:"proof_url"`
	Status          domain.PaymentStatus `json:"status"`
	SubmittedAt     time.Time            `json:"submitted_at"`
	VerifiedAt      *time.Time           `json:"verified_at"`
	VerifiedBy      *string              `json:"verified_by"`
	RejectionReason *string              `json:"rejection_reason"`
}

// NewPaymentResponse maps a payment.
func NewPaymentResponse(payment *domain.Payment) *PaymentResponse {
	if payment == nil {
		return nil
	}
	return &PaymentResponse{
		ID:              payment.ID,
		CustomerID:      payment.CustomerID,
		SubscriptionID:  payment.SubscriptionID,
		PaymentMonth:    payment.PaymentMonth,
		PaymentYear:     payment.PaymentYear,
		PaidCurrency:    payment.PaidCurrency,
		PaidAmount:      payment.PaidAmount,
		Method:          payment.Method,
		Reference:       payment.Reference,
		ProofURL:        payment.ProofURL,
		Status:          payment.Status,
		SubmittedAt:     payment.SubmittedAt,
		VerifiedAt:      payment.VerifiedAt,
		VerifiedBy:      payment.VerifiedBy,
		RejectionReason: payment.RejectionReason,
	}
}

// NewPaymentListResponse maps a payment slice.
func NewPaymentListResponse(payments []domain.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, *NewPaymentResponse(&payments[i]))
	}
	return out
}

// PendingPaymentResponse verification queue entry with customer context.
type PendingPaymentResponse struct {
	PaymentResponse
	CustomerName    string         `json:"customer_name"`
	CustomerPhone   string         `json:"customer_phone"`
	AgreedAmountUSD domain.Amount  `json:"agreed_amount_usd"`
	AgreedAmountLRD *domain.Amount `json:"agreed_amount_lrd"`
}

// NewPendingPaymentListResponse maps verification queue rows.
func NewPendingPaymentListResponse(rows []repository.PendingPaymentRow) []PendingPaymentResponse {
	out := make([]PendingPaymentResponse, 0, len(rows))
	for i := range rows {
		row := rows[i]
		out = append(out, PendingPaymentResponse{
			PaymentResponse: *NewPaymentResponse(&row.Payment),
			CustomerName:    row.CustomerName,
			CustomerPhone:   row.CustomerPhone,
			AgreedAmountUSD: row.AgreedAmountUSD,
			AgreedAmountLRD: row.AgreedAmountLRD,
		})
	}
	return out
}
