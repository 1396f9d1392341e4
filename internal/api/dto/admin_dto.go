package dto

import (
	"time"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/repository"
	"github.com/growflow/backend/internal/service"
)

// MetricsResponse dashboard counters for the current month.
type MetricsResponse struct {
	ActiveCustomers   int64         `json:"active_customers"`
	PendingPayments   int64         `json:"pending_payments"`
	ApprovedThisMonth int64         `json:"approved_this_month"`
	RevenueUSD        domain.Amount `json:"revenue_usd"`
	RevenueLRD        domain.Amount `json:"revenue_lrd"`
}

// NewMetricsResponse maps dashboard metrics.
func NewMetricsResponse(m *repository.DashboardMetrics) *MetricsResponse {
	if m == nil {
		return nil
	}
	return &MetricsResponse{
		ActiveCustomers:   m.ActiveCustomers,
		PendingPayments:   m.PendingPayments,
		ApprovedThisMonth: m.ApprovedThisMonth,
		RevenueUSD:        m.RevenueUSD,
		RevenueLRD:        m.RevenueLRD,
	}
}

// RevenueRowResponse one month/currency revenue bucket.
type RevenueRowResponse struct {
	Month    int             `json:"month"`
	Year     int             `json:"year"`
	Currency domain.Currency `json:"currency"`
	Count    int64           `json:"count"`
	Total    domain.Amount   `json:"total"`
}

// NewRevenueResponse maps revenue rows.
func NewRevenueResponse(rows []repository.RevenueRow) []RevenueRowResponse {
	out := make([]RevenueRowResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, RevenueRowResponse{
			Month:    row.Month,
			Year:     row.Year,
			Currency: row.Currency,
			Count:    row.Count,
			Total:    row.Total,
		})
	}
	return out
}

// CustomerExportResponse one export row: customer joined with quote amounts.
type CustomerExportResponse struct {
	CustomerResponse
	AgreedAmountUSD *domain.Amount `json:"agreed_amount_usd"`
	AgreedAmountLRD *domain.Amount `json:"agreed_amount_lrd"`
	QuoteStartDate  *time.Time     `json:"quote_start_date"`
}

// NewCustomerExportResponse maps export rows.
func NewCustomerExportResponse(rows []service.CustomerExportRow) []CustomerExportResponse {
	out := make([]CustomerExportResponse, 0, len(rows))
	for i := range rows {
		row := rows[i]
		out = append(out, CustomerExportResponse{
			CustomerResponse: *NewCustomerResponse(&row.Customer),
			AgreedAmountUSD:  row.AgreedAmountUSD,
			AgreedAmountLRD:  row.AgreedAmountLRD,
			QuoteStartDate:   row.QuoteStartDate,
		})
	}
	return out
}

// ImportRowRequest one spreadsheet row of a bulk import. Amounts accept
// decimal strings or numbers.
type ImportRowRequest struct {
	FullName        string           `json:"full_name"`
	Phone           string           `json:"phone"`
	Email           string           `json:"email"`
	City            string           `json:"city"`
	Community       string           `json:"community"`
	Landmark        string           `json:"landmark"`
	WasteType       domain.WasteType `json:"waste_type"`
	Frequency       domain.Frequency `json:"frequency"`
	AgreedAmountUSD *domain.Amount   `json:"agreed_amount_usd"`
	AgreedAmountLRD *domain.Amount   `json:"agreed_amount_lrd"`
	StartDate       *string          `json:"start_date"`
	Notes           *string          `json:"notes"`
}

// ImportRequest bulk import payload.
type ImportRequest struct {
	Rows []ImportRowRequest `json:"rows"`
}
