package service

import (
	"context"
	"time"

	"github.com/growflow/backend/internal/domain"
	"github.com/growflow/backend/internal/repository"
	apperrors "github.com/growflow/backend/pkg/util"
)

// ReportService produces admin dashboards and data exports.
type ReportService struct {
	payments      repository.PaymentRepository
	customers     repository.CustomerRepository
	subscriptions repository.SubscriptionRepository
	now           func() time.Time
}

// NewReportService constructs the service.
func NewReportService(payments repository.PaymentRepository, customers repository.CustomerRepository, subscriptions repository.SubscriptionRepository) *ReportService {
	return &ReportService{
		payments:      payments,
		customers:     customers,
		subscriptions: subscriptions,
		now:           time.Now,
	}
}

// Metrics returns the dashboard counters for the current calendar month.
func (s *ReportService) Metrics(ctx context.Context) (*repository.DashboardMetrics, error) {
	now := s.now()
	metrics, err := s.payments.Metrics(ctx, int(now.Month()), now.Year())
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return metrics, nil
}

// Revenue returns approved revenue per month for a year. A non-positive year
// defaults to the current one.
func (s *ReportService) Revenue(ctx context.Context, year int) ([]repository.RevenueRow, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	rows, err := s.payments.RevenueByMonth(ctx, year)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return rows, nil
}

// CustomerExportRow is a customer joined with their quote for export.
type CustomerExportRow struct {
	Customer        domain.Customer
	AgreedAmountUSD *domain.Amount
	AgreedAmountLRD *domain.Amount
	QuoteStartDate  *time.Time
}

// Exports are bounded rather than paginated.
const exportLimit = 100000

// ExportCustomers returns every customer with subscription amounts attached.
func (s *ReportService) ExportCustomers(ctx context.Context) ([]CustomerExportRow, error) {
	customers, err := s.customers.List(ctx, repository.CustomerFilter{Limit: exportLimit})
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	subs, err := s.subscriptions.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	byCustomer := make(map[string]domain.Subscription, len(subs))
	for _, sub := range subs {
		byCustomer[sub.CustomerID] = sub
	}

	rows := make([]CustomerExportRow, 0, len(customers))
	for _, customer := range customers {
		row := CustomerExportRow{Customer: customer}
		if sub, ok := byCustomer[customer.ID]; ok {
			amountUSD := sub.AgreedAmountUSD
			row.AgreedAmountUSD = &amountUSD
			row.AgreedAmountLRD = sub.AgreedAmountLRD
			startDate := sub.StartDate
			row.QuoteStartDate = &startDate
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ExportPayments returns the full payment ledger, newest first.
func (s *ReportService) ExportPayments(ctx context.Context) ([]domain.Payment, error) {
	payments, err := s.payments.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return payments, nil
}
