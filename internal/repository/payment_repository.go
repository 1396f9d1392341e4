package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growflow/backend/internal/domain"
)

// PendingPaymentRow combines a pending payment with the customer and
// subscription context the verification queue displays.
type PendingPaymentRow struct {
	Payment         domain.Payment
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	AgreedAmountUSD domain.Amount
	AgreedAmountLRD *domain.Amount
}

// DashboardMetrics aggregates the staff dashboard counters.
type DashboardMetrics struct {
	ActiveCustomers   int64
	PendingPayments   int64
	ApprovedThisMonth int64
	RevenueUSD        domain.Amount
	RevenueLRD        domain.Amount
}

// RevenueRow is one month/currency bucket of the revenue report.
type RevenueRow struct {
	Month    int
	Year     int
	Currency domain.Currency
	Count    int64
	Total    domain.Amount
}

// PaymentRepository encapsulates payment persistence, including the two
// transactional composites of the payment flow: Submit and Verify.
type PaymentRepository interface {
	// Submit inserts a pending payment and moves the customer to
	// payment_pending_verification in one transaction. The month-key check and
	// the insert are serialized per (customer, month, year); conflicts surface
	// as ErrApprovedExists or ErrPendingExists.
	Submit(ctx context.Context, payment *domain.Payment) error
	// Verify applies a staff decision to a pending payment and updates the
	// customer status in the same transaction. Non-pending rows surface
	// ErrNotPending.
	Verify(ctx context.Context, paymentID, staffID string, decision domain.PaymentStatus, rejectionReason *string) (*domain.Payment, error)
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error)
	ListPending(ctx context.Context) ([]PendingPaymentRow, error)
	ListAll(ctx context.Context) ([]domain.Payment, error)
	Metrics(ctx context.Context, month, year int) (*DashboardMetrics, error)
	RevenueByMonth(ctx context.Context, year int) ([]RevenueRow, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates the repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

const paymentColumns = `id, customer_id, subscription_id, payment_month, payment_year,
               paid_currency, paid_amount_cents, method, reference, proof_url, status,
               submitted_at, verified_at, verified_by, rejection_reason`

func (r *paymentRepository) Submit(ctx context.Context, payment *domain.Payment) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Serialize concurrent submissions for the same customer and billing
	// month. The lock is transaction-scoped and released on commit/rollback.
	lockKey := fmt.Sprintf("%s:%d:%d", payment.CustomerID, payment.PaymentMonth, payment.PaymentYear)
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return err
	}

	var status domain.PaymentStatus
	err = tx.QueryRow(ctx, `
        SELECT status FROM payments
        WHERE customer_id=$1 AND payment_month=$2 AND payment_year=$3 AND status=$4`,
		payment.CustomerID, payment.PaymentMonth, payment.PaymentYear, domain.PaymentStatusApproved,
	).Scan(&status)
	if err == nil {
		return ErrApprovedExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	err = tx.QueryRow(ctx, `
        SELECT status FROM payments
        WHERE customer_id=$1 AND payment_month=$2 AND payment_year=$3 AND status=$4`,
		payment.CustomerID, payment.PaymentMonth, payment.PaymentYear, domain.PaymentStatusPending,
	).Scan(&status)
	if err == nil {
		return ErrPendingExists
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	const insert = `
        INSERT INTO payments (customer_id, subscription_id, payment_month, payment_year,
                              paid_currency, paid_amount_cents, method, reference, proof_url, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, submitted_at`
	if err := tx.QueryRow(ctx, insert,
		payment.CustomerID,
		payment.SubscriptionID,
		payment.PaymentMonth,
		payment.PaymentYear,
		payment.PaidCurrency,
		payment.PaidAmount,
		payment.Method,
		payment.Reference,
		payment.ProofURL,
		domain.PaymentStatusPending,
	).Scan(&payment.ID, &payment.SubmittedAt); err != nil {
		// The partial unique indexes backstop the check above.
		if constraint, ok := UniqueViolation(err); ok {
			switch constraint {
			case approvedPaymentConstraint:
				return ErrApprovedExists
			case pendingPaymentConstraint:
				return ErrPendingExists
			}
		}
		return err
	}
	payment.Status = domain.PaymentStatusPending

	cmd, err := tx.Exec(ctx,
		`UPDATE customers SET status=$1 WHERE id=$2`,
		domain.CustomerStatusPendingVerification, payment.CustomerID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	return tx.Commit(ctx)
}

func (r *paymentRepository) Verify(ctx context.Context, paymentID, staffID string, decision domain.PaymentStatus, rejectionReason *string) (*domain.Payment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var current domain.PaymentStatus
	var customerID string
	err = tx.QueryRow(ctx,
		`SELECT status, customer_id FROM payments WHERE id=$1 FOR UPDATE`,
		paymentID,
	).Scan(&current, &customerID)
	if err != nil {
		return nil, err
	}
	if current != domain.PaymentStatusPending {
		return nil, ErrNotPending
	}

	const update = `
        UPDATE payments
        SET status=$1, verified_by=$2, verified_at=NOW(), rejection_reason=$3
        WHERE id=$4
        RETURNING ` + paymentColumns
	payment, err := scanPayment(tx.QueryRow(ctx, update, decision, staffID, rejectionReason, paymentID))
	if err != nil {
		return nil, err
	}

	customerStatus := domain.CustomerStatusActivePaid
	if decision == domain.PaymentStatusRejected {
		customerStatus = domain.CustomerStatusPaymentRequired
	}
	cmd, err := tx.Exec(ctx, `UPDATE customers SET status=$1 WHERE id=$2`, customerStatus, customerID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id=$1`
	return scanPayment(r.pool.QueryRow(ctx, query, id))
}

func (r *paymentRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + `
        FROM payments WHERE customer_id=$1
        ORDER BY payment_year DESC, payment_month DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) ListPending(ctx context.Context) ([]PendingPaymentRow, error) {
	const query = `
        SELECT p.id, p.customer_id, p.subscription_id, p.payment_month, p.payment_year,
               p.paid_currency, p.paid_amount_cents, p.method, p.reference, p.proof_url, p.status,
               p.submitted_at, p.verified_at, p.verified_by, p.rejection_reason,
               c.full_name, c.phone, c.email,
               s.agreed_amount_usd_cents, s.agreed_amount_lrd_cents
        FROM payments p
        JOIN customers c ON p.customer_id = c.id
        JOIN subscriptions s ON p.subscription_id = s.id
        WHERE p.status = 'pending'
        ORDER BY p.submitted_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []PendingPaymentRow
	for rows.Next() {
		var row PendingPaymentRow
		if err := rows.Scan(
			&row.Payment.ID,
			&row.Payment.CustomerID,
			&row.Payment.SubscriptionID,
			&row.Payment.PaymentMonth,
			&row.Payment.PaymentYear,
			&row.Payment.PaidCurrency,
			&row.Payment.PaidAmount,
			&row.Payment.Method,
			&row.Payment.Reference,
			&row.Payment.ProofURL,
			&row.Payment.Status,
			&row.Payment.SubmittedAt,
			&row.Payment.VerifiedAt,
			&row.Payment.VerifiedBy,
			&row.Payment.RejectionReason,
			&row.CustomerName,
			&row.CustomerPhone,
			&row.CustomerEmail,
			&row.AgreedAmountUSD,
			&row.AgreedAmountLRD,
		); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *paymentRepository) ListAll(ctx context.Context) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY submitted_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanPayments(rows)
}

func (r *paymentRepository) Metrics(ctx context.Context, month, year int) (*DashboardMetrics, error) {
	var m DashboardMetrics

	if err := r.pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM customers WHERE status IN ($1, $2)`,
		domain.CustomerStatusActivePaid, domain.CustomerStatusPaymentRequired,
	).Scan(&m.ActiveCustomers); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM payments WHERE status='pending'`,
	).Scan(&m.PendingPayments); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM payments
        WHERE status='approved' AND payment_month=$1 AND payment_year=$2`,
		month, year,
	).Scan(&m.ApprovedThisMonth); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, `
        SELECT COALESCE(SUM(paid_amount_cents), 0) FROM payments
        WHERE status='approved' AND paid_currency='USD'`,
	).Scan(&m.RevenueUSD); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx, `
        SELECT COALESCE(SUM(paid_amount_cents), 0) FROM payments
        WHERE status='approved' AND paid_currency='LRD'`,
	).Scan(&m.RevenueLRD); err != nil {
		return nil, err
	}

	return &m, nil
}

func (r *paymentRepository) RevenueByMonth(ctx context.Context, year int) ([]RevenueRow, error) {
	const query = `
        SELECT payment_month, payment_year, paid_currency, COUNT(*), SUM(paid_amount_cents)
        FROM payments
        WHERE status='approved' AND payment_year=$1
        GROUP BY payment_month, payment_year, paid_currency
        ORDER BY payment_month`

	rows, err := r.pool.Query(ctx, query, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []RevenueRow
	for rows.Next() {
		var row RevenueRow
		if err := rows.Scan(&row.Month, &row.Year, &row.Currency, &row.Count, &row.Total); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var payment domain.Payment
	if err := row.Scan(
		&payment.ID,
		&payment.CustomerID,
		&payment.SubscriptionID,
		&payment.PaymentMonth,
		&payment.PaymentYear,
		&payment.PaidCurrency,
		&payment.PaidAmount,
		&payment.Method,
		&payment.Reference,
		&payment.ProofURL,
		&payment.Status,
		&payment.SubmittedAt,
		&payment.VerifiedAt,
		&payment.VerifiedBy,
		&payment.RejectionReason,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func scanPayments(rows pgx.Rows) ([]domain.Payment, error) {
	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.CustomerID,
			&payment.SubscriptionID,
			&payment.PaymentMonth,
			&payment.PaymentYear,
			&payment.PaidCurrency,
			&payment.PaidAmount,
			&payment.Method,
			&payment.Reference,
			&payment.ProofURL,
			&payment.Status,
			&payment.SubmittedAt,
			&payment.VerifiedAt,
			&payment.VerifiedBy,
			&payment.RejectionReason,
		); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}
