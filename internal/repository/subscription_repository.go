package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/growflow/backend/internal/domain"
)

// SubscriptionRepository encapsulates quote persistence. Each customer has at
// most one subscription row; UpsertQuote updates it in place.
type SubscriptionRepository interface {
	GetByCustomer(ctx context.Context, customerID string) (*domain.Subscription, error)
	// UpsertQuote inserts or updates the customer's subscription. When the
	// insert creates the customer's first subscription the customer status
	// moves to active_payment_required in the same transaction; the returned
	// flag reports whether that happened.
	UpsertQuote(ctx context.Context, sub *domain.Subscription) (bool, error)
	ListAll(ctx context.Context) ([]domain.Subscription, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates the repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, customer_id, agreed_amount_usd_cents, agreed_amount_lrd_cents,
               start_date, set_by, set_at, notes`

func (r *subscriptionRepository) GetByCustomer(ctx context.Context, customerID string) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE customer_id=$1`

	var sub domain.Subscription
	if err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&sub.ID,
		&sub.CustomerID,
		&sub.AgreedAmountUSD,
		&sub.AgreedAmountLRD,
		&sub.StartDate,
		&sub.SetBy,
		&sub.SetAt,
		&sub.Notes,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *subscriptionRepository) UpsertQuote(ctx context.Context, sub *domain.Subscription) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var existingID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM subscriptions WHERE customer_id=$1 FOR UPDATE`,
		sub.CustomerID,
	).Scan(&existingID)

	firstQuote := false
	switch {
	case err == nil:
		const update = `
            UPDATE subscriptions
            SET agreed_amount_usd_cents=$1, agreed_amount_lrd_cents=$2, start_date=$3, notes=$4, set_by=$5, set_at=NOW()
            WHERE customer_id=$6
            RETURNING id, set_at`
		if err := tx.QueryRow(ctx, update,
			sub.AgreedAmountUSD,
			sub.AgreedAmountLRD,
			sub.StartDate,
			sub.Notes,
			sub.SetBy,
			sub.CustomerID,
		).Scan(&sub.ID, &sub.SetAt); err != nil {
			return false, err
		}
	case errors.Is(err, pgx.ErrNoRows):
		firstQuote = true
		const insert = `
            INSERT INTO subscriptions (customer_id, agreed_amount_usd_cents, agreed_amount_lrd_cents, start_date, set_by, notes)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id, set_at`
		if err := tx.QueryRow(ctx, insert,
			sub.CustomerID,
			sub.AgreedAmountUSD,
			sub.AgreedAmountLRD,
			sub.StartDate,
			sub.SetBy,
			sub.Notes,
		).Scan(&sub.ID, &sub.SetAt); err != nil {
			return false, err
		}
		// Only the first quote moves the customer out of pending_quote;
		// suspended customers keep their status.
		if _, err := tx.Exec(ctx,
			`UPDATE customers SET status=$1 WHERE id=$2 AND status=$3`,
			domain.CustomerStatusPaymentRequired, sub.CustomerID, domain.CustomerStatusPendingQuote,
		); err != nil {
			return false, err
		}
	default:
		return false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return false, err
	}
	return firstQuote, nil
}

func (r *subscriptionRepository) ListAll(ctx context.Context) ([]domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions ORDER BY set_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []domain.Subscription
	for rows.Next() {
		var sub domain.Subscription
		if err := rows.Scan(
			&sub.ID,
			&sub.CustomerID,
			&sub.AgreedAmountUSD,
			&sub.AgreedAmountLRD,
			&sub.StartDate,
			&sub.SetBy,
			&sub.SetAt,
			&sub.Notes,
		); err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}
