package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced by the transactional composites. Services translate
// these into the client-facing error taxonomy.
var (
	// ErrPendingExists signals a pending payment already covers the month key.
	ErrPendingExists = errors.New("pending payment exists for month")
	// ErrApprovedExists signals an approved payment already covers the month key.
	ErrApprovedExists = errors.New("approved payment exists for month")
	// ErrNotPending signals a verification attempt on a non-pending payment.
	ErrNotPending = errors.New("payment is not pending")
)

const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgSerializationFailure = "40001"

	pendingPaymentConstraint  = "payments_one_pending_per_month"
	approvedPaymentConstraint = "payments_one_approved_per_month"
)

// UniqueViolation reports whether err is a unique-constraint violation and, if
// so, returns the violated constraint name.
func UniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// ForeignKeyViolation reports whether err is a foreign-key violation and, if
// so, returns the violated constraint name.
func ForeignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// Retryable reports whether err is a transient serialization failure that may
// succeed when retried with the same inputs.
func Retryable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgSerializationFailure
}
