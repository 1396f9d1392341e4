package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors. Code carries the business-rule
// taxonomy the boundary layer maps to client responses.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewDuplicateKey reports a uniqueness violation on the named field. The
// message never reveals which stored value collided.
func NewDuplicateKey(field string) error {
	return NewDomainError("DUPLICATE_KEY", fmt.Sprintf("%s already registered", field),
		http.StatusConflict, nil)
}

// NewDanglingReference reports a foreign key that resolves to no row.
func NewDanglingReference(reference string) error {
	return NewDomainError("DANGLING_REFERENCE", fmt.Sprintf("%s does not exist", reference),
		http.StatusUnprocessableEntity, nil)
}

// NewNoSubscription reports a payment submission without an agreed quote.
func NewNoSubscription() error {
	return NewDomainError("NO_SUBSCRIPTION", "no active subscription found",
		http.StatusBadRequest, nil)
}

// NewAmountMismatch reports a submitted amount that differs from the agreed
// monthly fee. Expected carries the agreed amount formatted for the client.
func NewAmountMismatch(currency, expected string) error {
	return NewDomainError("AMOUNT_MISMATCH",
		fmt.Sprintf("amount must match your agreed monthly fee: %s %s", currency, expected),
		http.StatusBadRequest, nil)
}

// NewCurrencyNotConfigured reports an LRD submission when the subscription
// carries no LRD amount.
func NewCurrencyNotConfigured(currency string) error {
	return NewDomainError("CURRENCY_NOT_CONFIGURED",
		fmt.Sprintf("no agreed amount configured for %s", currency),
		http.StatusBadRequest, nil)
}

// NewAlreadyApproved reports an approved payment already covering the month.
func NewAlreadyApproved() error {
	return NewDomainError("ALREADY_APPROVED", "payment for this month has already been approved",
		http.StatusConflict, nil)
}

// NewAlreadyPending reports a pending payment already covering the month.
func NewAlreadyPending() error {
	return NewDomainError("ALREADY_PENDING", "you already have a pending payment for this month",
		http.StatusConflict, nil)
}

// NewMissingReference reports a mobile money submission without a transaction
// reference.
func NewMissingReference() error {
	return NewDomainError("MISSING_REFERENCE", "mobile money payments require a transaction reference",
		http.StatusBadRequest, nil)
}

// NewMissingReason reports a rejection without a rejection reason.
func NewMissingReason() error {
	return NewDomainError("MISSING_REASON", "rejection reason is required",
		http.StatusBadRequest, nil)
}

// NewInvalidStateTransition reports an action not valid for the current state.
func NewInvalidStateTransition(message string) error {
	return NewDomainError("INVALID_STATE_TRANSITION", message, http.StatusConflict, nil)
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}
