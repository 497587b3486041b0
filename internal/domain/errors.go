package domain

import (
	"context"
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a use case unwraps to exactly one of these.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrStorageFailure  = errors.New("storage failure")
)

var (
	// Lookup errors
	ErrCustomerNotFound    = newKindError(ErrNotFound, "customer not found")
	ErrProductNotFound     = newKindError(ErrNotFound, "product not found")
	ErrTransactionNotFound = newKindError(ErrNotFound, "transaction not found")
	ErrPaymentNotFound     = newKindError(ErrNotFound, "payment not found")

	// Ledger errors
	ErrInvalidQuantity     = newKindError(ErrInvalidArgument, "quantity must be positive")
	ErrInvalidAmount       = newKindError(ErrInvalidArgument, "amount must be positive")
	ErrPaymentModeRequired = newKindError(ErrInvalidArgument, "payment mode is required")
	ErrInvalidReceiptKind  = newKindError(ErrInvalidArgument, "unknown receipt kind")
	ErrInvalidPeriod       = newKindError(ErrInvalidArgument, "period start is after period end")
	ErrInvalidScanCode     = newKindError(ErrInvalidArgument, "scan code is empty")

	// Catalog errors
	ErrProductInUse = newKindError(ErrInvalidArgument, "product is referenced by recorded transactions")

	// Auth errors
	ErrMissingOperator    = newKindError(ErrUnauthorized, "no authenticated operator")
	ErrForbidden          = newKindError(ErrUnauthorized, "operator role does not permit this action")
	ErrInvalidCredentials = newKindError(ErrUnauthorized, "invalid username or password")
	ErrInvalidToken       = newKindError(ErrUnauthorized, "invalid token")
	ErrExpiredToken       = newKindError(ErrUnauthorized, "token has expired")
)

type kindError struct {
	kind error
	msg  string
}

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

// invalidf builds an InvalidArgument error wrapping base with extra detail.
func invalidf(base error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}

type storageError struct {
	cause error
}

func (e *storageError) Error() string { return "storage failure: " + e.cause.Error() }

func (e *storageError) Unwrap() []error { return []error{ErrStorageFailure, e.cause} }

// StorageError classifies a store error. Errors that already carry a kind are
// returned unchanged; everything else, including context deadlines, becomes a
// StorageFailure whose cause stays reachable with errors.As.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	if Kind(err) != nil {
		return err
	}
	return &storageError{cause: err}
}

// Kind returns the kind sentinel err unwraps to, or nil for unclassified errors.
func Kind(err error) error {
	for _, kind := range []error{ErrNotFound, ErrInvalidArgument, ErrUnauthorized, ErrStorageFailure} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName is a short label for metrics and logs.
func KindName(err error) string {
	switch Kind(err) {
	case ErrNotFound:
		return "not_found"
	case ErrInvalidArgument:
		return "invalid_argument"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrStorageFailure:
		return "storage_failure"
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return "storage_failure"
	}
	return "unknown"
}
