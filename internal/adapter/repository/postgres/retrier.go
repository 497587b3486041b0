package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// SQLSTATEs after which the server has rolled the transaction back.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
)

// RetryPolicy bounds how often a ledger unit is re-run.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy keeps the worst case well under the ledger's transaction
// timeout.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 50 * time.Millisecond,
		MaxInterval:     time.Second,
		MaxElapsedTime:  10 * time.Second,
	}
}

// RetryObserver is told about every retried attempt.
type RetryObserver interface {
	RecordStoreRetry(sqlState string)
}

// Retrier implements usecase.Retrier. Only deadlocks and serialization
// failures are retried; any other error is returned after the first attempt.
type Retrier struct {
	policy   RetryPolicy
	observer RetryObserver
	logger   zerolog.Logger
}

// NewRetrier creates a Retrier with DefaultRetryPolicy.
func NewRetrier(logger zerolog.Logger) *Retrier {
	return &Retrier{
		policy: DefaultRetryPolicy(),
		logger: logger.With().Str("component", "retrier").Logger(),
	}
}

// WithPolicy replaces the retry policy.
func (r *Retrier) WithPolicy(p RetryPolicy) *Retrier {
	r.policy = p
	return r
}

// WithObserver attaches a retry observer.
func (r *Retrier) WithObserver(o RetryObserver) *Retrier {
	r.observer = o
	return r
}

// Retry runs operation until it succeeds, fails permanently, exhausts the
// policy or ctx is done. The last operation error is returned.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = r.policy.InitialInterval
	exp.MaxInterval = r.policy.MaxInterval
	exp.MaxElapsedTime = r.policy.MaxElapsedTime

	var b backoff.BackOff = backoff.WithContext(exp, ctx)
	if r.policy.MaxRetries >= 0 {
		b = backoff.WithMaxRetries(b, uint64(r.policy.MaxRetries))
	}

	attempt := 0
	notify := func(err error, wait time.Duration) {
		state := sqlState(err)
		if r.observer != nil {
			r.observer.RecordStoreRetry(state)
		}
		r.logger.Warn().
			Err(err).
			Str("sqlstate", state).
			Int("attempt", attempt).
			Dur("backoff", wait).
			Msg("ledger unit aborted by the server, retrying")
	}

	return backoff.RetryNotify(func() error {
		attempt++
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b, notify)
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isRetryableError(err error) bool {
	switch sqlState(err) {
	case pgErrDeadlock, pgErrSerializationFailure:
		return true
	}
	return false
}
