package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultDashboardDays is the trailing window used when no period is given.
	DefaultDashboardDays = 30

	// TopCustomersLimit is the size of the dashboard credit ranking.
	TopCustomersLimit = 5

	// RecentActivityLimit caps the recent sales and payments lists.
	RecentActivityLimit = 10

	// QRCacheTTL is how long rendered QR images stay cached.
	QRCacheTTL = 7 * 24 * time.Hour
)

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
