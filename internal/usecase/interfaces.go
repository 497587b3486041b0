package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
)

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Create(ctx context.Context, tx Tx, customer *domain.Customer) error
	Update(ctx context.Context, tx Tx, customer *domain.Customer) error
	Delete(ctx context.Context, tx Tx, id string) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByIDForUpdate(ctx context.Context, tx Tx, id string) (*domain.Customer, error)
	// GetByIDForShare blocks ledger writes to the customer until tx ends.
	GetByIDForShare(ctx context.Context, tx Tx, id string) (*domain.Customer, error)
	UpdateBalance(ctx context.Context, tx Tx, id string, balance decimal.Decimal, updatedAt time.Time) error
	List(ctx context.Context, limit, offset int) ([]*domain.Customer, error)
	// ListAll returns every customer in creation order.
	ListAll(ctx context.Context) ([]*domain.Customer, error)
	Stats(ctx context.Context) (CustomerStats, error)
	// TopByBalance orders by balance descending, ties in creation order.
	TopByBalance(ctx context.Context, limit int) ([]*domain.Customer, error)
	// ListActiveBetween returns customers with a transaction or payment in
	// [start, end], sorted by name.
	ListActiveBetween(ctx context.Context, start, end time.Time) ([]*domain.Customer, error)
}

// CustomerStats aggregates over all customers.
type CustomerStats struct {
	Count            int
	TotalOutstanding decimal.Decimal
}

// ProductRepository defines data access for products.
type ProductRepository interface {
	Create(ctx context.Context, tx Tx, product *domain.Product) error
	Update(ctx context.Context, tx Tx, product *domain.Product) error
	// Delete fails with domain.ErrProductInUse while transactions reference the product.
	Delete(ctx context.Context, tx Tx, id string) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetByIDForShare(ctx context.Context, tx Tx, id string) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	Count(ctx context.Context) (int, error)
}

// TransactionRepository defines data access for sales.
type TransactionRepository interface {
	Create(ctx context.Context, tx Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
	// ListByCustomer returns the customer's sales, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error)
	SumBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	// ListRecentBetween returns up to limit sales in [start, end], newest first.
	ListRecentBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Transaction, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Tx, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	// ListByCustomer returns the customer's payments, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]*domain.Payment, error)
	SumBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error)
	// ListRecentBetween returns up to limit payments in [start, end], newest first.
	ListRecentBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Payment, error)
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	CreateTx(ctx context.Context, tx Tx, log *domain.AuditLog) error
}

// Tx represents a database transaction.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TxManager handles transaction lifecycle.
type TxManager interface {
	Begin(ctx context.Context) (Tx, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier re-runs an atomic unit when the store reports a transient conflict.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// LedgerMetrics records ledger activity. A nil LedgerMetrics disables recording.
type LedgerMetrics interface {
	RecordSale(isCredit bool, amount decimal.Decimal)
	RecordPayment(amount decimal.Decimal)
	RecordLedgerError(operation, kind string)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Cache defines caching operations.
type Cache interface {
	// Get returns nil, nil on a miss.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a key whose request failed so the client may retry it.
	Release(ctx context.Context, key string) error
}

// QRRenderer encodes a scan code as a PNG image.
type QRRenderer interface {
	Render(content string) ([]byte, error)
}

// TokenIssuer issues operator tokens.
type TokenIssuer interface {
	Issue(op *domain.Operator) (string, time.Time, error)
}
