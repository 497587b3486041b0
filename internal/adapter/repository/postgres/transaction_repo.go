package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/infrastructure/postgres/generated"
	"github.com/iho/creditbook/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return newTransactionRepository(pool)
}

func newTransactionRepository(db generated.DBTX) *TransactionRepository {
	return &TransactionRepository{queries: generated.New(db)}
}

// Create inserts a sale.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	return generated.New(pgxTx(tx)).CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:          txn.ID,
		CustomerID:  txn.CustomerID,
		ProductID:   txn.ProductID,
		Quantity:    int32(txn.Quantity),
		UnitPrice:   decimalToNumeric(txn.UnitPrice),
		TotalAmount: decimalToNumeric(txn.TotalAmount),
		IsCredit:    txn.IsCredit,
		Notes:       stringPtrToText(txn.Notes),
		PurchasedAt: timeToPgTimestamptz(txn.PurchasedAt),
	})
}

// GetByID retrieves a sale by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrTransactionNotFound)
	}

	return rowToTransaction(row), nil
}

// ListByCustomer returns the customer's sales, newest first.
func (r *TransactionRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

// SumBetween totals every sale in [start, end].
func (r *TransactionRepository) SumBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumTransactionsBetween(ctx, generated.SumTransactionsBetweenParams{
		Start: timeToPgTimestamptz(start),
		End:   timeToPgTimestamptz(end),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// ListRecentBetween returns up to limit sales in [start, end], newest first.
func (r *TransactionRepository) ListRecentBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListRecentTransactionsBetween(ctx, generated.ListRecentTransactionsBetweenParams{
		Start: timeToPgTimestamptz(start),
		End:   timeToPgTimestamptz(end),
		Limit: int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToTransactions(rows), nil
}

func rowsToTransactions(rows []generated.Transaction) []*domain.Transaction {
	txns := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, rowToTransaction(row))
	}
	return txns
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:          row.ID,
		CustomerID:  row.CustomerID,
		ProductID:   row.ProductID,
		Quantity:    int(row.Quantity),
		UnitPrice:   numericToDecimal(row.UnitPrice),
		TotalAmount: numericToDecimal(row.TotalAmount),
		IsCredit:    row.IsCredit,
		Notes:       textToStringPtr(row.Notes),
		PurchasedAt: pgTimestamptzToTime(row.PurchasedAt),
	}
}
