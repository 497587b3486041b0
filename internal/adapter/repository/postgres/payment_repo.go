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

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	queries *generated.Queries
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return newPaymentRepository(pool)
}

func newPaymentRepository(db generated.DBTX) *PaymentRepository {
	return &PaymentRepository{queries: generated.New(db)}
}

// Create inserts a payment.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Tx, payment *domain.Payment) error {
	return generated.New(pgxTx(tx)).CreatePayment(ctx, generated.CreatePaymentParams{
		ID:            payment.ID,
		CustomerID:    payment.CustomerID,
		TransactionID: stringPtrToText(payment.TransactionID),
		AmountPaid:    decimalToNumeric(payment.AmountPaid),
		PaymentMode:   payment.PaymentMode,
		PaidAt:        timeToPgTimestamptz(payment.PaidAt),
	})
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row, err := r.queries.GetPaymentByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrPaymentNotFound)
	}

	return rowToPayment(row), nil
}

// ListByCustomer returns the customer's payments, newest first.
func (r *PaymentRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Payment, error) {
	rows, err := r.queries.ListPaymentsByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return rowsToPayments(rows), nil
}

// SumBetween totals every payment in [start, end], companions included.
func (r *PaymentRepository) SumBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	total, err := r.queries.SumPaymentsBetween(ctx, generated.SumPaymentsBetweenParams{
		Start: timeToPgTimestamptz(start),
		End:   timeToPgTimestamptz(end),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(total), nil
}

// ListRecentBetween returns up to limit payments in [start, end], newest first.
func (r *PaymentRepository) ListRecentBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Payment, error) {
	rows, err := r.queries.ListRecentPaymentsBetween(ctx, generated.ListRecentPaymentsBetweenParams{
		Start: timeToPgTimestamptz(start),
		End:   timeToPgTimestamptz(end),
		Limit: int32(limit),
	})
	if err != nil {
		return nil, err
	}

	return rowsToPayments(rows), nil
}

func rowsToPayments(rows []generated.Payment) []*domain.Payment {
	payments := make([]*domain.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, rowToPayment(row))
	}
	return payments
}

func rowToPayment(row generated.Payment) *domain.Payment {
	return &domain.Payment{
		ID:            row.ID,
		CustomerID:    row.CustomerID,
		TransactionID: textToStringPtr(row.TransactionID),
		AmountPaid:    numericToDecimal(row.AmountPaid),
		PaymentMode:   row.PaymentMode,
		PaidAt:        pgTimestamptzToTime(row.PaidAt),
	}
}
