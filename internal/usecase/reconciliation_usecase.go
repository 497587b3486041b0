package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
)

// ReconciliationUseCase checks cached balances against the ledger history.
type ReconciliationUseCase struct {
	txManager       TxManager
	customerRepo    CustomerRepository
	transactionRepo TransactionRepository
	paymentRepo     PaymentRepository
	clock           Clock
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	txManager TxManager,
	customerRepo CustomerRepository,
	transactionRepo TransactionRepository,
	paymentRepo PaymentRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		txManager:       txManager,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		clock:           SystemClock{},
	}
}

// WithClock overrides the clock.
func (uc *ReconciliationUseCase) WithClock(c Clock) *ReconciliationUseCase {
	uc.clock = c
	return uc
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	CustomerID        string
	CustomerName      string
	RecordedBalance   decimal.Decimal
	CalculatedBalance decimal.Decimal
	Difference        decimal.Decimal
	IsReconciled      bool
	LastChecked       time.Time
}

// ReconcileCustomer replays one customer's ledger and compares the result with
// the cached balance.
func (uc *ReconciliationUseCase) ReconcileCustomer(ctx context.Context, op *domain.Operator, customerID string) (*ReconciliationResult, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	return uc.reconcile(ctx, customerID)
}

// reconcile reads the history while holding the customer row FOR SHARE. No
// ledger unit for the customer commits between the reads.
func (uc *ReconciliationUseCase) reconcile(ctx context.Context, customerID string) (*ReconciliationResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	customer, err := uc.customerRepo.GetByIDForShare(ctx, tx, customerID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	txns, err := uc.transactionRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	payments, err := uc.paymentRepo.ListByCustomer(ctx, customer.ID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	calculated := domain.ReplayBalance(txns, payments)
	diff := customer.CurrentBalance.Sub(calculated)

	return &ReconciliationResult{
		CustomerID:        customer.ID,
		CustomerName:      customer.FullName,
		RecordedBalance:   customer.CurrentBalance,
		CalculatedBalance: calculated,
		Difference:        diff,
		IsReconciled:      diff.IsZero(),
		LastChecked:       uc.clock.Now(),
	}, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalCustomers      int
	ReconciledCustomers int
	Discrepancies       []*ReconciliationResult
	CheckedAt           time.Time
}

// GenerateReport reconciles every customer.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context, op *domain.Operator) (*ReconciliationReport, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	customers, err := uc.customerRepo.ListAll(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	report := &ReconciliationReport{
		TotalCustomers: len(customers),
		Discrepancies:  make([]*ReconciliationResult, 0),
		CheckedAt:      uc.clock.Now(),
	}

	for _, customer := range customers {
		result, err := uc.reconcile(ctx, customer.ID)
		if errors.Is(err, domain.ErrNotFound) {
			// deleted since ListAll
			report.TotalCustomers--
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile customer %s: %w", customer.ID, err)
		}

		if result.IsReconciled {
			report.ReconciledCustomers++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
