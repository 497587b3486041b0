package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
)

// LedgerUseCase records sales and payments and keeps each customer's cached
// balance in step with the history.
type LedgerUseCase struct {
	txManager       TxManager
	customerRepo    CustomerRepository
	productRepo     ProductRepository
	transactionRepo TransactionRepository
	paymentRepo     PaymentRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	retrier         Retrier
	metrics         LedgerMetrics
	clock           Clock
	logger          zerolog.Logger
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TxManager,
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	transactionRepo TransactionRepository,
	paymentRepo PaymentRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txManager:       txManager,
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		clock:           SystemClock{},
		logger:          logger.With().Str("component", "ledger").Logger(),
	}
}

// WithRetrier sets the retrier used for transient store conflicts.
func (uc *LedgerUseCase) WithRetrier(r Retrier) *LedgerUseCase {
	uc.retrier = r
	return uc
}

// WithMetrics sets the metrics sink.
func (uc *LedgerUseCase) WithMetrics(m LedgerMetrics) *LedgerUseCase {
	uc.metrics = m
	return uc
}

// WithClock overrides the clock.
func (uc *LedgerUseCase) WithClock(c Clock) *LedgerUseCase {
	uc.clock = c
	return uc
}

// RecordSaleInput represents input for recording a sale.
type RecordSaleInput struct {
	CustomerID  string
	ProductID   string
	Quantity    int
	IsCredit    bool
	PaymentMode string
	Notes       *string
}

// SaleResult is the committed outcome of a sale.
type SaleResult struct {
	Transaction *domain.Transaction
	// Payment is the companion payment of a cash sale, nil for credit sales.
	Payment *domain.Payment
	Balance decimal.Decimal
}

// RecordPaymentInput represents input for recording a payment.
type RecordPaymentInput struct {
	CustomerID  string
	AmountPaid  decimal.Decimal
	PaymentMode string
}

// PaymentResult is the committed outcome of a payment.
type PaymentResult struct {
	Payment *domain.Payment
	Balance decimal.Decimal
}

// RecordSale records a sale. A credit sale raises the customer's balance by the
// line total; a cash sale is settled at once by a companion payment and leaves
// the balance unchanged.
func (uc *LedgerUseCase) RecordSale(ctx context.Context, op *domain.Operator, input RecordSaleInput) (*SaleResult, error) {
	result, err := uc.recordSale(ctx, op, input)
	if err != nil {
		uc.observeError("record_sale", op, input.CustomerID, err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordSale(input.IsCredit, result.Transaction.TotalAmount)
	}

	uc.logger.Info().
		Str("operator_id", op.ID).
		Str("customer_id", input.CustomerID).
		Str("transaction_id", result.Transaction.ID).
		Str("amount", domain.FormatMoney(result.Transaction.TotalAmount)).
		Bool("is_credit", input.IsCredit).
		Str("balance", domain.FormatMoney(result.Balance)).
		Msg("sale recorded")

	return result, nil
}

func (uc *LedgerUseCase) recordSale(ctx context.Context, op *domain.Operator, input RecordSaleInput) (*SaleResult, error) {
	// 0. Authorize and validate before touching the store
	if err := domain.Authorize(op, domain.PermRecord); err != nil {
		return nil, err
	}

	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return nil, err
	}

	input.PaymentMode = strings.TrimSpace(input.PaymentMode)
	if !input.IsCredit {
		if err := domain.ValidatePaymentMode(input.PaymentMode); err != nil {
			return nil, err
		}
	}

	if err := domain.ValidateNotes(input.Notes); err != nil {
		return nil, err
	}

	var result *SaleResult
	err := uc.retry(ctx, func() error {
		r, err := uc.recordSaleOnce(ctx, op, input)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return result, nil
}

func (uc *LedgerUseCase) recordSaleOnce(ctx context.Context, op *domain.Operator, input RecordSaleInput) (*SaleResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	// 1. Begin transaction
	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// 2. Lock customer, then share-lock product
	customer, err := uc.customerRepo.GetByIDForUpdate(txCtx, tx, input.CustomerID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	product, err := uc.productRepo.GetByIDForShare(txCtx, tx, input.ProductID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	// 3. Write the sale at price-at-purchase
	now := uc.clock.Now()
	total := product.LineTotal(input.Quantity)

	txn := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		CustomerID:  customer.ID,
		ProductID:   product.ID,
		Quantity:    input.Quantity,
		UnitPrice:   product.Price,
		TotalAmount: total,
		IsCredit:    input.IsCredit,
		Notes:       input.Notes,
		PurchasedAt: now,
	}

	if err := uc.transactionRepo.Create(txCtx, tx, txn); err != nil {
		return nil, domain.StorageError(err)
	}

	// 4. Credit raises the balance; cash is settled by a companion payment
	balance := customer.CurrentBalance
	var payment *domain.Payment

	if input.IsCredit {
		balance = customer.ApplyCredit(total)
		if err := uc.customerRepo.UpdateBalance(txCtx, tx, customer.ID, balance, now); err != nil {
			return nil, domain.StorageError(err)
		}
	} else {
		payment = &domain.Payment{
			ID:            uc.idGen.Generate(),
			CustomerID:    customer.ID,
			TransactionID: &txn.ID,
			AmountPaid:    total,
			PaymentMode:   input.PaymentMode,
			PaidAt:        now,
		}
		if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
			return nil, domain.StorageError(err)
		}
	}

	details := domain.JSON{
		"customer_id":  customer.ID,
		"product_id":   product.ID,
		"quantity":     input.Quantity,
		"unit_price":   domain.FormatMoney(product.Price),
		"total_amount": domain.FormatMoney(total),
		"is_credit":    input.IsCredit,
		"balance":      domain.FormatMoney(balance),
	}
	if payment != nil {
		details["payment_id"] = payment.ID
		details["payment_mode"] = payment.PaymentMode
	}

	if err := uc.audit(txCtx, tx, op, domain.AuditActionSaleRecord, domain.ResourceTransaction, txn.ID, details); err != nil {
		return nil, err
	}

	// 5. Commit
	if err := tx.Commit(txCtx); err != nil {
		return nil, domain.StorageError(err)
	}

	return &SaleResult{Transaction: txn, Payment: payment, Balance: balance}, nil
}

// RecordPayment records a standalone payment. The stored amount is exactly what
// was paid; the balance drops by it but never below zero.
func (uc *LedgerUseCase) RecordPayment(ctx context.Context, op *domain.Operator, input RecordPaymentInput) (*PaymentResult, error) {
	result, err := uc.recordPayment(ctx, op, input)
	if err != nil {
		uc.observeError("record_payment", op, input.CustomerID, err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.RecordPayment(result.Payment.AmountPaid)
	}

	uc.logger.Info().
		Str("operator_id", op.ID).
		Str("customer_id", input.CustomerID).
		Str("payment_id", result.Payment.ID).
		Str("amount", domain.FormatMoney(result.Payment.AmountPaid)).
		Str("balance", domain.FormatMoney(result.Balance)).
		Msg("payment recorded")

	return result, nil
}

func (uc *LedgerUseCase) recordPayment(ctx context.Context, op *domain.Operator, input RecordPaymentInput) (*PaymentResult, error) {
	if err := domain.Authorize(op, domain.PermRecord); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.AmountPaid); err != nil {
		return nil, err
	}

	input.PaymentMode = strings.TrimSpace(input.PaymentMode)
	if err := domain.ValidatePaymentMode(input.PaymentMode); err != nil {
		return nil, err
	}

	var result *PaymentResult
	err := uc.retry(ctx, func() error {
		r, err := uc.recordPaymentOnce(ctx, op, input)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return result, nil
}

func (uc *LedgerUseCase) recordPaymentOnce(ctx context.Context, op *domain.Operator, input RecordPaymentInput) (*PaymentResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	customer, err := uc.customerRepo.GetByIDForUpdate(txCtx, tx, input.CustomerID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	now := uc.clock.Now()
	payment := &domain.Payment{
		ID:          uc.idGen.Generate(),
		CustomerID:  customer.ID,
		AmountPaid:  input.AmountPaid,
		PaymentMode: input.PaymentMode,
		PaidAt:      now,
	}

	if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
		return nil, domain.StorageError(err)
	}

	balance := customer.ApplyPayment(input.AmountPaid)
	if err := uc.customerRepo.UpdateBalance(txCtx, tx, customer.ID, balance, now); err != nil {
		return nil, domain.StorageError(err)
	}

	details := domain.JSON{
		"customer_id":      customer.ID,
		"amount_paid":      domain.FormatMoney(input.AmountPaid),
		"payment_mode":     input.PaymentMode,
		"previous_balance": domain.FormatMoney(customer.CurrentBalance),
		"balance":          domain.FormatMoney(balance),
	}
	if err := uc.audit(txCtx, tx, op, domain.AuditActionPaymentRecord, domain.ResourcePayment, payment.ID, details); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, domain.StorageError(err)
	}

	return &PaymentResult{Payment: payment, Balance: balance}, nil
}

func (uc *LedgerUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

func (uc *LedgerUseCase) audit(ctx context.Context, tx Tx, op *domain.Operator, action domain.AuditAction, resourceType, resourceID string, details domain.JSON) error {
	return writeAudit(ctx, uc.auditRepo, uc.idGen, uc.clock, tx, op, action, resourceType, resourceID, details)
}

func (uc *LedgerUseCase) observeError(operation string, op *domain.Operator, customerID string, err error) {
	kind := domain.KindName(err)
	if uc.metrics != nil {
		uc.metrics.RecordLedgerError(operation, kind)
	}

	event := uc.logger.Warn()
	if kind == "storage_failure" || kind == "unknown" {
		event = uc.logger.Error()
	}

	operatorID := ""
	if op != nil {
		operatorID = op.ID
	}

	event.Err(err).
		Str("operation", operation).
		Str("operator_id", operatorID).
		Str("customer_id", customerID).
		Str("kind", kind).
		Msg("ledger operation rejected")
}

// writeAudit appends an audit row inside tx. A nil repository disables auditing.
func writeAudit(
	ctx context.Context,
	repo AuditRepository,
	idGen IDGenerator,
	clock Clock,
	tx Tx,
	op *domain.Operator,
	action domain.AuditAction,
	resourceType, resourceID string,
	details domain.JSON,
) error {
	if repo == nil {
		return nil
	}

	log := &domain.AuditLog{
		ID:           idGen.Generate(),
		OperatorID:   op.ID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
		CreatedAt:    clock.Now(),
	}

	return domain.StorageError(repo.CreateTx(ctx, tx, log))
}
