package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
)

// CustomerUseCase manages customer records. It never changes a balance.
type CustomerUseCase struct {
	txManager       TxManager
	customerRepo    CustomerRepository
	transactionRepo TransactionRepository
	paymentRepo     PaymentRepository
	auditRepo       AuditRepository
	idGen           IDGenerator
	clock           Clock
	logger          zerolog.Logger
}

// NewCustomerUseCase creates a new CustomerUseCase.
func NewCustomerUseCase(
	txManager TxManager,
	customerRepo CustomerRepository,
	transactionRepo TransactionRepository,
	paymentRepo PaymentRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *CustomerUseCase {
	return &CustomerUseCase{
		txManager:       txManager,
		customerRepo:    customerRepo,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		auditRepo:       auditRepo,
		idGen:           idGen,
		clock:           SystemClock{},
		logger:          logger.With().Str("component", "customers").Logger(),
	}
}

// WithClock overrides the clock.
func (uc *CustomerUseCase) WithClock(c Clock) *CustomerUseCase {
	uc.clock = c
	return uc
}

// CustomerInput carries the editable contact fields.
type CustomerInput struct {
	FullName    string
	PhoneNumber string
	Email       string
	Address     *string
}

func (in *CustomerInput) normalize() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.PhoneNumber = strings.TrimSpace(in.PhoneNumber)
	in.Email = strings.TrimSpace(in.Email)
	if in.Address != nil {
		addr := strings.TrimSpace(*in.Address)
		if addr == "" {
			in.Address = nil
		} else {
			in.Address = &addr
		}
	}
}

func (in *CustomerInput) validate() error {
	if err := domain.ValidateCustomerName(in.FullName); err != nil {
		return err
	}
	if err := domain.ValidatePhone(in.PhoneNumber); err != nil {
		return err
	}
	if err := domain.ValidateEmail(in.Email); err != nil {
		return err
	}
	return domain.ValidateAddress(in.Address)
}

// CreateCustomer registers a customer with a zero balance.
func (uc *CustomerUseCase) CreateCustomer(ctx context.Context, op *domain.Operator, input CustomerInput) (*domain.Customer, error) {
	if err := domain.Authorize(op, domain.PermRecord); err != nil {
		return nil, err
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	customer := &domain.Customer{
		ID:             uc.idGen.Generate(),
		FullName:       input.FullName,
		PhoneNumber:    input.PhoneNumber,
		Email:          input.Email,
		Address:        input.Address,
		CurrentBalance: decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := uc.inTx(ctx, func(txCtx context.Context, tx Tx) error {
		if err := uc.customerRepo.Create(txCtx, tx, customer); err != nil {
			return err
		}
		return writeAudit(txCtx, uc.auditRepo, uc.idGen, uc.clock, tx, op,
			domain.AuditActionCustomerCreate, domain.ResourceCustomer, customer.ID, domain.MarshalState(customer))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("operator_id", op.ID).Str("customer_id", customer.ID).Msg("customer created")

	return customer, nil
}

// GetCustomer retrieves a customer by ID.
func (uc *CustomerUseCase) GetCustomer(ctx context.Context, op *domain.Operator, id string) (*domain.Customer, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return customer, nil
}

// ResolveScan maps a scanned code to its customer. The scan code is the
// customer's primary ID.
func (uc *CustomerUseCase) ResolveScan(ctx context.Context, op *domain.Operator, code string) (*domain.Customer, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		if err := domain.Authorize(op, domain.PermView); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidScanCode
	}

	return uc.GetCustomer(ctx, op, code)
}

// ListCustomers lists customers with pagination.
func (uc *CustomerUseCase) ListCustomers(ctx context.Context, op *domain.Operator, limit, offset int) ([]*domain.Customer, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	limit, offset, _ = domain.ValidatePagination(limit, offset)

	customers, err := uc.customerRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return customers, nil
}

// UpdateCustomer replaces the contact fields. The balance is left untouched.
func (uc *CustomerUseCase) UpdateCustomer(ctx context.Context, op *domain.Operator, id string, input CustomerInput) (*domain.Customer, error) {
	if err := domain.Authorize(op, domain.PermRecord); err != nil {
		return nil, err
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	var updated *domain.Customer
	err := uc.inTx(ctx, func(txCtx context.Context, tx Tx) error {
		customer, err := uc.customerRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}

		before := domain.MarshalState(customer)

		customer.FullName = input.FullName
		customer.PhoneNumber = input.PhoneNumber
		customer.Email = input.Email
		customer.Address = input.Address
		customer.UpdatedAt = uc.clock.Now()

		if err := uc.customerRepo.Update(txCtx, tx, customer); err != nil {
			return err
		}

		updated = customer
		return writeAudit(txCtx, uc.auditRepo, uc.idGen, uc.clock, tx, op,
			domain.AuditActionCustomerUpdate, domain.ResourceCustomer, id,
			domain.JSON{"before": before, "after": domain.MarshalState(customer)})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteCustomer deletes a customer together with their history.
func (uc *CustomerUseCase) DeleteCustomer(ctx context.Context, op *domain.Operator, id string) error {
	if err := domain.Authorize(op, domain.PermDelete); err != nil {
		return err
	}

	err := uc.inTx(ctx, func(txCtx context.Context, tx Tx) error {
		customer, err := uc.customerRepo.GetByIDForUpdate(txCtx, tx, id)
		if err != nil {
			return err
		}

		if err := uc.customerRepo.Delete(txCtx, tx, id); err != nil {
			return err
		}

		return writeAudit(txCtx, uc.auditRepo, uc.idGen, uc.clock, tx, op,
			domain.AuditActionCustomerDelete, domain.ResourceCustomer, id, domain.MarshalState(customer))
	})
	if err != nil {
		return err
	}

	uc.logger.Info().Str("operator_id", op.ID).Str("customer_id", id).Msg("customer deleted")

	return nil
}

// GetCustomerDetails returns the customer with their whole ledger, newest first.
func (uc *CustomerUseCase) GetCustomerDetails(ctx context.Context, op *domain.Operator, id string) (*domain.CustomerDetails, error) {
	customer, err := uc.GetCustomer(ctx, op, id)
	if err != nil {
		return nil, err
	}

	txns, err := uc.transactionRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	payments, err := uc.paymentRepo.ListByCustomer(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return &domain.CustomerDetails{
		Customer:     customer,
		Transactions: txns,
		Payments:     payments,
	}, nil
}

func (uc *CustomerUseCase) inTx(ctx context.Context, fn func(context.Context, Tx) error) error {
	return runInTx(ctx, uc.txManager, fn)
}

// runInTx runs fn in a transaction bounded by DefaultTransactionTimeout and
// commits when fn succeeds. Store errors come back as StorageFailure.
func runInTx(ctx context.Context, txManager TxManager, fn func(context.Context, Tx) error) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := txManager.Begin(txCtx)
	if err != nil {
		return domain.StorageError(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := fn(txCtx, tx); err != nil {
		return domain.StorageError(err)
	}

	return domain.StorageError(tx.Commit(txCtx))
}
