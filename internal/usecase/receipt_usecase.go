package usecase

import (
	"context"

	"github.com/iho/creditbook/internal/domain"
)

// ShopInfo identifies the shop on printed receipts.
type ShopInfo struct {
	ShopName string
	AppName  string
}

// ReceiptUseCase projects sales and payments into printable receipts.
type ReceiptUseCase struct {
	customerRepo    CustomerRepository
	productRepo     ProductRepository
	transactionRepo TransactionRepository
	paymentRepo     PaymentRepository
	shop            ShopInfo
}

// NewReceiptUseCase creates a new ReceiptUseCase.
func NewReceiptUseCase(
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	transactionRepo TransactionRepository,
	paymentRepo PaymentRepository,
	shop ShopInfo,
) *ReceiptUseCase {
	return &ReceiptUseCase{
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		shop:            shop,
	}
}

// BuildReceipt loads the record and its customer and reports the customer's
// balance as it is now, not as it was when the record was written.
func (uc *ReceiptUseCase) BuildReceipt(ctx context.Context, op *domain.Operator, kind domain.ReceiptKind, recordID string) (*domain.Receipt, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	switch kind {
	case domain.ReceiptKindSale:
		return uc.saleReceipt(ctx, recordID)
	case domain.ReceiptKindPayment:
		return uc.paymentReceipt(ctx, recordID)
	default:
		return nil, domain.ErrInvalidReceiptKind
	}
}

func (uc *ReceiptUseCase) saleReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	txn, err := uc.transactionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	product, err := uc.productRepo.GetByID(ctx, txn.ProductID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	receipt, err := uc.newReceipt(ctx, domain.ReceiptKindSale, txn.ID, txn.CustomerID)
	if err != nil {
		return nil, err
	}

	receipt.IssuedAt = txn.PurchasedAt
	receipt.Sale = txn
	receipt.ProductName = product.Name
	receipt.Amount = txn.TotalAmount

	return receipt, nil
}

func (uc *ReceiptUseCase) paymentReceipt(ctx context.Context, id string) (*domain.Receipt, error) {
	payment, err := uc.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	receipt, err := uc.newReceipt(ctx, domain.ReceiptKindPayment, payment.ID, payment.CustomerID)
	if err != nil {
		return nil, err
	}

	receipt.IssuedAt = payment.PaidAt
	receipt.Payment = payment
	receipt.Amount = payment.AmountPaid

	return receipt, nil
}

func (uc *ReceiptUseCase) newReceipt(ctx context.Context, kind domain.ReceiptKind, recordID, customerID string) (*domain.Receipt, error) {
	// Fresh read; balances are never cached.
	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return &domain.Receipt{
		Kind:            kind,
		RecordID:        recordID,
		ShopName:        uc.shop.ShopName,
		AppName:         uc.shop.AppName,
		CustomerID:      customer.ID,
		CustomerName:    customer.FullName,
		CustomerPhone:   customer.PhoneNumber,
		CustomerBalance: customer.CurrentBalance,
	}, nil
}
