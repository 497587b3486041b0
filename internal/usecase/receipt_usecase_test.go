package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

func TestBuildReceipt_Sale(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedProduct("p1", "Rice 1kg", "10.00")

	sale, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 3, IsCredit: true,
	})
	require.NoError(t, err)

	receipt, err := f.receipts.BuildReceipt(context.Background(), viewer, domain.ReceiptKindSale, sale.Transaction.ID)
	require.NoError(t, err)

	assert.Equal(t, "Corner Store", receipt.ShopName)
	assert.Equal(t, "creditbook", receipt.AppName)
	assert.Equal(t, "Asha", receipt.CustomerName)
	assert.Equal(t, "Rice 1kg", receipt.ProductName)
	assert.True(t, receipt.Amount.Equal(dec("30.00")))
	assert.True(t, receipt.CustomerBalance.Equal(dec("30.00")))
	assert.Equal(t, sale.Transaction.PurchasedAt, receipt.IssuedAt)
	assert.Nil(t, receipt.Payment)
}

func TestBuildReceipt_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.clock.Tick = 1
	f.seedCustomer("c1", "Asha", "40.00")

	payment, err := f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
		CustomerID: "c1", AmountPaid: dec("15.00"), PaymentMode: "UPI",
	})
	require.NoError(t, err)

	first, err := f.receipts.BuildReceipt(context.Background(), clerk, domain.ReceiptKindPayment, payment.Payment.ID)
	require.NoError(t, err)
	second, err := f.receipts.BuildReceipt(context.Background(), clerk, domain.ReceiptKindPayment, payment.Payment.ID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.True(t, first.Amount.Equal(dec("15.00")))
	assert.True(t, first.CustomerBalance.Equal(dec("25.00")))
}

func TestBuildReceipt_ReadsCurrentBalance(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedProduct("p1", "Tea", "5.00")

	sale, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 2, IsCredit: true,
	})
	require.NoError(t, err)

	_, err = f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
		CustomerID: "c1", AmountPaid: dec("4.00"), PaymentMode: "Cash",
	})
	require.NoError(t, err)

	receipt, err := f.receipts.BuildReceipt(context.Background(), clerk, domain.ReceiptKindSale, sale.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, receipt.Amount.Equal(dec("10.00")))
	assert.True(t, receipt.CustomerBalance.Equal(dec("6.00")), "balance reflects the later payment")
}

func TestBuildReceipt_Errors(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")

	_, err := f.receipts.BuildReceipt(context.Background(), clerk, domain.ReceiptKindSale, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.receipts.BuildReceipt(context.Background(), clerk, domain.ReceiptKindPayment, "missing")
	assert.ErrorIs(t, err, domain.ErrPaymentNotFound)

	_, err = f.receipts.BuildReceipt(context.Background(), clerk, domain.ReceiptKind("refund"), "x")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.receipts.BuildReceipt(context.Background(), nil, domain.ReceiptKindSale, "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestBuildReceipt_CustomerDeleted(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "10.00")

	payment, err := f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
		CustomerID: "c1", AmountPaid: dec("1.00"), PaymentMode: "Cash",
	})
	require.NoError(t, err)

	require.NoError(t, f.customers.DeleteCustomer(context.Background(), admin, "c1"))

	_, err = f.receipts.BuildReceipt(context.Background(), clerk, domain.ReceiptKindPayment, payment.Payment.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
