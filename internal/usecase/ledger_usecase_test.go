package usecase_test

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
	"github.com/iho/creditbook/internal/usecase/mocks"
)

func TestRecordSale_CreditSaleRaisesBalance(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedProduct("p1", "Rice 1kg", "10.00")

	res, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1",
		ProductID:  "p1",
		Quantity:   3,
		IsCredit:   true,
	})
	require.NoError(t, err)

	assert.True(t, res.Transaction.TotalAmount.Equal(dec("30.00")))
	assert.True(t, res.Transaction.UnitPrice.Equal(dec("10.00")))
	assert.True(t, res.Balance.Equal(dec("30.00")))
	assert.Nil(t, res.Payment, "credit sale must not create a payment")
	assert.True(t, f.balance(t, "c1").Equal(dec("30.00")))

	counts := f.store.Counts()
	assert.Equal(t, 1, counts.Transactions)
	assert.Equal(t, 0, counts.Payments)
	assert.Equal(t, 1, counts.AuditLogs)

	logs := f.store.AuditLogs()
	assert.Equal(t, domain.AuditActionSaleRecord, logs[0].Action)
	assert.Equal(t, clerk.ID, logs[0].OperatorID)
}

func TestRecordSale_CashSaleCreatesCompanionPayment(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "12.00")
	f.seedProduct("p1", "Milk", "2.50")

	res, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID:  "c1",
		ProductID:   "p1",
		Quantity:    4,
		IsCredit:    false,
		PaymentMode: " Cash ",
	})
	require.NoError(t, err)

	require.NotNil(t, res.Payment)
	assert.True(t, res.Payment.AmountPaid.Equal(res.Transaction.TotalAmount))
	assert.Equal(t, "Cash", res.Payment.PaymentMode)
	require.NotNil(t, res.Payment.TransactionID)
	assert.Equal(t, res.Transaction.ID, *res.Payment.TransactionID)

	assert.True(t, res.Balance.Equal(dec("12.00")), "cash sale leaves the balance unchanged")
	assert.True(t, f.balance(t, "c1").Equal(dec("12.00")))

	counts := f.store.Counts()
	assert.Equal(t, 1, counts.Transactions)
	assert.Equal(t, 1, counts.Payments)
}

func TestRecordSale_CapturesPriceAtPurchase(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedProduct("p1", "Sugar", "4.00")

	first, err := f.ledger.RecordSale(context.Background(), admin, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 1, IsCredit: true,
	})
	require.NoError(t, err)

	_, err = f.products.UpdateProduct(context.Background(), admin, "p1", usecase.ProductInput{
		Name: "Sugar", Price: dec("5.00"),
	})
	require.NoError(t, err)

	stored, err := f.store.Transactions().GetByID(context.Background(), first.Transaction.ID)
	require.NoError(t, err)
	assert.True(t, stored.UnitPrice.Equal(dec("4.00")))

	second, err := f.ledger.RecordSale(context.Background(), admin, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 1, IsCredit: true,
	})
	require.NoError(t, err)
	assert.True(t, second.Transaction.UnitPrice.Equal(dec("5.00")))
	assert.True(t, f.balance(t, "c1").Equal(dec("9.00")))
}

func TestRecordSale_RejectsBeforeAnyWrite(t *testing.T) {
	notes := string(make([]byte, domain.MaxNotesLength+1))

	tests := []struct {
		name  string
		op    *domain.Operator
		input usecase.RecordSaleInput
		kind  error
		want  error
	}{
		{
			name:  "zero quantity",
			op:    clerk,
			input: usecase.RecordSaleInput{CustomerID: "c1", ProductID: "p1", Quantity: 0, IsCredit: true},
			kind:  domain.ErrInvalidArgument,
			want:  domain.ErrInvalidQuantity,
		},
		{
			name:  "cash sale without payment mode",
			op:    clerk,
			input: usecase.RecordSaleInput{CustomerID: "c1", ProductID: "p1", Quantity: 1, IsCredit: false},
			kind:  domain.ErrInvalidArgument,
			want:  domain.ErrPaymentModeRequired,
		},
		{
			name:  "cash sale with blank payment mode",
			op:    clerk,
			input: usecase.RecordSaleInput{CustomerID: "c1", ProductID: "p1", Quantity: 1, PaymentMode: "   "},
			kind:  domain.ErrInvalidArgument,
			want:  domain.ErrPaymentModeRequired,
		},
		{
			name:  "notes too long",
			op:    clerk,
			input: usecase.RecordSaleInput{CustomerID: "c1", ProductID: "p1", Quantity: 1, IsCredit: true, Notes: &notes},
			kind:  domain.ErrInvalidArgument,
			want:  domain.ErrInvalidNotes,
		},
		{
			name:  "no operator",
			op:    nil,
			input: usecase.RecordSaleInput{CustomerID: "c1", ProductID: "p1", Quantity: 1, IsCredit: true},
			kind:  domain.ErrUnauthorized,
			want:  domain.ErrMissingOperator,
		},
		{
			name:  "viewer cannot record",
			op:    viewer,
			input: usecase.RecordSaleInput{CustomerID: "c1", ProductID: "p1", Quantity: 1, IsCredit: true},
			kind:  domain.ErrUnauthorized,
			want:  domain.ErrForbidden,
		},
		{
			name:  "unknown customer",
			op:    clerk,
			input: usecase.RecordSaleInput{CustomerID: "nope", ProductID: "p1", Quantity: 1, IsCredit: true},
			kind:  domain.ErrNotFound,
			want:  domain.ErrCustomerNotFound,
		},
		{
			name:  "unknown product",
			op:    clerk,
			input: usecase.RecordSaleInput{CustomerID: "c1", ProductID: "nope", Quantity: 1, IsCredit: true},
			kind:  domain.ErrNotFound,
			want:  domain.ErrProductNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedCustomer("c1", "Asha", "5.00")
			f.seedProduct("p1", "Bread", "3.00")
			before := f.store.Counts()

			_, err := f.ledger.RecordSale(context.Background(), tt.op, tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, f.store.Counts(), "store must be unchanged")
			assert.True(t, f.balance(t, "c1").Equal(dec("5.00")))
		})
	}
}

func TestRecordSale_ValidationFailuresNeverOpenTransaction(t *testing.T) {
	f := newFixture(t)

	_, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 0, IsCredit: true,
	})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
		CustomerID: "c1", AmountPaid: dec("0"), PaymentMode: "Cash",
	})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)

	assert.Equal(t, 0, f.store.Begins())
}

func TestRecordSale_PartialFailureLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		failOp   string
		isCredit bool
	}{
		{"companion payment write fails", "payments.Create", false},
		{"balance update fails", "customers.UpdateBalance", true},
		{"audit write fails", "audit.CreateTx", true},
		{"commit fails", "tx.Commit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedCustomer("c1", "Asha", "7.00")
			f.seedProduct("p1", "Eggs", "6.00")
			before := f.store.Counts()

			f.store.FailOn(tt.failOp, errors.New("connection reset"))

			_, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
				CustomerID: "c1", ProductID: "p1", Quantity: 2, IsCredit: tt.isCredit, PaymentMode: "UPI",
			})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrStorageFailure)
			assert.Equal(t, before, f.store.Counts())
			assert.True(t, f.balance(t, "c1").Equal(dec("7.00")))
		})
	}
}

func TestRecordPayment(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		paid    string
		want    string
	}{
		{"partial payment", "30.00", "10.00", "20.00"},
		{"overpayment clamps at zero", "30.00", "50.00", "0"},
		{"payment on zero balance", "0", "5.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedCustomer("c1", "Asha", tt.balance)

			res, err := f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
				CustomerID: "c1", AmountPaid: dec(tt.paid), PaymentMode: "Cash",
			})
			require.NoError(t, err)

			assert.True(t, res.Payment.AmountPaid.Equal(dec(tt.paid)), "amount is stored unmodified")
			assert.Nil(t, res.Payment.TransactionID)
			assert.True(t, res.Balance.Equal(dec(tt.want)))
			assert.True(t, f.balance(t, "c1").Equal(dec(tt.want)))
			assert.False(t, f.balance(t, "c1").IsNegative())
		})
	}
}

func TestRecordPayment_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		op    *domain.Operator
		input usecase.RecordPaymentInput
		want  error
	}{
		{"zero amount", clerk, usecase.RecordPaymentInput{CustomerID: "c1", AmountPaid: dec("0"), PaymentMode: "Cash"}, domain.ErrInvalidAmount},
		{"negative amount", clerk, usecase.RecordPaymentInput{CustomerID: "c1", AmountPaid: dec("-1"), PaymentMode: "Cash"}, domain.ErrInvalidAmount},
		{"sub-cent amount", clerk, usecase.RecordPaymentInput{CustomerID: "c1", AmountPaid: dec("1.001"), PaymentMode: "Cash"}, domain.ErrAmountPrecision},
		{"missing mode", clerk, usecase.RecordPaymentInput{CustomerID: "c1", AmountPaid: dec("1")}, domain.ErrPaymentModeRequired},
		{"unknown customer", clerk, usecase.RecordPaymentInput{CustomerID: "nope", AmountPaid: dec("1"), PaymentMode: "Cash"}, domain.ErrCustomerNotFound},
		{"viewer", viewer, usecase.RecordPaymentInput{CustomerID: "c1", AmountPaid: dec("1"), PaymentMode: "Cash"}, domain.ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.seedCustomer("c1", "Asha", "30.00")
			before := f.store.Counts()

			_, err := f.ledger.RecordPayment(context.Background(), tt.op, tt.input)

			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, f.store.Counts())
			assert.True(t, f.balance(t, "c1").Equal(dec("30.00")))
		})
	}
}

func TestLedger_ScenariosAB(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedProduct("p1", "Lentils", "10.00")

	// Scenario A
	sale, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 3, IsCredit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "30.00", domain.FormatMoney(sale.Transaction.TotalAmount))
	assert.Equal(t, "30.00", domain.FormatMoney(f.balance(t, "c1")))

	// Scenario B
	payment, err := f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
		CustomerID: "c1", AmountPaid: dec("50.00"), PaymentMode: "Cash",
	})
	require.NoError(t, err)
	assert.Equal(t, "50.00", domain.FormatMoney(payment.Payment.AmountPaid))
	assert.Equal(t, "0.00", domain.FormatMoney(f.balance(t, "c1")))
}

func TestLedger_ConcurrentCreditSalesSumExactly(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedCustomer("c2", "Ravi", "0")
	f.seedProduct("p1", "Tea", "0.10")

	const workers = 50

	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		for _, id := range []string{"c1", "c2"} {
			wg.Add(1)
			go func(customerID string) {
				defer wg.Done()
				_, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
					CustomerID: customerID, ProductID: "p1", Quantity: 1, IsCredit: true,
				})
				errs <- err
			}(id)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, "5.00", domain.FormatMoney(f.balance(t, "c1")))
	assert.Equal(t, "5.00", domain.FormatMoney(f.balance(t, "c2")))
}

func TestLedger_RandomizedHistoryReconciles(t *testing.T) {
	f := newFixture(t)
	f.clock.Tick = 1
	f.seedCustomer("c1", "Asha", "0")
	f.seedCustomer("c2", "Ravi", "0")
	f.seedProduct("p1", "Soap", "1.25")
	f.seedProduct("p2", "Oil", "7.40")

	rng := rand.New(rand.NewSource(42))
	customers := []string{"c1", "c2"}
	products := []string{"p1", "p2"}

	for i := 0; i < 300; i++ {
		customerID := customers[rng.Intn(len(customers))]
		switch rng.Intn(3) {
		case 0:
			_, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
				CustomerID: customerID, ProductID: products[rng.Intn(2)], Quantity: 1 + rng.Intn(5), IsCredit: true,
			})
			require.NoError(t, err)
		case 1:
			_, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
				CustomerID: customerID, ProductID: products[rng.Intn(2)], Quantity: 1 + rng.Intn(5), PaymentMode: "Cash",
			})
			require.NoError(t, err)
		case 2:
			amount := decimal.New(int64(1+rng.Intn(2000)), -2)
			_, err := f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
				CustomerID: customerID, AmountPaid: amount, PaymentMode: "UPI",
			})
			require.NoError(t, err)
		}
	}

	report, err := f.reconciliation.GenerateReport(context.Background(), viewer)
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalCustomers)
	assert.Equal(t, 2, report.ReconciledCustomers)
	assert.Empty(t, report.Discrepancies)

	for _, id := range customers {
		assert.False(t, f.balance(t, id).IsNegative())
	}
}

func TestLedger_RetriesSerializationFailure(t *testing.T) {
	ctrl := gomock.NewController(t)

	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedProduct("p1", "Flour", "2.00")

	// Fail the first commit with a serialization error, then let it through.
	attempts := 0
	retrier := mocks.NewMockRetrier(ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, op func() error) error {
		for {
			attempts++
			err := op()
			var pgErr *pgconn.PgError
			if err != nil && errors.As(err, &pgErr) && pgErr.Code == "40001" && attempts < 3 {
				f.store.FailOn("tx.Commit", nil)
				continue
			}
			return err
		}
	})
	f.store.FailOn("tx.Commit", &pgconn.PgError{Code: "40001"})

	metrics := mocks.NewMockLedgerMetrics(ctrl)
	metrics.EXPECT().RecordSale(true, gomock.Any()).Times(1)

	uc := usecase.NewLedgerUseCase(f.store, f.store.Customers(), f.store.Products(), f.store.Transactions(),
		f.store.Payments(), f.store.Audit(), f.ids, zerolog.Nop()).
		WithClock(f.clock).
		WithRetrier(retrier).
		WithMetrics(metrics)

	res, err := uc.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 2, IsCredit: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.True(t, res.Balance.Equal(dec("4.00")))
	assert.Equal(t, 1, f.store.Counts().Transactions, "only the committed attempt is visible")
}

func TestLedger_RecordsErrorMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)

	f := newFixture(t)
	metrics := mocks.NewMockLedgerMetrics(ctrl)
	metrics.EXPECT().RecordLedgerError("record_payment", "not_found").Times(1)

	uc := usecase.NewLedgerUseCase(f.store, f.store.Customers(), f.store.Products(), f.store.Transactions(),
		f.store.Payments(), f.store.Audit(), f.ids, zerolog.Nop()).WithMetrics(metrics)

	_, err := uc.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
		CustomerID: "ghost", AmountPaid: dec("1.00"), PaymentMode: "Cash",
	})
	require.ErrorIs(t, err, domain.ErrNotFound)
}
