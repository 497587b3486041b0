package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
	"github.com/iho/creditbook/internal/usecase/mocks"
)

func validCustomerInput() usecase.CustomerInput {
	addr := "  12 Market Road  "
	return usecase.CustomerInput{
		FullName:    "  Asha Kumar ",
		PhoneNumber: "+91 98765 43210",
		Email:       "asha@example.com",
		Address:     &addr,
	}
}

func TestCreateCustomer(t *testing.T) {
	f := newFixture(t)

	c, err := f.customers.CreateCustomer(context.Background(), clerk, validCustomerInput())
	require.NoError(t, err)

	assert.Equal(t, "Asha Kumar", c.FullName)
	require.NotNil(t, c.Address)
	assert.Equal(t, "12 Market Road", *c.Address)
	assert.True(t, c.CurrentBalance.IsZero())
	assert.Equal(t, c.ID, c.ScanCode())

	stored, err := f.store.Customers().GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.FullName, stored.FullName)

	logs := f.store.AuditLogs()
	require.Len(t, logs, 1)
	assert.Equal(t, domain.AuditActionCustomerCreate, logs[0].Action)
}

func TestCreateCustomer_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*usecase.CustomerInput)
		want   error
	}{
		{"empty name", func(in *usecase.CustomerInput) { in.FullName = " " }, domain.ErrInvalidCustomerName},
		{"bad phone", func(in *usecase.CustomerInput) { in.PhoneNumber = "phone" }, domain.ErrInvalidPhone},
		{"bad email", func(in *usecase.CustomerInput) { in.Email = "asha@" }, domain.ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			in := validCustomerInput()
			tt.mutate(&in)

			_, err := f.customers.CreateCustomer(context.Background(), clerk, in)
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, domain.ErrInvalidArgument)
			assert.Zero(t, f.store.Counts().Customers)
		})
	}
}

func TestUpdateCustomer_LeavesBalanceAlone(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "42.00")

	in := validCustomerInput()
	in.FullName = "Asha K."
	updated, err := f.customers.UpdateCustomer(context.Background(), clerk, "c1", in)
	require.NoError(t, err)

	assert.Equal(t, "Asha K.", updated.FullName)
	assert.True(t, f.balance(t, "c1").Equal(dec("42.00")))

	_, err = f.customers.UpdateCustomer(context.Background(), clerk, "missing", in)
	assert.ErrorIs(t, err, domain.ErrCustomerNotFound)
}

func TestDeleteCustomer_CascadesHistory(t *testing.T) {
	f := newFixture(t)
	f.seedCustomer("c1", "Asha", "0")
	f.seedCustomer("c2", "Ravi", "0")
	f.seedProduct("p1", "Tea", "1.00")

	for _, id := range []string{"c1", "c2"} {
		_, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
			CustomerID: id, ProductID: "p1", Quantity: 1, PaymentMode: "Cash",
		})
		require.NoError(t, err)
	}

	err := f.customers.DeleteCustomer(context.Background(), clerk, "c1")
	require.ErrorIs(t, err, domain.ErrForbidden, "operators cannot delete")

	require.NoError(t, f.customers.DeleteCustomer(context.Background(), admin, "c1"))

	counts := f.store.Counts()
	assert.Equal(t, 1, counts.Customers)
	assert.Equal(t, 1, counts.Transactions)
	assert.Equal(t, 1, counts.Payments)

	err = f.customers.DeleteCustomer(context.Background(), admin, "c1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetCustomerDetails(t *testing.T) {
	f := newFixture(t)
	f.clock.Tick = 1
	f.seedCustomer("c1", "Asha", "0")
	f.seedProduct("p1", "Tea", "2.00")

	_, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 1, IsCredit: true,
	})
	require.NoError(t, err)
	second, err := f.ledger.RecordSale(context.Background(), clerk, usecase.RecordSaleInput{
		CustomerID: "c1", ProductID: "p1", Quantity: 2, IsCredit: true,
	})
	require.NoError(t, err)
	_, err = f.ledger.RecordPayment(context.Background(), clerk, usecase.RecordPaymentInput{
		CustomerID: "c1", AmountPaid: dec("1.00"), PaymentMode: "Cash",
	})
	require.NoError(t, err)

	details, err := f.customers.GetCustomerDetails(context.Background(), viewer, "c1")
	require.NoError(t, err)

	assert.True(t, details.Customer.CurrentBalance.Equal(dec("5.00")))
	require.Len(t, details.Transactions, 2)
	assert.Equal(t, second.Transaction.ID, details.Transactions[0].ID, "newest first")
	assert.Len(t, details.Payments, 1)
}

func TestResolveScan(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockCustomerRepository(ctrl)
	customer := &domain.Customer{ID: "01J0CUSTOMER", FullName: "Asha"}

	repo.EXPECT().GetByID(gomock.Any(), "01J0CUSTOMER").Return(customer, nil)
	repo.EXPECT().GetByID(gomock.Any(), "unknown").Return(nil, domain.ErrCustomerNotFound)

	uc := usecase.NewCustomerUseCase(nil, repo, nil, nil, nil, mocks.NewSequenceIDGenerator("id"), zerolog.Nop())

	got, err := uc.ResolveScan(context.Background(), viewer, " 01J0CUSTOMER\n")
	require.NoError(t, err)
	assert.Equal(t, customer, got)

	_, err = uc.ResolveScan(context.Background(), viewer, "unknown")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ResolveScan(context.Background(), viewer, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidScanCode)

	_, err = uc.ResolveScan(context.Background(), nil, "01J0CUSTOMER")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListCustomers_WrapsStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := mocks.NewMockCustomerRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), 50, 0).Return(nil, errors.New("dial tcp: connection refused"))

	uc := usecase.NewCustomerUseCase(nil, repo, nil, nil, nil, nil, zerolog.Nop())

	_, err := uc.ListCustomers(context.Background(), viewer, 0, -1)
	assert.ErrorIs(t, err, domain.ErrStorageFailure)
}
