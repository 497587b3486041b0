package usecase_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
	"github.com/iho/creditbook/internal/usecase/mocks"
)

var (
	admin  = &domain.Operator{ID: "op-admin", Username: "admin", Role: domain.RoleAdmin}
	clerk  = &domain.Operator{ID: "op-clerk", Username: "clerk", Role: domain.RoleOperator}
	viewer = &domain.Operator{ID: "op-viewer", Username: "viewer", Role: domain.RoleViewer}
)

// shopNow is a fixed instant used as "now" across the suite.
var shopNow = time.Date(2025, 6, 15, 14, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	store *mocks.Store
	clock *mocks.FixedClock
	ids   *mocks.SequenceIDGenerator

	ledger         *usecase.LedgerUseCase
	receipts       *usecase.ReceiptUseCase
	dashboard      *usecase.DashboardUseCase
	customers      *usecase.CustomerUseCase
	products       *usecase.ProductUseCase
	reconciliation *usecase.ReconciliationUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := mocks.NewStore()
	clock := mocks.NewFixedClock(shopNow)
	ids := mocks.NewSequenceIDGenerator("id")
	logger := zerolog.Nop()

	return &fixture{
		store: store,
		clock: clock,
		ids:   ids,
		ledger: usecase.NewLedgerUseCase(store, store.Customers(), store.Products(), store.Transactions(),
			store.Payments(), store.Audit(), ids, logger).WithClock(clock),
		receipts: usecase.NewReceiptUseCase(store.Customers(), store.Products(), store.Transactions(),
			store.Payments(), usecase.ShopInfo{ShopName: "Corner Store", AppName: "creditbook"}),
		dashboard: usecase.NewDashboardUseCase(store.Customers(), store.Products(), store.Transactions(),
			store.Payments(), time.UTC).WithClock(clock),
		customers: usecase.NewCustomerUseCase(store, store.Customers(), store.Transactions(), store.Payments(),
			store.Audit(), ids, logger).WithClock(clock),
		products: usecase.NewProductUseCase(store, store.Products(), store.Audit(), ids, logger).WithClock(clock),
		reconciliation: usecase.NewReconciliationUseCase(store, store.Customers(), store.Transactions(),
			store.Payments()).WithClock(clock),
	}
}

func (f *fixture) seedCustomer(id, name, balance string) *domain.Customer {
	c := &domain.Customer{
		ID:             id,
		FullName:       name,
		PhoneNumber:    "555-0100",
		Email:          "customer@example.com",
		CurrentBalance: dec(balance),
		CreatedAt:      shopNow.Add(-24 * time.Hour),
		UpdatedAt:      shopNow.Add(-24 * time.Hour),
	}
	f.store.AddCustomer(c)
	return c
}

func (f *fixture) seedProduct(id, name, price string) *domain.Product {
	p := &domain.Product{
		ID:        id,
		Name:      name,
		Price:     dec(price),
		CreatedAt: shopNow.Add(-24 * time.Hour),
		UpdatedAt: shopNow.Add(-24 * time.Hour),
	}
	f.store.AddProduct(p)
	return p
}

func (f *fixture) balance(t *testing.T, customerID string) decimal.Decimal {
	t.Helper()
	c, err := f.store.Customers().GetByID(t.Context(), customerID)
	if err != nil {
		t.Fatalf("load customer %s: %v", customerID, err)
	}
	return c.CurrentBalance
}
