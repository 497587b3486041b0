package usecase

import (
	"context"
	"time"

	"github.com/iho/creditbook/internal/domain"
)

// DashboardUseCase aggregates the shop summary. It never writes.
type DashboardUseCase struct {
	customerRepo    CustomerRepository
	productRepo     ProductRepository
	transactionRepo TransactionRepository
	paymentRepo     PaymentRepository
	location        *time.Location
	clock           Clock
}

// NewDashboardUseCase creates a new DashboardUseCase. Day boundaries are
// computed in loc; a nil loc means UTC.
func NewDashboardUseCase(
	customerRepo CustomerRepository,
	productRepo ProductRepository,
	transactionRepo TransactionRepository,
	paymentRepo PaymentRepository,
	loc *time.Location,
) *DashboardUseCase {
	if loc == nil {
		loc = time.UTC
	}

	return &DashboardUseCase{
		customerRepo:    customerRepo,
		productRepo:     productRepo,
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		location:        loc,
		clock:           SystemClock{},
	}
}

// WithClock overrides the clock.
func (uc *DashboardUseCase) WithClock(c Clock) *DashboardUseCase {
	uc.clock = c
	return uc
}

// SummarizeInput bounds the period. Nil bounds take the trailing 30-day default.
type SummarizeInput struct {
	Start *time.Time
	End   *time.Time
}

// Period resolves the inclusive period: start at 00:00 of its day and end at
// the last instant of its day, both in the shop's time zone.
func (uc *DashboardUseCase) Period(input SummarizeInput) (time.Time, time.Time, error) {
	today := uc.startOfDay(uc.clock.Now())

	start := today.AddDate(0, 0, -DefaultDashboardDays)
	if input.Start != nil {
		start = uc.startOfDay(*input.Start)
	}

	end := today
	if input.End != nil {
		end = uc.startOfDay(*input.End)
	}
	end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)

	if start.After(end) {
		return time.Time{}, time.Time{}, domain.ErrInvalidPeriod
	}

	return start, end, nil
}

func (uc *DashboardUseCase) startOfDay(t time.Time) time.Time {
	y, m, d := t.In(uc.location).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, uc.location)
}

// Summarize builds the dashboard for the period.
func (uc *DashboardUseCase) Summarize(ctx context.Context, op *domain.Operator, input SummarizeInput) (*domain.Dashboard, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	start, end, err := uc.Period(input)
	if err != nil {
		return nil, err
	}

	dash := &domain.Dashboard{PeriodStart: start, PeriodEnd: end}

	// Whole history
	stats, err := uc.customerRepo.Stats(ctx)
	if err != nil {
		return nil, domain.StorageError(err)
	}
	dash.TotalCustomers = stats.Count
	dash.TotalOutstandingCredit = stats.TotalOutstanding

	if dash.TotalProducts, err = uc.productRepo.Count(ctx); err != nil {
		return nil, domain.StorageError(err)
	}

	if dash.TopCustomersByCredit, err = uc.customerRepo.TopByBalance(ctx, TopCustomersLimit); err != nil {
		return nil, domain.StorageError(err)
	}

	// Period
	if dash.TotalSalesInPeriod, err = uc.transactionRepo.SumBetween(ctx, start, end); err != nil {
		return nil, domain.StorageError(err)
	}

	if dash.TotalPaymentsInPeriod, err = uc.paymentRepo.SumBetween(ctx, start, end); err != nil {
		return nil, domain.StorageError(err)
	}

	if dash.ActiveCustomers, err = uc.customerRepo.ListActiveBetween(ctx, start, end); err != nil {
		return nil, domain.StorageError(err)
	}

	txns, err := uc.transactionRepo.ListRecentBetween(ctx, start, end, RecentActivityLimit)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	payments, err := uc.paymentRepo.ListRecentBetween(ctx, start, end, RecentActivityLimit)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	names := newNameResolver(uc.customerRepo, uc.productRepo)

	dash.RecentTransactions = make([]domain.SaleLine, 0, len(txns))
	for _, t := range txns {
		customerName, err := names.customer(ctx, t.CustomerID)
		if err != nil {
			return nil, err
		}
		productName, err := names.product(ctx, t.ProductID)
		if err != nil {
			return nil, err
		}
		dash.RecentTransactions = append(dash.RecentTransactions, domain.SaleLine{
			Transaction:  t,
			CustomerName: customerName,
			ProductName:  productName,
		})
	}

	dash.RecentPayments = make([]domain.PaymentLine, 0, len(payments))
	for _, p := range payments {
		customerName, err := names.customer(ctx, p.CustomerID)
		if err != nil {
			return nil, err
		}
		dash.RecentPayments = append(dash.RecentPayments, domain.PaymentLine{
			Payment:      p,
			CustomerName: customerName,
		})
	}

	if dash.ActiveCustomers == nil {
		dash.ActiveCustomers = []*domain.Customer{}
	}
	if dash.TopCustomersByCredit == nil {
		dash.TopCustomersByCredit = []*domain.Customer{}
	}

	return dash, nil
}

// nameResolver memoizes display-name lookups for one request. A record whose
// customer or product vanished concurrently resolves to an empty name.
type nameResolver struct {
	customerRepo CustomerRepository
	productRepo  ProductRepository
	customers    map[string]string
	products     map[string]string
}

func newNameResolver(customerRepo CustomerRepository, productRepo ProductRepository) *nameResolver {
	return &nameResolver{
		customerRepo: customerRepo,
		productRepo:  productRepo,
		customers:    make(map[string]string),
		products:     make(map[string]string),
	}
}

func (r *nameResolver) customer(ctx context.Context, id string) (string, error) {
	if name, ok := r.customers[id]; ok {
		return name, nil
	}
	c, err := r.customerRepo.GetByID(ctx, id)
	if err != nil && domain.Kind(err) != domain.ErrNotFound {
		return "", domain.StorageError(err)
	}
	if c != nil {
		r.customers[id] = c.FullName
	}
	return r.customers[id], nil
}

func (r *nameResolver) product(ctx context.Context, id string) (string, error) {
	if name, ok := r.products[id]; ok {
		return name, nil
	}
	p, err := r.productRepo.GetByID(ctx, id)
	if err != nil && domain.Kind(err) != domain.ErrNotFound {
		return "", domain.StorageError(err)
	}
	if p != nil {
		r.products[id] = p.Name
	}
	return r.products[id], nil
}
