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

// CustomerRepository implements usecase.CustomerRepository.
type CustomerRepository struct {
	queries *generated.Queries
}

// NewCustomerRepository creates a new CustomerRepository.
func NewCustomerRepository(pool *pgxpool.Pool) *CustomerRepository {
	return newCustomerRepository(pool)
}

func newCustomerRepository(db generated.DBTX) *CustomerRepository {
	return &CustomerRepository{queries: generated.New(db)}
}

// Create inserts a customer.
func (r *CustomerRepository) Create(ctx context.Context, tx usecase.Tx, customer *domain.Customer) error {
	return generated.New(pgxTx(tx)).CreateCustomer(ctx, generated.CreateCustomerParams{
		ID:             customer.ID,
		FullName:       customer.FullName,
		PhoneNumber:    customer.PhoneNumber,
		Email:          customer.Email,
		Address:        stringPtrToText(customer.Address),
		CurrentBalance: decimalToNumeric(customer.CurrentBalance),
		CreatedAt:      timeToPgTimestamptz(customer.CreatedAt),
		UpdatedAt:      timeToPgTimestamptz(customer.UpdatedAt),
	})
}

// Update writes the contact fields. The balance column is not touched.
func (r *CustomerRepository) Update(ctx context.Context, tx usecase.Tx, customer *domain.Customer) error {
	n, err := generated.New(pgxTx(tx)).UpdateCustomer(ctx, generated.UpdateCustomerParams{
		ID:          customer.ID,
		FullName:    customer.FullName,
		PhoneNumber: customer.PhoneNumber,
		Email:       customer.Email,
		Address:     stringPtrToText(customer.Address),
		UpdatedAt:   timeToPgTimestamptz(customer.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// Delete removes a customer. Their transactions and payments go with them.
func (r *CustomerRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	n, err := generated.New(pgxTx(tx)).DeleteCustomer(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	row, err := r.queries.GetCustomerByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}

	return rowToCustomer(row), nil
}

// GetByIDForUpdate retrieves a customer by ID with a FOR UPDATE lock.
func (r *CustomerRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Customer, error) {
	row, err := generated.New(pgxTx(tx)).GetCustomerByIDForUpdate(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}

	return rowToCustomer(row), nil
}

// GetByIDForShare reads a customer under a FOR SHARE lock. Ledger units
// take FOR UPDATE on the same row, so none can commit for this customer
// until tx ends.
func (r *CustomerRepository) GetByIDForShare(ctx context.Context, tx usecase.Tx, id string) (*domain.Customer, error) {
	row, err := generated.New(pgxTx(tx)).GetCustomerByIDForShare(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrCustomerNotFound)
	}

	return rowToCustomer(row), nil
}

// UpdateBalance sets the cached balance.
func (r *CustomerRepository) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal, updatedAt time.Time) error {
	n, err := generated.New(pgxTx(tx)).UpdateCustomerBalance(ctx, generated.UpdateCustomerBalanceParams{
		ID:             id,
		CurrentBalance: decimalToNumeric(balance),
		UpdatedAt:      timeToPgTimestamptz(updatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrCustomerNotFound
	}

	return nil
}

// List lists customers with pagination.
func (r *CustomerRepository) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	rows, err := r.queries.ListCustomers(ctx, generated.ListCustomersParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	return rowsToCustomers(rows), nil
}

// ListAll returns every customer in creation order.
func (r *CustomerRepository) ListAll(ctx context.Context) ([]*domain.Customer, error) {
	rows, err := r.queries.ListAllCustomers(ctx)
	if err != nil {
		return nil, err
	}

	return rowsToCustomers(rows), nil
}

// Stats counts customers and sums their balances.
func (r *CustomerRepository) Stats(ctx context.Context) (usecase.CustomerStats, error) {
	row, err := r.queries.GetCustomerStats(ctx)
	if err != nil {
		return usecase.CustomerStats{}, err
	}

	return usecase.CustomerStats{
		Count:            int(row.Count),
		TotalOutstanding: numericToDecimal(row.TotalOutstanding),
	}, nil
}

// TopByBalance returns the customers owing the most.
func (r *CustomerRepository) TopByBalance(ctx context.Context, limit int) ([]*domain.Customer, error) {
	rows, err := r.queries.ListTopCustomersByBalance(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	return rowsToCustomers(rows), nil
}

// ListActiveBetween returns customers with any sale or payment in [start, end].
func (r *CustomerRepository) ListActiveBetween(ctx context.Context, start, end time.Time) ([]*domain.Customer, error) {
	rows, err := r.queries.ListActiveCustomersBetween(ctx, generated.ListActiveCustomersBetweenParams{
		Start: timeToPgTimestamptz(start),
		End:   timeToPgTimestamptz(end),
	})
	if err != nil {
		return nil, err
	}

	return rowsToCustomers(rows), nil
}

func rowsToCustomers(rows []generated.Customer) []*domain.Customer {
	customers := make([]*domain.Customer, 0, len(rows))
	for _, row := range rows {
		customers = append(customers, rowToCustomer(row))
	}
	return customers
}

func rowToCustomer(row generated.Customer) *domain.Customer {
	return &domain.Customer{
		ID:             row.ID,
		FullName:       row.FullName,
		PhoneNumber:    row.PhoneNumber,
		Email:          row.Email,
		Address:        textToStringPtr(row.Address),
		CurrentBalance: numericToDecimal(row.CurrentBalance),
		CreatedAt:      pgTimestamptzToTime(row.CreatedAt),
		UpdatedAt:      pgTimestamptzToTime(row.UpdatedAt),
	}
}
