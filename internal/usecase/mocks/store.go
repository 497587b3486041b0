package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// ErrForeignTx is returned when a repository receives a transaction that did
// not come from the same Store.
var ErrForeignTx = errors.New("transaction does not belong to this store")

// Store is an in-memory transactional store backing every repository
// interface. Writes made through a transaction are staged and applied on
// Commit; Rollback discards them. GetByIDForUpdate takes a per-customer lock
// held until the transaction ends, like SELECT ... FOR UPDATE.
type Store struct {
	mu sync.Mutex

	customers     map[string]*domain.Customer
	customerOrder []string
	products      map[string]*domain.Product
	productOrder  []string
	transactions  []*domain.Transaction
	payments      []*domain.Payment
	audit         []*domain.AuditLog

	rowLocks map[string]*sync.Mutex
	failures map[string]error
	begins   int
	commits  int
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		customers: make(map[string]*domain.Customer),
		products:  make(map[string]*domain.Product),
		rowLocks:  make(map[string]*sync.Mutex),
		failures:  make(map[string]error),
	}
}

// FailOn makes the named operation (e.g. "payments.Create", "tx.Commit",
// "tx.Begin") return err until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[op]
}

// Begin implements usecase.TxManager.
func (s *Store) Begin(ctx context.Context) (usecase.Tx, error) {
	if err := s.fail("tx.Begin"); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.begins++
	s.mu.Unlock()
	return &Tx{store: s, held: make(map[string]*sync.Mutex)}, nil
}

// Tx is a Store transaction.
type Tx struct {
	store  *Store
	staged []func()
	held   map[string]*sync.Mutex
	done   bool
}

// Commit applies the staged writes atomically.
func (t *Tx) Commit(ctx context.Context) error {
	if t.done {
		return errors.New("transaction already closed")
	}
	defer t.release()

	if err := t.store.fail("tx.Commit"); err != nil {
		return err
	}

	t.store.mu.Lock()
	for _, apply := range t.staged {
		apply()
	}
	t.store.commits++
	t.store.mu.Unlock()

	return nil
}

// Rollback discards staged writes. It is a no-op after Commit.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.release()
	return nil
}

func (t *Tx) release() {
	t.done = true
	t.staged = nil
	for _, l := range t.held {
		l.Unlock()
	}
	t.held = nil
}

func (t *Tx) stage(apply func()) {
	t.staged = append(t.staged, apply)
}

func (t *Tx) lock(key string) {
	if _, ok := t.held[key]; ok {
		return
	}
	t.store.mu.Lock()
	l, ok := t.store.rowLocks[key]
	if !ok {
		l = &sync.Mutex{}
		t.store.rowLocks[key] = l
	}
	t.store.mu.Unlock()

	l.Lock()
	t.held[key] = l
}

func (s *Store) tx(tx usecase.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.store != s {
		return nil, ErrForeignTx
	}
	if t.done {
		return nil, errors.New("transaction already closed")
	}
	return t, nil
}

// Seeding and inspection helpers. They bypass transactions.

// AddCustomer stores a customer directly.
func (s *Store) AddCustomer(c *domain.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putCustomer(c)
}

// AddProduct stores a product directly.
func (s *Store) AddProduct(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putProduct(p)
}

// AddTransaction stores a sale directly without touching any balance.
func (s *Store) AddTransaction(t *domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *t
	s.transactions = append(s.transactions, &cp)
}

// AddPayment stores a payment directly without touching any balance.
func (s *Store) AddPayment(p *domain.Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	s.payments = append(s.payments, &cp)
}

// SetBalance overwrites a cached balance, for corrupting state in tests.
func (s *Store) SetBalance(customerID string, balance decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.customers[customerID]; ok {
		c.CurrentBalance = balance
	}
}

// Counts reports committed row counts.
type Counts struct {
	Customers    int
	Products     int
	Transactions int
	Payments     int
	AuditLogs    int
}

// Counts returns the committed row counts.
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Counts{
		Customers:    len(s.customers),
		Products:     len(s.products),
		Transactions: len(s.transactions),
		Payments:     len(s.payments),
		AuditLogs:    len(s.audit),
	}
}

// Begins returns how many transactions were started.
func (s *Store) Begins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.begins
}

// AuditLogs returns committed audit rows in insertion order.
func (s *Store) AuditLogs() []*domain.AuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.AuditLog, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *Store) putCustomer(c *domain.Customer) {
	cp := *c
	if _, exists := s.customers[c.ID]; !exists {
		s.customerOrder = append(s.customerOrder, c.ID)
	}
	s.customers[c.ID] = &cp
}

func (s *Store) putProduct(p *domain.Product) {
	cp := *p
	if _, exists := s.products[p.ID]; !exists {
		s.productOrder = append(s.productOrder, p.ID)
	}
	s.products[p.ID] = &cp
}

func (s *Store) getCustomer(id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers[id]
	if !ok {
		return nil, domain.ErrCustomerNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) getProduct(id string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	cp := *p
	return &cp, nil
}

// Customers returns the customer repository.
func (s *Store) Customers() usecase.CustomerRepository { return &customerRepo{s} }

// Products returns the product repository.
func (s *Store) Products() usecase.ProductRepository { return &productRepo{s} }

// Transactions returns the transaction repository.
func (s *Store) Transactions() usecase.TransactionRepository { return &transactionRepo{s} }

// Payments returns the payment repository.
func (s *Store) Payments() usecase.PaymentRepository { return &paymentRepo{s} }

// Audit returns the audit repository.
func (s *Store) Audit() usecase.AuditRepository { return &auditRepo{s} }

type customerRepo struct{ s *Store }

func (r *customerRepo) Create(ctx context.Context, tx usecase.Tx, c *domain.Customer) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("customers.Create"); err != nil {
		return err
	}
	cp := *c
	t.stage(func() { r.s.putCustomer(&cp) })
	return nil
}

func (r *customerRepo) Update(ctx context.Context, tx usecase.Tx, c *domain.Customer) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("customers.Update"); err != nil {
		return err
	}
	if _, err := r.s.getCustomer(c.ID); err != nil {
		return err
	}
	cp := *c
	t.stage(func() {
		if existing, ok := r.s.customers[cp.ID]; ok {
			existing.FullName = cp.FullName
			existing.PhoneNumber = cp.PhoneNumber
			existing.Email = cp.Email
			existing.Address = cp.Address
			existing.UpdatedAt = cp.UpdatedAt
		}
	})
	return nil
}

func (r *customerRepo) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("customers.Delete"); err != nil {
		return err
	}
	if _, err := r.s.getCustomer(id); err != nil {
		return err
	}
	t.stage(func() {
		delete(r.s.customers, id)
		r.s.customerOrder = removeString(r.s.customerOrder, id)
		txns := r.s.transactions[:0]
		for _, x := range r.s.transactions {
			if x.CustomerID != id {
				txns = append(txns, x)
			}
		}
		r.s.transactions = txns
		payments := r.s.payments[:0]
		for _, p := range r.s.payments {
			if p.CustomerID != id {
				payments = append(payments, p)
			}
		}
		r.s.payments = payments
	})
	return nil
}

func (r *customerRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	if err := r.s.fail("customers.GetByID"); err != nil {
		return nil, err
	}
	return r.s.getCustomer(id)
}

func (r *customerRepo) GetByIDForUpdate(ctx context.Context, tx usecase.Tx, id string) (*domain.Customer, error) {
	t, err := r.s.tx(tx)
	if err != nil {
		return nil, err
	}
	if err := r.s.fail("customers.GetByIDForUpdate"); err != nil {
		return nil, err
	}
	t.lock("customer:" + id)
	return r.s.getCustomer(id)
}

func (r *customerRepo) GetByIDForShare(ctx context.Context, tx usecase.Tx, id string) (*domain.Customer, error) {
	t, err := r.s.tx(tx)
	if err != nil {
		return nil, err
	}
	if err := r.s.fail("customers.GetByIDForShare"); err != nil {
		return nil, err
	}
	t.lock("customer:" + id)
	return r.s.getCustomer(id)
}

func (r *customerRepo) UpdateBalance(ctx context.Context, tx usecase.Tx, id string, balance decimal.Decimal, updatedAt time.Time) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("customers.UpdateBalance"); err != nil {
		return err
	}
	t.stage(func() {
		if c, ok := r.s.customers[id]; ok {
			c.CurrentBalance = balance
			c.UpdatedAt = updatedAt
		}
	})
	return nil
}

func (r *customerRepo) all() []*domain.Customer {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*domain.Customer, 0, len(r.s.customerOrder))
	for _, id := range r.s.customerOrder {
		cp := *r.s.customers[id]
		out = append(out, &cp)
	}
	return out
}

func (r *customerRepo) List(ctx context.Context, limit, offset int) ([]*domain.Customer, error) {
	return page(r.all(), limit, offset), nil
}

func (r *customerRepo) ListAll(ctx context.Context) ([]*domain.Customer, error) {
	if err := r.s.fail("customers.ListAll"); err != nil {
		return nil, err
	}
	return r.all(), nil
}

func (r *customerRepo) Stats(ctx context.Context) (usecase.CustomerStats, error) {
	if err := r.s.fail("customers.Stats"); err != nil {
		return usecase.CustomerStats{}, err
	}
	all := r.all()
	stats := usecase.CustomerStats{Count: len(all), TotalOutstanding: decimal.Zero}
	for _, c := range all {
		stats.TotalOutstanding = stats.TotalOutstanding.Add(c.CurrentBalance)
	}
	return stats, nil
}

func (r *customerRepo) TopByBalance(ctx context.Context, limit int) ([]*domain.Customer, error) {
	all := r.all()
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CurrentBalance.GreaterThan(all[j].CurrentBalance)
	})
	return page(all, limit, 0), nil
}

func (r *customerRepo) ListActiveBetween(ctx context.Context, start, end time.Time) ([]*domain.Customer, error) {
	r.s.mu.Lock()
	active := make(map[string]bool)
	for _, t := range r.s.transactions {
		if within(t.PurchasedAt, start, end) {
			active[t.CustomerID] = true
		}
	}
	for _, p := range r.s.payments {
		if within(p.PaidAt, start, end) {
			active[p.CustomerID] = true
		}
	}
	r.s.mu.Unlock()

	out := make([]*domain.Customer, 0, len(active))
	for _, c := range r.all() {
		if active[c.ID] {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type productRepo struct{ s *Store }

func (r *productRepo) Create(ctx context.Context, tx usecase.Tx, p *domain.Product) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("products.Create"); err != nil {
		return err
	}
	cp := *p
	t.stage(func() { r.s.putProduct(&cp) })
	return nil
}

func (r *productRepo) Update(ctx context.Context, tx usecase.Tx, p *domain.Product) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if _, err := r.s.getProduct(p.ID); err != nil {
		return err
	}
	cp := *p
	t.stage(func() { r.s.putProduct(&cp) })
	return nil
}

func (r *productRepo) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if _, err := r.s.getProduct(id); err != nil {
		return err
	}
	r.s.mu.Lock()
	for _, x := range r.s.transactions {
		if x.ProductID == id {
			r.s.mu.Unlock()
			return domain.ErrProductInUse
		}
	}
	r.s.mu.Unlock()
	t.stage(func() {
		delete(r.s.products, id)
		r.s.productOrder = removeString(r.s.productOrder, id)
	})
	return nil
}

func (r *productRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.s.getProduct(id)
}

func (r *productRepo) GetByIDForShare(ctx context.Context, tx usecase.Tx, id string) (*domain.Product, error) {
	if _, err := r.s.tx(tx); err != nil {
		return nil, err
	}
	return r.s.getProduct(id)
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	r.s.mu.Lock()
	out := make([]*domain.Product, 0, len(r.s.productOrder))
	for _, id := range r.s.productOrder {
		cp := *r.s.products[id]
		out = append(out, &cp)
	}
	r.s.mu.Unlock()
	return page(out, limit, offset), nil
}

func (r *productRepo) Count(ctx context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.products), nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Create(ctx context.Context, tx usecase.Tx, txn *domain.Transaction) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("transactions.Create"); err != nil {
		return err
	}
	cp := *txn
	t.stage(func() { r.s.transactions = append(r.s.transactions, &cp) })
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.transactions {
		if t.ID == id {
			cp := *t
			return &cp, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

func (r *transactionRepo) filter(keep func(*domain.Transaction) bool) []*domain.Transaction {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Transaction
	for _, t := range r.s.transactions {
		if keep(t) {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PurchasedAt.Equal(out[j].PurchasedAt) {
			return out[i].PurchasedAt.After(out[j].PurchasedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *transactionRepo) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Transaction, error) {
	return r.filter(func(t *domain.Transaction) bool { return t.CustomerID == customerID }), nil
}

func (r *transactionRepo) SumBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, t := range r.filter(func(t *domain.Transaction) bool { return within(t.PurchasedAt, start, end) }) {
		sum = sum.Add(t.TotalAmount)
	}
	return sum, nil
}

func (r *transactionRepo) ListRecentBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Transaction, error) {
	return page(r.filter(func(t *domain.Transaction) bool { return within(t.PurchasedAt, start, end) }), limit, 0), nil
}

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(ctx context.Context, tx usecase.Tx, p *domain.Payment) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("payments.Create"); err != nil {
		return err
	}
	cp := *p
	t.stage(func() { r.s.payments = append(r.s.payments, &cp) })
	return nil
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, p := range r.s.payments {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrPaymentNotFound
}

func (r *paymentRepo) filter(keep func(*domain.Payment) bool) []*domain.Payment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Payment
	for _, p := range r.s.payments {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].PaidAt.Equal(out[j].PaidAt) {
			return out[i].PaidAt.After(out[j].PaidAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (r *paymentRepo) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Payment, error) {
	return r.filter(func(p *domain.Payment) bool { return p.CustomerID == customerID }), nil
}

func (r *paymentRepo) SumBetween(ctx context.Context, start, end time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, p := range r.filter(func(p *domain.Payment) bool { return within(p.PaidAt, start, end) }) {
		sum = sum.Add(p.AmountPaid)
	}
	return sum, nil
}

func (r *paymentRepo) ListRecentBetween(ctx context.Context, start, end time.Time, limit int) ([]*domain.Payment, error) {
	return page(r.filter(func(p *domain.Payment) bool { return within(p.PaidAt, start, end) }), limit, 0), nil
}

type auditRepo struct{ s *Store }

func (r *auditRepo) CreateTx(ctx context.Context, tx usecase.Tx, log *domain.AuditLog) error {
	t, err := r.s.tx(tx)
	if err != nil {
		return err
	}
	if err := r.s.fail("audit.CreateTx"); err != nil {
		return err
	}
	cp := *log
	t.stage(func() { r.s.audit = append(r.s.audit, &cp) })
	return nil
}

func within(at, start, end time.Time) bool {
	return !at.Before(start) && !at.After(end)
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func removeString(items []string, target string) []string {
	out := items[:0]
	for _, s := range items {
		if s != target {
			out = append(out, s)
		}
	}
	return out
}
