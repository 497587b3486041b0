package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// money renders an amount with exactly two decimal places.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// LoginResponse represents a login response.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// LoginFromResult converts a login result to response.
func LoginFromResult(r *usecase.LoginResult) *LoginResponse {
	return &LoginResponse{
		Token:     r.Token,
		ExpiresAt: r.ExpiresAt,
		Username:  r.Operator.Username,
		Role:      string(r.Operator.Role),
	}
}

// CustomerResponse represents a customer in API responses.
type CustomerResponse struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	PhoneNumber    string    `json:"phone_number"`
	Email          string    `json:"email"`
	Address        *string   `json:"address,omitempty"`
	CurrentBalance string    `json:"current_balance"`
	ScanCode       string    `json:"scan_code"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CustomerFromDomain converts domain customer to response.
func CustomerFromDomain(c *domain.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:             c.ID,
		FullName:       c.FullName,
		PhoneNumber:    c.PhoneNumber,
		Email:          c.Email,
		Address:        c.Address,
		CurrentBalance: money(c.CurrentBalance),
		ScanCode:       c.ScanCode(),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// CustomersFromDomain converts domain customers to responses.
func CustomersFromDomain(customers []*domain.Customer) []*CustomerResponse {
	result := make([]*CustomerResponse, len(customers))
	for i, c := range customers {
		result[i] = CustomerFromDomain(c)
	}
	return result
}

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductFromDomain converts domain product to response.
func ProductFromDomain(p *domain.Product) *ProductResponse {
	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       money(p.Price),
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ProductsFromDomain converts domain products to responses.
func ProductsFromDomain(products []*domain.Product) []*ProductResponse {
	result := make([]*ProductResponse, len(products))
	for i, p := range products {
		result[i] = ProductFromDomain(p)
	}
	return result
}

// TransactionResponse represents a recorded sale in API responses.
type TransactionResponse struct {
	ID          string    `json:"id"`
	CustomerID  string    `json:"customer_id"`
	ProductID   string    `json:"product_id"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	TotalAmount string    `json:"total_amount"`
	IsCredit    bool      `json:"is_credit"`
	Notes       *string   `json:"notes,omitempty"`
	PurchasedAt time.Time `json:"purchased_at"`
}

// TransactionFromDomain converts domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:          t.ID,
		CustomerID:  t.CustomerID,
		ProductID:   t.ProductID,
		Quantity:    t.Quantity,
		UnitPrice:   money(t.UnitPrice),
		TotalAmount: money(t.TotalAmount),
		IsCredit:    t.IsCredit,
		Notes:       t.Notes,
		PurchasedAt: t.PurchasedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txns []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txns))
	for i, t := range txns {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID            string    `json:"id"`
	CustomerID    string    `json:"customer_id"`
	TransactionID *string   `json:"transaction_id,omitempty"`
	AmountPaid    string    `json:"amount_paid"`
	PaymentMode   string    `json:"payment_mode"`
	PaidAt        time.Time `json:"paid_at"`
}

// PaymentFromDomain converts domain payment to response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		CustomerID:    p.CustomerID,
		TransactionID: p.TransactionID,
		AmountPaid:    money(p.AmountPaid),
		PaymentMode:   p.PaymentMode,
		PaidAt:        p.PaidAt,
	}
}

// PaymentsFromDomain converts domain payments to responses.
func PaymentsFromDomain(payments []*domain.Payment) []*PaymentResponse {
	result := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		result[i] = PaymentFromDomain(p)
	}
	return result
}

// SaleResponse is the outcome of recording a sale.
type SaleResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
	Balance     string               `json:"balance"`
}

// SaleFromResult converts a sale result to response.
func SaleFromResult(r *usecase.SaleResult) *SaleResponse {
	resp := &SaleResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Balance:     money(r.Balance),
	}
	if r.Payment != nil {
		resp.Payment = PaymentFromDomain(r.Payment)
	}
	return resp
}

// PaymentResultResponse is the outcome of recording a payment.
type PaymentResultResponse struct {
	Payment *PaymentResponse `json:"payment"`
	Balance string           `json:"balance"`
}

// PaymentFromResult converts a payment result to response.
func PaymentFromResult(r *usecase.PaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		Payment: PaymentFromDomain(r.Payment),
		Balance: money(r.Balance),
	}
}

// CustomerDetailsResponse is a customer with their ledger, newest first.
type CustomerDetailsResponse struct {
	Customer     *CustomerResponse      `json:"customer"`
	Transactions []*TransactionResponse `json:"transactions"`
	Payments     []*PaymentResponse     `json:"payments"`
}

// CustomerDetailsFromDomain converts domain details to response.
func CustomerDetailsFromDomain(d *domain.CustomerDetails) *CustomerDetailsResponse {
	return &CustomerDetailsResponse{
		Customer:     CustomerFromDomain(d.Customer),
		Transactions: TransactionsFromDomain(d.Transactions),
		Payments:     PaymentsFromDomain(d.Payments),
	}
}

// ReceiptResponse represents a sale or payment receipt.
type ReceiptResponse struct {
	Kind            string               `json:"kind"`
	RecordID        string               `json:"record_id"`
	ShopName        string               `json:"shop_name"`
	AppName         string               `json:"app_name"`
	IssuedAt        time.Time            `json:"issued_at"`
	CustomerID      string               `json:"customer_id"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	Sale            *TransactionResponse `json:"sale,omitempty"`
	ProductName     string               `json:"product_name,omitempty"`
	Payment         *PaymentResponse     `json:"payment,omitempty"`
	Amount          string               `json:"amount"`
	CustomerBalance string               `json:"customer_balance"`
}

// ReceiptFromDomain converts domain receipt to response.
func ReceiptFromDomain(r *domain.Receipt) *ReceiptResponse {
	resp := &ReceiptResponse{
		Kind:            string(r.Kind),
		RecordID:        r.RecordID,
		ShopName:        r.ShopName,
		AppName:         r.AppName,
		IssuedAt:        r.IssuedAt,
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		ProductName:     r.ProductName,
		Amount:          money(r.Amount),
		CustomerBalance: money(r.CustomerBalance),
	}
	if r.Sale != nil {
		resp.Sale = TransactionFromDomain(r.Sale)
	}
	if r.Payment != nil {
		resp.Payment = PaymentFromDomain(r.Payment)
	}
	return resp
}

// SaleLineResponse is a sale with display names resolved.
type SaleLineResponse struct {
	*TransactionResponse
	CustomerName string `json:"customer_name"`
	ProductName  string `json:"product_name"`
}

// PaymentLineResponse is a payment with the customer name resolved.
type PaymentLineResponse struct {
	*PaymentResponse
	CustomerName string `json:"customer_name"`
}

// DashboardResponse represents the shop summary.
type DashboardResponse struct {
	PeriodStart            time.Time              `json:"period_start"`
	PeriodEnd              time.Time              `json:"period_end"`
	TotalOutstandingCredit string                 `json:"total_outstanding_credit"`
	TotalCustomers         int                    `json:"total_customers"`
	TotalProducts          int                    `json:"total_products"`
	TopCustomersByCredit   []*CustomerResponse    `json:"top_customers_by_credit"`
	TotalSalesInPeriod     string                 `json:"total_sales_in_period"`
	TotalPaymentsInPeriod  string                 `json:"total_payments_in_period"`
	RecentTransactions     []*SaleLineResponse    `json:"recent_transactions"`
	RecentPayments         []*PaymentLineResponse `json:"recent_payments"`
	ActiveCustomers        []*CustomerResponse    `json:"active_customers"`
}

// DashboardFromDomain converts domain dashboard to response.
func DashboardFromDomain(d *domain.Dashboard) *DashboardResponse {
	resp := &DashboardResponse{
		PeriodStart:            d.PeriodStart,
		PeriodEnd:              d.PeriodEnd,
		TotalOutstandingCredit: money(d.TotalOutstandingCredit),
		TotalCustomers:         d.TotalCustomers,
		TotalProducts:          d.TotalProducts,
		TopCustomersByCredit:   CustomersFromDomain(d.TopCustomersByCredit),
		TotalSalesInPeriod:     money(d.TotalSalesInPeriod),
		TotalPaymentsInPeriod:  money(d.TotalPaymentsInPeriod),
		RecentTransactions:     make([]*SaleLineResponse, len(d.RecentTransactions)),
		RecentPayments:         make([]*PaymentLineResponse, len(d.RecentPayments)),
		ActiveCustomers:        CustomersFromDomain(d.ActiveCustomers),
	}
	for i, line := range d.RecentTransactions {
		resp.RecentTransactions[i] = &SaleLineResponse{
			TransactionResponse: TransactionFromDomain(line.Transaction),
			CustomerName:        line.CustomerName,
			ProductName:         line.ProductName,
		}
	}
	for i, line := range d.RecentPayments {
		resp.RecentPayments[i] = &PaymentLineResponse{
			PaymentResponse: PaymentFromDomain(line.Payment),
			CustomerName:    line.CustomerName,
		}
	}
	return resp
}

// ReconciliationResponse is the replay check of one customer.
type ReconciliationResponse struct {
	CustomerID        string    `json:"customer_id"`
	CustomerName      string    `json:"customer_name"`
	RecordedBalance   string    `json:"recorded_balance"`
	CalculatedBalance string    `json:"calculated_balance"`
	Difference        string    `json:"difference"`
	IsReconciled      bool      `json:"is_reconciled"`
	LastChecked       time.Time `json:"last_checked"`
}

// ReconciliationFromResult converts a reconciliation result to response.
func ReconciliationFromResult(r *usecase.ReconciliationResult) *ReconciliationResponse {
	return &ReconciliationResponse{
		CustomerID:        r.CustomerID,
		CustomerName:      r.CustomerName,
		RecordedBalance:   money(r.RecordedBalance),
		CalculatedBalance: money(r.CalculatedBalance),
		Difference:        money(r.Difference),
		IsReconciled:      r.IsReconciled,
		LastChecked:       r.LastChecked,
	}
}

// ReconciliationReportResponse is the replay check of every customer.
type ReconciliationReportResponse struct {
	TotalCustomers      int                       `json:"total_customers"`
	ReconciledCustomers int                       `json:"reconciled_customers"`
	Discrepancies       []*ReconciliationResponse `json:"discrepancies"`
	CheckedAt           time.Time                 `json:"checked_at"`
}

// ReconciliationReportFromResult converts a report to response.
func ReconciliationReportFromResult(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		TotalCustomers:      r.TotalCustomers,
		ReconciledCustomers: r.ReconciledCustomers,
		Discrepancies:       make([]*ReconciliationResponse, len(r.Discrepancies)),
		CheckedAt:           r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = ReconciliationFromResult(d)
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
