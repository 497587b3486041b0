package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Dashboard is the shop summary for a period.
type Dashboard struct {
	PeriodStart time.Time
	PeriodEnd   time.Time

	// Whole history.
	TotalOutstandingCredit decimal.Decimal
	TotalCustomers         int
	TotalProducts          int
	TopCustomersByCredit   []*Customer

	// Period only.
	TotalSalesInPeriod    decimal.Decimal
	TotalPaymentsInPeriod decimal.Decimal
	RecentTransactions    []SaleLine
	RecentPayments        []PaymentLine
	ActiveCustomers       []*Customer
}

// SaleLine is a transaction with display names resolved.
type SaleLine struct {
	Transaction  *Transaction
	CustomerName string
	ProductName  string
}

// PaymentLine is a payment with the customer name resolved.
type PaymentLine struct {
	Payment      *Payment
	CustomerName string
}

// CustomerDetails is a customer together with their full ledger, newest first.
type CustomerDetails struct {
	Customer     *Customer
	Transactions []*Transaction
	Payments     []*Payment
}
