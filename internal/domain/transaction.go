package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one recorded sale. It is immutable once created.
type Transaction struct {
	ID          string
	CustomerID  string
	ProductID   string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	IsCredit    bool
	Notes       *string
	PurchasedAt time.Time
}

// Payment is money received from a customer. It is immutable once created.
type Payment struct {
	ID         string
	CustomerID string
	// TransactionID links the companion payment of a non-credit sale.
	// Standalone payments leave it nil.
	TransactionID *string
	AmountPaid    decimal.Decimal
	PaymentMode   string
	PaidAt        time.Time
}

// IsCompanion reports whether the payment settled a cash sale at purchase time.
func (p *Payment) IsCompanion() bool {
	return p.TransactionID != nil
}
