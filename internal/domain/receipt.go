package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiptKind selects which record a receipt projects.
type ReceiptKind string

const (
	ReceiptKindSale    ReceiptKind = "sale"
	ReceiptKindPayment ReceiptKind = "payment"
)

// ParseReceiptKind parses a receipt kind name.
func ParseReceiptKind(s string) (ReceiptKind, error) {
	switch k := ReceiptKind(s); k {
	case ReceiptKindSale, ReceiptKindPayment:
		return k, nil
	}
	return "", ErrInvalidReceiptKind
}

// Receipt is a read-consistent projection of one sale or payment plus the
// customer's balance at projection time.
type Receipt struct {
	Kind     ReceiptKind
	RecordID string
	ShopName string
	AppName  string
	IssuedAt time.Time

	CustomerID    string
	CustomerName  string
	CustomerPhone string

	// Set for sale receipts.
	Sale        *Transaction
	ProductName string

	// Set for payment receipts.
	Payment *Payment

	Amount          decimal.Decimal
	CustomerBalance decimal.Decimal
}
