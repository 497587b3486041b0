package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a shop customer who may buy on credit.
type Customer struct {
	ID             string
	FullName       string
	PhoneNumber    string
	Email          string
	Address        *string
	CurrentBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ScanCode is the value printed in the customer's QR code. It is the primary ID.
func (c *Customer) ScanCode() string {
	return c.ID
}

// ApplyCredit returns the balance after a credit sale of amount.
func (c *Customer) ApplyCredit(amount decimal.Decimal) decimal.Decimal {
	return c.CurrentBalance.Add(amount)
}

// ApplyPayment returns the balance after a payment of amount.
// Overpayment floors the balance at zero; the excess is not carried.
func (c *Customer) ApplyPayment(amount decimal.Decimal) decimal.Decimal {
	return floorZero(c.CurrentBalance.Sub(amount))
}

func floorZero(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
