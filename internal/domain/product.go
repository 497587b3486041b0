package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is an item the shop sells.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineTotal returns price × quantity at the product's current price.
func (p *Product) LineTotal(quantity int) decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
