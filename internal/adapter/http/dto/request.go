package dto

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// LoginRequest represents a login request.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CustomerRequest carries the editable customer fields for create and update.
type CustomerRequest struct {
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	Email       string  `json:"email"`
	Address     *string `json:"address,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CustomerRequest) ToUseCaseInput() usecase.CustomerInput {
	return usecase.CustomerInput{
		FullName:    r.FullName,
		PhoneNumber: r.PhoneNumber,
		Email:       r.Email,
		Address:     r.Address,
	}
}

// ProductRequest carries the editable product fields for create and update.
type ProductRequest struct {
	Name        string  `json:"name"`
	Price       string  `json:"price"`
	Description *string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ProductRequest) ToUseCaseInput() (usecase.ProductInput, error) {
	price, err := parseAmount("price", r.Price)
	if err != nil {
		return usecase.ProductInput{}, err
	}

	return usecase.ProductInput{
		Name:        r.Name,
		Price:       price,
		Description: r.Description,
	}, nil
}

// RecordSaleRequest represents a request to record a sale.
type RecordSaleRequest struct {
	CustomerID  string  `json:"customer_id"`
	ProductID   string  `json:"product_id"`
	Quantity    int     `json:"quantity"`
	IsCredit    bool    `json:"is_credit"`
	PaymentMode string  `json:"payment_mode,omitempty"`
	Notes       *string `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSaleRequest) ToUseCaseInput() usecase.RecordSaleInput {
	return usecase.RecordSaleInput{
		CustomerID:  r.CustomerID,
		ProductID:   r.ProductID,
		Quantity:    r.Quantity,
		IsCredit:    r.IsCredit,
		PaymentMode: r.PaymentMode,
		Notes:       r.Notes,
	}
}

// RecordPaymentRequest represents a request to record a standalone payment.
type RecordPaymentRequest struct {
	CustomerID  string `json:"customer_id"`
	AmountPaid  string `json:"amount_paid"`
	PaymentMode string `json:"payment_mode"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() (usecase.RecordPaymentInput, error) {
	amount, err := parseAmount("amount_paid", r.AmountPaid)
	if err != nil {
		return usecase.RecordPaymentInput{}, err
	}

	return usecase.RecordPaymentInput{
		CustomerID:  r.CustomerID,
		AmountPaid:  amount,
		PaymentMode: r.PaymentMode,
	}, nil
}

// ScanRequest carries a code read from a customer's QR card.
type ScanRequest struct {
	Code string `json:"code"`
}

// maxAmountLength bounds amount strings before they are parsed.
const maxAmountLength = 32

// parseAmount reads a decimal string and bounds its magnitude. Range and
// precision are checked by the use cases.
func parseAmount(field, s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is required", domain.ErrInvalidArgument, field)
	}
	if len(s) > maxAmountLength {
		return decimal.Decimal{}, fmt.Errorf("%w: %s is too long", domain.ErrInvalidArgument, field)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %s %q is not a decimal", domain.ErrInvalidArgument, field, s)
	}
	if err := domain.ValidateAmountMagnitude(d); err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s %q: %w", field, s, err)
	}
	return d, nil
}
