package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidCustomerName = newKindError(ErrInvalidArgument, "invalid customer name")
	ErrInvalidPhone        = newKindError(ErrInvalidArgument, "invalid phone number")
	ErrInvalidEmail        = newKindError(ErrInvalidArgument, "invalid email format")
	ErrInvalidAddress      = newKindError(ErrInvalidArgument, "invalid address")
	ErrInvalidProductName  = newKindError(ErrInvalidArgument, "invalid product name")
	ErrInvalidPrice        = newKindError(ErrInvalidArgument, "invalid price")
	ErrInvalidDescription  = newKindError(ErrInvalidArgument, "invalid description")
	ErrInvalidPaymentMode  = newKindError(ErrInvalidArgument, "invalid payment mode")
	ErrInvalidNotes        = newKindError(ErrInvalidArgument, "invalid notes")
	ErrAmountTooLarge      = newKindError(ErrInvalidArgument, "amount exceeds maximum allowed")
	ErrAmountPrecision     = newKindError(ErrInvalidArgument, "amount has more than 2 decimal places")
)

// Validation constants
const (
	MaxCustomerNameLength = 100
	MaxPhoneLength        = 15
	MaxEmailLength        = 100
	MaxAddressLength      = 200
	MaxProductNameLength  = 100
	MaxDescriptionLength  = 500
	MaxPaymentModeLength  = 50
	MaxNotesLength        = 500

	MinQuantity = 1
	MaxQuantity = 10000

	MinPrice      = "0.01"
	MaxPrice      = "100000"
	MaxAmountPaid = "10000000"

	// MoneyScale is the number of decimal places every amount is stored with.
	MoneyScale = 2

	// Decimal exponents outside [MinAmountExponent, MaxAmountExponent] are
	// rejected before any comparison or rescale.
	MinAmountExponent = -18
	MaxAmountExponent = 8
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 ()-]*[0-9]$`)

	minPrice      = decimal.RequireFromString(MinPrice)
	maxPrice      = decimal.RequireFromString(MaxPrice)
	maxAmountPaid = decimal.RequireFromString(MaxAmountPaid)
)

func checkLength(base error, field, value string, maxLen int, required bool) error {
	n := utf8.RuneCountInString(value)
	if required && n == 0 {
		return invalidf(base, "%s cannot be empty", field)
	}
	if n > maxLen {
		return invalidf(base, "%s exceeds %d characters", field, maxLen)
	}
	return nil
}

// ValidateCustomerName validates a customer's full name
func ValidateCustomerName(name string) error {
	return checkLength(ErrInvalidCustomerName, "name", strings.TrimSpace(name), MaxCustomerNameLength, true)
}

// ValidatePhone validates phone number format
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if err := checkLength(ErrInvalidPhone, "phone number", phone, MaxPhoneLength, true); err != nil {
		return err
	}
	if !phoneRegex.MatchString(phone) {
		return invalidf(ErrInvalidPhone, "%q is not a phone number", phone)
	}
	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := checkLength(ErrInvalidEmail, "email", email, MaxEmailLength, true); err != nil {
		return err
	}
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateAddress validates the optional customer address
func ValidateAddress(address *string) error {
	if address == nil {
		return nil
	}
	return checkLength(ErrInvalidAddress, "address", *address, MaxAddressLength, false)
}

// ValidateProductName validates product name
func ValidateProductName(name string) error {
	return checkLength(ErrInvalidProductName, "name", strings.TrimSpace(name), MaxProductNameLength, true)
}

// ValidateDescription validates the optional product description
func ValidateDescription(description *string) error {
	if description == nil {
		return nil
	}
	return checkLength(ErrInvalidDescription, "description", *description, MaxDescriptionLength, false)
}

// ValidatePrice validates a product unit price
func ValidatePrice(price decimal.Decimal) error {
	if err := ValidateMoneyScale(price); err != nil {
		return err
	}
	if price.LessThan(minPrice) || price.GreaterThan(maxPrice) {
		return invalidf(ErrInvalidPrice, "price must be between %s and %s", MinPrice, MaxPrice)
	}
	return nil
}

// ValidateQuantity validates a sale quantity
func ValidateQuantity(quantity int) error {
	if quantity < MinQuantity {
		return ErrInvalidQuantity
	}
	if quantity > MaxQuantity {
		return invalidf(ErrInvalidQuantity, "quantity cannot exceed %d", MaxQuantity)
	}
	return nil
}

// ValidateAmount validates a payment amount
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if err := ValidateMoneyScale(amount); err != nil {
		return err
	}
	if amount.GreaterThan(maxAmountPaid) {
		return invalidf(ErrAmountTooLarge, "maximum amount is %s", MaxAmountPaid)
	}
	return nil
}

// ValidateMoneyScale rejects amounts that cannot be stored at 2 decimal places
// without rounding.
func ValidateMoneyScale(amount decimal.Decimal) error {
	if err := ValidateAmountMagnitude(amount); err != nil {
		return err
	}
	if !amount.Equal(amount.Truncate(MoneyScale)) {
		return ErrAmountPrecision
	}
	return nil
}

// ValidateAmountMagnitude bounds the decimal exponent. Every valid amount
// fits; "1e-20000000" and "1e20000000" do not.
func ValidateAmountMagnitude(amount decimal.Decimal) error {
	switch exp := amount.Exponent(); {
	case exp > MaxAmountExponent:
		return ErrAmountTooLarge
	case exp < MinAmountExponent:
		return ErrAmountPrecision
	}
	return nil
}

// ValidatePaymentMode validates payment mode (e.g. Cash, UPI, Card)
func ValidatePaymentMode(mode string) error {
	mode = strings.TrimSpace(mode)
	if mode == "" {
		return ErrPaymentModeRequired
	}
	return checkLength(ErrInvalidPaymentMode, "payment mode", mode, MaxPaymentModeLength, true)
}

// ValidateNotes validates optional sale notes
func ValidateNotes(notes *string) error {
	if notes == nil {
		return nil
	}
	return checkLength(ErrInvalidNotes, "notes", *notes, MaxNotesLength, false)
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}

// NormalizeMoney rounds to the stored scale for display and comparison.
func NormalizeMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// FormatMoney renders an amount with exactly two decimal places.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
