package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCustomerApplyCredit(t *testing.T) {
	t.Parallel()

	c := &Customer{CurrentBalance: decimal.Zero}
	got := c.ApplyCredit(decimal.RequireFromString("30.00"))
	if !got.Equal(decimal.RequireFromString("30")) {
		t.Fatalf("expected 30.00, got %s", got)
	}
}

func TestCustomerApplyPayment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		balance string
		paid    string
		want    string
	}{
		{"partial", "30.00", "10.00", "20.00"},
		{"exact", "30.00", "30.00", "0"},
		{"overpayment floors at zero", "30.00", "50.00", "0"},
		{"payment on zero balance", "0", "5.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Customer{CurrentBalance: decimal.RequireFromString(tt.balance)}
			got := c.ApplyPayment(decimal.RequireFromString(tt.paid))
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestProductLineTotal(t *testing.T) {
	t.Parallel()

	p := &Product{Price: decimal.RequireFromString("10.00")}
	if got := p.LineTotal(3); !got.Equal(decimal.RequireFromString("30.00")) {
		t.Fatalf("expected 30.00, got %s", got)
	}
}

func TestCustomerScanCodeIsID(t *testing.T) {
	t.Parallel()

	c := &Customer{ID: "01HZX3Y4Z5"}
	if c.ScanCode() != c.ID {
		t.Fatalf("expected scan code %q, got %q", c.ID, c.ScanCode())
	}
}
