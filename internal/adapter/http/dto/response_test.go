package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

func TestCustomerFromDomain(t *testing.T) {
	now := time.Now()
	customer := &domain.Customer{
		ID:             "01HZX3M4Q8W5V6B7N8C9D0E1F2",
		FullName:       "Asha Patel",
		PhoneNumber:    "+15551234567",
		CurrentBalance: decimal.RequireFromString("123.4"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	resp := CustomerFromDomain(customer)
	if resp.ID != customer.ID || resp.CurrentBalance != "123.40" || resp.ScanCode != customer.ID {
		t.Fatalf("unexpected customer response: %+v", resp)
	}

	list := CustomersFromDomain([]*domain.Customer{customer})
	if len(list) != 1 || list[0].ID != customer.ID {
		t.Fatalf("CustomersFromDomain returned %+v", list)
	}
}

func TestSaleFromResult(t *testing.T) {
	txID := "tx-1"
	result := &usecase.SaleResult{
		Transaction: &domain.Transaction{
			ID:          txID,
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("5"),
			TotalAmount: decimal.RequireFromString("10"),
		},
		Payment: &domain.Payment{
			ID:            "pay-1",
			TransactionID: &txID,
			AmountPaid:    decimal.RequireFromString("10"),
			PaymentMode:   "cash",
		},
		Balance: decimal.Zero,
	}

	resp := SaleFromResult(result)
	if resp.Transaction.TotalAmount != "10.00" || resp.Transaction.UnitPrice != "5.00" {
		t.Fatalf("unexpected transaction response: %+v", resp.Transaction)
	}
	if resp.Payment == nil || resp.Payment.TransactionID == nil || *resp.Payment.TransactionID != txID {
		t.Fatalf("expected companion payment, got %+v", resp.Payment)
	}
	if resp.Balance != "0.00" {
		t.Fatalf("expected balance 0.00, got %s", resp.Balance)
	}

	credit := SaleFromResult(&usecase.SaleResult{Transaction: result.Transaction, Balance: decimal.NewFromInt(10)})
	if credit.Payment != nil {
		t.Fatalf("credit sale must not carry a payment")
	}
}

func TestDashboardFromDomain_EncodesAmountsAsStrings(t *testing.T) {
	dash := &domain.Dashboard{
		TotalOutstandingCredit: decimal.RequireFromString("250"),
		TotalSalesInPeriod:     decimal.RequireFromString("99.9"),
		TotalPaymentsInPeriod:  decimal.Zero,
		RecentTransactions: []domain.SaleLine{{
			Transaction:  &domain.Transaction{ID: "tx-1", TotalAmount: decimal.NewFromInt(4)},
			CustomerName: "Asha",
			ProductName:  "Tea",
		}},
		RecentPayments: []domain.PaymentLine{{
			Payment:      &domain.Payment{ID: "pay-1", AmountPaid: decimal.NewFromInt(1)},
			CustomerName: "Asha",
		}},
	}

	raw, err := json.Marshal(DashboardFromDomain(dash))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if decoded["total_outstanding_credit"] != "250.00" || decoded["total_sales_in_period"] != "99.90" {
		t.Fatalf("unexpected totals: %s", raw)
	}

	recent := decoded["recent_transactions"].([]any)
	line := recent[0].(map[string]any)
	if line["id"] != "tx-1" || line["product_name"] != "Tea" || line["total_amount"] != "4.00" {
		t.Fatalf("sale line not flattened: %v", line)
	}

	payments := decoded["recent_payments"].([]any)
	if payments[0].(map[string]any)["customer_name"] != "Asha" {
		t.Fatalf("payment line missing customer name: %v", payments[0])
	}
}

func TestReconciliationReportFromResult(t *testing.T) {
	report := &usecase.ReconciliationReport{
		TotalCustomers:      2,
		ReconciledCustomers: 1,
		Discrepancies: []*usecase.ReconciliationResult{{
			CustomerID:        "c1",
			RecordedBalance:   decimal.RequireFromString("100"),
			CalculatedBalance: decimal.RequireFromString("11"),
			Difference:        decimal.RequireFromString("89"),
		}},
	}

	resp := ReconciliationReportFromResult(report)
	if resp.TotalCustomers != 2 || len(resp.Discrepancies) != 1 || resp.Discrepancies[0].Difference != "89.00" {
		t.Fatalf("unexpected report response: %+v", resp)
	}
}

func TestReceiptFromDomain(t *testing.T) {
	receipt := &domain.Receipt{
		Kind:            domain.ReceiptKindPayment,
		RecordID:        "pay-1",
		ShopName:        "Corner Shop",
		Payment:         &domain.Payment{ID: "pay-1", AmountPaid: decimal.NewFromInt(20)},
		Amount:          decimal.NewFromInt(20),
		CustomerBalance: decimal.RequireFromString("5.5"),
	}

	resp := ReceiptFromDomain(receipt)
	if resp.Kind != "payment" || resp.Sale != nil || resp.Payment == nil {
		t.Fatalf("unexpected receipt response: %+v", resp)
	}
	if resp.Amount != "20.00" || resp.CustomerBalance != "5.50" {
		t.Fatalf("unexpected amounts: %+v", resp)
	}
}
