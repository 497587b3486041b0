package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditbook/internal/adapter/http/dto"
	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

type ledgerServiceStub struct {
	saleFn    func(ctx context.Context, op *domain.Operator, input usecase.RecordSaleInput) (*usecase.SaleResult, error)
	paymentFn func(ctx context.Context, op *domain.Operator, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
}

func (s *ledgerServiceStub) RecordSale(ctx context.Context, op *domain.Operator, input usecase.RecordSaleInput) (*usecase.SaleResult, error) {
	return s.saleFn(ctx, op, input)
}

func (s *ledgerServiceStub) RecordPayment(ctx context.Context, op *domain.Operator, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error) {
	return s.paymentFn(ctx, op, input)
}

func TestLedgerHandler_RecordSale_Credit(t *testing.T) {
	var captured usecase.RecordSaleInput
	h := NewLedgerHandler(&ledgerServiceStub{
		saleFn: func(ctx context.Context, op *domain.Operator, input usecase.RecordSaleInput) (*usecase.SaleResult, error) {
			captured = input
			return &usecase.SaleResult{
				Transaction: &domain.Transaction{
					ID:          "t1",
					CustomerID:  input.CustomerID,
					ProductID:   input.ProductID,
					Quantity:    input.Quantity,
					UnitPrice:   decimal.NewFromInt(5),
					TotalAmount: decimal.NewFromInt(15),
					IsCredit:    true,
				},
				Balance: decimal.NewFromInt(15),
			}, nil
		},
	})

	body := `{"customer_id":"c1","product_id":"p1","quantity":3,"is_credit":true}`
	rec := httptest.NewRecorder()
	h.RecordSale(rec, withRequest(httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(body)), testAdmin, nil))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.True(t, captured.IsCredit)
	assert.Equal(t, 3, captured.Quantity)

	var resp dto.SaleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "15.00", resp.Balance)
	assert.Nil(t, resp.Payment)
}

func TestLedgerHandler_RecordSale_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"bad quantity", domain.ErrInvalidQuantity, http.StatusBadRequest},
		{"unknown customer", domain.ErrCustomerNotFound, http.StatusNotFound},
		{"no operator", domain.ErrMissingOperator, http.StatusUnauthorized},
		{"viewer", domain.ErrForbidden, http.StatusForbidden},
		{"timeout", domain.StorageError(context.DeadlineExceeded), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLedgerHandler(&ledgerServiceStub{
				saleFn: func(ctx context.Context, op *domain.Operator, input usecase.RecordSaleInput) (*usecase.SaleResult, error) {
					return nil, tt.err
				},
			})

			rec := httptest.NewRecorder()
			h.RecordSale(rec, withRequest(httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader(`{}`)), testAdmin, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestLedgerHandler_RecordPayment(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		paymentFn: func(ctx context.Context, op *domain.Operator, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error) {
			assert.True(t, input.AmountPaid.Equal(decimal.RequireFromString("20.75")))
			return &usecase.PaymentResult{
				Payment: &domain.Payment{ID: "pay1", CustomerID: input.CustomerID, AmountPaid: input.AmountPaid, PaymentMode: input.PaymentMode},
				Balance: decimal.Zero,
			}, nil
		},
	})

	body := `{"customer_id":"c1","amount_paid":"20.75","payment_mode":"cash"}`
	rec := httptest.NewRecorder()
	h.RecordPayment(rec, withRequest(httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(body)), testAdmin, nil))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp dto.PaymentResultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "20.75", resp.Payment.AmountPaid)
	assert.Equal(t, "0.00", resp.Balance)
}

func TestLedgerHandler_RecordPayment_MalformedAmount(t *testing.T) {
	h := NewLedgerHandler(&ledgerServiceStub{
		paymentFn: func(ctx context.Context, op *domain.Operator, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error) {
			t.Fatal("RecordPayment should not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.RecordPayment(rec, withRequest(httptest.NewRequest(http.MethodPost, "/payments", strings.NewReader(`{"customer_id":"c1","amount_paid":"lots"}`)), testAdmin, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
