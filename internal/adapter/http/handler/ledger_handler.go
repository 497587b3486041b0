package handler

import (
	"context"
	"net/http"

	"github.com/iho/creditbook/internal/adapter/http/dto"
	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	RecordSale(ctx context.Context, op *domain.Operator, input usecase.RecordSaleInput) (*usecase.SaleResult, error)
	RecordPayment(ctx context.Context, op *domain.Operator, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
}

// LedgerHandler handles sale and payment recording.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// RecordSale records a credit or cash sale.
func (h *LedgerHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordSaleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.ledgerUC.RecordSale(r.Context(), operator(r), req.ToUseCaseInput())
	if err != nil {
		respondError(w, err, "failed to record sale")
		return
	}

	writeJSON(w, http.StatusCreated, dto.SaleFromResult(result))
}

// RecordPayment records a standalone payment against a customer's balance.
func (h *LedgerHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	result, err := h.ledgerUC.RecordPayment(r.Context(), operator(r), input)
	if err != nil {
		respondError(w, err, "failed to record payment")
		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromResult(result))
}
