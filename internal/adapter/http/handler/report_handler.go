package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditbook/internal/adapter/http/dto"
	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// dateLayout is the format of dashboard period bounds.
const dateLayout = "2006-01-02"

// ReceiptService builds receipts.
type ReceiptService interface {
	BuildReceipt(ctx context.Context, op *domain.Operator, kind domain.ReceiptKind, recordID string) (*domain.Receipt, error)
}

// DashboardService builds the shop summary.
type DashboardService interface {
	Summarize(ctx context.Context, op *domain.Operator, input usecase.SummarizeInput) (*domain.Dashboard, error)
}

// ReconciliationService replays customer ledgers.
type ReconciliationService interface {
	ReconcileCustomer(ctx context.Context, op *domain.Operator, customerID string) (*usecase.ReconciliationResult, error)
	GenerateReport(ctx context.Context, op *domain.Operator) (*usecase.ReconciliationReport, error)
}

// ReportHandler serves the read-side projections: receipts, the dashboard and
// reconciliation.
type ReportHandler struct {
	receiptUC   ReceiptService
	dashboardUC DashboardService
	reconcileUC ReconciliationService
	location    *time.Location
}

// NewReportHandler creates a new ReportHandler. Dashboard dates are read in loc.
func NewReportHandler(receiptUC ReceiptService, dashboardUC DashboardService, reconcileUC ReconciliationService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{
		receiptUC:   receiptUC,
		dashboardUC: dashboardUC,
		reconcileUC: reconcileUC,
		location:    loc,
	}
}

// Receipt projects a sale or payment receipt.
func (h *ReportHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseReceiptKind(chi.URLParam(r, "kind"))
	if err != nil {
		respondError(w, err, "invalid receipt kind")
		return
	}

	receipt, err := h.receiptUC.BuildReceipt(r.Context(), operator(r), kind, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "failed to build receipt")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReceiptFromDomain(receipt))
}

// Dashboard summarizes the period given by ?start=YYYY-MM-DD&end=YYYY-MM-DD.
// Missing bounds fall back to the trailing default window.
func (h *ReportHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start, err := h.parseDate(r, "start")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid start date", err.Error())
		return
	}
	end, err := h.parseDate(r, "end")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid end date", err.Error())
		return
	}

	dash, err := h.dashboardUC.Summarize(r.Context(), operator(r), usecase.SummarizeInput{Start: start, End: end})
	if err != nil {
		respondError(w, err, "failed to build dashboard")
		return
	}

	writeJSON(w, http.StatusOK, dto.DashboardFromDomain(dash))
}

func (h *ReportHandler) parseDate(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, val, h.location)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ReconcileCustomer checks one customer's cached balance against a replay.
func (h *ReportHandler) ReconcileCustomer(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconcileUC.ReconcileCustomer(r.Context(), operator(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "failed to reconcile customer")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationFromResult(result))
}

// ReconciliationReport checks every customer.
func (h *ReportHandler) ReconciliationReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reconcileUC.GenerateReport(r.Context(), operator(r))
	if err != nil {
		respondError(w, err, "failed to generate reconciliation report")
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromResult(report))
}
