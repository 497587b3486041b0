package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditbook/internal/adapter/http/dto"
	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// CustomerService defines the behavior needed by CustomerHandler.
type CustomerService interface {
	CreateCustomer(ctx context.Context, op *domain.Operator, input usecase.CustomerInput) (*domain.Customer, error)
	GetCustomer(ctx context.Context, op *domain.Operator, id string) (*domain.Customer, error)
	ListCustomers(ctx context.Context, op *domain.Operator, limit, offset int) ([]*domain.Customer, error)
	UpdateCustomer(ctx context.Context, op *domain.Operator, id string, input usecase.CustomerInput) (*domain.Customer, error)
	DeleteCustomer(ctx context.Context, op *domain.Operator, id string) error
	GetCustomerDetails(ctx context.Context, op *domain.Operator, id string) (*domain.CustomerDetails, error)
	ResolveScan(ctx context.Context, op *domain.Operator, code string) (*domain.Customer, error)
}

// QRCodeService renders customer QR cards.
type QRCodeService interface {
	CustomerQRCode(ctx context.Context, op *domain.Operator, customerID string) ([]byte, error)
	Forget(ctx context.Context, customerID string)
}

// CustomerHandler handles customer-related HTTP requests.
type CustomerHandler struct {
	customerUC CustomerService
	qrUC       QRCodeService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customerUC CustomerService, qrUC QRCodeService) *CustomerHandler {
	return &CustomerHandler{customerUC: customerUC, qrUC: qrUC}
}

// Create registers a new customer.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customerUC.CreateCustomer(r.Context(), operator(r), req.ToUseCaseInput())
	if err != nil {
		respondError(w, err, "failed to create customer")
		return
	}

	writeJSON(w, http.StatusCreated, dto.CustomerFromDomain(customer))
}

// Get retrieves a customer by ID.
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	customer, err := h.customerUC.GetCustomer(r.Context(), operator(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "failed to get customer")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// List lists customers.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	customers, err := h.customerUC.ListCustomers(r.Context(), operator(r), limit, offset)
	if err != nil {
		respondError(w, err, "failed to list customers")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomersFromDomain(customers))
}

// Update replaces a customer's contact fields.
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.CustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customerUC.UpdateCustomer(r.Context(), operator(r), chi.URLParam(r, "id"), req.ToUseCaseInput())
	if err != nil {
		respondError(w, err, "failed to update customer")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}

// Delete removes a customer together with their ledger.
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.customerUC.DeleteCustomer(r.Context(), operator(r), id); err != nil {
		respondError(w, err, "failed to delete customer")
		return
	}
	h.qrUC.Forget(r.Context(), id)

	w.WriteHeader(http.StatusNoContent)
}

// Details returns a customer with all sales and payments, newest first.
func (h *CustomerHandler) Details(w http.ResponseWriter, r *http.Request) {
	details, err := h.customerUC.GetCustomerDetails(r.Context(), operator(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "failed to get customer details")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerDetailsFromDomain(details))
}

// QRCode returns the customer's QR card as a PNG.
func (h *CustomerHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	png, err := h.qrUC.CustomerQRCode(r.Context(), operator(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "failed to render qr code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// Scan resolves a scanned QR code to its customer.
func (h *CustomerHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req dto.ScanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	customer, err := h.customerUC.ResolveScan(r.Context(), operator(r), req.Code)
	if err != nil {
		respondError(w, err, "failed to resolve scan")
		return
	}

	writeJSON(w, http.StatusOK, dto.CustomerFromDomain(customer))
}
