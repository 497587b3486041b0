package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/creditbook/internal/adapter/http/dto"
	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

// ProductService defines the behavior needed by ProductHandler.
type ProductService interface {
	CreateProduct(ctx context.Context, op *domain.Operator, input usecase.ProductInput) (*domain.Product, error)
	GetProduct(ctx context.Context, op *domain.Operator, id string) (*domain.Product, error)
	ListProducts(ctx context.Context, op *domain.Operator, limit, offset int) ([]*domain.Product, error)
	UpdateProduct(ctx context.Context, op *domain.Operator, id string, input usecase.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, op *domain.Operator, id string) error
}

// ProductHandler handles product catalog requests.
type ProductHandler struct {
	productUC ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(productUC ProductService) *ProductHandler {
	return &ProductHandler{productUC: productUC}
}

// Create adds a product to the catalog.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price", err.Error())
		return
	}

	product, err := h.productUC.CreateProduct(r.Context(), operator(r), input)
	if err != nil {
		respondError(w, err, "failed to create product")
		return
	}

	writeJSON(w, http.StatusCreated, dto.ProductFromDomain(product))
}

// Get retrieves a product by ID.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productUC.GetProduct(r.Context(), operator(r), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err, "failed to get product")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProductFromDomain(product))
}

// List lists products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 20)
	offset := parseIntQuery(r, "offset", 0)

	products, err := h.productUC.ListProducts(r.Context(), operator(r), limit, offset)
	if err != nil {
		respondError(w, err, "failed to list products")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProductsFromDomain(products))
}

// Update changes a product. Recorded sales keep the price they were sold at.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.ProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid price", err.Error())
		return
	}

	product, err := h.productUC.UpdateProduct(r.Context(), operator(r), chi.URLParam(r, "id"), input)
	if err != nil {
		respondError(w, err, "failed to update product")
		return
	}

	writeJSON(w, http.StatusOK, dto.ProductFromDomain(product))
}

// Delete removes a product that no sale references.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.productUC.DeleteProduct(r.Context(), operator(r), chi.URLParam(r, "id")); err != nil {
		respondError(w, err, "failed to delete product")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
