package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/usecase"
)

type productServiceStub struct {
	createFn func(ctx context.Context, op *domain.Operator, input usecase.ProductInput) (*domain.Product, error)
	getFn    func(ctx context.Context, op *domain.Operator, id string) (*domain.Product, error)
	listFn   func(ctx context.Context, op *domain.Operator, limit, offset int) ([]*domain.Product, error)
	updateFn func(ctx context.Context, op *domain.Operator, id string, input usecase.ProductInput) (*domain.Product, error)
	deleteFn func(ctx context.Context, op *domain.Operator, id string) error
}

func (s *productServiceStub) CreateProduct(ctx context.Context, op *domain.Operator, input usecase.ProductInput) (*domain.Product, error) {
	return s.createFn(ctx, op, input)
}

func (s *productServiceStub) GetProduct(ctx context.Context, op *domain.Operator, id string) (*domain.Product, error) {
	return s.getFn(ctx, op, id)
}

func (s *productServiceStub) ListProducts(ctx context.Context, op *domain.Operator, limit, offset int) ([]*domain.Product, error) {
	return s.listFn(ctx, op, limit, offset)
}

func (s *productServiceStub) UpdateProduct(ctx context.Context, op *domain.Operator, id string, input usecase.ProductInput) (*domain.Product, error) {
	return s.updateFn(ctx, op, id, input)
}

func (s *productServiceStub) DeleteProduct(ctx context.Context, op *domain.Operator, id string) error {
	return s.deleteFn(ctx, op, id)
}

func TestProductHandler_Create(t *testing.T) {
	h := NewProductHandler(&productServiceStub{
		createFn: func(ctx context.Context, op *domain.Operator, input usecase.ProductInput) (*domain.Product, error) {
			assert.True(t, input.Price.Equal(decimal.RequireFromString("2.5")))
			return &domain.Product{ID: "p1", Name: input.Name, Price: input.Price}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Create(rec, withRequest(httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Tea","price":"2.50"}`)), testAdmin, nil))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"price":"2.50"`)
}

func TestProductHandler_Create_BadPrice(t *testing.T) {
	h := NewProductHandler(&productServiceStub{
		createFn: func(ctx context.Context, op *domain.Operator, input usecase.ProductInput) (*domain.Product, error) {
			t.Fatal("CreateProduct should not be called")
			return nil, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Create(rec, withRequest(httptest.NewRequest(http.MethodPost, "/products", strings.NewReader(`{"name":"Tea","price":"two"}`)), testAdmin, nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProductHandler_Update_NotFound(t *testing.T) {
	h := NewProductHandler(&productServiceStub{
		updateFn: func(ctx context.Context, op *domain.Operator, id string, input usecase.ProductInput) (*domain.Product, error) {
			return nil, domain.ErrProductNotFound
		},
	})

	rec := httptest.NewRecorder()
	h.Update(rec, withRequest(httptest.NewRequest(http.MethodPut, "/products/p9", strings.NewReader(`{"name":"Tea","price":"3"}`)), testAdmin, map[string]string{"id": "p9"}))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"deleted", nil, http.StatusNoContent},
		{"in use", domain.ErrProductInUse, http.StatusConflict},
		{"clerk", domain.ErrForbidden, http.StatusForbidden},
		{"storage", domain.StorageError(context.DeadlineExceeded), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewProductHandler(&productServiceStub{
				deleteFn: func(ctx context.Context, op *domain.Operator, id string) error { return tt.err },
			})

			rec := httptest.NewRecorder()
			h.Delete(rec, withRequest(httptest.NewRequest(http.MethodDelete, "/products/p1", nil), testAdmin, map[string]string{"id": "p1"}))

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestProductHandler_GetAndList(t *testing.T) {
	product := &domain.Product{ID: "p1", Name: "Tea", Price: decimal.NewFromInt(3)}
	h := NewProductHandler(&productServiceStub{
		getFn: func(ctx context.Context, op *domain.Operator, id string) (*domain.Product, error) {
			return product, nil
		},
		listFn: func(ctx context.Context, op *domain.Operator, limit, offset int) ([]*domain.Product, error) {
			assert.Equal(t, 20, limit)
			return []*domain.Product{product}, nil
		},
	})

	rec := httptest.NewRecorder()
	h.Get(rec, withRequest(httptest.NewRequest(http.MethodGet, "/products/p1", nil), testViewer, map[string]string{"id": "p1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"price":"3.00"`)

	rec = httptest.NewRecorder()
	h.List(rec, withRequest(httptest.NewRequest(http.MethodGet, "/products", nil), testViewer, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"id":"p1"`)
}
