package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/infrastructure/postgres/generated"
	"github.com/iho/creditbook/internal/usecase"
)

// ProductRepository implements usecase.ProductRepository.
type ProductRepository struct {
	queries *generated.Queries
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *ProductRepository {
	return newProductRepository(pool)
}

func newProductRepository(db generated.DBTX) *ProductRepository {
	return &ProductRepository{queries: generated.New(db)}
}

// Create inserts a product.
func (r *ProductRepository) Create(ctx context.Context, tx usecase.Tx, product *domain.Product) error {
	return generated.New(pgxTx(tx)).CreateProduct(ctx, generated.CreateProductParams{
		ID:          product.ID,
		Name:        product.Name,
		Price:       decimalToNumeric(product.Price),
		Description: stringPtrToText(product.Description),
		CreatedAt:   timeToPgTimestamptz(product.CreatedAt),
		UpdatedAt:   timeToPgTimestamptz(product.UpdatedAt),
	})
}

// Update writes name, price and description.
func (r *ProductRepository) Update(ctx context.Context, tx usecase.Tx, product *domain.Product) error {
	n, err := generated.New(pgxTx(tx)).UpdateProduct(ctx, generated.UpdateProductParams{
		ID:          product.ID,
		Name:        product.Name,
		Price:       decimalToNumeric(product.Price),
		Description: stringPtrToText(product.Description),
		UpdatedAt:   timeToPgTimestamptz(product.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// Delete removes a product. Products referenced by a sale are kept and
// domain.ErrProductInUse is returned.
func (r *ProductRepository) Delete(ctx context.Context, tx usecase.Tx, id string) error {
	n, err := generated.New(pgxTx(tx)).DeleteProduct(ctx, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrProductInUse
		}
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}

	return nil
}

// GetByID retrieves a product by ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row, err := r.queries.GetProductByID(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrProductNotFound)
	}

	return rowToProduct(row), nil
}

// GetByIDForShare reads a product under FOR SHARE so its price cannot change
// before the sale commits.
func (r *ProductRepository) GetByIDForShare(ctx context.Context, tx usecase.Tx, id string) (*domain.Product, error) {
	row, err := generated.New(pgxTx(tx)).GetProductByIDForShare(ctx, id)
	if err != nil {
		return nil, notFound(err, domain.ErrProductNotFound)
	}

	return rowToProduct(row), nil
}

// List lists products with pagination.
func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	rows, err := r.queries.ListProducts(ctx, generated.ListProductsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, rowToProduct(row))
	}

	return products, nil
}

// Count returns the number of products.
func (r *ProductRepository) Count(ctx context.Context) (int, error) {
	n, err := r.queries.CountProducts(ctx)
	return int(n), err
}

func rowToProduct(row generated.Product) *domain.Product {
	return &domain.Product{
		ID:          row.ID,
		Name:        row.Name,
		Price:       numericToDecimal(row.Price),
		Description: textToStringPtr(row.Description),
		CreatedAt:   pgTimestamptzToTime(row.CreatedAt),
		UpdatedAt:   pgTimestamptzToTime(row.UpdatedAt),
	}
}
