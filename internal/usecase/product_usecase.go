package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/creditbook/internal/domain"
)

// ProductUseCase manages the product catalog.
type ProductUseCase struct {
	txManager   TxManager
	productRepo ProductRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	clock       Clock
	logger      zerolog.Logger
}

// NewProductUseCase creates a new ProductUseCase.
func NewProductUseCase(
	txManager TxManager,
	productRepo ProductRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	logger zerolog.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		txManager:   txManager,
		productRepo: productRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		clock:       SystemClock{},
		logger:      logger.With().Str("component", "products").Logger(),
	}
}

// WithClock overrides the clock.
func (uc *ProductUseCase) WithClock(c Clock) *ProductUseCase {
	uc.clock = c
	return uc
}

// ProductInput carries the editable product fields.
type ProductInput struct {
	Name        string
	Price       decimal.Decimal
	Description *string
}

func (in *ProductInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			in.Description = nil
		} else {
			in.Description = &desc
		}
	}
}

func (in *ProductInput) validate() error {
	if err := domain.ValidateProductName(in.Name); err != nil {
		return err
	}
	if err := domain.ValidatePrice(in.Price); err != nil {
		return err
	}
	return domain.ValidateDescription(in.Description)
}

// CreateProduct adds a product to the catalog.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, op *domain.Operator, input ProductInput) (*domain.Product, error) {
	if err := domain.Authorize(op, domain.PermRecord); err != nil {
		return nil, err
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	product := &domain.Product{
		ID:          uc.idGen.Generate(),
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := runInTx(ctx, uc.txManager, func(txCtx context.Context, tx Tx) error {
		if err := uc.productRepo.Create(txCtx, tx, product); err != nil {
			return err
		}
		return writeAudit(txCtx, uc.auditRepo, uc.idGen, uc.clock, tx, op,
			domain.AuditActionProductCreate, domain.ResourceProduct, product.ID, domain.MarshalState(product))
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info().Str("operator_id", op.ID).Str("product_id", product.ID).Msg("product created")

	return product, nil
}

// GetProduct retrieves a product by ID.
func (uc *ProductUseCase) GetProduct(ctx context.Context, op *domain.Operator, id string) (*domain.Product, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	product, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return product, nil
}

// ListProducts lists products with pagination.
func (uc *ProductUseCase) ListProducts(ctx context.Context, op *domain.Operator, limit, offset int) ([]*domain.Product, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	limit, offset, _ = domain.ValidatePagination(limit, offset)

	products, err := uc.productRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	return products, nil
}

// UpdateProduct edits a product. Recorded sales keep the unit price they captured.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, op *domain.Operator, id string, input ProductInput) (*domain.Product, error) {
	if err := domain.Authorize(op, domain.PermRecord); err != nil {
		return nil, err
	}

	input.normalize()
	if err := input.validate(); err != nil {
		return nil, err
	}

	var updated *domain.Product
	err := runInTx(ctx, uc.txManager, func(txCtx context.Context, tx Tx) error {
		product, err := uc.productRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		before := domain.MarshalState(product)

		product.Name = input.Name
		product.Price = input.Price
		product.Description = input.Description
		product.UpdatedAt = uc.clock.Now()

		if err := uc.productRepo.Update(txCtx, tx, product); err != nil {
			return err
		}

		updated = product
		return writeAudit(txCtx, uc.auditRepo, uc.idGen, uc.clock, tx, op,
			domain.AuditActionProductUpdate, domain.ResourceProduct, id,
			domain.JSON{"before": before, "after": domain.MarshalState(product)})
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteProduct removes a product no sale refers to.
func (uc *ProductUseCase) DeleteProduct(ctx context.Context, op *domain.Operator, id string) error {
	if err := domain.Authorize(op, domain.PermDelete); err != nil {
		return err
	}

	err := runInTx(ctx, uc.txManager, func(txCtx context.Context, tx Tx) error {
		if err := uc.productRepo.Delete(txCtx, tx, id); err != nil {
			return err
		}
		return writeAudit(txCtx, uc.auditRepo, uc.idGen, uc.clock, tx, op,
			domain.AuditActionProductDelete, domain.ResourceProduct, id, nil)
	})
	if err != nil {
		return err
	}

	uc.logger.Info().Str("operator_id", op.ID).Str("product_id", id).Msg("product deleted")

	return nil
}
