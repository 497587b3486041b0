package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/creditbook/internal/domain"
)

// QRCodeUseCase renders customer scan codes. Images are cached; balances are not.
type QRCodeUseCase struct {
	customerRepo CustomerRepository
	renderer     QRRenderer
	cache        Cache
	logger       zerolog.Logger
}

// NewQRCodeUseCase creates a new QRCodeUseCase. cache may be nil.
func NewQRCodeUseCase(customerRepo CustomerRepository, renderer QRRenderer, cache Cache, logger zerolog.Logger) *QRCodeUseCase {
	return &QRCodeUseCase{
		customerRepo: customerRepo,
		renderer:     renderer,
		cache:        cache,
		logger:       logger.With().Str("component", "qrcode").Logger(),
	}
}

func qrCacheKey(customerID string) string {
	return "qrcode:" + customerID
}

// CustomerQRCode returns a PNG encoding the customer's scan code.
func (uc *QRCodeUseCase) CustomerQRCode(ctx context.Context, op *domain.Operator, customerID string) ([]byte, error) {
	if err := domain.Authorize(op, domain.PermView); err != nil {
		return nil, err
	}

	customer, err := uc.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, domain.StorageError(err)
	}

	key := qrCacheKey(customer.ID)
	if uc.cache != nil {
		cached, err := uc.cache.Get(ctx, key)
		if err != nil {
			uc.logger.Warn().Err(err).Str("customer_id", customer.ID).Msg("qr cache read failed")
		} else if len(cached) > 0 {
			return cached, nil
		}
	}

	png, err := uc.renderer.Render(customer.ScanCode())
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, key, png, QRCacheTTL); err != nil {
			uc.logger.Warn().Err(err).Str("customer_id", customer.ID).Msg("qr cache write failed")
		}
	}

	return png, nil
}

// Forget drops the cached image of a deleted customer.
func (uc *QRCodeUseCase) Forget(ctx context.Context, customerID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, qrCacheKey(customerID)); err != nil {
		uc.logger.Warn().Err(err).Str("customer_id", customerID).Msg("qr cache delete failed")
	}
}
