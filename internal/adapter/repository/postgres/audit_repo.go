package postgres

import (
	"context"
	"encoding/json"

	"github.com/iho/creditbook/internal/domain"
	"github.com/iho/creditbook/internal/infrastructure/postgres/generated"
	"github.com/iho/creditbook/internal/usecase"
)

// AuditRepository implements usecase.AuditRepository.
type AuditRepository struct{}

// NewAuditRepository creates a new audit repository
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

// CreateTx inserts an audit log entry inside the caller's transaction.
func (r *AuditRepository) CreateTx(ctx context.Context, tx usecase.Tx, log *domain.AuditLog) error {
	var details []byte
	if log.Details != nil {
		var err error
		details, err = json.Marshal(log.Details)
		if err != nil {
			return err
		}
	}

	return generated.New(pgxTx(tx)).CreateAuditLog(ctx, generated.CreateAuditLogParams{
		ID:           log.ID,
		OperatorID:   log.OperatorID,
		Action:       string(log.Action),
		ResourceType: log.ResourceType,
		ResourceID:   log.ResourceID,
		Details:      details,
		CreatedAt:    timeToPgTimestamptz(log.CreatedAt),
	})
}
