package domain

import (
	"encoding/json"
	"time"
)

// AuditLog is a trail entry written in the same database transaction as the
// mutation it describes.
type AuditLog struct {
	ID           string
	OperatorID   string // Who performed the action
	Action       AuditAction
	ResourceType string // customer, product, transaction, payment
	ResourceID   string
	Details      JSON
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	// Ledger actions
	AuditActionSaleRecord    AuditAction = "sale.record"
	AuditActionPaymentRecord AuditAction = "payment.record"

	// Catalog actions
	AuditActionCustomerCreate AuditAction = "customer.create"
	AuditActionCustomerUpdate AuditAction = "customer.update"
	AuditActionCustomerDelete AuditAction = "customer.delete"
	AuditActionProductCreate  AuditAction = "product.create"
	AuditActionProductUpdate  AuditAction = "product.update"
	AuditActionProductDelete  AuditAction = "product.delete"
)

// Resource types
const (
	ResourceCustomer    = "customer"
	ResourceProduct     = "product"
	ResourceTransaction = "transaction"
	ResourcePayment     = "payment"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}
