package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createPayment = `-- name: CreatePayment :exec
INSERT INTO payments (id, customer_id, transaction_id, amount_paid, payment_mode, paid_at)
VALUES ($1, $2, $3, $4, $5, $6)
`

type CreatePaymentParams struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customer_id"`
	TransactionID pgtype.Text        `json:"transaction_id"`
	AmountPaid    pgtype.Numeric     `json:"amount_paid"`
	PaymentMode   string             `json:"payment_mode"`
	PaidAt        pgtype.Timestamptz `json:"paid_at"`
}

func (q *Queries) CreatePayment(ctx context.Context, arg CreatePaymentParams) error {
	_, err := q.db.Exec(ctx, createPayment,
		arg.ID,
		arg.CustomerID,
		arg.TransactionID,
		arg.AmountPaid,
		arg.PaymentMode,
		arg.PaidAt,
	)
	return err
}

const getPaymentByID = `-- name: GetPaymentByID :one
SELECT id, customer_id, transaction_id, amount_paid, payment_mode, paid_at FROM payments WHERE id = $1
`

func (q *Queries) GetPaymentByID(ctx context.Context, id string) (Payment, error) {
	row := q.db.QueryRow(ctx, getPaymentByID, id)
	var i Payment
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.TransactionID,
		&i.AmountPaid,
		&i.PaymentMode,
		&i.PaidAt,
	)
	return i, err
}

const listPaymentsByCustomer = `-- name: ListPaymentsByCustomer :many
SELECT id, customer_id, transaction_id, amount_paid, payment_mode, paid_at FROM payments
WHERE customer_id = $1
ORDER BY paid_at DESC, id DESC
`

func (q *Queries) ListPaymentsByCustomer(ctx context.Context, customerID string) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listPaymentsByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Payment{}
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.ID,
			&i.CustomerID,
			&i.TransactionID,
			&i.AmountPaid,
			&i.PaymentMode,
			&i.PaidAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRecentPaymentsBetween = `-- name: ListRecentPaymentsBetween :many
SELECT id, customer_id, transaction_id, amount_paid, payment_mode, paid_at FROM payments
WHERE paid_at BETWEEN $1 AND $2
ORDER BY paid_at DESC, id DESC
LIMIT $3
`

type ListRecentPaymentsBetweenParams struct {
	Start pgtype.Timestamptz `json:"start"`
	End   pgtype.Timestamptz `json:"end"`
	Limit int32              `json:"limit"`
}

func (q *Queries) ListRecentPaymentsBetween(ctx context.Context, arg ListRecentPaymentsBetweenParams) ([]Payment, error) {
	rows, err := q.db.Query(ctx, listRecentPaymentsBetween, arg.Start, arg.End, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Payment{}
	for rows.Next() {
		var i Payment
		if err := rows.Scan(
			&i.ID,
			&i.CustomerID,
			&i.TransactionID,
			&i.AmountPaid,
			&i.PaymentMode,
			&i.PaidAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const sumPaymentsBetween = `-- name: SumPaymentsBetween :one
SELECT COALESCE(SUM(amount_paid), 0)::numeric AS total FROM payments WHERE paid_at BETWEEN $1 AND $2
`

type SumPaymentsBetweenParams struct {
	Start pgtype.Timestamptz `json:"start"`
	End   pgtype.Timestamptz `json:"end"`
}

func (q *Queries) SumPaymentsBetween(ctx context.Context, arg SumPaymentsBetweenParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumPaymentsBetween, arg.Start, arg.End)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
