package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createTransaction = `-- name: CreateTransaction :exec
INSERT INTO transactions (id, customer_id, product_id, quantity, unit_price, total_amount, is_credit, notes, purchased_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`

type CreateTransactionParams struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer_id"`
	ProductID   string             `json:"product_id"`
	Quantity    int32              `json:"quantity"`
	UnitPrice   pgtype.Numeric     `json:"unit_price"`
	TotalAmount pgtype.Numeric     `json:"total_amount"`
	IsCredit    bool               `json:"is_credit"`
	Notes       pgtype.Text        `json:"notes"`
	PurchasedAt pgtype.Timestamptz `json:"purchased_at"`
}

func (q *Queries) CreateTransaction(ctx context.Context, arg CreateTransactionParams) error {
	_, err := q.db.Exec(ctx, createTransaction,
		arg.ID,
		arg.CustomerID,
		arg.ProductID,
		arg.Quantity,
		arg.UnitPrice,
		arg.TotalAmount,
		arg.IsCredit,
		arg.Notes,
		arg.PurchasedAt,
	)
	return err
}

const getTransactionByID = `-- name: GetTransactionByID :one
SELECT id, customer_id, product_id, quantity, unit_price, total_amount, is_credit, notes, purchased_at FROM transactions WHERE id = $1
`

func (q *Queries) GetTransactionByID(ctx context.Context, id string) (Transaction, error) {
	row := q.db.QueryRow(ctx, getTransactionByID, id)
	var i Transaction
	err := row.Scan(
		&i.ID,
		&i.CustomerID,
		&i.ProductID,
		&i.Quantity,
		&i.UnitPrice,
		&i.TotalAmount,
		&i.IsCredit,
		&i.Notes,
		&i.PurchasedAt,
	)
	return i, err
}

const listRecentTransactionsBetween = `-- name: ListRecentTransactionsBetween :many
SELECT id, customer_id, product_id, quantity, unit_price, total_amount, is_credit, notes, purchased_at FROM transactions
WHERE purchased_at BETWEEN $1 AND $2
ORDER BY purchased_at DESC, id DESC
LIMIT $3
`

type ListRecentTransactionsBetweenParams struct {
	Start pgtype.Timestamptz `json:"start"`
	End   pgtype.Timestamptz `json:"end"`
	Limit int32              `json:"limit"`
}

func (q *Queries) ListRecentTransactionsBetween(ctx context.Context, arg ListRecentTransactionsBetweenParams) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listRecentTransactionsBetween, arg.Start, arg.End, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.CustomerID,
			&i.ProductID,
			&i.Quantity,
			&i.UnitPrice,
			&i.TotalAmount,
			&i.IsCredit,
			&i.Notes,
			&i.PurchasedAt,
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

const listTransactionsByCustomer = `-- name: ListTransactionsByCustomer :many
SELECT id, customer_id, product_id, quantity, unit_price, total_amount, is_credit, notes, purchased_at FROM transactions
WHERE customer_id = $1
ORDER BY purchased_at DESC, id DESC
`

func (q *Queries) ListTransactionsByCustomer(ctx context.Context, customerID string) ([]Transaction, error) {
	rows, err := q.db.Query(ctx, listTransactionsByCustomer, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Transaction{}
	for rows.Next() {
		var i Transaction
		if err := rows.Scan(
			&i.ID,
			&i.CustomerID,
			&i.ProductID,
			&i.Quantity,
			&i.UnitPrice,
			&i.TotalAmount,
			&i.IsCredit,
			&i.Notes,
			&i.PurchasedAt,
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

const sumTransactionsBetween = `-- name: SumTransactionsBetween :one
SELECT COALESCE(SUM(total_amount), 0)::numeric AS total FROM transactions WHERE purchased_at BETWEEN $1 AND $2
`

type SumTransactionsBetweenParams struct {
	Start pgtype.Timestamptz `json:"start"`
	End   pgtype.Timestamptz `json:"end"`
}

func (q *Queries) SumTransactionsBetween(ctx context.Context, arg SumTransactionsBetweenParams) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumTransactionsBetween, arg.Start, arg.End)
	var total pgtype.Numeric
	err := row.Scan(&total)
	return total, err
}
