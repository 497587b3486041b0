package generated

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createCustomer = `-- name: CreateCustomer :exec
INSERT INTO customers (id, full_name, phone_number, email, address, current_balance, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

type CreateCustomerParams struct {
	ID             string             `json:"id"`
	FullName       string             `json:"full_name"`
	PhoneNumber    string             `json:"phone_number"`
	Email          string             `json:"email"`
	Address        pgtype.Text        `json:"address"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) CreateCustomer(ctx context.Context, arg CreateCustomerParams) error {
	_, err := q.db.Exec(ctx, createCustomer,
		arg.ID,
		arg.FullName,
		arg.PhoneNumber,
		arg.Email,
		arg.Address,
		arg.CurrentBalance,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const deleteCustomer = `-- name: DeleteCustomer :execrows
DELETE FROM customers WHERE id = $1
`

func (q *Queries) DeleteCustomer(ctx context.Context, id string) (int64, error) {
	result, err := q.db.Exec(ctx, deleteCustomer, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getCustomerByID = `-- name: GetCustomerByID :one
SELECT id, full_name, phone_number, email, address, current_balance, created_at, updated_at FROM customers WHERE id = $1
`

func (q *Queries) GetCustomerByID(ctx context.Context, id string) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomerByID, id)
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.FullName,
		&i.PhoneNumber,
		&i.Email,
		&i.Address,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCustomerByIDForUpdate = `-- name: GetCustomerByIDForUpdate :one
SELECT id, full_name, phone_number, email, address, current_balance, created_at, updated_at FROM customers WHERE id = $1 FOR UPDATE
`

func (q *Queries) GetCustomerByIDForUpdate(ctx context.Context, id string) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomerByIDForUpdate, id)
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.FullName,
		&i.PhoneNumber,
		&i.Email,
		&i.Address,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCustomerByIDForShare = `-- name: GetCustomerByIDForShare :one
SELECT id, full_name, phone_number, email, address, current_balance, created_at, updated_at FROM customers WHERE id = $1 FOR SHARE
`

func (q *Queries) GetCustomerByIDForShare(ctx context.Context, id string) (Customer, error) {
	row := q.db.QueryRow(ctx, getCustomerByIDForShare, id)
	var i Customer
	err := row.Scan(
		&i.ID,
		&i.FullName,
		&i.PhoneNumber,
		&i.Email,
		&i.Address,
		&i.CurrentBalance,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCustomerStats = `-- name: GetCustomerStats :one
SELECT COUNT(*) AS count, COALESCE(SUM(current_balance), 0)::numeric AS total_outstanding FROM customers
`

type GetCustomerStatsRow struct {
	Count            int64          `json:"count"`
	TotalOutstanding pgtype.Numeric `json:"total_outstanding"`
}

func (q *Queries) GetCustomerStats(ctx context.Context) (GetCustomerStatsRow, error) {
	row := q.db.QueryRow(ctx, getCustomerStats)
	var i GetCustomerStatsRow
	err := row.Scan(&i.Count, &i.TotalOutstanding)
	return i, err
}

const listActiveCustomersBetween = `-- name: ListActiveCustomersBetween :many
SELECT c.id, c.full_name, c.phone_number, c.email, c.address, c.current_balance, c.created_at, c.updated_at FROM customers c
WHERE EXISTS (
    SELECT 1 FROM transactions t WHERE t.customer_id = c.id AND t.purchased_at BETWEEN $1 AND $2
) OR EXISTS (
    SELECT 1 FROM payments p WHERE p.customer_id = c.id AND p.paid_at BETWEEN $1 AND $2
)
ORDER BY c.full_name, c.created_at, c.id
`

type ListActiveCustomersBetweenParams struct {
	Start pgtype.Timestamptz `json:"start"`
	End   pgtype.Timestamptz `json:"end"`
}

func (q *Queries) ListActiveCustomersBetween(ctx context.Context, arg ListActiveCustomersBetweenParams) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listActiveCustomersBetween, arg.Start, arg.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		var i Customer
		if err := rows.Scan(
			&i.ID,
			&i.FullName,
			&i.PhoneNumber,
			&i.Email,
			&i.Address,
			&i.CurrentBalance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listAllCustomers = `-- name: ListAllCustomers :many
SELECT id, full_name, phone_number, email, address, current_balance, created_at, updated_at FROM customers ORDER BY created_at, id
`

func (q *Queries) ListAllCustomers(ctx context.Context) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listAllCustomers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		var i Customer
		if err := rows.Scan(
			&i.ID,
			&i.FullName,
			&i.PhoneNumber,
			&i.Email,
			&i.Address,
			&i.CurrentBalance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listCustomers = `-- name: ListCustomers :many
SELECT id, full_name, phone_number, email, address, current_balance, created_at, updated_at FROM customers ORDER BY created_at, id LIMIT $1 OFFSET $2
`

type ListCustomersParams struct {
	Limit  int32 `json:"limit"`
	Offset int32 `json:"offset"`
}

func (q *Queries) ListCustomers(ctx context.Context, arg ListCustomersParams) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listCustomers, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		var i Customer
		if err := rows.Scan(
			&i.ID,
			&i.FullName,
			&i.PhoneNumber,
			&i.Email,
			&i.Address,
			&i.CurrentBalance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const listTopCustomersByBalance = `-- name: ListTopCustomersByBalance :many
SELECT id, full_name, phone_number, email, address, current_balance, created_at, updated_at FROM customers
ORDER BY current_balance DESC, created_at, id
LIMIT $1
`

func (q *Queries) ListTopCustomersByBalance(ctx context.Context, limit int32) ([]Customer, error) {
	rows, err := q.db.Query(ctx, listTopCustomersByBalance, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Customer{}
	for rows.Next() {
		var i Customer
		if err := rows.Scan(
			&i.ID,
			&i.FullName,
			&i.PhoneNumber,
			&i.Email,
			&i.Address,
			&i.CurrentBalance,
			&i.CreatedAt,
			&i.UpdatedAt,
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

const updateCustomer = `-- name: UpdateCustomer :execrows
UPDATE customers SET full_name = $2, phone_number = $3, email = $4, address = $5, updated_at = $6 WHERE id = $1
`

type UpdateCustomerParams struct {
	ID          string             `json:"id"`
	FullName    string             `json:"full_name"`
	PhoneNumber string             `json:"phone_number"`
	Email       string             `json:"email"`
	Address     pgtype.Text        `json:"address"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCustomer(ctx context.Context, arg UpdateCustomerParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateCustomer,
		arg.ID,
		arg.FullName,
		arg.PhoneNumber,
		arg.Email,
		arg.Address,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const updateCustomerBalance = `-- name: UpdateCustomerBalance :execrows
UPDATE customers SET current_balance = $2, updated_at = $3 WHERE id = $1
`

type UpdateCustomerBalanceParams struct {
	ID             string             `json:"id"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

func (q *Queries) UpdateCustomerBalance(ctx context.Context, arg UpdateCustomerBalanceParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateCustomerBalance, arg.ID, arg.CurrentBalance, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
