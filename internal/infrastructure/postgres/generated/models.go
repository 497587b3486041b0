package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type AuditLog struct {
	ID           string             `json:"id"`
	OperatorID   string             `json:"operator_id"`
	Action       string             `json:"action"`
	ResourceType string             `json:"resource_type"`
	ResourceID   string             `json:"resource_id"`
	Details      []byte             `json:"details"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
}

type Customer struct {
	ID             string             `json:"id"`
	FullName       string             `json:"full_name"`
	PhoneNumber    string             `json:"phone_number"`
	Email          string             `json:"email"`
	Address        pgtype.Text        `json:"address"`
	CurrentBalance pgtype.Numeric     `json:"current_balance"`
	CreatedAt      pgtype.Timestamptz `json:"created_at"`
	UpdatedAt      pgtype.Timestamptz `json:"updated_at"`
}

type Payment struct {
	ID            string             `json:"id"`
	CustomerID    string             `json:"customer_id"`
	TransactionID pgtype.Text        `json:"transaction_id"`
	AmountPaid    pgtype.Numeric     `json:"amount_paid"`
	PaymentMode   string             `json:"payment_mode"`
	PaidAt        pgtype.Timestamptz `json:"paid_at"`
}

type Product struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Price       pgtype.Numeric     `json:"price"`
	Description pgtype.Text        `json:"description"`
	CreatedAt   pgtype.Timestamptz `json:"created_at"`
	UpdatedAt   pgtype.Timestamptz `json:"updated_at"`
}

type Transaction struct {
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
