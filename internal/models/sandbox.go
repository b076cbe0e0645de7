package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is a sandbox login. Its id is the jti of the issued token.
type Session struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	IPAddress string    `db:"ip_address"`
	UserAgent string    `db:"user_agent"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
)

// Payment is a checkout the sandbox has handed a reference out for.
type Payment struct {
	Reference    string          `db:"reference"`
	AccessCode   string          `db:"access_code"`
	UserID       string          `db:"user_id"`
	Email        string          `db:"email"`
	Amount       decimal.Decimal `db:"amount"`
	PurchaseType PurchaseKind    `db:"purchase_type"`
	WorkflowID   *int64          `db:"workflow_id"`
	WorkflowName string          `db:"workflow_name"`
	Status       PaymentStatus   `db:"status"`
	CreatedAt    time.Time       `db:"created_at"`
}

// CustomRequestRecord is a stored custom-request lead.
type CustomRequestRecord struct {
	ID int64 `db:"id"`
	CustomRequest
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}
