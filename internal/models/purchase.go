package models

import "github.com/shopspring/decimal"

type PurchaseKind string

const (
	PurchaseSingle    PurchaseKind = "single"
	PurchaseAllAccess PurchaseKind = "all-access"
)

// AllAccessName is the item name sent for bundle purchases.
const AllAccessName = "All Access Pass"

// PurchaseIntent lives for exactly one payment initialization call.
type PurchaseIntent struct {
	Kind     PurchaseKind
	Email    string
	Amount   decimal.Decimal
	ItemID   *int64
	ItemName string
}

// CustomRequest is the bespoke-work lead form.
type CustomRequest struct {
	Name        string `json:"name" db:"name" validate:"required" binding:"required"`
	Email       string `json:"email" db:"email" validate:"required,email" binding:"required,email"`
	Phone       string `json:"phone" db:"phone"`
	Description string `json:"workflow_description" db:"workflow_description" validate:"required" binding:"required"`
	UseCase     string `json:"use_case" db:"use_case" validate:"required" binding:"required"`
	Budget      string `json:"budget" db:"budget"`
	Timeline    string `json:"timeline" db:"timeline"`
}
