package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogItem is a purchasable workflow. Price arrives either as a JSON number
// or as a decimal string, both decode into decimal.Decimal.
type CatalogItem struct {
	ID          int64           `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Category    string          `json:"category" db:"category"`
	Icon        string          `json:"icon" db:"icon"`
	Description string          `json:"description,omitempty" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Tags        []string        `json:"tags,omitempty" db:"-"`
	IsActive    bool            `json:"-" db:"is_active"`
}

// Matches reports whether the lower-cased name contains the lower-cased query.
func (c CatalogItem) Matches(query string) bool {
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(query))
}
