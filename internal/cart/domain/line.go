package domain

import (
	"strings"

	"github.com/dwikikusuma/shopping-cart/pkg/apperr"
	"github.com/shopspring/decimal"
)

// Line is a snapshot of one catalog item inside a cart. Name, kind and unit
// price are copied when the item is first added and never refreshed.
type Line struct {
	ItemID    string          `json:"itemId"`
	Name      string          `json:"name"`
	Kind      string          `json:"type"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Thumbnail string          `json:"thumbnail,omitempty"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

func (l Line) Validate() error {
	if strings.TrimSpace(l.ItemID) == "" {
		return apperr.Validation("cart item must have an itemId")
	}
	if l.Quantity <= 0 {
		return apperr.Validation("cart item quantity must be positive")
	}
	if l.UnitPrice.IsNegative() {
		return apperr.Validation("cart item price cannot be negative")
	}
	return nil
}
