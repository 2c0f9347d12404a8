// Package pricing implements the discount resolution rule and the order
// total calculation. Both are pure; callers fetch the item and the
// active global sale and round results at the edge.
package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrInvalidQuantity is returned when an order total is requested for a
// non-positive quantity. The quantity is rejected, never clamped.
var ErrInvalidQuantity = errors.New("quantity must be > 0")

var hundred = decimal.NewFromInt(100)

// EffectivePrice resolves an item's price with at most one discount
// applied. An item-level sale takes strict priority over the global
// sale; discounts never stack. activePercentage is zero when no global
// sale is active.
func EffectivePrice(price decimal.Decimal, isOnSale bool, salePercentage, activePercentage int32) decimal.Decimal {
	switch {
	case isOnSale && salePercentage > 0:
		return applyDiscount(price, salePercentage)
	case activePercentage > 0:
		return applyDiscount(price, activePercentage)
	}
	return price
}

func applyDiscount(price decimal.Decimal, percentage int32) decimal.Decimal {
	remaining := hundred.Sub(decimal.NewFromInt32(percentage))
	return price.Mul(remaining).Div(hundred)
}

// OrderTotal computes the frozen charge for an order: the effective unit
// price times the quantity, rounded to 2 decimal places.
func OrderTotal(effectivePrice decimal.Decimal, quantity int32) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Decimal{}, ErrInvalidQuantity
	}
	return effectivePrice.Mul(decimal.NewFromInt32(quantity)).Round(2), nil
}
