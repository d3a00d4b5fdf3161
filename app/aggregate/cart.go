package aggregate

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/shopfront/app/models"
)

// ErrInvalidLineItem is returned when a cart line cannot be priced.
var ErrInvalidLineItem = errors.New("invalid line item")

func invalid(item models.CartItem, reason string) error {
	return fmt.Errorf("aggregate: item %d: %s: %w", item.ID, reason, ErrInvalidLineItem)
}

// LineTotal is price × quantity for one cart line. The item's Product must
// be loaded.
func LineTotal(item models.CartItem) (decimal.Decimal, error) {
	if item.Quantity < 0 {
		return decimal.Zero, invalid(item, "negative quantity")
	}
	if item.Product == nil {
		return decimal.Zero, invalid(item, "product not loaded")
	}
	if !item.Product.Price.Valid {
		return decimal.Zero, invalid(item, "missing price")
	}
	price := item.Product.Price.Decimal
	if price.IsNegative() {
		return decimal.Zero, invalid(item, "negative price")
	}
	return price.Mul(decimal.NewFromInt(int64(item.Quantity))), nil
}

// CartTotal sums LineTotal over every item. The first invalid line aborts
// the sum.
func CartTotal(cart models.Cart) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range cart.Items {
		line, err := LineTotal(item)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(line)
	}
	return total, nil
}
