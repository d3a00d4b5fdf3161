package resources

import (
	"fmt"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

// CartItem renders one line with its total. A line that cannot be totalled
// is an error; callers answer 422.
func CartItem(item models.CartItem) (resource.Map, error) {
	total, err := aggregate.LineTotal(item)
	if err != nil {
		metrics.InvalidLineItems.Inc()
		return nil, err
	}
	return resource.Map{
		"id":              item.ID,
		"product":         ProductBrief(*item.Product),
		"product_id":      item.ProductID,
		"quantity":        item.Quantity,
		"get_total_price": Money(total),
	}, nil
}

func CartItems(items []models.CartItem) ([]resource.Map, error) {
	out := make([]resource.Map, 0, len(items))
	for _, item := range items {
		m, err := CartItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Cart renders the whole cart with its grand total.
func Cart(c models.Cart) (resource.Map, error) {
	items, err := CartItems(c.Items)
	if err != nil {
		return nil, fmt.Errorf("resources: cart %d: %w", c.ID, err)
	}
	total, err := aggregate.CartTotal(c)
	if err != nil {
		return nil, fmt.Errorf("resources: cart %d: %w", c.ID, err)
	}
	return resource.Map{
		"id":          c.ID,
		"user":        c.UserID,
		"items":       items,
		"total_price": Money(total),
	}, nil
}

// CartPush is the websocket message sent after a cart changes.
func CartPush(c models.Cart) (resource.Map, error) {
	m, err := Cart(c)
	if err != nil {
		return nil, err
	}
	return resource.Map{
		"cart_id":     c.ID,
		"total_price": m["total_price"],
		"items":       m["items"],
	}, nil
}
