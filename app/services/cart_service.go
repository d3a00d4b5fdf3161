package services

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/event"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/metrics"
)

// EventCartChanged is fired after every successful cart mutation with a
// CartChanged payload.
const EventCartChanged = "cart.changed"

type CartChanged struct {
	UserID uint
	CartID uint
}

// MaxQuantity bounds the quantity of a single cart line.
const MaxQuantity = 1000

type AddItemInput struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"omitempty,min=1,max=1000"`
}

type SetQuantityInput struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=1000"`
}

type CartService struct {
	carts    *repositories.CartRepository
	products *repositories.ProductRepository
	bus      *event.Bus
}

func NewCartService(carts *repositories.CartRepository, products *repositories.ProductRepository, bus *event.Bus) *CartService {
	return &CartService{carts: carts, products: products, bus: bus}
}

// Cart returns the actor's cart with items and products loaded, creating
// an empty one on first access.
func (s *CartService) Cart(ctx context.Context, actor Actor) (models.Cart, error) {
	cart, created, err := s.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return cart, translate("cart: get", err)
	}
	if created {
		metrics.CartsCreated.Inc()
		logger.WithCtx(ctx).Info("cart: created", "cart_id", cart.ID)
	}
	cart, err = s.carts.Load(ctx, cart.ID)
	return cart, translate("cart: load", err)
}

func (s *CartService) Items(ctx context.Context, actor Actor) ([]models.CartItem, error) {
	cart, created, err := s.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return nil, translate("cart: items", err)
	}
	if created {
		metrics.CartsCreated.Inc()
	}
	items, err := s.carts.Items(ctx, cart.ID)
	return items, translate("cart: items", err)
}

func (s *CartService) Item(ctx context.Context, actor Actor, itemID uint) (models.CartItem, error) {
	cart, _, err := s.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return models.CartItem{}, translate("cart: item", err)
	}
	item, err := s.carts.FindItem(ctx, cart.ID, itemID)
	return item, translate("cart: item", err)
}

// AddItem puts a product in the cart. Adding a product that is already
// there increases its quantity.
func (s *CartService) AddItem(ctx context.Context, actor Actor, in AddItemInput) (models.CartItem, error) {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}

	p, err := s.products.Find(ctx, in.ProductID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return models.CartItem{}, fmt.Errorf("cart: add: product %d: %w", in.ProductID, ErrNotFound)
		}
		return models.CartItem{}, translate("cart: add", err)
	}
	if !p.Active {
		return models.CartItem{}, fmt.Errorf("%w: product %d is not available", ErrInvalidInput, in.ProductID)
	}

	cart, created, err := s.carts.GetOrCreate(ctx, actor.UserID)
	if err != nil {
		return models.CartItem{}, translate("cart: add", err)
	}
	if created {
		metrics.CartsCreated.Inc()
	}

	item, merged, err := s.carts.AddItem(ctx, cart.ID, in.ProductID, qty, MaxQuantity)
	if err != nil {
		return item, translate("cart: add", err)
	}

	result := "created"
	if merged {
		result = "merged"
	}
	metrics.CartItemsAdded.WithLabelValues(result).Inc()
	s.changed(ctx, actor.UserID, cart.ID)
	return item, nil
}

// SetQuantity changes a line's quantity. Zero removes the line; removed
// reports that case.
func (s *CartService) SetQuantity(ctx context.Context, actor Actor, itemID uint, qty int) (item models.CartItem, removed bool, err error) {
	if qty < 0 || qty > MaxQuantity {
		return item, false, fmt.Errorf("%w: quantity must be between 0 and %d", ErrInvalidInput, MaxQuantity)
	}
	if item, err = s.Item(ctx, actor, itemID); err != nil {
		return item, false, err
	}

	if qty == 0 {
		if err := s.carts.DeleteItem(ctx, itemID); err != nil {
			return item, false, translate("cart: remove", err)
		}
		s.changed(ctx, actor.UserID, item.CartID)
		return item, true, nil
	}

	if err := s.carts.SetQuantity(ctx, itemID, qty); err != nil {
		return item, false, translate("cart: set quantity", err)
	}
	item.Quantity = qty
	s.changed(ctx, actor.UserID, item.CartID)
	return item, false, nil
}

func (s *CartService) RemoveItem(ctx context.Context, actor Actor, itemID uint) error {
	item, err := s.Item(ctx, actor, itemID)
	if err != nil {
		return err
	}
	if err := s.carts.DeleteItem(ctx, itemID); err != nil {
		return translate("cart: remove", err)
	}
	s.changed(ctx, actor.UserID, item.CartID)
	return nil
}

func (s *CartService) changed(ctx context.Context, userID, cartID uint) {
	if s.bus != nil {
		s.bus.FireAsync(ctx, EventCartChanged, CartChanged{UserID: userID, CartID: cartID})
	}
}
