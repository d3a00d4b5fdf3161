package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopfront/app/models"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// GetOrCreate returns the user's cart, inserting it first if needed.
// Concurrent callers race on the unique user_id index; the loser's insert
// is a no-op and both read back the same row. created reports whether this
// call inserted it.
func (r *CartRepository) GetOrCreate(ctx context.Context, userID uint) (models.Cart, bool, error) {
	defer observe("upsert")()

	db := r.db.WithContext(ctx)
	res := db.Omit(clause.Associations).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.Cart{UserID: userID})
	if res.Error != nil {
		return models.Cart{}, false, fmt.Errorf("carts: get-or-create %d: %w", userID, res.Error)
	}

	var cart models.Cart
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return cart, false, fmt.Errorf("carts: reload %d: %w", userID, err)
	}
	return cart, res.RowsAffected == 1, nil
}

// Load returns a cart with its items and their products.
func (r *CartRepository) Load(ctx context.Context, cartID uint) (models.Cart, error) {
	defer observe("select")()
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", orderByID).
		Preload("Items.Product").
		First(&cart, cartID).Error
	if err != nil {
		return cart, fmt.Errorf("carts: load %d: %w", cartID, err)
	}
	return cart, nil
}

// AddItem inserts a line or, when the product is already in the cart,
// adds qty to the existing line. merged reports which happened. A line
// whose quantity would pass limit is left alone and ErrLimit is returned.
func (r *CartRepository) AddItem(ctx context.Context, cartID, productID uint, qty, limit int) (models.CartItem, bool, error) {
	defer observe("upsert")()

	var item models.CartItem
	var merged bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []int
		if err := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			Pluck("quantity", &current).Error; err != nil {
			return err
		}
		merged = len(current) > 0
		if merged && current[0]+qty > limit {
			return fmt.Errorf("quantity %d plus %d passes %d: %w", current[0], qty, limit, ErrLimit)
		}

		row := models.CartItem{CartID: cartID, ProductID: productID, Quantity: qty}
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_items.quantity + ?", qty),
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		return tx.Preload("Product").
			Where("cart_id = ? AND product_id = ?", cartID, productID).
			First(&item).Error
	})
	if err != nil {
		return item, false, fmt.Errorf("carts: add item: %w", err)
	}
	return item, merged, nil
}

// Items lists the lines of a cart with products loaded, in insertion order.
func (r *CartRepository) Items(ctx context.Context, cartID uint) ([]models.CartItem, error) {
	defer observe("select")()
	var out []models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("cart_id = ?", cartID).Order("id").Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("carts: items %d: %w", cartID, err)
	}
	return out, nil
}

// FindItem loads one line of the given cart. A line that belongs to
// another cart is reported as not found.
func (r *CartRepository) FindItem(ctx context.Context, cartID, itemID uint) (models.CartItem, error) {
	defer observe("select")()
	var item models.CartItem
	err := r.db.WithContext(ctx).Preload("Product").
		Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error
	if err != nil {
		return item, fmt.Errorf("carts: item %d: %w", itemID, err)
	}
	return item, nil
}

func (r *CartRepository) SetQuantity(ctx context.Context, itemID uint, qty int) error {
	defer observe("update")()
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).Where("id = ?", itemID).Update("quantity", qty)
	if res.Error != nil {
		return fmt.Errorf("carts: set quantity %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("carts: set quantity %d: %w", itemID, gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *CartRepository) DeleteItem(ctx context.Context, itemID uint) error {
	defer observe("delete")()
	res := r.db.WithContext(ctx).Delete(&models.CartItem{}, itemID)
	if res.Error != nil {
		return fmt.Errorf("carts: delete item %d: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("carts: delete item %d: %w", itemID, gorm.ErrRecordNotFound)
	}
	return nil
}
