package models

import "time"

// Cart is created lazily the first time a user touches it. A user has at
// most one.
type Cart struct {
	ID        uint        `gorm:"primaryKey"                  json:"id"`
	UserID    uint        `gorm:"not null;uniqueIndex"        json:"user"`
	User      UserProfile `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Items     []CartItem  `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}

// CartItem is a (product, quantity) line. A product appears at most once
// per cart; adding it again merges quantities.
type CartItem struct {
	ID        uint      `gorm:"primaryKey"                                                 json:"id"`
	CartID    uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product"           json:"cart_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_items_cart_product;index"     json:"product_id"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE"                                json:"product,omitempty"`
	Quantity  int       `gorm:"not null;check:chk_cart_items_quantity,quantity > 0"        json:"quantity"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
