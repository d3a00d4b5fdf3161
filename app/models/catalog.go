package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID        uint      `gorm:"primaryKey"                    json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"category_name"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Product is a catalog entry. Price is nullable at the storage layer; a
// product without a price cannot be totalled in a cart.
type Product struct {
	ID          uint                `gorm:"primaryKey"                    json:"id"`
	Name        string              `gorm:"size:100;not null;index"       json:"product_name"`
	CategoryID  uint                `gorm:"not null;index"                json:"category_id"`
	Category    Category            `gorm:"constraint:OnDelete:RESTRICT"  json:"category"`
	Description string              `gorm:"type:text"                     json:"description"`
	Price       decimal.NullDecimal `gorm:"type:decimal(12,2)"            json:"price"`
	VideoURL    string              `gorm:"size:500"                      json:"product_video"`
	Active      bool                `gorm:"not null;default:true"         json:"active"`
	CreatedDate time.Time           `gorm:"type:date;not null"            json:"date"`
	OwnerID     uint                `gorm:"not null;index"                json:"owner_id"`
	Owner       UserProfile         `gorm:"constraint:OnDelete:CASCADE"   json:"owner"`

	Photos  []ProductPhoto `gorm:"constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	Ratings []Rating       `gorm:"constraint:OnDelete:CASCADE" json:"ratings,omitempty"`
	Reviews []Review       `gorm:"constraint:OnDelete:CASCADE" json:"reviews,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ProductPhoto points at an object on a storage disk.
type ProductPhoto struct {
	ID        uint      `gorm:"primaryKey"              json:"id"`
	ProductID uint      `gorm:"not null;index"          json:"product_id"`
	Disk      string    `gorm:"size:32;not null"        json:"-"`
	Path      string    `gorm:"size:500;not null"       json:"-"`
	URL       string    `gorm:"size:1000;not null"      json:"image"`
	CreatedAt time.Time `json:"-"`
}
