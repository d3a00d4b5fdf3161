package models

import "time"

const (
	MinStars = 1
	MaxStars = 5
)

// Rating is one user's star score for one product. The (user, product)
// pair is unique; re-rating replaces the previous score.
type Rating struct {
	ID        uint        `gorm:"primaryKey"                                               json:"id"`
	UserID    uint        `gorm:"not null;uniqueIndex:idx_ratings_user_product"            json:"user_id"`
	User      UserProfile `gorm:"constraint:OnDelete:CASCADE"                              json:"user"`
	ProductID uint        `gorm:"not null;uniqueIndex:idx_ratings_user_product;index"      json:"product_id"`
	Stars     int         `gorm:"not null;check:chk_ratings_stars,stars >= 1 AND stars <= 5" json:"stars"`
	CreatedAt time.Time   `json:"-"`
	UpdatedAt time.Time   `json:"-"`
}

// Review is free text about a product. Replies point at their parent
// through ParentReviewID; parent and reply always share a product.
type Review struct {
	ID             uint        `gorm:"primaryKey"                   json:"id"`
	AuthorID       uint        `gorm:"not null;index"               json:"author_id"`
	Author         UserProfile `gorm:"constraint:OnDelete:CASCADE"  json:"author"`
	ProductID      uint        `gorm:"not null;index"               json:"product_id"`
	Text           string      `gorm:"type:text;not null"           json:"text"`
	ParentReviewID *uint       `gorm:"index"                        json:"parent_review"`
	Parent         *Review     `gorm:"foreignKey:ParentReviewID;constraint:OnDelete:SET NULL" json:"-"`
	CreatedDate    time.Time   `gorm:"not null"                     json:"created_date"`
	UpdatedAt      time.Time   `json:"-"`
}
