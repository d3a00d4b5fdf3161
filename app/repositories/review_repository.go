package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopfront/app/models"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Find(ctx context.Context, id uint) (models.Review, error) {
	defer observe("select")()
	var out models.Review
	if err := r.db.WithContext(ctx).Preload("Author").First(&out, id).Error; err != nil {
		return out, fmt.Errorf("reviews: find %d: %w", id, err)
	}
	return out, nil
}

// ForProduct returns every review of a product, oldest first.
func (r *ReviewRepository) ForProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	defer observe("select")()
	var out []models.Review
	err := r.db.WithContext(ctx).Preload("Author").
		Where("product_id = ?", productID).
		Order("created_date, id").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("reviews: for product %d: %w", productID, err)
	}
	return out, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv *models.Review) error {
	defer observe("insert")()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rv).Error; err != nil {
		return fmt.Errorf("reviews: create: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	defer observe("update")()
	res := r.db.WithContext(ctx).Model(&models.Review{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("reviews: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("reviews: update %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a review. Its direct replies are promoted to roots.
func (r *ReviewRepository) Delete(ctx context.Context, id uint) error {
	defer observe("delete")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).Where("parent_review_id = ?", id).
			Update("parent_review_id", nil).Error; err != nil {
			return fmt.Errorf("reviews: detach replies of %d: %w", id, err)
		}
		res := tx.Delete(&models.Review{}, id)
		if res.Error != nil {
			return fmt.Errorf("reviews: delete %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("reviews: delete %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}
