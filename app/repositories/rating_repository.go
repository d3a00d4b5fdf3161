package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopfront/app/models"
)

type RatingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Upsert writes the user's rating for a product, replacing any earlier
// score. It reports whether a previous rating existed and returns the
// stored row.
func (r *RatingRepository) Upsert(ctx context.Context, userID, productID uint, stars int) (models.Rating, bool, error) {
	defer observe("upsert")()

	var out models.Rating
	var existed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Rating{}).
			Where("user_id = ? AND product_id = ?", userID, productID).
			Count(&n).Error; err != nil {
			return err
		}
		existed = n > 0

		row := models.Rating{UserID: userID, ProductID: productID, Stars: stars}
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"stars":      stars,
				"updated_at": time.Now(),
			}),
		}).Create(&row).Error
		if err != nil {
			return err
		}

		return tx.Where("user_id = ? AND product_id = ?", userID, productID).First(&out).Error
	})
	if err != nil {
		return out, false, fmt.Errorf("ratings: upsert: %w", err)
	}
	return out, existed, nil
}

func (r *RatingRepository) Find(ctx context.Context, id uint) (models.Rating, error) {
	defer observe("select")()
	var out models.Rating
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return out, fmt.Errorf("ratings: find %d: %w", id, err)
	}
	return out, nil
}

// ByUser lists the ratings a user has given.
func (r *RatingRepository) ByUser(ctx context.Context, userID uint) ([]models.Rating, error) {
	defer observe("select")()
	var out []models.Rating
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("ratings: by user %d: %w", userID, err)
	}
	return out, nil
}

func (r *RatingRepository) ForProduct(ctx context.Context, productID uint) ([]models.Rating, error) {
	defer observe("select")()
	var out []models.Rating
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("ratings: for product %d: %w", productID, err)
	}
	return out, nil
}

func (r *RatingRepository) Delete(ctx context.Context, id uint) error {
	defer observe("delete")()
	res := r.db.WithContext(ctx).Delete(&models.Rating{}, id)
	if res.Error != nil {
		return fmt.Errorf("ratings: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("ratings: delete %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
