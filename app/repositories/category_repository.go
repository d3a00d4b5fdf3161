package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	defer observe("select")()
	var out []models.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("categories: list: %w", err)
	}
	return out, nil
}

func (r *CategoryRepository) Find(ctx context.Context, id uint) (models.Category, error) {
	defer observe("select")()
	var c models.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return c, fmt.Errorf("categories: find %d: %w", id, err)
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, c *models.Category) error {
	defer observe("insert")()
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("categories: create: %w", ErrDuplicate)
		}
		return fmt.Errorf("categories: create: %w", err)
	}
	return nil
}

func (r *CategoryRepository) Rename(ctx context.Context, id uint, name string) error {
	defer observe("update")()
	res := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return fmt.Errorf("categories: rename %d: %w", id, ErrDuplicate)
		}
		return fmt.Errorf("categories: rename %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("categories: rename %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// InUse reports whether any product references the category.
func (r *CategoryRepository) InUse(ctx context.Context, id uint) (bool, error) {
	defer observe("select")()
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Where("category_id = ?", id).Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("categories: usage %d: %w", id, err)
	}
	return n > 0, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id uint) error {
	defer observe("delete")()
	res := r.db.WithContext(ctx).Delete(&models.Category{}, id)
	if res.Error != nil {
		return fmt.Errorf("categories: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("categories: delete %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}
