package repositories

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

// ProductFilter narrows a product listing. Nil fields are ignored.
type ProductFilter struct {
	CategoryID *uint
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Active     *bool
	Search     string
}

func (f ProductFilter) scopes() []func(*gorm.DB) *gorm.DB {
	return []func(*gorm.DB) *gorm.DB{
		orm.WhereIf(f.CategoryID != nil, "category_id = ?", deref(f.CategoryID)),
		orm.WhereIf(f.MinPrice != nil, "price >= ?", derefDecimal(f.MinPrice)),
		orm.WhereIf(f.MaxPrice != nil, "price <= ?", derefDecimal(f.MaxPrice)),
		orm.WhereIf(f.Active != nil, "active = ?", f.Active != nil && *f.Active),
		orm.Search("name", f.Search),
	}
}

func deref(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}

func derefDecimal(p *decimal.Decimal) decimal.Decimal {
	if p == nil {
		return decimal.Zero
	}
	return *p
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns one filtered page with Category and Owner loaded.
func (r *ProductRepository) List(ctx context.Context, f ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	var out []models.Product
	q := r.db.Model(&models.Product{}).Scopes(f.scopes()...)
	p, err := orm.Paginate(ctx, q, page, limit, &out, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Category").Preload("Owner").Order("id")
	})
	if err != nil {
		return nil, p, fmt.Errorf("products: list: %w", err)
	}
	return out, p, nil
}

// Find loads the bare product row.
func (r *ProductRepository) Find(ctx context.Context, id uint) (models.Product, error) {
	defer observe("select")()
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return p, fmt.Errorf("products: find %d: %w", id, err)
	}
	return p, nil
}

// FindDetail loads a product with everything its detail page shows.
func (r *ProductRepository) FindDetail(ctx context.Context, id uint) (models.Product, error) {
	defer observe("select")()
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Owner").
		Preload("Photos", orderByID).
		Preload("Ratings", orderByID).
		Preload("Ratings.User").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_date, id") }).
		Preload("Reviews.Author").
		First(&p, id).Error
	if err != nil {
		return p, fmt.Errorf("products: detail %d: %w", id, err)
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	defer observe("insert")()
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("products: create: %w", err)
	}
	return nil
}

// Update writes the given columns. Keys are column names.
func (r *ProductRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	defer observe("update")()
	if len(fields) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("products: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("products: update %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a product and every row hanging off it in one transaction.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	defer observe("delete")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		children := []interface{}{&models.CartItem{}, &models.ProductPhoto{}, &models.Rating{}}
		for _, child := range children {
			if err := tx.Where("product_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("products: delete %d children: %w", id, err)
			}
		}
		if err := tx.Model(&models.Review{}).Where("product_id = ?", id).
			Update("parent_review_id", nil).Error; err != nil {
			return fmt.Errorf("products: detach %d reviews: %w", id, err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("products: delete %d reviews: %w", id, err)
		}

		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return fmt.Errorf("products: delete %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("products: delete %d: %w", id, gorm.ErrRecordNotFound)
		}
		return nil
	})
}

// AddPhotos stores photo rows for a product.
func (r *ProductRepository) AddPhotos(ctx context.Context, photos []models.ProductPhoto) error {
	defer observe("insert")()
	if len(photos) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&photos).Error; err != nil {
		return fmt.Errorf("products: add photos: %w", err)
	}
	return nil
}

func (r *ProductRepository) Photos(ctx context.Context, productID uint) ([]models.ProductPhoto, error) {
	defer observe("select")()
	var out []models.ProductPhoto
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("products: photos %d: %w", productID, err)
	}
	return out, nil
}

func (r *ProductRepository) FindPhoto(ctx context.Context, productID, photoID uint) (models.ProductPhoto, error) {
	defer observe("select")()
	var out models.ProductPhoto
	err := r.db.WithContext(ctx).Where("id = ? AND product_id = ?", photoID, productID).First(&out).Error
	if err != nil {
		return out, fmt.Errorf("products: photo %d: %w", photoID, err)
	}
	return out, nil
}

func (r *ProductRepository) DeletePhoto(ctx context.Context, photoID uint) error {
	defer observe("delete")()
	res := r.db.WithContext(ctx).Delete(&models.ProductPhoto{}, photoID)
	if res.Error != nil {
		return fmt.Errorf("products: delete photo %d: %w", photoID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("products: delete photo %d: %w", photoID, gorm.ErrRecordNotFound)
	}
	return nil
}
