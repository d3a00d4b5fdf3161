package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

const (
	categoriesKey  = "categories:all"
	categoriesTTL  = 10 * time.Minute
	productTTL     = 5 * time.Minute
	productKeyBase = "products:detail:"
)

func productKey(id uint) string { return fmt.Sprintf("%s%d", productKeyBase, id) }

type CategoryInput struct {
	Name string `json:"category_name" validate:"required,max=100"`
}

// ProductInput is the body of POST /api/products.
type ProductInput struct {
	Name        string           `json:"product_name"  validate:"required,max=100"`
	CategoryID  uint             `json:"category"      validate:"required"`
	Description string           `json:"description"   validate:"max=10000"`
	Price       *decimal.Decimal `json:"price"         validate:"omitempty,money"`
	VideoURL    string           `json:"product_video" validate:"omitempty,url,max=500"`
	Active      *bool            `json:"active"`
}

// UpdateProductInput is a partial update; nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string          `json:"product_name"  validate:"omitempty,min=1,max=100"`
	CategoryID  *uint            `json:"category"      validate:"omitempty,min=1"`
	Description *string          `json:"description"   validate:"omitempty,max=10000"`
	Price       *decimal.Decimal `json:"price"         validate:"omitempty,money"`
	ClearPrice  bool             `json:"clear_price"`
	VideoURL    *string          `json:"product_video" validate:"omitempty,url,max=500"`
	Active      *bool            `json:"active"`
}

type CatalogService struct {
	categories *repositories.CategoryRepository
	products   *repositories.ProductRepository
	store      cache.Store
	photos     *PhotoService
}

func NewCatalogService(categories *repositories.CategoryRepository, products *repositories.ProductRepository, store cache.Store, photos *PhotoService) *CatalogService {
	return &CatalogService{categories: categories, products: products, store: store, photos: photos}
}

// ─── Categories ──────────────────────────────────────────────────────────────

// Categories returns every category, served from cache when possible.
func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if hit, err := s.store.Get(ctx, categoriesKey, &out); err == nil && hit {
		return out, nil
	} else if err != nil {
		logger.WithCtx(ctx).Warn("catalog: category cache read failed", "error", err)
	}

	out, err := s.categories.All(ctx)
	if err != nil {
		return nil, translate("catalog: categories", err)
	}
	if err := s.store.Set(ctx, categoriesKey, out, categoriesTTL); err != nil {
		logger.WithCtx(ctx).Warn("catalog: category cache write failed", "error", err)
	}
	return out, nil
}

func (s *CatalogService) Category(ctx context.Context, id uint) (models.Category, error) {
	c, err := s.categories.Find(ctx, id)
	return c, translate("catalog: category", err)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	c := models.Category{Name: strings.TrimSpace(in.Name)}
	if err := s.categories.Create(ctx, &c); err != nil {
		return c, translate("catalog: create category", err)
	}
	s.forget(ctx, categoriesKey)
	return c, nil
}

func (s *CatalogService) RenameCategory(ctx context.Context, id uint, in CategoryInput) (models.Category, error) {
	if err := s.categories.Rename(ctx, id, strings.TrimSpace(in.Name)); err != nil {
		return models.Category{}, translate("catalog: rename category", err)
	}
	s.forget(ctx, categoriesKey)
	return s.Category(ctx, id)
}

// DeleteCategory refuses while products still reference the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	used, err := s.categories.InUse(ctx, id)
	if err != nil {
		return translate("catalog: delete category", err)
	}
	if used {
		return ErrCategoryInUse
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return translate("catalog: delete category", err)
	}
	s.forget(ctx, categoriesKey)
	return nil
}

// ─── Products ────────────────────────────────────────────────────────────────

func (s *CatalogService) Products(ctx context.Context, f repositories.ProductFilter, page, limit int) ([]models.Product, orm.Pagination, error) {
	out, p, err := s.products.List(ctx, f, page, limit)
	return out, p, translate("catalog: products", err)
}

// Product returns a product with photos, ratings and reviews loaded.
func (s *CatalogService) Product(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	if hit, err := s.store.Get(ctx, productKey(id), &p); err == nil && hit {
		return p, nil
	}

	p, err := s.products.FindDetail(ctx, id)
	if err != nil {
		return p, translate("catalog: product", err)
	}
	if err := s.store.Set(ctx, productKey(id), p, productTTL); err != nil {
		logger.WithCtx(ctx).Warn("catalog: product cache write failed", "error", err)
	}
	return p, nil
}

func (s *CatalogService) checkCategory(ctx context.Context, id uint) error {
	if _, err := s.categories.Find(ctx, id); err != nil {
		if repositories.IsNotFound(err) {
			return fmt.Errorf("%w: category %d does not exist", ErrInvalidInput, id)
		}
		return translate("catalog: category", err)
	}
	return nil
}

// CreateProduct stores a product owned by the actor.
func (s *CatalogService) CreateProduct(ctx context.Context, actor Actor, in ProductInput) (models.Product, error) {
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		Name:        strings.TrimSpace(in.Name),
		CategoryID:  in.CategoryID,
		Description: in.Description,
		VideoURL:    in.VideoURL,
		Active:      true,
		CreatedDate: time.Now().UTC().Truncate(24 * time.Hour),
		OwnerID:     actor.UserID,
	}
	if in.Price != nil {
		p.Price = decimal.NewNullDecimal(in.Price.Round(2))
	}
	// Create reads the column default back into a false Active, so the
	// requested value is kept aside and written after the insert.
	inactive := in.Active != nil && !*in.Active

	if err := s.products.Create(ctx, &p); err != nil {
		return p, translate("catalog: create product", err)
	}
	if inactive {
		if err := s.products.Update(ctx, p.ID, map[string]interface{}{"active": false}); err != nil {
			return p, translate("catalog: create product", err)
		}
	}
	logger.WithCtx(ctx).Info("catalog: product created", "product_id", p.ID)
	return s.Product(ctx, p.ID)
}

// owned loads a product and checks the actor may change it.
func (s *CatalogService) owned(ctx context.Context, actor Actor, id uint) (models.Product, error) {
	p, err := s.products.Find(ctx, id)
	if err != nil {
		return p, translate("catalog: product", err)
	}
	if !actor.can(p.OwnerID) {
		return p, ErrForbidden
	}
	return p, nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, actor Actor, id uint, in UpdateProductInput) (models.Product, error) {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return models.Product{}, err
	}

	fields := map[string]interface{}{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return models.Product{}, err
		}
		fields["category_id"] = *in.CategoryID
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	switch {
	case in.ClearPrice:
		fields["price"] = decimal.NullDecimal{}
	case in.Price != nil:
		fields["price"] = decimal.NewNullDecimal(in.Price.Round(2))
	}
	if in.VideoURL != nil {
		fields["video_url"] = *in.VideoURL
	}
	if in.Active != nil {
		fields["active"] = *in.Active
	}

	if err := s.products.Update(ctx, id, fields); err != nil {
		return models.Product{}, translate("catalog: update product", err)
	}
	s.ForgetProduct(ctx, id)
	return s.Product(ctx, id)
}

// DeleteProduct removes the product with its photos, ratings, reviews and
// cart lines, then deletes the photo objects from storage.
func (s *CatalogService) DeleteProduct(ctx context.Context, actor Actor, id uint) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	photos, err := s.products.Photos(ctx, id)
	if err != nil {
		return translate("catalog: delete product", err)
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return translate("catalog: delete product", err)
	}
	s.ForgetProduct(ctx, id)
	if s.photos != nil {
		s.photos.purge(ctx, photos)
	}
	logger.WithCtx(ctx).Info("catalog: product deleted", "product_id", id)
	return nil
}

// ForgetProduct drops the cached detail view of a product.
func (s *CatalogService) ForgetProduct(ctx context.Context, id uint) {
	s.forget(ctx, productKey(id))
}

func (s *CatalogService) forget(ctx context.Context, keys ...string) {
	if err := s.store.Del(ctx, keys...); err != nil {
		logger.WithCtx(ctx).Warn("catalog: cache invalidation failed", "keys", keys, "error", err)
	}
}
