package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/migration"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260301000002_create_feedback_tables", &CreateFeedbackTables{})
	migration.Register("20260301000003_create_cart_tables", &CreateCartTables{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.UserProfile{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.UserProfile{})
}

// -------- 0002: categories, products, photos --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Product{}, &models.ProductPhoto{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.ProductPhoto{}, &models.Product{}, &models.Category{})
}

// -------- 0003: ratings, reviews --------

type CreateFeedbackTables struct{}

func (m *CreateFeedbackTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Rating{}, &models.Review{})
}

func (m *CreateFeedbackTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Review{}, &models.Rating{})
}

// -------- 0004: carts --------

type CreateCartTables struct{}

func (m *CreateCartTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Cart{}, &models.CartItem{})
}

func (m *CreateCartTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.CartItem{}, &models.Cart{})
}
