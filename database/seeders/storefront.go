package seeders

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/config"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
)

func init() {
	Register("categories", SeedCategories)
	Register("admin", SeedAdmin)
}

var defaultCategories = []string{"Electronics", "Books", "Clothing", "Home", "Sports"}

func SeedCategories(db *gorm.DB) error {
	rows := make([]models.Category, len(defaultCategories))
	for i, name := range defaultCategories {
		rows[i] = models.Category{Name: name}
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// SeedAdmin creates the ADMIN_USERNAME account when it does not exist.
func SeedAdmin(db *gorm.DB) error {
	username := config.Get("ADMIN_USERNAME", "admin")
	password := config.Get("ADMIN_PASSWORD", "")
	if password == "" {
		return fmt.Errorf("ADMIN_PASSWORD is not set")
	}

	var n int64
	if err := db.Model(&models.UserProfile{}).Where("username = ?", username).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return db.Create(&models.UserProfile{
		Username: username,
		Email:    config.Get("ADMIN_EMAIL", "admin@shopfront.local"),
		Password: hash,
		Status:   models.StatusSimple,
		Role:     auth.RoleAdmin,
		IsActive: true,
	}).Error
}
