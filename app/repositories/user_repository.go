package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

// UserRepository handles database operations for UserProfile.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(ctx context.Context, id uint) (models.UserProfile, error) {
	defer observe("select")()
	var user models.UserProfile
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return user, fmt.Errorf("users: find %d: %w", id, err)
	}
	return user, nil
}

// FindByUsername looks up a user by login name.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.UserProfile, error) {
	defer observe("select")()
	var user models.UserProfile
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return user, fmt.Errorf("users: find %q: %w", username, err)
	}
	return user, nil
}

// Create persists a new user. A taken username or email yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.UserProfile) error {
	defer observe("insert")()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("users: create: %w", ErrDuplicate)
		}
		return fmt.Errorf("users: create: %w", err)
	}
	return nil
}

// Update writes the given columns of an existing user.
func (r *UserRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	defer observe("update")()
	res := r.db.WithContext(ctx).Model(&models.UserProfile{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		if isDuplicate(res.Error) {
			return fmt.Errorf("users: update %d: %w", id, ErrDuplicate)
		}
		return fmt.Errorf("users: update %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("users: update %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// Delete removes a user; owned rows cascade at the storage layer.
func (r *UserRepository) Delete(ctx context.Context, id uint) error {
	defer observe("delete")()
	res := r.db.WithContext(ctx).Delete(&models.UserProfile{}, id)
	if res.Error != nil {
		return fmt.Errorf("users: delete %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("users: delete %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

// All returns one page of users ordered by id.
func (r *UserRepository) All(ctx context.Context, page, limit int) ([]models.UserProfile, orm.Pagination, error) {
	var users []models.UserProfile
	p, err := orm.Paginate(ctx, r.db.Model(&models.UserProfile{}), page, limit, &users, orderByID)
	if err != nil {
		return nil, p, fmt.Errorf("users: list: %w", err)
	}
	return users, p, nil
}

func orderByID(db *gorm.DB) *gorm.DB { return db.Order("id") }
