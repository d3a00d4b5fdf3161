package services

import (
	"context"
	"strings"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

// Actor is the authenticated caller of a service method.
type Actor struct {
	UserID uint
	Role   string
}

func (a Actor) IsAdmin() bool { return a.Role == auth.RoleAdmin }

// can reports whether the actor may change something owned by ownerID.
func (a Actor) can(ownerID uint) bool {
	return a.IsAdmin() || (a.UserID != 0 && a.UserID == ownerID)
}

// UpdateUserInput carries a partial profile update. Nil fields are left
// unchanged.
type UpdateUserInput struct {
	Email       *string `json:"email"        validate:"omitempty,email,max=255"`
	Password    *string `json:"password"     validate:"omitempty,min=8,max=128"`
	FirstName   *string `json:"first_name"   validate:"omitempty,max=150"`
	LastName    *string `json:"last_name"    validate:"omitempty,max=150"`
	Age         *int    `json:"age"          validate:"omitempty,min=0,max=130"`
	PhoneNumber *string `json:"phone_number" validate:"omitempty,e164"`
	Status      *string `json:"status"       validate:"omitempty,oneof=simple gold silver bronze"`
	// Admin only.
	Role     *string `json:"role"      validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active"`
}

type UserService struct {
	users *repositories.UserRepository
}

func NewUserService(users *repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) List(ctx context.Context, page, limit int) ([]models.UserProfile, orm.Pagination, error) {
	users, p, err := s.users.All(ctx, page, limit)
	return users, p, translate("users: list", err)
}

func (s *UserService) Get(ctx context.Context, id uint) (models.UserProfile, error) {
	u, err := s.users.FindByID(ctx, id)
	return u, translate("users: get", err)
}

// Update changes a profile. Users may edit themselves; admins anyone.
// Role and activation are admin-only fields.
func (s *UserService) Update(ctx context.Context, actor Actor, id uint, in UpdateUserInput) (models.UserProfile, error) {
	if !actor.can(id) {
		return models.UserProfile{}, ErrForbidden
	}
	if (in.Role != nil || in.IsActive != nil) && !actor.IsAdmin() {
		return models.UserProfile{}, ErrForbidden
	}

	fields := map[string]interface{}{}
	if in.Email != nil {
		fields["email"] = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return models.UserProfile{}, translate("users: hash password", err)
		}
		fields["password"] = hash
	}
	if in.FirstName != nil {
		fields["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		fields["last_name"] = *in.LastName
	}
	if in.Age != nil {
		fields["age"] = *in.Age
	}
	if in.PhoneNumber != nil {
		fields["phone_number"] = *in.PhoneNumber
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	if in.Role != nil {
		fields["role"] = *in.Role
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if len(fields) > 0 {
		if err := s.users.Update(ctx, id, fields); err != nil {
			return models.UserProfile{}, translate("users: update", err)
		}
	}
	return s.Get(ctx, id)
}

func (s *UserService) Delete(ctx context.Context, actor Actor, id uint) error {
	if !actor.can(id) {
		return ErrForbidden
	}
	return translate("users: delete", s.users.Delete(ctx, id))
}
