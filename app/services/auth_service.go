package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
)

// RegisterInput is the body of POST /api/register.
type RegisterInput struct {
	Username    string `json:"username"     validate:"required,min=3,max=150"`
	Email       string `json:"email"        validate:"required,email,max=255"`
	Password    string `json:"password"     validate:"required,min=8,max=128"`
	FirstName   string `json:"first_name"   validate:"max=150"`
	LastName    string `json:"last_name"    validate:"max=150"`
	Age         *int   `json:"age"          validate:"omitempty,min=0,max=130"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,e164"`
	Status      string `json:"status"       validate:"omitempty,oneof=simple gold silver bronze"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type TokenInput struct {
	Refresh string `json:"refresh" validate:"required"`
}

type AuthService struct {
	users *repositories.UserRepository
	store cache.Store
}

func NewAuthService(users *repositories.UserRepository, store cache.Store) *AuthService {
	return &AuthService{users: users, store: store}
}

// Register creates an account and signs a token pair for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.UserProfile, auth.TokenPair, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return models.UserProfile{}, auth.TokenPair{}, fmt.Errorf("auth: hash password: %w", err)
	}

	status := in.Status
	if status == "" {
		status = models.StatusSimple
	}
	user := models.UserProfile{
		Username:    strings.TrimSpace(in.Username),
		Email:       strings.ToLower(strings.TrimSpace(in.Email)),
		Password:    hash,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Age:         in.Age,
		PhoneNumber: in.PhoneNumber,
		Status:      status,
		Role:        auth.RoleUser,
		IsActive:    true,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return user, auth.TokenPair{}, translate("auth: register", err)
	}

	pair, err := auth.IssuePair(user.ID, user.Role)
	if err != nil {
		return user, pair, fmt.Errorf("auth: sign tokens: %w", err)
	}

	logger.WithCtx(ctx).Info("auth: registered", "user_id", user.ID)
	return user, pair, nil
}

// Login checks credentials. Unknown users, wrong passwords and inactive
// accounts all produce ErrInvalidCredentials so callers cannot probe
// which usernames exist.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (models.UserProfile, auth.TokenPair, error) {
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if repositories.IsNotFound(err) {
			return user, auth.TokenPair{}, ErrInvalidCredentials
		}
		return user, auth.TokenPair{}, fmt.Errorf("auth: login: %w", err)
	}
	if !auth.CheckPassword(user.Password, in.Password) {
		return user, auth.TokenPair{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return user, auth.TokenPair{}, fmt.Errorf("%w: %w", ErrInvalidCredentials, ErrInactiveUser)
	}

	pair, err := auth.IssuePair(user.ID, user.Role)
	if err != nil {
		return user, pair, fmt.Errorf("auth: sign tokens: %w", err)
	}
	return user, pair, nil
}

func revokedKey(jti string) string { return "auth:revoked:" + jti }

// parseRefresh validates a refresh token and checks the revocation list.
func (s *AuthService) parseRefresh(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := auth.ValidateAs(token, auth.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	revoked, err := s.store.Has(ctx, revokedKey(claims.ID))
	if err != nil {
		return nil, fmt.Errorf("auth: check revocation: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Refresh exchanges a live refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, token string) (string, error) {
	claims, err := s.parseRefresh(ctx, token)
	if err != nil {
		return "", err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("auth: refresh: %w", err)
	}
	if !user.IsActive {
		return "", ErrInactiveUser
	}
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return "", fmt.Errorf("auth: sign access: %w", err)
	}
	return access, nil
}

// Logout revokes a refresh token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.parseRefresh(ctx, token)
	if err != nil {
		return err
	}

	ttl := time.Minute
	if claims.ExpiresAt != nil {
		if left := time.Until(claims.ExpiresAt.Time); left > 0 {
			ttl = left
		}
	}
	if err := s.store.Set(ctx, revokedKey(claims.ID), claims.UserID, ttl); err != nil {
		return fmt.Errorf("auth: revoke: %w", err)
	}

	logger.WithCtx(ctx).Info("auth: logged out", "user_id", claims.UserID)
	return nil
}

// IsInvalidRequest reports whether err came from a bad token rather than
// an infrastructure failure.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidToken) || errors.Is(err, ErrTokenRevoked)
}
