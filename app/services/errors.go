// Package services implements the storefront's use cases on top of the
// repositories: who may change what, and which invariants hold after.
package services

import (
	"errors"
	"fmt"

	"github.com/shashiranjanraj/shopfront/app/repositories"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidParent      = errors.New("invalid parent review")
	ErrCategoryInUse      = errors.New("category has products")
)

// translate maps repository errors onto service sentinels, keeping the
// original message for logs.
func translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case repositories.IsNotFound(err):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, repositories.ErrDuplicate):
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, repositories.ErrLimit):
		return fmt.Errorf("%s: %w: %w", op, ErrInvalidInput, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// ErrInvalidInput marks a request that is well-formed JSON but references
// something that cannot be used, such as an unknown category.
var ErrInvalidInput = errors.New("invalid input")
