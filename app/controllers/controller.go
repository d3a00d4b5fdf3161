// Package controllers adapts HTTP requests onto the services and renders
// their results through app/resources.
package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/orm"
)

// actor identifies the caller for permission checks.
func actor(c *ctx.Context) services.Actor {
	claims, ok := c.Claims()
	if !ok {
		return services.Actor{}
	}
	return services.Actor{UserID: claims.UserID, Role: claims.Role}
}

// fail writes the response for a service error. Unknown errors are logged
// and reported as 500 without detail.
func fail(c *ctx.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound()
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden()
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInactiveUser):
		c.Unauthorized("invalid credentials")
	case errors.Is(err, services.ErrInvalidToken), errors.Is(err, services.ErrTokenRevoked):
		c.Unauthorized(err.Error())
	case errors.Is(err, services.ErrConflict), errors.Is(err, services.ErrCategoryInUse):
		c.Error(http.StatusConflict, err.Error())
	case errors.Is(err, aggregate.ErrInvalidLineItem):
		c.Log().Warn("cart has an invalid line item", "error", err)
		c.Error(http.StatusUnprocessableEntity, "cart contains an item that cannot be priced")
	case errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidParent),
		errors.Is(err, services.ErrInvalidUpload),
		errors.Is(err, aggregate.ErrReviewCycle):
		c.Error(http.StatusUnprocessableEntity, err.Error())
	default:
		c.Log().Error("request failed", "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}

// id reads the {id} path parameter, answering 404 when it is not a
// positive integer.
func id(c *ctx.Context) (uint, bool) {
	n, ok := c.ParamUint("id")
	if !ok {
		c.NotFound()
	}
	return n, ok
}

func page(c *ctx.Context) (int, int) {
	return c.QueryInt("page", 1), c.QueryInt("limit", orm.DefaultPageSize)
}
