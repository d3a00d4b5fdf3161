package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/config"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/validate"
)

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// Register handles POST /api/register.
func (ac *AuthController) Register(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	user, pair, err := ac.auth.Register(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Registered(user, pair.Access, pair.Refresh))
}

// Login handles POST /api/login. Besides the token pair it sets the access
// token as an HTTP-only cookie.
func (ac *AuthController) Login(c *ctx.Context) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	_, pair, err := ac.auth.Login(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    pair.Access,
		Path:     "/",
		Expires:  pair.AccessExpiresAt,
		HttpOnly: true,
		Secure:   config.Production(),
		SameSite: http.SameSiteLaxMode,
	})
	c.Success(map[string]string{"access": pair.Access, "refresh": pair.Refresh})
}

// Logout handles POST /api/logout. Any problem with the submitted token is
// a 400; success is 205 with no body.
func (ac *AuthController) Logout(c *ctx.Context) {
	var in services.TokenInput
	errs, err := c.ShouldBindJSON(&in)
	if err != nil || validate.HasErrors(errs) {
		c.Status(http.StatusBadRequest)
		return
	}
	if err := ac.auth.Logout(c.Context(), in.Refresh); err != nil {
		if services.IsInvalidRequest(err) {
			c.Status(http.StatusBadRequest)
			return
		}
		fail(c, err)
		return
	}
	c.Status(http.StatusResetContent)
}

// Refresh handles POST /api/token/refresh.
func (ac *AuthController) Refresh(c *ctx.Context) {
	var in services.TokenInput
	if !c.BindJSON(&in) {
		return
	}
	access, err := ac.auth.Refresh(c.Context(), in.Refresh)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(map[string]string{"access": access})
}
