package controllers

import (
	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) Index(c *ctx.Context) {
	p, limit := page(c)
	users, pg, err := uc.users.List(c.Context(), p, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Paginate(users, pg, resources.User))
}

func (uc *UserController) Show(c *ctx.Context) {
	uid, ok := id(c)
	if !ok {
		return
	}
	u, err := uc.users.Get(c.Context(), uid)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.User(u))
}

// Me returns the caller's own profile.
func (uc *UserController) Me(c *ctx.Context) {
	u, err := uc.users.Get(c.Context(), c.UserID())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.User(u))
}

// Update serves both PUT and PATCH; absent fields are left alone.
func (uc *UserController) Update(c *ctx.Context) {
	uid, ok := id(c)
	if !ok {
		return
	}
	var in services.UpdateUserInput
	if !c.BindJSON(&in) {
		return
	}
	u, err := uc.users.Update(c.Context(), actor(c), uid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.User(u))
}

func (uc *UserController) Destroy(c *ctx.Context) {
	uid, ok := id(c)
	if !ok {
		return
	}
	if err := uc.users.Delete(c.Context(), actor(c), uid); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
