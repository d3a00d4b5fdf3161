package controllers

import (
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
)

type CartController struct {
	carts *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{carts: carts}
}

// Show returns the caller's cart, creating it on first access.
func (cc *CartController) Show(c *ctx.Context) {
	cart, err := cc.carts.Cart(c.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	m, err := resources.Cart(cart)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(m)
}

type CartItemController struct {
	carts *services.CartService
}

func NewCartItemController(carts *services.CartService) *CartItemController {
	return &CartItemController{carts: carts}
}

func (ic *CartItemController) Index(c *ctx.Context) {
	items, err := ic.carts.Items(c.Context(), actor(c))
	if err != nil {
		fail(c, err)
		return
	}
	out, err := resources.CartItems(items)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(out)
}

func (ic *CartItemController) Show(c *ctx.Context) {
	itemID, ok := id(c)
	if !ok {
		return
	}
	item, err := ic.carts.Item(c.Context(), actor(c), itemID)
	if err != nil {
		fail(c, err)
		return
	}
	ic.render(c, item, false)
}

// Store adds a product to the cart, merging with an existing line.
func (ic *CartItemController) Store(c *ctx.Context) {
	var in services.AddItemInput
	if !c.BindJSON(&in) {
		return
	}
	item, err := ic.carts.AddItem(c.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	ic.render(c, item, true)
}

// Update sets a line's quantity; zero removes the line and answers 204.
func (ic *CartItemController) Update(c *ctx.Context) {
	itemID, ok := id(c)
	if !ok {
		return
	}
	var in services.SetQuantityInput
	if !c.BindJSON(&in) {
		return
	}
	item, removed, err := ic.carts.SetQuantity(c.Context(), actor(c), itemID, *in.Quantity)
	if err != nil {
		fail(c, err)
		return
	}
	if removed {
		c.NoContent()
		return
	}
	ic.render(c, item, false)
}

func (ic *CartItemController) Destroy(c *ctx.Context) {
	itemID, ok := id(c)
	if !ok {
		return
	}
	if err := ic.carts.RemoveItem(c.Context(), actor(c), itemID); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

func (ic *CartItemController) render(c *ctx.Context, item models.CartItem, created bool) {
	m, err := resources.CartItem(item)
	if err != nil {
		fail(c, err)
		return
	}
	if created {
		c.Created(m)
		return
	}
	c.Success(m)
}
