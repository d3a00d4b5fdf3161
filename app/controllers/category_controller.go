package controllers

import (
	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

func (cc *CategoryController) Index(c *ctx.Context) {
	cats, err := cc.catalog.Categories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Collection(cats, resources.Category))
}

func (cc *CategoryController) Show(c *ctx.Context) {
	cid, ok := id(c)
	if !ok {
		return
	}
	cat, err := cc.catalog.Category(c.Context(), cid)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Category(cat))
}

func (cc *CategoryController) Store(c *ctx.Context) {
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := cc.catalog.CreateCategory(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(resources.Category(cat))
}

func (cc *CategoryController) Update(c *ctx.Context) {
	cid, ok := id(c)
	if !ok {
		return
	}
	var in services.CategoryInput
	if !c.BindJSON(&in) {
		return
	}
	cat, err := cc.catalog.RenameCategory(c.Context(), cid, in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resources.Category(cat))
}

func (cc *CategoryController) Destroy(c *ctx.Context) {
	cid, ok := id(c)
	if !ok {
		return
	}
	if err := cc.catalog.DeleteCategory(c.Context(), cid); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}
