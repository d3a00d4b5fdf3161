package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/resource"
)

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// filter reads ?category=&min_price=&max_price=&active=&search=.
func filter(c *ctx.Context) (repositories.ProductFilter, error) {
	f := repositories.ProductFilter{Search: c.Query("search")}

	if v := c.Query("category"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("category must be an id")
		}
		cat := uint(n)
		f.CategoryID = &cat
	}
	for key, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		if v := c.Query(key); v != "" {
			d, err := decimal.NewFromString(v)
			if err != nil {
				return f, fmt.Errorf("%s must be a number", key)
			}
			*dst = &d
		}
	}
	if v := c.Query("active"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, fmt.Errorf("active must be true or false")
		}
		f.Active = &b
	}
	return f, nil
}

func (pc *ProductController) Index(c *ctx.Context) {
	f, err := filter(c)
	if err != nil {
		c.Error(http.StatusBadRequest, err.Error())
		return
	}
	p, limit := page(c)
	products, pg, err := pc.catalog.Products(c.Context(), f, p, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.Success(resource.Paginate(products, pg, resources.ProductList))
}

func (pc *ProductController) Show(c *ctx.Context) {
	pid, ok := id(c)
	if !ok {
		return
	}
	p, err := pc.catalog.Product(c.Context(), pid)
	if err != nil {
		fail(c, err)
		return
	}
	pc.render(c, http.StatusOK, p)
}

func (pc *ProductController) Store(c *ctx.Context) {
	var in services.ProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.catalog.CreateProduct(c.Context(), actor(c), in)
	if err != nil {
		fail(c, err)
		return
	}
	pc.render(c, http.StatusCreated, p)
}

// Update serves both PUT and PATCH; absent fields are left alone.
func (pc *ProductController) Update(c *ctx.Context) {
	pid, ok := id(c)
	if !ok {
		return
	}
	var in services.UpdateProductInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := pc.catalog.UpdateProduct(c.Context(), actor(c), pid, in)
	if err != nil {
		fail(c, err)
		return
	}
	pc.render(c, http.StatusOK, p)
}

func (pc *ProductController) Destroy(c *ctx.Context) {
	pid, ok := id(c)
	if !ok {
		return
	}
	if err := pc.catalog.DeleteProduct(c.Context(), actor(c), pid); err != nil {
		fail(c, err)
		return
	}
	c.NoContent()
}

func (pc *ProductController) render(c *ctx.Context, status int, p models.Product) {
	m, err := resources.Product(p)
	if err != nil {
		fail(c, err)
		return
	}
	c.Respond(status, "", m)
}
