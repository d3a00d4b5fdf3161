// Package graphql exposes a read-only view of the catalog and the caller's
// cart.
//
//	{ products(search: "lamp") { id productName price averageRating } }
//	{ cart { totalPrice items { quantity lineTotal product { productName } } } }
package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/shopfront/app/aggregate"
	"github.com/shashiranjanraj/shopfront/app/models"
	"github.com/shashiranjanraj/shopfront/app/repositories"
	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	gql "github.com/shashiranjanraj/shopfront/pkg/graphql"
)

var errUnauthenticated = errors.New("authentication required")

var categoryType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Category",
	Fields: graphql.Fields{
		"id":   &graphql.Field{Type: graphql.Int},
		"name": &graphql.Field{Type: graphql.String},
	},
})

var productType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Product",
	Fields: graphql.Fields{
		"id":            &graphql.Field{Type: graphql.Int},
		"productName":   &graphql.Field{Type: graphql.String},
		"description":   &graphql.Field{Type: graphql.String},
		"price":         &graphql.Field{Type: graphql.String},
		"active":        &graphql.Field{Type: graphql.Boolean},
		"category":      &graphql.Field{Type: categoryType},
		"averageRating": &graphql.Field{Type: graphql.Float},
		"ratingCount":   &graphql.Field{Type: graphql.Int},
		"reviewCount":   &graphql.Field{Type: graphql.Int},
	},
})

var cartItemType = graphql.NewObject(graphql.ObjectConfig{
	Name: "CartItem",
	Fields: graphql.Fields{
		"id":        &graphql.Field{Type: graphql.Int},
		"quantity":  &graphql.Field{Type: graphql.Int},
		"lineTotal": &graphql.Field{Type: graphql.String},
		"product":   &graphql.Field{Type: productType},
	},
})

var cartType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Cart",
	Fields: graphql.Fields{
		"id":         &graphql.Field{Type: graphql.Int},
		"totalPrice": &graphql.Field{Type: graphql.String},
		"items":      &graphql.Field{Type: graphql.NewList(cartItemType)},
	},
})

// product maps a model onto productType. Ratings and reviews are only
// counted when loaded.
func product(p models.Product) map[string]interface{} {
	var price interface{}
	if p.Price.Valid {
		price = p.Price.Decimal.StringFixed(2)
	}
	out := map[string]interface{}{
		"id":            int(p.ID),
		"productName":   p.Name,
		"description":   p.Description,
		"price":         price,
		"active":        p.Active,
		"averageRating": resources.AverageRating(p.Ratings),
		"ratingCount":   len(p.Ratings),
		"reviewCount":   len(p.Reviews),
	}
	if p.Category.ID != 0 {
		out["category"] = map[string]interface{}{"id": int(p.Category.ID), "name": p.Category.Name}
	}
	return out
}

func cart(c models.Cart) (map[string]interface{}, error) {
	total, err := aggregate.CartTotal(c)
	if err != nil {
		return nil, err
	}
	items := make([]map[string]interface{}, 0, len(c.Items))
	for _, it := range c.Items {
		line, err := aggregate.LineTotal(it)
		if err != nil {
			return nil, err
		}
		items = append(items, map[string]interface{}{
			"id":        int(it.ID),
			"quantity":  it.Quantity,
			"lineTotal": line.StringFixed(2),
			"product":   product(*it.Product),
		})
	}
	return map[string]interface{}{
		"id":         int(c.ID),
		"totalPrice": total.StringFixed(2),
		"items":      items,
	}, nil
}

// NewSchema builds the query root over the catalog and cart services.
func NewSchema(catalog *services.CatalogService, carts *services.CartService) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewList(productType),
				Args: graphql.FieldConfigArgument{
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"category": &graphql.ArgumentConfig{Type: graphql.Int},
					"page":     &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 1},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 20},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					f := repositories.ProductFilter{}
					f.Search, _ = p.Args["search"].(string)
					if cat, ok := p.Args["category"].(int); ok && cat > 0 {
						id := uint(cat)
						f.CategoryID = &id
					}
					page, _ := p.Args["page"].(int)
					limit, _ := p.Args["limit"].(int)

					list, _, err := catalog.Products(p.Context, f, page, limit)
					if err != nil {
						return nil, err
					}
					out := make([]map[string]interface{}, 0, len(list))
					for _, item := range list {
						out = append(out, product(item))
					}
					return out, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					if id <= 0 {
						return nil, nil
					}
					item, err := catalog.Product(p.Context, uint(id))
					if errors.Is(err, services.ErrNotFound) {
						return nil, nil
					}
					if err != nil {
						return nil, err
					}
					return product(item), nil
				},
			},
			"cart": &graphql.Field{
				Type: cartType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					claims, ok := auth.ClaimsFromCtx(p.Context)
					if !ok {
						return nil, errUnauthenticated
					}
					c, err := carts.Cart(p.Context, services.Actor{UserID: claims.UserID, Role: claims.Role})
					if err != nil {
						return nil, err
					}
					return cart(c)
				},
			},
		},
	})
	return gql.NewSchema(query)
}
