package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/ws"
)

// Deps is everything the controllers need.
type Deps struct {
	Auth     *services.AuthService
	Users    *services.UserService
	Catalog  *services.CatalogService
	Photos   *services.PhotoService
	Feedback *services.FeedbackService
	Carts    *services.CartService
	Hub      *ws.Hub
	GraphQL  http.Handler
	Probes   map[string]Probe
}

// Set holds one instance of every controller for route registration.
type Set struct {
	Auth       *AuthController
	Users      *UserController
	Categories *CategoryController
	Products   *ProductController
	Photos     *PhotoController
	Ratings    *RatingController
	Reviews    *ReviewController
	Cart       *CartController
	CartItems  *CartItemController
	WS         *WSController
	GraphQL    *GraphQLController
	Health     *HealthController
}

func New(d Deps) *Set {
	return &Set{
		Auth:       NewAuthController(d.Auth),
		Users:      NewUserController(d.Users),
		Categories: NewCategoryController(d.Catalog),
		Products:   NewProductController(d.Catalog),
		Photos:     NewPhotoController(d.Photos),
		Ratings:    NewRatingController(d.Feedback),
		Reviews:    NewReviewController(d.Feedback),
		Cart:       NewCartController(d.Carts),
		CartItems:  NewCartItemController(d.Carts),
		WS:         NewWSController(d.Hub),
		GraphQL:    NewGraphQLController(d.GraphQL),
		Health:     NewHealthController(d.Probes),
	}
}
