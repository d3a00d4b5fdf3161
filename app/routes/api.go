package routes

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/shopfront/app/controllers"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/rbac"
	"github.com/shashiranjanraj/shopfront/pkg/router"
)

// LoginAttempts bounds login and registration calls per client IP per minute.
const LoginAttempts = 10

// RegisterAPI mounts every route of the storefront.
func RegisterAPI(r *router.Router, c *controllers.Set) {
	limiter := middleware.NewRateLimiter(LoginAttempts, time.Minute)

	r.Get("/health", "health", ctx.Wrap(c.Health.Health))
	r.Post("/graphql", "graphql", ctx.Wrap(c.GraphQL.Serve), middleware.OptionalAuth)
	r.Get("/graphql", "graphql.get", ctx.Wrap(c.GraphQL.Serve), middleware.OptionalAuth)
	r.Get("/ws/cart", "ws.cart", ctx.Wrap(c.WS.Cart), middleware.Auth)

	api := r.Group("/api")

	// ── Auth ────────────────────────────────────────────────────────────────
	api.Post("/register", "auth.register", ctx.Wrap(c.Auth.Register), limiter.Middleware)
	api.Post("/login", "auth.login", ctx.Wrap(c.Auth.Login), limiter.Middleware)
	api.Post("/logout", "auth.logout", ctx.Wrap(c.Auth.Logout))
	api.Post("/token/refresh", "auth.refresh", ctx.Wrap(c.Auth.Refresh))

	// ── Catalog (public reads) ──────────────────────────────────────────────
	categories := api.Group("/categories", rbac.SafeOr(chain(middleware.Auth, rbac.HasRole(auth.RoleAdmin))))
	categories.Get("/", "categories.index", ctx.Wrap(c.Categories.Index))
	categories.Post("/", "categories.store", ctx.Wrap(c.Categories.Store))
	categories.Get("/{id}", "categories.show", ctx.Wrap(c.Categories.Show))
	categories.Put("/{id}", "categories.update", ctx.Wrap(c.Categories.Update))
	categories.Patch("/{id}", "categories.patch", ctx.Wrap(c.Categories.Update))
	categories.Delete("/{id}", "categories.destroy", ctx.Wrap(c.Categories.Destroy))

	products := api.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(c.Products.Index))
	products.Get("/{id}", "products.show", ctx.Wrap(c.Products.Show))
	products.Get("/{id}/photos", "products.photos.index", ctx.Wrap(c.Photos.Index))
	products.Get("/{id}/ratings", "products.ratings", ctx.Wrap(c.Ratings.ForProduct))

	reviews := api.Group("/reviews")
	reviews.Get("/", "reviews.index", ctx.Wrap(c.Reviews.Index))
	reviews.Get("/{id}", "reviews.show", ctx.Wrap(c.Reviews.Show))

	// ── Signed in ───────────────────────────────────────────────────────────
	owned := api.Group("/products", middleware.Auth)
	owned.Post("/", "products.store", ctx.Wrap(c.Products.Store))
	owned.Put("/{id}", "products.update", ctx.Wrap(c.Products.Update))
	owned.Patch("/{id}", "products.patch", ctx.Wrap(c.Products.Update))
	owned.Delete("/{id}", "products.destroy", ctx.Wrap(c.Products.Destroy))
	owned.Post("/{id}/photos", "products.photos.store", ctx.Wrap(c.Photos.Store))
	owned.Delete("/{id}/photos/{photo}", "products.photos.destroy", ctx.Wrap(c.Photos.Destroy))

	users := api.Group("/users", middleware.Auth)
	users.Get("/", "users.index", ctx.Wrap(c.Users.Index))
	users.Get("/me", "users.me", ctx.Wrap(c.Users.Me))
	users.Get("/{id}", "users.show", ctx.Wrap(c.Users.Show))
	users.Put("/{id}", "users.update", ctx.Wrap(c.Users.Update))
	users.Patch("/{id}", "users.patch", ctx.Wrap(c.Users.Update))
	users.Delete("/{id}", "users.destroy", ctx.Wrap(c.Users.Destroy))

	ratings := api.Group("/ratings", middleware.Auth)
	ratings.Get("/", "ratings.index", ctx.Wrap(c.Ratings.Index))
	ratings.Post("/", "ratings.store", ctx.Wrap(c.Ratings.Store))
	ratings.Delete("/{id}", "ratings.destroy", ctx.Wrap(c.Ratings.Destroy))

	writeReviews := api.Group("/reviews", middleware.Auth)
	writeReviews.Post("/", "reviews.store", ctx.Wrap(c.Reviews.Store))
	writeReviews.Put("/{id}", "reviews.update", ctx.Wrap(c.Reviews.Update))
	writeReviews.Patch("/{id}", "reviews.patch", ctx.Wrap(c.Reviews.Update))
	writeReviews.Delete("/{id}", "reviews.destroy", ctx.Wrap(c.Reviews.Destroy))

	api.Get("/cart", "cart.show", ctx.Wrap(c.Cart.Show), middleware.Auth)

	items := api.Group("/cart-items", middleware.Auth)
	items.Get("/", "cart_items.index", ctx.Wrap(c.CartItems.Index))
	items.Post("/", "cart_items.store", ctx.Wrap(c.CartItems.Store))
	items.Get("/{id}", "cart_items.show", ctx.Wrap(c.CartItems.Show))
	items.Put("/{id}", "cart_items.update", ctx.Wrap(c.CartItems.Update))
	items.Patch("/{id}", "cart_items.patch", ctx.Wrap(c.CartItems.Update))
	items.Delete("/{id}", "cart_items.destroy", ctx.Wrap(c.CartItems.Destroy))
}

// chain composes middleware so the first argument runs first.
func chain(mws ...router.Middleware) router.Middleware {
	return func(next http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			next = mws[i](next)
		}
		return next
	}
}
