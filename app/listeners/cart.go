// Package listeners subscribes application reactions to domain events.
package listeners

import (
	"context"

	"github.com/shashiranjanraj/shopfront/app/resources"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/event"
	"github.com/shashiranjanraj/shopfront/pkg/logger"
)

// Pusher delivers a JSON message to every open socket of a user.
type Pusher interface {
	SendJSON(userID uint, v interface{}) error
}

// Register wires every listener onto bus.
func Register(bus *event.Bus, carts *services.CartService, push Pusher) {
	bus.Listen(services.EventCartChanged, PushCart(carts, push))
}

// PushCart reloads the changed cart and pushes its totals to the owner.
func PushCart(carts *services.CartService, push Pusher) event.Handler {
	return func(ctx context.Context, payload interface{}) {
		ev, ok := payload.(services.CartChanged)
		if !ok {
			return
		}
		log := logger.WithCtx(ctx).With("user_id", ev.UserID, "cart_id", ev.CartID)

		cart, err := carts.Cart(ctx, services.Actor{UserID: ev.UserID})
		if err != nil {
			log.Warn("listeners: cart reload failed", "error", err)
			return
		}
		msg, err := resources.CartPush(cart)
		if err != nil {
			log.Warn("listeners: cart cannot be priced", "error", err)
			return
		}
		if err := push.SendJSON(ev.UserID, msg); err != nil {
			log.Warn("listeners: push failed", "error", err)
		}
	}
}
