package controllers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/ws"
)

// WSController upgrades signed-in users to the cart push socket.
type WSController struct {
	hub *ws.Hub
}

func NewWSController(hub *ws.Hub) *WSController {
	return &WSController{hub: hub}
}

func (wc *WSController) Cart(c *ctx.Context) {
	ws.Upgrade(c.W, c.R, wc.hub, c.UserID())
}

// Probe checks one dependency; nil means healthy.
type Probe func(ctx context.Context) error

type HealthController struct {
	probes map[string]Probe
}

func NewHealthController(probes map[string]Probe) *HealthController {
	return &HealthController{probes: probes}
}

// Health runs every probe and answers 503 if any fails.
func (hc *HealthController) Health(c *ctx.Context) {
	cctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(hc.probes))
	for name := range hc.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	checks := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := hc.probes[name](cctx); err != nil {
			c.Log().Warn("health probe failed", "probe", name, "error", err)
			checks[name] = "down"
			healthy = false
			continue
		}
		checks[name] = "ok"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, ctx.Envelope{
			Status:  http.StatusServiceUnavailable,
			Message: "degraded",
			Data:    checks,
		})
		return
	}
	c.Success(checks)
}

// GraphQLController mounts the read-only GraphQL endpoint.
type GraphQLController struct {
	handler http.Handler
}

func NewGraphQLController(h http.Handler) *GraphQLController {
	return &GraphQLController{handler: h}
}

func (gc *GraphQLController) Serve(c *ctx.Context) {
	if gc.handler == nil {
		c.NotFound()
		return
	}
	gc.handler.ServeHTTP(c.W, c.R)
}
