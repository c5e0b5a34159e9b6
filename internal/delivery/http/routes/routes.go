package routes

import (
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	health  *handler.HealthHandler
	matches *handler.MatchHandler
	relay   fiber.Handler
	auth    *middleware.AuthMiddleware
}

func NewRegistry(health *handler.HealthHandler, matches *handler.MatchHandler, relay fiber.Handler, auth *middleware.AuthMiddleware) *Registry {
	return &Registry{health: health, matches: matches, relay: relay, auth: auth}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil || r == nil {
		return
	}

	r.registerOps(app)
	r.registerRelay(app)
	r.registerAPI(app)
}

func (r *Registry) registerOps(app *fiber.App) {
	if r.health != nil {
		r.health.RegisterRoutes(app)
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

func (r *Registry) registerRelay(app *fiber.App) {
	if r.relay == nil {
		return
	}
	app.Get("/ws", r.relay)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.auth, r.matches)
}
