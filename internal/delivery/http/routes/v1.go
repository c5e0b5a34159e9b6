package routes

import (
	"skill-swap/internal/delivery/http/handler"
	"skill-swap/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// RegisterV1 mounts the authenticated API. Every route below requires a bearer token.
func RegisterV1(r fiber.Router, auth *middleware.AuthMiddleware, matches *handler.MatchHandler) {
	if r == nil || auth == nil {
		return
	}

	protected := r.Group("", auth.Middleware())
	if matches != nil {
		matches.RegisterRoutes(protected)
	}
}
