package handler

import (
	"context"
	"time"

	"skill-swap/internal/pkg/response"
	"skill-swap/internal/relay"

	"github.com/gofiber/fiber/v3"
)

const healthPingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type RelayStats interface {
	Stats() relay.Stats
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
	relay RelayStats
}

// NewHealthHandler accepts nil dependencies; they are reported as "disabled".
func NewHealthHandler(db, cache Pinger, relayStats RelayStats) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, relay: relayStats}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

type healthResponse struct {
	Status   string       `json:"status"`
	Database string       `json:"database"`
	Cache    string       `json:"cache"`
	Relay    *relay.Stats `json:"relay,omitempty"`
}

// Health always answers 200 while the process serves traffic. Dependency
// state is reported in the body.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthPingTimeout)
	defer cancel()

	out := healthResponse{
		Status:   "ok",
		Database: pingStatus(ctx, h.db),
		Cache:    pingStatus(ctx, h.cache),
	}
	if out.Database == "down" {
		out.Status = "degraded"
	}
	if h.relay != nil {
		st := h.relay.Stats()
		out.Relay = &st
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

func pingStatus(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	if err := p.Ping(ctx); err != nil {
		return "down"
	}
	return "up"
}
