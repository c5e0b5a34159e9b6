package relay

import (
	"net/http"

	"skill-swap/internal/config"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

// Handler upgrades HTTP requests to relay connections.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	opts     connOptions
	logger   zerolog.Logger
}

func NewHandler(hub *Hub, cfg config.RelayConfig, logger zerolog.Logger) *Handler {
	allowed := cfg.AllowedOriginList()
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(allowed, r.Header.Get("Origin"))
			},
		},
		opts: connOptions{
			sendBuffer:      cfg.SendBuffer,
			maxMessageBytes: cfg.MaxMessageBytes,
			eventsPerSecond: cfg.EventsPerSecond,
			eventBurst:      cfg.EventBurst,
		},
		logger: logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.hub == nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("relay upgrade failed")
		return
	}

	c := newWSConn(uuid.NewString(), ws, h.hub, h.opts, h.logger)
	go c.run()
}

// Fiber exposes the handler as a fiber route.
func (h *Handler) Fiber() fiber.Handler {
	if h == nil || h.hub == nil {
		return func(fiber.Ctx) error { return fiber.ErrServiceUnavailable }
	}
	return adaptor.HTTPHandler(h)
}

func originAllowed(allowed []string, origin string) bool {
	if len(allowed) == 0 || origin == "" {
		return true
	}
	return lo.Contains(allowed, origin)
}
