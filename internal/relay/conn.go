package relay

import (
	"errors"
	"sync"
	"time"

	"skill-swap/internal/metrics"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type connOptions struct {
	sendBuffer      int
	maxMessageBytes int64
	eventsPerSecond float64
	eventBurst      int
}

// wsConn pumps frames between one WebSocket and the hub.
type wsConn struct {
	id      string
	ws      *websocket.Conn
	send    chan []byte
	hub     *Hub
	limiter *rate.Limiter
	logger  zerolog.Logger
	opts    connOptions

	closeOnce sync.Once
}

func newWSConn(id string, ws *websocket.Conn, hub *Hub, opts connOptions, logger zerolog.Logger) *wsConn {
	if opts.sendBuffer <= 0 {
		opts.sendBuffer = 256
	}
	if opts.maxMessageBytes <= 0 {
		opts.maxMessageBytes = 16 * 1024
	}

	var limiter *rate.Limiter
	if opts.eventsPerSecond > 0 {
		burst := opts.eventBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.eventsPerSecond), burst)
	}

	return &wsConn{
		id:      id,
		ws:      ws,
		send:    make(chan []byte, opts.sendBuffer),
		hub:     hub,
		limiter: limiter,
		logger:  logger.With().Str("conn_id", id).Logger(),
		opts:    opts,
	}
}

func (c *wsConn) ID() string { return c.id }

func (c *wsConn) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *wsConn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.ws.Close()
	})
	return err
}

// run registers the connection and blocks until the peer goes away.
func (c *wsConn) run() {
	c.hub.Register(c)
	go c.writePump()
	c.readPump()
}

func (c *wsConn) readPump() {
	defer func() {
		c.hub.Disconnect(c.id)
		// The hub no longer references c, so nothing can send on the channel.
		close(c.send)
		_ = c.Close()
	}()

	c.ws.SetReadLimit(c.opts.maxMessageBytes)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn().Err(err).Msg("relay read error")
			}
			return
		}
		if msgType != websocket.TextMessage {
			metrics.RelayRejectedFrames.WithLabelValues(metrics.RejectDecode).Inc()
			continue
		}
		if c.limiter != nil && !c.limiter.Allow() {
			metrics.RelayRejectedFrames.WithLabelValues(metrics.RejectRateLimit).Inc()
			c.logger.Debug().Msg("relay frame rate limited")
			continue
		}

		ev, err := DecodeInbound(data)
		if err != nil {
			metrics.RelayRejectedFrames.WithLabelValues(rejectReason(err)).Inc()
			c.logger.Debug().Err(err).Msg("relay frame rejected")
			continue
		}
		c.hub.Dispatch(c, ev)
	}
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownEvent):
		return metrics.RejectUnknown
	case errors.Is(err, ErrInvalidPayload):
		return metrics.RejectInvalid
	default:
		return metrics.RejectDecode
	}
}
