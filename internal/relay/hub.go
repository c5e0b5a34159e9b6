// Package relay implements the realtime presence and chat-room relay served on /ws.
package relay

import (
	"encoding/json"
	"errors"
	"sync"

	"skill-swap/internal/metrics"
	"skill-swap/internal/presence"

	"github.com/rs/zerolog"
)

var ErrSendBufferFull = errors.New("send buffer full")

// Connection is one relay peer. Send must not block.
type Connection interface {
	ID() string
	Send(data []byte) error
	Close() error
}

// Hub owns the presence registry and room table. Each operation mutates state
// and enqueues the resulting frames while holding mu, so peers observe events
// in the order the hub applied them.
type Hub struct {
	mu sync.Mutex

	conns       map[string]Connection
	rooms       map[string]map[string]Connection
	memberships map[string]map[string]struct{}
	presence    *presence.Registry

	logger zerolog.Logger
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		conns:       make(map[string]Connection),
		rooms:       make(map[string]map[string]Connection),
		memberships: make(map[string]map[string]struct{}),
		presence:    presence.NewRegistry(),
		logger:      logger,
	}
}

func (h *Hub) Register(c Connection) {
	if h == nil || c == nil || c.ID() == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.conns[c.ID()] = c
	total := len(h.conns)
	metrics.RelayConnections.Set(float64(total))
	h.logger.Info().Str("conn_id", c.ID()).Int("total_clients", total).Msg("relay connected")
}

// AnnouncePresence binds userID to connID and sends the full online set to every peer.
func (h *Hub) AnnouncePresence(connID, userID string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		h.logger.Debug().Str("conn_id", connID).Msg("announce from unknown connection ignored")
		return
	}
	h.presence.Set(userID, connID)
	h.broadcastPresenceLocked()
}

func (h *Hub) JoinRoom(connID, roomID string) {
	if h == nil || roomID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.conns[connID]
	if !ok {
		return
	}
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[string]Connection)
		h.rooms[roomID] = members
	}
	members[connID] = c

	joined, ok := h.memberships[connID]
	if !ok {
		joined = make(map[string]struct{})
		h.memberships[connID] = joined
	}
	joined[roomID] = struct{}{}
	metrics.RelayRooms.Set(float64(len(h.rooms)))
}

func (h *Hub) LeaveRoom(connID, roomID string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(connID, roomID)
	metrics.RelayRooms.Set(float64(len(h.rooms)))
}

// RelayMessage forwards payload verbatim to the other subscribers of roomID.
func (h *Hub) RelayMessage(connID, roomID string, payload json.RawMessage) {
	h.relay(connID, roomID, NewMessage{Message: payload})
}

func (h *Hub) RelayTyping(connID, roomID, userID, displayName string) {
	h.relay(connID, roomID, UserTyping{UserID: userID, DisplayName: displayName})
}

func (h *Hub) RelayStopTyping(connID, roomID, userID string) {
	h.relay(connID, roomID, UserStopTyping{UserID: userID})
}

// Disconnect forgets connID, its room memberships and any presence bound to it,
// then sends the updated online set to the remaining peers.
func (h *Hub) Disconnect(connID string) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.conns[connID]; !ok {
		return
	}
	delete(h.conns, connID)
	for roomID := range h.memberships[connID] {
		h.leaveLocked(connID, roomID)
	}
	delete(h.memberships, connID)

	removed := h.presence.RemoveByConnection(connID)
	total := len(h.conns)
	metrics.RelayConnections.Set(float64(total))
	metrics.RelayRooms.Set(float64(len(h.rooms)))
	h.logger.Info().
		Str("conn_id", connID).
		Strs("users", removed).
		Int("total_clients", total).
		Msg("relay disconnected")

	h.broadcastPresenceLocked()
}

// Dispatch applies an inbound event sent by c.
func (h *Hub) Dispatch(c Connection, ev InboundEvent) {
	if h == nil || c == nil || ev == nil {
		return
	}
	metrics.RelayInboundEvents.WithLabelValues(ev.EventName()).Inc()

	connID := c.ID()
	switch e := ev.(type) {
	case AnnouncePresence:
		h.AnnouncePresence(connID, e.UserID)
	case JoinRoom:
		h.JoinRoom(connID, e.RoomID)
	case LeaveRoom:
		h.LeaveRoom(connID, e.RoomID)
	case SendMessage:
		h.RelayMessage(connID, e.RoomID, e.Message)
	case Typing:
		h.RelayTyping(connID, e.RoomID, e.UserID, e.DisplayName)
	case StopTyping:
		h.RelayStopTyping(connID, e.RoomID, e.UserID)
	default:
		h.logger.Debug().Str("event", ev.EventName()).Msg("unhandled relay event")
	}
}

func (h *Hub) OnlineUsers() []string {
	if h == nil {
		return []string{}
	}
	return h.presence.Online()
}

// Stats is a point-in-time view of the hub for health reporting.
type Stats struct {
	Connections int `json:"connections"`
	OnlineUsers int `json:"online_users"`
	Rooms       int `json:"rooms"`
}

func (h *Hub) Stats() Stats {
	if h == nil {
		return Stats{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return Stats{
		Connections: len(h.conns),
		OnlineUsers: h.presence.Len(),
		Rooms:       len(h.rooms),
	}
}

func (h *Hub) RoomSize(roomID string) int {
	if h == nil {
		return 0
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[roomID])
}

// Shutdown closes every connection. Their read loops then call Disconnect.
func (h *Hub) Shutdown() {
	if h == nil {
		return
	}
	h.mu.Lock()
	snapshot := make([]Connection, 0, len(h.conns))
	for _, c := range h.conns {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	for _, c := range snapshot {
		_ = c.Close()
	}
}

func (h *Hub) relay(connID, roomID string, ev OutboundEvent) {
	if h == nil || roomID == "" {
		return
	}
	frame, err := Encode(ev)
	if err != nil {
		h.logger.Debug().Err(err).Str("event", ev.EventName()).Msg("encode relay event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	for id, c := range members {
		if id == connID {
			continue
		}
		h.deliverLocked(c, frame)
	}
}

func (h *Hub) leaveLocked(connID, roomID string) {
	members, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(h.rooms, roomID)
	}
	if joined, ok := h.memberships[connID]; ok {
		delete(joined, roomID)
	}
}

func (h *Hub) broadcastPresenceLocked() {
	online := h.presence.Online()
	metrics.RelayOnlineUsers.Set(float64(len(online)))

	frame, err := Encode(PresenceList{UserIDs: online})
	if err != nil {
		h.logger.Error().Err(err).Msg("encode presence list")
		return
	}
	for _, c := range h.conns {
		h.deliverLocked(c, frame)
	}
}

func (h *Hub) deliverLocked(c Connection, frame []byte) {
	if err := c.Send(frame); err != nil {
		metrics.RelayDroppedDeliveries.Inc()
		h.logger.Debug().Err(err).Str("conn_id", c.ID()).Msg("relay delivery dropped")
	}
}
