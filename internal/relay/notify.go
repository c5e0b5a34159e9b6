package relay

import (
	"skill-swap/internal/domain/match"
	"skill-swap/internal/metrics"
)

// NotifyUser sends ev to the connection userID announced on. It reports
// whether the user was online; offline users are skipped.
func (h *Hub) NotifyUser(userID string, ev OutboundEvent) bool {
	if h == nil || userID == "" || ev == nil {
		return false
	}
	frame, err := Encode(ev)
	if err != nil {
		h.logger.Debug().Err(err).Str("event", ev.EventName()).Msg("encode notification")
		return false
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	connID, ok := h.presence.Lookup(userID)
	c, live := h.conns[connID]
	if !ok || !live {
		metrics.RelayNotifications.WithLabelValues(ev.EventName(), metrics.NotifyOffline).Inc()
		return false
	}
	h.deliverLocked(c, frame)
	metrics.RelayNotifications.WithLabelValues(ev.EventName(), metrics.NotifyDelivered).Inc()
	return true
}

// MatchRequested tells the recipient of m about the new proposal.
func (h *Hub) MatchRequested(m match.Match) {
	h.NotifyUser(m.UserB.String(), MatchRequested{
		MatchID:      m.ID.String(),
		FromUserID:   m.UserA.String(),
		SkillOffered: m.SkillOfferedByA,
		SkillWanted:  m.SkillOfferedByB,
		Score:        m.CompatibilityScore,
	})
}

// MatchAnswered tells the initiator of m that the recipient answered.
func (h *Hub) MatchAnswered(m match.Match) {
	h.NotifyUser(m.UserA.String(), MatchAnswered{
		MatchID:  m.ID.String(),
		ByUserID: m.UserB.String(),
		Status:   string(m.Status),
	})
}
