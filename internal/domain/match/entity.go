package match

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusExpired  Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// Active reports whether the status blocks a new match between the same pair.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusAccepted
}

// Answer reports whether the recipient may move a pending match to s.
func (s Status) Answer() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Match is an exchange proposal from UserA to UserB. CompatibilityScore is
// computed once at creation and never recalculated.
type Match struct {
	ID                 uuid.UUID
	UserA              uuid.UUID
	UserB              uuid.UUID
	SkillOfferedByA    string
	SkillOfferedByB    string
	CompatibilityScore int
	Status             Status
	InitiatedBy        uuid.UUID
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (m Match) Involves(userID uuid.UUID) bool {
	return m.UserA == userID || m.UserB == userID
}

// Counterpart returns the other participant from userID's point of view.
func (m Match) Counterpart(userID uuid.UUID) uuid.UUID {
	if m.UserA == userID {
		return m.UserB
	}
	return m.UserA
}
