package dto

import (
	"time"

	"skill-swap/internal/domain/match"

	"github.com/google/uuid"
)

type CreateMatchRequest struct {
	TargetUserID string `json:"target_user_id" validate:"required,uuid"`
	SkillOffered string `json:"skill_offered" validate:"required,max=100"`
	SkillWanted  string `json:"skill_wanted" validate:"required,max=100"`
}

type UpdateMatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type MatchResponse struct {
	ID                 uuid.UUID `json:"id"`
	UserA              uuid.UUID `json:"user_a"`
	UserB              uuid.UUID `json:"user_b"`
	SkillOfferedByA    string    `json:"skill_offered_by_a"`
	SkillOfferedByB    string    `json:"skill_offered_by_b"`
	CompatibilityScore int       `json:"compatibility_score"`
	Status             string    `json:"status"`
	InitiatedBy        uuid.UUID `json:"initiated_by"`
	CreatedAt          string    `json:"created_at"`
	UpdatedAt          string    `json:"updated_at"`
}

func NewMatchResponse(m match.Match) MatchResponse {
	return MatchResponse{
		ID:                 m.ID,
		UserA:              m.UserA,
		UserB:              m.UserB,
		SkillOfferedByA:    m.SkillOfferedByA,
		SkillOfferedByB:    m.SkillOfferedByB,
		CompatibilityScore: m.CompatibilityScore,
		Status:             string(m.Status),
		InitiatedBy:        m.InitiatedBy,
		CreatedAt:          formatTime(m.CreatedAt),
		UpdatedAt:          formatTime(m.UpdatedAt),
	}
}

func NewMatchListResponse(items []match.Match) []MatchResponse {
	out := make([]MatchResponse, 0, len(items))
	for _, m := range items {
		out = append(out, NewMatchResponse(m))
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
