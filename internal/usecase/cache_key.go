package usecase

import (
	"crypto/sha256"
	"encoding/hex"

	"skill-swap/internal/domain/matching"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type discoveryCacheKeyInput struct {
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
	MinScore int    `json:"min_score"`
	Skill    string `json:"skill"`
}

// DiscoveryCacheKey expects params already normalized.
func DiscoveryCacheKey(userID uuid.UUID, params DiscoveryParams) string {
	in := discoveryCacheKeyInput{
		Page:     params.Page,
		Limit:    params.Limit,
		MinScore: params.MinScore,
		Skill:    matching.NormalizeSkill(params.Skill),
	}

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "matches:feed:" + userID.String() + ":" + hex.EncodeToString(sum[:])
}

// MatchPairLockKey is the same for (a, b) and (b, a).
func MatchPairLockKey(a, b uuid.UUID) string {
	x, y := a.String(), b.String()
	if y < x {
		x, y = y, x
	}
	return "matches:lock:" + x + ":" + y
}
