package dto

import (
	"skill-swap/internal/usecase"

	"github.com/google/uuid"
)

type CandidateResponse struct {
	UserID        uuid.UUID `json:"user_id"`
	DisplayName   string    `json:"display_name"`
	PhotoURL      string    `json:"photo_url"`
	Bio           string    `json:"bio"`
	Rating        float64   `json:"rating"`
	SkillsOffered []string  `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
	Score         int       `json:"compatibility_score"`
	YouOffer      []string  `json:"you_offer"`
	TheyOffer     []string  `json:"they_offer"`
	Mutual        bool      `json:"mutual"`
}

func NewCandidateListResponse(items []usecase.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, 0, len(items))
	for _, c := range items {
		out = append(out, CandidateResponse{
			UserID:        c.Profile.ID,
			DisplayName:   c.Profile.DisplayName,
			PhotoURL:      c.Profile.PhotoURL,
			Bio:           c.Profile.Bio,
			Rating:        c.Profile.Rating,
			SkillsOffered: nonNil(c.Profile.SkillsOffered),
			SkillsWanted:  nonNil(c.Profile.SkillsWanted),
			Score:         c.Score,
			YouOffer:      nonNil(c.YouOffer),
			TheyOffer:     nonNil(c.TheyOffer),
			Mutual:        c.Mutual,
		})
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
