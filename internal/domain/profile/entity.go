package profile

import (
	"skill-swap/internal/domain/matching"

	"github.com/google/uuid"
)

type SkillKind string

const (
	SkillOffered SkillKind = "offered"
	SkillWanted  SkillKind = "wanted"
)

// Profile is the public part of a user that discovery ranks.
type Profile struct {
	ID          uuid.UUID
	DisplayName string
	PhotoURL    string
	Bio         string
	Rating      float64
	IsBanned    bool

	SkillsOffered []string
	SkillsWanted  []string
}

func (p Profile) Skills() matching.Profile {
	return matching.Profile{
		Offered: matching.NewSkillSet(p.SkillsOffered...),
		Wanted:  matching.NewSkillSet(p.SkillsWanted...),
	}
}
