package matching

import (
	"sort"
	"strings"

	"github.com/samber/lo"
)

const (
	PointsPerSkill = 30
	MutualBonus    = 20
	MaxScore       = 100
)

// SkillSet is a set of normalized skill names. Build it with NewSkillSet; the
// zero value is an empty set.
type SkillSet struct {
	names map[string]struct{}
}

func NormalizeSkill(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewSkillSet normalizes names, dropping empties and collapsing duplicates.
func NewSkillSet(names ...string) SkillSet {
	cleaned := lo.Uniq(lo.FilterMap(names, func(n string, _ int) (string, bool) {
		n = NormalizeSkill(n)
		return n, n != ""
	}))

	m := make(map[string]struct{}, len(cleaned))
	for _, n := range cleaned {
		m[n] = struct{}{}
	}
	return SkillSet{names: m}
}

func (s SkillSet) Has(name string) bool {
	_, ok := s.names[NormalizeSkill(name)]
	return ok
}

func (s SkillSet) Len() int { return len(s.names) }

// Names returns the members in ascending order.
func (s SkillSet) Names() []string {
	out := lo.Keys(s.names)
	sort.Strings(out)
	return out
}

// Intersect returns the sorted names present in both sets.
func (s SkillSet) Intersect(other SkillSet) []string {
	if s.Len() == 0 || other.Len() == 0 {
		return []string{}
	}
	small, big := s, other
	if big.Len() < small.Len() {
		small, big = big, small
	}
	out := lo.Filter(small.Names(), func(n string, _ int) bool {
		_, ok := big.names[n]
		return ok
	})
	return out
}

// Profile is the pair of skill sets a user publishes.
type Profile struct {
	Offered SkillSet
	Wanted  SkillSet
}

type Result struct {
	Score   int
	AGivesB []string
	BGivesA []string
	Mutual  bool
}

// Evaluate scores how well a and b complement each other. The result is
// symmetric in the sense that swapping a and b swaps AGivesB and BGivesA
// and leaves Score unchanged.
func Evaluate(a, b Profile) Result {
	aGivesB := a.Offered.Intersect(b.Wanted)
	bGivesA := b.Offered.Intersect(a.Wanted)

	raw := PointsPerSkill*len(aGivesB) + PointsPerSkill*len(bGivesA)
	mutual := len(aGivesB) > 0 && len(bGivesA) > 0
	if mutual {
		raw += MutualBonus
	}

	return Result{
		Score:   clamp(raw),
		AGivesB: aGivesB,
		BGivesA: bGivesA,
		Mutual:  mutual,
	}
}

func Score(aOffered, aWanted, bOffered, bWanted SkillSet) int {
	return Evaluate(
		Profile{Offered: aOffered, Wanted: aWanted},
		Profile{Offered: bOffered, Wanted: bWanted},
	).Score
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
