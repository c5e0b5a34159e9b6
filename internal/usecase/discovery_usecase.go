package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/profile"
	"skill-swap/internal/metrics"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"
)

type DiscoveryParams struct {
	Page     int
	Limit    int
	MinScore int
	Skill    string
}

// Candidate is a ranked partner suggestion. YouOffer lists what the caller can
// teach the candidate, TheyOffer what the candidate can teach the caller.
type Candidate struct {
	Profile   profile.Profile `json:"profile"`
	Score     int             `json:"score"`
	YouOffer  []string        `json:"you_offer"`
	TheyOffer []string        `json:"they_offer"`
	Mutual    bool            `json:"mutual"`
}

type DiscoveryPage struct {
	Items []Candidate `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

type DiscoveryUsecase interface {
	FindMatches(ctx context.Context, userID uuid.UUID, params DiscoveryParams) (DiscoveryPage, error)
}

type Discovery struct {
	profiles repository.ProfileRepository
	cache    Cache
	ttl      time.Duration
	logger   zerolog.Logger
}

func NewDiscoveryUsecase(profiles repository.ProfileRepository, cache Cache, ttl time.Duration, logger zerolog.Logger) *Discovery {
	return &Discovery{profiles: profiles, cache: cache, ttl: ttl, logger: logger}
}

func (u *Discovery) FindMatches(ctx context.Context, userID uuid.UUID, params DiscoveryParams) (DiscoveryPage, error) {
	if userID == uuid.Nil {
		return DiscoveryPage{}, ErrUnauthorized
	}
	if params.MinScore < 0 || params.MinScore > matching.MaxScore {
		return DiscoveryPage{}, ErrInvalidInput
	}
	params.Page, params.Limit = normalizePage(params.Page, params.Limit)
	params.Skill = matching.NormalizeSkill(params.Skill)

	key := DiscoveryCacheKey(userID, params)
	if u.cache != nil {
		var cached DiscoveryPage
		ok, err := u.cache.GetJSON(ctx, key, &cached)
		if err == nil && ok {
			metrics.FeedCacheLookups.WithLabelValues(metrics.CacheHit).Inc()
			return cached, nil
		}
		metrics.FeedCacheLookups.WithLabelValues(metrics.CacheMiss).Inc()
	}

	me, err := u.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return DiscoveryPage{}, ErrProfileNotFound
		}
		u.logger.Error().Err(err).Str("user_id", userID.String()).Msg("load caller profile")
		return DiscoveryPage{}, ErrInternal
	}

	page := DiscoveryPage{Items: []Candidate{}, Page: params.Page, Limit: params.Limit}

	mine := me.Skills()
	if mine.Offered.Len() == 0 || mine.Wanted.Len() == 0 {
		u.store(ctx, key, page)
		return page, nil
	}

	others, err := u.profiles.ListCandidates(ctx, userID, mine.Offered.Names(), mine.Wanted.Names())
	if err != nil {
		u.logger.Error().Err(err).Str("user_id", userID.String()).Msg("list match candidates")
		return DiscoveryPage{}, ErrInternal
	}

	ranked := Rank(mine, others, params.MinScore, params.Skill)
	page.Total = len(ranked)
	start, end := pageBounds(page.Total, params.Page, params.Limit)
	page.Items = ranked[start:end]

	u.store(ctx, key, page)
	return page, nil
}

// Rank scores candidates against mine, drops those under minScore or not
// offering skill (when set), and orders by score, display name, then id.
func Rank(mine matching.Profile, candidates []profile.Profile, minScore int, skill string) []Candidate {
	skill = matching.NormalizeSkill(skill)

	eligible := lo.Filter(candidates, func(p profile.Profile, _ int) bool {
		if p.IsBanned {
			return false
		}
		return skill == "" || matching.NewSkillSet(p.SkillsOffered...).Has(skill)
	})

	scored := lo.FilterMap(eligible, func(p profile.Profile, _ int) (Candidate, bool) {
		res := matching.Evaluate(mine, p.Skills())
		return Candidate{
			Profile:   p,
			Score:     res.Score,
			YouOffer:  res.AGivesB,
			TheyOffer: res.BGivesA,
			Mutual:    res.Mutual,
		}, res.Score > 0 && res.Score >= minScore
	})

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		an, bn := strings.ToLower(a.Profile.DisplayName), strings.ToLower(b.Profile.DisplayName)
		if an != bn {
			return an < bn
		}
		return a.Profile.ID.String() < b.Profile.ID.String()
	})
	return scored
}

func (u *Discovery) store(ctx context.Context, key string, page DiscoveryPage) {
	if u.cache == nil {
		return
	}
	if err := u.cache.SetJSON(ctx, key, page, u.ttl); err != nil {
		u.logger.Debug().Err(err).Str("key", key).Msg("cache discovery page")
	}
}
