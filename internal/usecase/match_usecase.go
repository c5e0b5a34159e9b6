package usecase

import (
	"context"
	"errors"
	"time"

	"skill-swap/internal/domain/match"
	"skill-swap/internal/domain/matching"
	"skill-swap/internal/metrics"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type CreateMatchInput struct {
	TargetUserID uuid.UUID
	SkillOffered string
	SkillWanted  string
}

type MatchListParams struct {
	Status match.Status
	Page   int
	Limit  int
}

type MatchPage struct {
	Items []match.Match
	Total int
	Page  int
	Limit int
}

// MatchNotifier pushes match lifecycle events to the users involved. Calls
// must not block and delivery is best effort.
type MatchNotifier interface {
	MatchRequested(m match.Match)
	MatchAnswered(m match.Match)
}

type MatchUsecase interface {
	Create(ctx context.Context, userID uuid.UUID, in CreateMatchInput) (match.Match, error)
	Respond(ctx context.Context, userID, matchID uuid.UUID, status match.Status) (match.Match, error)
	List(ctx context.Context, userID uuid.UUID, params MatchListParams) (MatchPage, error)
}

type Matches struct {
	profiles repository.ProfileRepository
	matches  repository.MatchRepository
	locks    Cache
	notifier MatchNotifier
	lockTTL  time.Duration
	logger   zerolog.Logger
}

func NewMatchUsecase(profiles repository.ProfileRepository, matches repository.MatchRepository, locks Cache, notifier MatchNotifier, lockTTL time.Duration, logger zerolog.Logger) *Matches {
	return &Matches{profiles: profiles, matches: matches, locks: locks, notifier: notifier, lockTTL: lockTTL, logger: logger}
}

func (u *Matches) Create(ctx context.Context, userID uuid.UUID, in CreateMatchInput) (match.Match, error) {
	if userID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	in.SkillOffered = matching.NormalizeSkill(in.SkillOffered)
	in.SkillWanted = matching.NormalizeSkill(in.SkillWanted)
	if in.TargetUserID == uuid.Nil || in.SkillOffered == "" || in.SkillWanted == "" {
		return match.Match{}, ErrInvalidInput
	}
	if in.TargetUserID == userID {
		return match.Match{}, ErrSelfMatch
	}

	release, err := u.lockPair(ctx, userID, in.TargetUserID)
	if err != nil {
		return match.Match{}, err
	}
	defer release()

	_, exists, err := u.matches.FindActiveBetween(ctx, userID, in.TargetUserID)
	if err != nil {
		u.logger.Error().Err(err).Msg("find active match")
		return match.Match{}, ErrInternal
	}
	if exists {
		return match.Match{}, ErrMatchExists
	}

	target, err := u.profiles.GetByID(ctx, in.TargetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return match.Match{}, ErrTargetNotFound
		}
		u.logger.Error().Err(err).Msg("load target profile")
		return match.Match{}, ErrInternal
	}
	if target.IsBanned {
		return match.Match{}, ErrTargetNotFound
	}

	me, err := u.profiles.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return match.Match{}, ErrProfileNotFound
		}
		u.logger.Error().Err(err).Msg("load caller profile")
		return match.Match{}, ErrInternal
	}

	score := matching.Evaluate(me.Skills(), target.Skills()).Score

	created, err := u.matches.Create(ctx, match.Match{
		ID:                 uuid.New(),
		UserA:              userID,
		UserB:              in.TargetUserID,
		SkillOfferedByA:    in.SkillOffered,
		SkillOfferedByB:    in.SkillWanted,
		CompatibilityScore: score,
		Status:             match.StatusPending,
		InitiatedBy:        userID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrMatchExists) {
			return match.Match{}, ErrMatchExists
		}
		u.logger.Error().Err(err).Msg("create match")
		return match.Match{}, ErrInternal
	}

	metrics.MatchScore.Observe(float64(created.CompatibilityScore))
	u.logger.Info().
		Str("match_id", created.ID.String()).
		Str("user_a", created.UserA.String()).
		Str("user_b", created.UserB.String()).
		Int("score", created.CompatibilityScore).
		Msg("match requested")
	if u.notifier != nil {
		u.notifier.MatchRequested(created)
	}
	return created, nil
}

func (u *Matches) Respond(ctx context.Context, userID, matchID uuid.UUID, status match.Status) (match.Match, error) {
	if userID == uuid.Nil {
		return match.Match{}, ErrUnauthorized
	}
	if matchID == uuid.Nil || !status.Answer() {
		return match.Match{}, ErrInvalidInput
	}

	m, err := u.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repository.ErrMatchNotFound) {
			return match.Match{}, ErrMatchNotFound
		}
		u.logger.Error().Err(err).Msg("load match")
		return match.Match{}, ErrInternal
	}
	if m.UserB != userID {
		return match.Match{}, ErrNotRecipient
	}
	if m.Status != match.StatusPending {
		return match.Match{}, ErrMatchNotPending
	}

	updated, err := u.matches.UpdateStatus(ctx, matchID, match.StatusPending, status)
	if err != nil {
		if errors.Is(err, repository.ErrMatchStatusConflict) {
			return match.Match{}, ErrMatchNotPending
		}
		u.logger.Error().Err(err).Msg("update match status")
		return match.Match{}, ErrInternal
	}
	if u.notifier != nil {
		u.notifier.MatchAnswered(updated)
	}
	return updated, nil
}

func (u *Matches) List(ctx context.Context, userID uuid.UUID, params MatchListParams) (MatchPage, error) {
	if userID == uuid.Nil {
		return MatchPage{}, ErrUnauthorized
	}
	if params.Status != "" && !params.Status.Valid() {
		return MatchPage{}, ErrInvalidInput
	}
	page, limit := normalizePage(params.Page, params.Limit)

	items, total, err := u.matches.ListByUser(ctx, repository.MatchListFilter{
		UserID: userID,
		Status: params.Status,
		Limit:  limit,
		Offset: pageOffset(page, limit),
	})
	if err != nil {
		u.logger.Error().Err(err).Msg("list matches")
		return MatchPage{}, ErrInternal
	}
	return MatchPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// lockPair guards against two concurrent requests for the same pair. Without
// a lock backend the database unique index is the only guard.
func (u *Matches) lockPair(ctx context.Context, a, b uuid.UUID) (func(), error) {
	if u.locks == nil {
		return func() {}, nil
	}
	key := MatchPairLockKey(a, b)
	ok, err := u.locks.SetIfNotExists(ctx, key, a.String(), u.lockTTL)
	if err != nil {
		u.logger.Warn().Err(err).Str("key", key).Msg("match lock unavailable")
		return func() {}, nil
	}
	if !ok {
		return nil, ErrMatchInProgress
	}
	return func() {
		if err := u.locks.Delete(context.WithoutCancel(ctx), key); err != nil {
			u.logger.Debug().Err(err).Str("key", key).Msg("release match lock")
		}
	}, nil
}
