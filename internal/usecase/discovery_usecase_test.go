package usecase

import (
	"context"
	"errors"
	"math"
	"testing"

	"skill-swap/internal/domain/matching"
	"skill-swap/internal/domain/profile"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func mustUUID(s string) uuid.UUID {
	return uuid.MustParse(s)
}

var (
	meID    = mustUUID("00000000-0000-0000-0000-000000000001")
	anaID   = mustUUID("00000000-0000-0000-0000-00000000000a")
	benID   = mustUUID("00000000-0000-0000-0000-00000000000b")
	carlaID = mustUUID("00000000-0000-0000-0000-00000000000c")
	danID   = mustUUID("00000000-0000-0000-0000-00000000000d")
)

func discoveryFixture() *fakeProfileRepo {
	return newFakeProfileRepo(
		profile.Profile{ID: meID, DisplayName: "Me", SkillsOffered: []string{"Guitar", "Go"}, SkillsWanted: []string{"Spanish", "Cooking"}},
		// mutual, one each way: 80
		profile.Profile{ID: benID, DisplayName: "Ben", SkillsOffered: []string{"spanish"}, SkillsWanted: []string{"guitar"}},
		// mutual, one each way: 80, sorts before Ben by name
		profile.Profile{ID: anaID, DisplayName: "ana", SkillsOffered: []string{"Cooking"}, SkillsWanted: []string{"Go"}},
		// one direction: 30
		profile.Profile{ID: carlaID, DisplayName: "Carla", SkillsOffered: []string{"Painting"}, SkillsWanted: []string{"Guitar"}},
		// banned
		profile.Profile{ID: danID, DisplayName: "Dan", IsBanned: true, SkillsOffered: []string{"spanish"}, SkillsWanted: []string{"go"}},
	)
}

func TestDiscovery_RanksByScoreThenName(t *testing.T) {
	uc := NewDiscoveryUsecase(discoveryFixture(), nil, 0, zerolog.Nop())

	page, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 3 || page.Page != 1 || page.Limit != DefaultPageLimit {
		t.Fatalf("unexpected page meta: %+v", page)
	}
	wantOrder := []uuid.UUID{anaID, benID, carlaID}
	wantScores := []int{80, 80, 30}
	for i, c := range page.Items {
		if c.Profile.ID != wantOrder[i] || c.Score != wantScores[i] {
			t.Fatalf("item %d: got %s/%d, want %s/%d", i, c.Profile.ID, c.Score, wantOrder[i], wantScores[i])
		}
	}
	if !page.Items[0].Mutual || page.Items[2].Mutual {
		t.Fatalf("unexpected mutual flags")
	}
	if len(page.Items[0].YouOffer) != 1 || page.Items[0].YouOffer[0] != "go" {
		t.Fatalf("unexpected you_offer: %v", page.Items[0].YouOffer)
	}
	if len(page.Items[0].TheyOffer) != 1 || page.Items[0].TheyOffer[0] != "cooking" {
		t.Fatalf("unexpected they_offer: %v", page.Items[0].TheyOffer)
	}
}

func TestDiscovery_PassesNormalizedSkillsToRepository(t *testing.T) {
	repo := discoveryFixture()
	uc := NewDiscoveryUsecase(repo, nil, 0, zerolog.Nop())

	if _, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(repo.lastOffer) != 2 || repo.lastOffer[0] != "go" || repo.lastOffer[1] != "guitar" {
		t.Fatalf("unexpected offered: %v", repo.lastOffer)
	}
	if len(repo.lastWanted) != 2 || repo.lastWanted[0] != "cooking" || repo.lastWanted[1] != "spanish" {
		t.Fatalf("unexpected wanted: %v", repo.lastWanted)
	}
}

func TestDiscovery_Filters(t *testing.T) {
	uc := NewDiscoveryUsecase(discoveryFixture(), nil, 0, zerolog.Nop())

	page, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{MinScore: 50})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 2 {
		t.Fatalf("expected 2 candidates at min_score=50, got %d", page.Total)
	}

	page, err = uc.FindMatches(context.Background(), meID, DiscoveryParams{Skill: " SPANISH "})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 1 || page.Items[0].Profile.ID != benID {
		t.Fatalf("expected only ben for skill filter, got %+v", page.Items)
	}
}

func TestDiscovery_Paging(t *testing.T) {
	uc := NewDiscoveryUsecase(discoveryFixture(), nil, 0, zerolog.Nop())

	page, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{Page: 2, Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 1 || page.Items[0].Profile.ID != carlaID {
		t.Fatalf("unexpected second page: %+v", page)
	}

	page, err = uc.FindMatches(context.Background(), meID, DiscoveryParams{Page: 9, Limit: 500})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Limit != MaxPageLimit || len(page.Items) != 0 || page.Total != 3 {
		t.Fatalf("unexpected out-of-range page: %+v", page)
	}
}

func TestDiscovery_HugePage(t *testing.T) {
	uc := NewDiscoveryUsecase(discoveryFixture(), nil, 0, zerolog.Nop())

	for _, p := range []int{math.MaxInt/10 + 2, math.MaxInt} {
		page, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{Page: p, Limit: 10})
		if err != nil {
			t.Fatalf("page %d: unexpected err: %v", p, err)
		}
		if len(page.Items) != 0 || page.Total != 3 || page.Page != MaxPage {
			t.Fatalf("page %d: unexpected page: %+v", p, page)
		}
	}
}

func TestPageBounds(t *testing.T) {
	cases := []struct {
		total, page, limit int
		start, end         int
	}{
		{total: 3, page: 1, limit: 2, start: 0, end: 2},
		{total: 3, page: 2, limit: 2, start: 2, end: 3},
		{total: 3, page: 3, limit: 2, start: 3, end: 3},
		{total: 0, page: 1, limit: 10, start: 0, end: 0},
		{total: 3, page: math.MaxInt, limit: 10, start: 3, end: 3},
		{total: 3, page: math.MaxInt/10 + 2, limit: 10, start: 3, end: 3},
		{total: 3, page: 0, limit: 10, start: 3, end: 3},
	}
	for _, tc := range cases {
		start, end := pageBounds(tc.total, tc.page, tc.limit)
		if start != tc.start || end != tc.end {
			t.Fatalf("pageBounds(%d, %d, %d) = %d, %d; want %d, %d", tc.total, tc.page, tc.limit, start, end, tc.start, tc.end)
		}
	}
}

func TestDiscovery_EmptyWhenCallerLacksSkills(t *testing.T) {
	repo := newFakeProfileRepo(
		profile.Profile{ID: meID, DisplayName: "Me", SkillsOffered: []string{"Guitar"}},
		profile.Profile{ID: benID, DisplayName: "Ben", SkillsOffered: []string{"spanish"}, SkillsWanted: []string{"guitar"}},
	)
	uc := NewDiscoveryUsecase(repo, nil, 0, zerolog.Nop())

	page, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if page.Total != 0 || len(page.Items) != 0 || page.Items == nil {
		t.Fatalf("expected empty non-nil page, got %+v", page)
	}
	if repo.listCalls != 0 {
		t.Fatalf("expected no candidate query")
	}
}

func TestDiscovery_Errors(t *testing.T) {
	uc := NewDiscoveryUsecase(discoveryFixture(), nil, 0, zerolog.Nop())

	if _, err := uc.FindMatches(context.Background(), uuid.Nil, DiscoveryParams{}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{MinScore: 101}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := uc.FindMatches(context.Background(), uuid.New(), DiscoveryParams{}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	broken := discoveryFixture()
	broken.err = errors.New("db down")
	uc = NewDiscoveryUsecase(broken, nil, 0, zerolog.Nop())
	if _, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{}); !errors.Is(err, ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}

func TestDiscovery_UsesCache(t *testing.T) {
	repo := discoveryFixture()
	cache := newFakeCache()
	uc := NewDiscoveryUsecase(repo, cache, 0, zerolog.Nop())

	first, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	second, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{Limit: 2})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.listCalls)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache write, got %d", cache.sets)
	}
	if second.Total != first.Total || len(second.Items) != len(first.Items) || second.Items[0].Profile.ID != first.Items[0].Profile.ID {
		t.Fatalf("cached page differs: %+v vs %+v", second, first)
	}

	if _, err := uc.FindMatches(context.Background(), meID, DiscoveryParams{Limit: 3}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if repo.listCalls != 2 {
		t.Fatalf("different params must miss the cache")
	}
}

func TestRank_SkipsZeroAndBanned(t *testing.T) {
	mine := matching.Profile{Offered: matching.NewSkillSet("go"), Wanted: matching.NewSkillSet("rust")}
	got := Rank(mine, []profile.Profile{
		{ID: anaID, DisplayName: "Ana", SkillsOffered: []string{"python"}, SkillsWanted: []string{"java"}},
		{ID: benID, DisplayName: "Ben", IsBanned: true, SkillsOffered: []string{"rust"}, SkillsWanted: []string{"go"}},
		{ID: carlaID, DisplayName: "Carla", SkillsOffered: []string{"rust"}},
	}, 0, "")

	if len(got) != 1 || got[0].Profile.ID != carlaID || got[0].Score != 30 {
		t.Fatalf("unexpected ranking: %+v", got)
	}
}

func TestDiscoveryCacheKey(t *testing.T) {
	a := DiscoveryCacheKey(meID, DiscoveryParams{Page: 1, Limit: 10, Skill: "Go"})
	b := DiscoveryCacheKey(meID, DiscoveryParams{Page: 1, Limit: 10, Skill: " go "})
	c := DiscoveryCacheKey(benID, DiscoveryParams{Page: 1, Limit: 10, Skill: "go"})
	if a != b {
		t.Fatalf("expected skill normalization in key")
	}
	if a == c {
		t.Fatalf("expected per-user keys")
	}
	if MatchPairLockKey(meID, benID) != MatchPairLockKey(benID, meID) {
		t.Fatalf("expected order-independent lock key")
	}
}

func TestDiscoveryCacheKey_Stable(t *testing.T) {
	got := DiscoveryCacheKey(meID, DiscoveryParams{Page: 2, Limit: 10, MinScore: 30, Skill: "Go"})
	want := "matches:feed:" + meID.String() + ":213589867ad64a1d48f0053cd1f934789f6b28fbd89f930527fa4992e76a6ecb"
	if got != want {
		t.Fatalf("cache key changed across releases: got %s, want %s", got, want)
	}
}
