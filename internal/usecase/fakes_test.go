package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"skill-swap/internal/domain/match"
	"skill-swap/internal/domain/profile"
	"skill-swap/internal/repository"

	"github.com/google/uuid"
)

type fakeProfileRepo struct {
	byID       map[uuid.UUID]profile.Profile
	err        error
	listCalls  int
	lastOffer  []string
	lastWanted []string
}

func newFakeProfileRepo(ps ...profile.Profile) *fakeProfileRepo {
	m := make(map[uuid.UUID]profile.Profile, len(ps))
	for _, p := range ps {
		m[p.ID] = p
	}
	return &fakeProfileRepo{byID: m}
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id uuid.UUID) (profile.Profile, error) {
	if f.err != nil {
		return profile.Profile{}, f.err
	}
	p, ok := f.byID[id]
	if !ok {
		return profile.Profile{}, repository.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) ListCandidates(_ context.Context, userID uuid.UUID, offered, wanted []string) ([]profile.Profile, error) {
	f.listCalls++
	f.lastOffer, f.lastWanted = offered, wanted
	if f.err != nil {
		return nil, f.err
	}
	out := make([]profile.Profile, 0)
	for id, p := range f.byID {
		if id == userID || p.IsBanned {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

type fakeMatchRepo struct {
	items     map[uuid.UUID]match.Match
	createErr error
	err       error
	lastList  repository.MatchListFilter
}

func newFakeMatchRepo(ms ...match.Match) *fakeMatchRepo {
	f := &fakeMatchRepo{items: map[uuid.UUID]match.Match{}}
	for _, m := range ms {
		f.items[m.ID] = m
	}
	return f
}

func (f *fakeMatchRepo) Create(_ context.Context, m match.Match) (match.Match, error) {
	if f.createErr != nil {
		return match.Match{}, f.createErr
	}
	m.CreatedAt = time.Now().UTC()
	m.UpdatedAt = m.CreatedAt
	f.items[m.ID] = m
	return m, nil
}

func (f *fakeMatchRepo) GetByID(_ context.Context, id uuid.UUID) (match.Match, error) {
	if f.err != nil {
		return match.Match{}, f.err
	}
	m, ok := f.items[id]
	if !ok {
		return match.Match{}, repository.ErrMatchNotFound
	}
	return m, nil
}

func (f *fakeMatchRepo) FindActiveBetween(_ context.Context, a, b uuid.UUID) (match.Match, bool, error) {
	if f.err != nil {
		return match.Match{}, false, f.err
	}
	for _, m := range f.items {
		samePair := (m.UserA == a && m.UserB == b) || (m.UserA == b && m.UserB == a)
		if samePair && m.Status.Active() {
			return m, true, nil
		}
	}
	return match.Match{}, false, nil
}

func (f *fakeMatchRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to match.Status) (match.Match, error) {
	m, ok := f.items[id]
	if !ok || m.Status != from {
		return match.Match{}, repository.ErrMatchStatusConflict
	}
	m.Status = to
	f.items[id] = m
	return m, nil
}

func (f *fakeMatchRepo) ListByUser(_ context.Context, filter repository.MatchListFilter) ([]match.Match, int, error) {
	f.lastList = filter
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]match.Match, 0)
	for _, m := range f.items {
		if m.Involves(filter.UserID) && (filter.Status == "" || m.Status == filter.Status) {
			out = append(out, m)
		}
	}
	total := len(out)
	if filter.Offset >= total {
		return []match.Match{}, total, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, total, nil
}

type fakeCache struct {
	mu      sync.Mutex
	values  map[string][]byte
	locks   map[string]string
	lockErr error
	sets    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string][]byte{}, locks: map[string]string{}}
}

func (c *fakeCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (c *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	delete(c.locks, key)
	return nil
}

func (c *fakeCache) SetIfNotExists(_ context.Context, key string, value string, _ time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lockErr != nil {
		return false, c.lockErr
	}
	if _, held := c.locks[key]; held {
		return false, nil
	}
	c.locks[key] = value
	return true, nil
}

type fakeNotifier struct {
	requested []match.Match
	answered  []match.Match
}

func (n *fakeNotifier) MatchRequested(m match.Match) {
	n.requested = append(n.requested, m)
}

func (n *fakeNotifier) MatchAnswered(m match.Match) {
	n.answered = append(n.answered, m)
}
