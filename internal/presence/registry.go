// Package presence tracks which user is reachable through which relay connection.
package presence

import (
	"sort"
	"sync"
)

// Registry maps user ids to the connection that last announced them.
// It holds at most one entry per user.
type Registry struct {
	mu     sync.RWMutex
	byUser map[string]string
}

func NewRegistry() *Registry {
	return &Registry{byUser: make(map[string]string)}
}

// Set binds userID to connID, replacing any earlier binding.
// It reports whether the online set changed.
func (r *Registry) Set(userID, connID string) bool {
	if r == nil || userID == "" || connID == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.byUser[userID]
	r.byUser[userID] = connID
	return !existed
}

// RemoveByConnection drops every user bound to connID and returns them.
func (r *Registry) RemoveByConnection(connID string) []string {
	if r == nil || connID == "" {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []string
	for u, c := range r.byUser {
		if c == connID {
			delete(r.byUser, u)
			removed = append(removed, u)
		}
	}
	sort.Strings(removed)
	return removed
}

func (r *Registry) Lookup(userID string) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byUser[userID]
	return c, ok
}

// Online returns the distinct online user ids in ascending order.
func (r *Registry) Online() []string {
	if r == nil {
		return []string{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.byUser))
	for u := range r.byUser {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
