package store

import (
	"sync"

	"github.com/vmunix/linkview/internal/api"
)

// Store is the single-owner application state: the media tree, expand state,
// and the latest stats snapshot. Mutation goes through intent-named methods;
// reads return snapshots that callers must treat as read-only. A tree apply
// is always a full replace, never a merge.
type Store struct {
	mu     sync.RWMutex
	groups []MediaGroup
	stats  api.Stats
	expand *ExpandState
}

// New creates an empty store.
func New() *Store {
	return &Store{expand: NewExpandState()}
}

// SetTree atomically replaces the whole media tree. Expand state is left
// untouched so open groups stay open across reloads of the same keys.
func (s *Store) SetTree(groups []MediaGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = groups
}

// Tree returns the current media tree. The returned slice is replaced
// wholesale on each apply and must not be mutated.
func (s *Store) Tree() []MediaGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.groups
}

// Group looks up a group by key.
func (s *Store) Group(key string) (MediaGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.Key == key {
			return g, true
		}
	}
	return MediaGroup{}, false
}

// SetStats replaces the stats snapshot.
func (s *Store) SetStats(stats api.Stats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = stats
}

// Stats returns the latest stats snapshot.
func (s *Store) Stats() api.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// ToggleGroup flips a group's expansion and returns the new value.
func (s *Store) ToggleGroup(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expand.ToggleGroup(key)
}

// ToggleSeason flips one season's expansion and returns the new value.
func (s *Store) ToggleSeason(key string, season int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expand.ToggleSeason(key, season)
}

// ExpandAllGroups opens everything currently in the tree.
func (s *Store) ExpandAllGroups() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expand.ExpandAll(s.groups)
}

// GroupExpanded reports whether a group is open.
func (s *Store) GroupExpanded(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expand.GroupExpanded(key)
}

// SeasonExpanded reports whether a season of a group is open.
func (s *Store) SeasonExpanded(key string, season int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.expand.SeasonExpanded(key, season)
}
