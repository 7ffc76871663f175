package store

// seasonKey addresses one season of one group.
type seasonKey struct {
	group  string
	season int
}

// ExpandState tracks which groups and seasons are open. It starts empty,
// changes only on explicit toggles, and survives tree rebuilds: entries
// keyed by groups absent from the new tree go inert but are never purged.
type ExpandState struct {
	groups  map[string]bool
	seasons map[seasonKey]bool
}

// NewExpandState creates an empty expand state.
func NewExpandState() *ExpandState {
	return &ExpandState{
		groups:  make(map[string]bool),
		seasons: make(map[seasonKey]bool),
	}
}

// ToggleGroup flips a group's expansion and returns the new value.
func (e *ExpandState) ToggleGroup(key string) bool {
	e.groups[key] = !e.groups[key]
	return e.groups[key]
}

// GroupExpanded reports whether a group is open.
func (e *ExpandState) GroupExpanded(key string) bool {
	return e.groups[key]
}

// ToggleSeason flips one season's expansion and returns the new value.
func (e *ExpandState) ToggleSeason(key string, season int) bool {
	k := seasonKey{group: key, season: season}
	e.seasons[k] = !e.seasons[k]
	return e.seasons[k]
}

// SeasonExpanded reports whether a season of a group is open.
func (e *ExpandState) SeasonExpanded(key string, season int) bool {
	return e.seasons[seasonKey{group: key, season: season}]
}

// ExpandAll opens every group and season in the given tree. Used by
// one-shot listings where there is no interactive toggle.
func (e *ExpandState) ExpandAll(groups []MediaGroup) {
	for _, g := range groups {
		e.groups[g.Key] = true
		for _, s := range g.Seasons {
			e.seasons[seasonKey{group: g.Key, season: s.Number}] = true
		}
	}
}
