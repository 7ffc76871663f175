package store

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/vmunix/linkview/internal/api"
)

// MediaType distinguishes movies from series.
type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tv"
	MediaTypeUnknown MediaType = "unknown"
)

// Item is one physical source file and its processing status.
type Item struct {
	ID             int64
	SourcePath     string
	SourceFilename string
	Status         Status
	Season         *int
	Episode        *int
	ErrorMessage   string
}

// Season groups a series' items by season number. Number 0 is specials.
type Season struct {
	Number int
	Items  []Item
}

// MediaGroup is one title aggregating all of its source files. Movies carry
// a flat Items slice; series carry Seasons sorted ascending by number.
type MediaGroup struct {
	Key          string
	Title        string
	TMDBID       int64
	MediaType    MediaType
	Year         int
	Poster       string
	TotalFiles   int
	LinkedFiles  int
	PendingFiles int
	ManualFiles  int
	FailedFiles  int
	Items        []Item
	Seasons      []Season
}

// Rollup resolves a set of item statuses to a single display status.
// First match wins: failed > manual > pending > linked.
func Rollup(items []Item) Status {
	var manual, pending bool
	for _, it := range items {
		switch it.Status {
		case StatusFailed:
			return StatusFailed
		case StatusManual:
			manual = true
		case StatusPending:
			pending = true
		}
	}
	if manual {
		return StatusManual
	}
	if pending {
		return StatusPending
	}
	return StatusLinked
}

// Rollup returns the season's aggregate status.
func (s *Season) Rollup() Status {
	return Rollup(s.Items)
}

// Label is the season's display name.
func (s *Season) Label() string {
	if s.Number == 0 {
		return "Specials"
	}
	return fmt.Sprintf("Season %d", s.Number)
}

// AllItems returns the group's items across seasons, in display order.
func (g *MediaGroup) AllItems() []Item {
	if g.MediaType != MediaTypeTV {
		return g.Items
	}
	var items []Item
	for _, s := range g.Seasons {
		items = append(items, s.Items...)
	}
	return items
}

// Rollup returns the group's aggregate status.
func (g *MediaGroup) Rollup() Status {
	return Rollup(g.AllItems())
}

// FromAPI converts the grouped wire response into the domain tree. Seasons
// are ordered by numeric season number ascending and episodes by episode
// number; groups are ordered by title. Malformed season keys reject the
// whole response so a bad payload never half-replaces the tree.
func FromAPI(raw []api.Group) ([]MediaGroup, error) {
	groups := make([]MediaGroup, 0, len(raw))

	for _, rg := range raw {
		g := MediaGroup{
			Key:          rg.Key,
			Title:        rg.Title,
			MediaType:    MediaType(rg.MediaType),
			Poster:       deref(rg.Poster),
			TotalFiles:   rg.TotalFiles,
			LinkedFiles:  rg.LinkedFiles,
			PendingFiles: rg.PendingFiles,
			ManualFiles:  rg.ManualFiles,
			FailedFiles:  rg.FailedFiles,
		}
		if rg.TMDBID != nil {
			g.TMDBID = *rg.TMDBID
		}
		if rg.Year != nil {
			g.Year = *rg.Year
		}

		if rg.Seasons != nil {
			for key, entries := range rg.Seasons {
				number, err := strconv.Atoi(key)
				if err != nil || number < 0 {
					return nil, fmt.Errorf("group %q: bad season key %q", rg.Key, key)
				}
				season := Season{Number: number, Items: itemsFromEntries(entries)}
				sort.SliceStable(season.Items, func(i, j int) bool {
					return episodeOf(season.Items[i]) < episodeOf(season.Items[j])
				})
				g.Seasons = append(g.Seasons, season)
			}
			sort.Slice(g.Seasons, func(i, j int) bool {
				return g.Seasons[i].Number < g.Seasons[j].Number
			})
		} else {
			g.Items = itemsFromEntries(rg.Files)
		}

		groups = append(groups, g)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return strings.ToLower(groups[i].Title) < strings.ToLower(groups[j].Title)
	})
	return groups, nil
}

func itemsFromEntries(entries []api.FileEntry) []Item {
	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{
			ID:             e.ID,
			SourcePath:     e.SourcePath,
			SourceFilename: e.SourceFilename,
			Status:         Status(e.Status),
			Season:         e.Season,
			Episode:        e.Episode,
			ErrorMessage:   deref(e.ErrorMessage),
		})
	}
	return items
}

func episodeOf(it Item) int {
	if it.Episode == nil {
		return 0
	}
	return *it.Episode
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
