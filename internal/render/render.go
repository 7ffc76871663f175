// Package render projects the media tree and expand state into a flat list
// of typed display nodes. The projection is pure: it never mutates its
// inputs, and identical inputs always produce identical output.
package render

import (
	"github.com/vmunix/linkview/internal/store"
)

// ExpandView is the read side of the expand state. Both *store.Store and
// *store.ExpandState satisfy it.
type ExpandView interface {
	GroupExpanded(key string) bool
	SeasonExpanded(key string, season int) bool
}

// Node is one row of the display tree: a GroupHeader, SeasonHeader, or
// ItemRow.
type Node interface {
	displayNode()
}

// Counts are the per-status badges on a group header.
type Counts struct {
	Total   int
	Linked  int
	Pending int
	Manual  int
	Failed  int
}

// GroupHeader is the always-rendered header row of a group.
type GroupHeader struct {
	Key       string
	Title     string
	Year      int
	MediaType store.MediaType
	Poster    string
	Status    store.Status
	Counts    Counts
	Expanded  bool
}

// SeasonHeader is the header row of one season inside an expanded tv group.
type SeasonHeader struct {
	GroupKey  string
	Number    int
	Label     string
	Status    store.Status
	ItemCount int
	Expanded  bool
}

// ItemRow is one file row. Actions carries exactly the actions the file's
// status exposes.
type ItemRow struct {
	GroupKey string
	Season   *int
	ID       int64
	Filename string
	Status   store.Status
	Episode  *int
	Error    string
	Actions  store.Actions
}

func (GroupHeader) displayNode()  {}
func (SeasonHeader) displayNode() {}
func (ItemRow) displayNode()      {}

// Tree renders the display node list for the given media tree and expand
// state. A group's children appear only when the group is expanded; a tv
// season's episode rows appear only when that season is also expanded.
func Tree(groups []store.MediaGroup, exp ExpandView) []Node {
	var nodes []Node

	for _, g := range groups {
		expanded := exp.GroupExpanded(g.Key)
		nodes = append(nodes, GroupHeader{
			Key:       g.Key,
			Title:     g.Title,
			Year:      g.Year,
			MediaType: g.MediaType,
			Poster:    g.Poster,
			Status:    g.Rollup(),
			Counts: Counts{
				Total:   g.TotalFiles,
				Linked:  g.LinkedFiles,
				Pending: g.PendingFiles,
				Manual:  g.ManualFiles,
				Failed:  g.FailedFiles,
			},
			Expanded: expanded,
		})
		if !expanded {
			continue
		}

		if g.MediaType == store.MediaTypeTV {
			for _, season := range g.Seasons {
				seasonOpen := exp.SeasonExpanded(g.Key, season.Number)
				nodes = append(nodes, SeasonHeader{
					GroupKey:  g.Key,
					Number:    season.Number,
					Label:     season.Label(),
					Status:    season.Rollup(),
					ItemCount: len(season.Items),
					Expanded:  seasonOpen,
				})
				if !seasonOpen {
					continue
				}
				number := season.Number
				for _, it := range season.Items {
					nodes = append(nodes, itemRow(g.Key, &number, it))
				}
			}
		} else {
			for _, it := range g.Items {
				nodes = append(nodes, itemRow(g.Key, nil, it))
			}
		}
	}

	return nodes
}

func itemRow(groupKey string, season *int, it store.Item) ItemRow {
	return ItemRow{
		GroupKey: groupKey,
		Season:   season,
		ID:       it.ID,
		Filename: it.SourceFilename,
		Status:   it.Status,
		Episode:  it.Episode,
		Error:    it.ErrorMessage,
		Actions:  it.Status.Actions(),
	}
}
