package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/linkview/internal/api"
)

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func TestRollup(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty is linked", nil, StatusLinked},
		{"all linked", []Status{StatusLinked, StatusLinked}, StatusLinked},
		{"failed wins over everything", []Status{StatusLinked, StatusManual, StatusPending, StatusFailed}, StatusFailed},
		{"manual beats pending", []Status{StatusPending, StatusManual, StatusLinked}, StatusManual},
		{"pending beats linked", []Status{StatusLinked, StatusPending}, StatusPending},
		{"terminal ignored treated as resolved", []Status{StatusIgnored, StatusLinked}, StatusLinked},
		{"matched treated as resolved", []Status{StatusMatched, StatusLinked}, StatusLinked},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := make([]Item, len(tt.statuses))
			for i, s := range tt.statuses {
				items[i] = Item{ID: int64(i), Status: s}
			}
			assert.Equal(t, tt.want, Rollup(items))
		})
	}
}

func TestRollup_OrderIndependent(t *testing.T) {
	a := []Item{{Status: StatusLinked}, {Status: StatusManual}, {Status: StatusPending}}
	b := []Item{{Status: StatusPending}, {Status: StatusLinked}, {Status: StatusManual}}
	assert.Equal(t, Rollup(a), Rollup(b))
}

func TestFromAPI_SeriesSeasonOrdering(t *testing.T) {
	raw := []api.Group{{
		Key:       "tv:603",
		Title:     "Wilderness",
		MediaType: "tv",
		Seasons: map[string][]api.FileEntry{
			"2": {
				{ID: 4, Status: "linked", Season: intp(2), Episode: intp(2)},
				{ID: 3, Status: "linked", Season: intp(2), Episode: intp(1)},
			},
			"10": {{ID: 5, Status: "pending", Season: intp(10), Episode: intp(1)}},
			"0":  {{ID: 1, Status: "linked", Season: intp(0), Episode: intp(1)}},
		},
	}}

	groups, err := FromAPI(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	require.Len(t, g.Seasons, 3)
	assert.Equal(t, 0, g.Seasons[0].Number)
	assert.Equal(t, "Specials", g.Seasons[0].Label())
	assert.Equal(t, 2, g.Seasons[1].Number)
	assert.Equal(t, "Season 2", g.Seasons[1].Label())
	assert.Equal(t, 10, g.Seasons[2].Number, "season keys must sort numerically, not lexically")

	episodes := g.Seasons[1].Items
	require.Len(t, episodes, 2)
	assert.Equal(t, int64(3), episodes[0].ID, "episodes sorted by episode number")
	assert.Equal(t, int64(4), episodes[1].ID)
}

func TestFromAPI_BadSeasonKeyRejectsResponse(t *testing.T) {
	raw := []api.Group{
		{Key: "tv:1", Title: "Fine", MediaType: "tv", Seasons: map[string][]api.FileEntry{"1": {{ID: 1, Status: "linked"}}}},
		{Key: "tv:2", Title: "Broken", MediaType: "tv", Seasons: map[string][]api.FileEntry{"one": {{ID: 2, Status: "linked"}}}},
	}

	groups, err := FromAPI(raw)
	assert.Error(t, err)
	assert.Nil(t, groups, "a bad payload must not half-replace the tree")
}

func TestFromAPI_MovieGroup(t *testing.T) {
	raw := []api.Group{{
		Key:        "movie:550",
		Title:      "Fight Club",
		MediaType:  "movie",
		TMDBID:     func() *int64 { v := int64(550); return &v }(),
		Year:       intp(1999),
		Poster:     strp("/poster.jpg"),
		TotalFiles: 1,
		Files: []api.FileEntry{
			{ID: 7, SourceFilename: "fight.club.mkv", Status: "manual", ErrorMessage: strp("ambiguous title")},
		},
	}}

	groups, err := FromAPI(raw)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, int64(550), g.TMDBID)
	assert.Equal(t, 1999, g.Year)
	assert.Equal(t, "/poster.jpg", g.Poster)
	assert.Empty(t, g.Seasons)
	require.Len(t, g.Items, 1)
	assert.Equal(t, StatusManual, g.Items[0].Status)
	assert.Equal(t, "ambiguous title", g.Items[0].ErrorMessage)
	assert.Equal(t, StatusManual, g.Rollup())
}

func TestFromAPI_GroupsSortedByTitle(t *testing.T) {
	raw := []api.Group{
		{Key: "movie:2", Title: "zulu", MediaType: "movie"},
		{Key: "movie:1", Title: "Alpha", MediaType: "movie"},
		{Key: "movie:3", Title: "mike", MediaType: "movie"},
	}

	groups, err := FromAPI(raw)
	require.NoError(t, err)

	titles := []string{groups[0].Title, groups[1].Title, groups[2].Title}
	assert.Equal(t, []string{"Alpha", "mike", "zulu"}, titles, "title sort is case-insensitive")
}

func TestAllItems_SeriesSpansSeasons(t *testing.T) {
	g := MediaGroup{
		MediaType: MediaTypeTV,
		Seasons: []Season{
			{Number: 1, Items: []Item{{ID: 1}, {ID: 2}}},
			{Number: 2, Items: []Item{{ID: 3}}},
		},
	}
	items := g.AllItems()
	require.Len(t, items, 3)
	assert.Equal(t, int64(3), items[2].ID)
}
