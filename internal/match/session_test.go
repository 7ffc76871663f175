package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/linkview/internal/api"
)

// fakeClient records search and match calls.
type fakeClient struct {
	mu          sync.Mutex
	searches    int
	results     []api.SearchResult
	searchErr   error
	matchErr    error
	lastRequest api.MatchRequest
}

func (f *fakeClient) SearchTMDB(_ context.Context, query, mediaType string, year int) ([]api.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searches++
	return f.results, f.searchErr
}

func (f *fakeClient) Match(_ context.Context, req api.MatchRequest) (*api.FileDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastRequest = req
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return &api.FileDetail{ID: req.FileID, Status: "matched"}, nil
}

func (f *fakeClient) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searches
}

func tvFile() api.FileDetail {
	title := "Wilderness"
	return api.FileDetail{ID: 9, SourceFilename: "wilderness.s01e01.mkv", MediaType: "tv", ParsedTitle: &title}
}

func movieFile() api.FileDetail {
	title := "Fight Club"
	return api.FileDetail{ID: 7, SourceFilename: "fight.club.mkv", MediaType: "movie", ParsedTitle: &title}
}

func TestSession_EmptyQueryRejectedLocally(t *testing.T) {
	client := &fakeClient{}
	s := NewSession(client, movieFile())

	_, err := s.Search(context.Background(), "", "movie", 0)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, 0, client.searchCount(), "no network call for an empty query")
}

func TestSession_RepeatSearchServedFromCache(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 550, Title: "Fight Club", MediaType: "movie"}}}
	s := NewSession(client, movieFile())

	first, err := s.Search(context.Background(), "fight club", "movie", 0)
	require.NoError(t, err)
	second, err := s.Search(context.Background(), "fight club", "movie", 0)
	require.NoError(t, err)

	assert.Equal(t, 1, client.searchCount(), "identical search hits the cache")
	assert.Equal(t, first, second)

	// A different key misses.
	_, err = s.Search(context.Background(), "fight club", "movie", 1999)
	require.NoError(t, err)
	assert.Equal(t, 2, client.searchCount())
}

func TestSession_QueryChangedDebounces(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 550, Title: "Fight Club"}}}
	done := make(chan struct{}, 4)
	s := NewSession(client, movieFile(),
		WithSearchInterval(30*time.Millisecond),
		WithOnSearched(func() { done <- struct{}{} }))
	defer s.Close()

	ctx := context.Background()
	s.QueryChanged(ctx, "f", "movie", 0)
	s.QueryChanged(ctx, "fi", "movie", 0)
	s.QueryChanged(ctx, "fight club", "movie", 0)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced search never ran")
	}

	assert.Equal(t, 1, client.searchCount(), "typing burst collapses to one request")
	assert.Equal(t, StateResults, s.State())
}

func TestSession_SearchFailureSetsInlineError(t *testing.T) {
	client := &fakeClient{searchErr: errors.New("provider unavailable")}
	s := NewSession(client, movieFile())

	_, err := s.Search(context.Background(), "fight club", "movie", 0)
	require.Error(t, err)
	assert.Equal(t, StateIdle, s.State())
	assert.Contains(t, s.Err(), "provider unavailable")
}

func TestSession_CommitWithoutSelection(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 550, Title: "Fight Club"}}}
	s := NewSession(client, movieFile())

	_, err := s.Search(context.Background(), "fight club", "movie", 0)
	require.NoError(t, err)

	_, err = s.Commit(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoSelection)
}

func TestSession_CommitMovieOmitsSeasonEpisode(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 550, Title: "Fight Club", MediaType: "movie"}}}
	s := NewSession(client, movieFile())

	_, err := s.Search(context.Background(), "fight club", "movie", 0)
	require.NoError(t, err)
	require.NoError(t, s.Select(0))

	detail, err := s.Commit(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(7), detail.ID)
	assert.Equal(t, StateClosed, s.State())

	req := client.lastRequest
	assert.Equal(t, int64(550), req.TMDBID)
	assert.Equal(t, "movie", req.MediaType)
	assert.Nil(t, req.Season)
	assert.Nil(t, req.Episode)
}

func TestSession_CommitTVDefaultsToSeasonOneEpisodeOne(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 603, Title: "Wilderness", MediaType: "tv"}}}
	s := NewSession(client, tvFile())

	_, err := s.Search(context.Background(), "wilderness", "tv", 0)
	require.NoError(t, err)
	require.NoError(t, s.Select(0))

	_, err = s.Commit(context.Background(), 0, 0)
	require.NoError(t, err)

	req := client.lastRequest
	require.NotNil(t, req.Season)
	require.NotNil(t, req.Episode)
	assert.Equal(t, 1, *req.Season)
	assert.Equal(t, 1, *req.Episode)
}

func TestSession_CommitTVRejectsNegatives(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 603, Title: "Wilderness", MediaType: "tv"}}}
	s := NewSession(client, tvFile())

	_, err := s.Search(context.Background(), "wilderness", "tv", 0)
	require.NoError(t, err)
	require.NoError(t, s.Select(0))

	_, err = s.Commit(context.Background(), -1, 2)
	assert.ErrorIs(t, err, ErrBadEpisode)
	assert.Equal(t, StateResults, s.State(), "failed commit returns to results for retry")
}

func TestSession_CommitFailureIsRetryable(t *testing.T) {
	client := &fakeClient{
		results:  []api.SearchResult{{ID: 550, Title: "Fight Club", MediaType: "movie"}},
		matchErr: errors.New("server error"),
	}
	s := NewSession(client, movieFile())

	_, err := s.Search(context.Background(), "fight club", "movie", 0)
	require.NoError(t, err)
	require.NoError(t, s.Select(0))

	_, err = s.Commit(context.Background(), 0, 0)
	require.Error(t, err)
	assert.Equal(t, StateResults, s.State())
	assert.Contains(t, s.Err(), "server error")

	// Same selection can be committed again once the server recovers.
	client.mu.Lock()
	client.matchErr = nil
	client.mu.Unlock()
	require.NoError(t, s.Select(0))
	_, err = s.Commit(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, StateClosed, s.State())
}

func TestSession_SelectOutOfRange(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 1, Title: "Only One"}}}
	s := NewSession(client, movieFile())

	_, err := s.Search(context.Background(), "only one", "movie", 0)
	require.NoError(t, err)

	assert.Error(t, s.Select(-1))
	assert.Error(t, s.Select(1))
	require.NoError(t, s.Select(0))

	chosen, ok := s.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), chosen.ID)
}

func TestSession_CloseClearsCache(t *testing.T) {
	client := &fakeClient{results: []api.SearchResult{{ID: 550, Title: "Fight Club"}}}
	s := NewSession(client, movieFile())

	_, err := s.Search(context.Background(), "fight club", "movie", 0)
	require.NoError(t, err)
	s.Close()
	assert.Equal(t, StateClosed, s.State())

	// A fresh session with the same client must not see the dead cache.
	s2 := NewSession(client, movieFile())
	_, err = s2.Search(context.Background(), "fight club", "movie", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, client.searchCount())
}
