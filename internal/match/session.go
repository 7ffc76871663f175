// Package match implements the manual correction workflow: search the
// metadata provider, pick a candidate, and commit the correspondence.
package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vmunix/linkview/internal/api"
	"github.com/vmunix/linkview/internal/reconcile"
)

// State is the session's position in the match workflow.
type State int

const (
	StateIdle State = iota
	StateSearching
	StateResults
	StateSelected
	StateSubmitting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSearching:
		return "searching"
	case StateResults:
		return "results"
	case StateSelected:
		return "selected"
	case StateSubmitting:
		return "submitting"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

var (
	// ErrEmptyQuery rejects a search before any network call.
	ErrEmptyQuery = errors.New("search query is empty")
	// ErrNoSelection rejects a commit without a selected candidate.
	ErrNoSelection = errors.New("no candidate selected")
	// ErrBadEpisode rejects a negative season or episode for a tv commit.
	ErrBadEpisode = errors.New("season and episode must not be negative")
)

// Client is the slice of the API the session needs. *api.Client satisfies it.
type Client interface {
	SearchTMDB(ctx context.Context, query, mediaType string, year int) ([]api.SearchResult, error)
	Match(ctx context.Context, req api.MatchRequest) (*api.FileDetail, error)
}

const defaultSearchInterval = 300 * time.Millisecond

// Session is one manual-match workflow for one file. Searches for an
// identical (query, mediaType, year) are served from a session-scoped
// cache; the cache dies with the session.
type Session struct {
	client Client
	logger *slog.Logger
	file   api.FileDetail

	mu        sync.Mutex
	state     State
	cache     *searchCache
	results   []api.SearchResult
	selected  int
	inlineErr string

	searchInterval time.Duration
	deb            *reconcile.Debouncer
	pending        struct {
		ctx       context.Context
		query     string
		mediaType string
		year      int
	}
	onSearched func()
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSearchInterval sets the query debounce window.
func WithSearchInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		s.searchInterval = d
	}
}

// WithSessionLogger sets the logger.
func WithSessionLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithOnSearched registers a hook invoked after each debounced search
// settles, successful or not.
func WithOnSearched(fn func()) SessionOption {
	return func(s *Session) {
		s.onSearched = fn
	}
}

// NewSession opens a match session for file.
func NewSession(client Client, file api.FileDetail, opts ...SessionOption) *Session {
	s := &Session{
		client:         client,
		logger:         slog.Default(),
		file:           file,
		state:          StateIdle,
		cache:          newSearchCache(),
		selected:       -1,
		searchInterval: defaultSearchInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deb = reconcile.NewDebouncer(s.searchInterval, s.runPendingSearch)
	return s
}

// File returns the file being corrected.
func (s *Session) File() api.FileDetail {
	return s.file
}

// State returns the current workflow state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the inline error from the last failed search or commit.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inlineErr
}

// Results returns the candidates from the last search, best match first.
func (s *Session) Results() []api.SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// QueryChanged schedules a debounced search. Rapid query edits collapse
// into one request once typing goes quiet.
func (s *Session) QueryChanged(ctx context.Context, query, mediaType string, year int) {
	s.mu.Lock()
	s.pending.ctx = ctx
	s.pending.query = query
	s.pending.mediaType = mediaType
	s.pending.year = year
	s.mu.Unlock()
	s.deb.Trigger()
}

func (s *Session) runPendingSearch() {
	s.mu.Lock()
	ctx := s.pending.ctx
	query := s.pending.query
	mediaType := s.pending.mediaType
	year := s.pending.year
	s.mu.Unlock()

	if _, err := s.Search(ctx, query, mediaType, year); err != nil {
		s.logger.Debug("debounced search failed", "query", query, "error", err)
	}
	if s.onSearched != nil {
		s.onSearched()
	}
}

// Search queries the provider, serving repeats of the same key from the
// session cache. Candidates come back ranked by similarity to the file's
// parsed title. An empty query is rejected locally.
func (s *Session) Search(ctx context.Context, query, mediaType string, year int) ([]api.SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	key := cacheKey{query: query, mediaType: mediaType, year: year}
	if cached, ok := s.cache.get(key); ok {
		s.setResults(cached)
		return cached, nil
	}

	s.setState(StateSearching)
	results, err := s.client.SearchTMDB(ctx, query, mediaType, year)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	results = rankResults(results, s.referenceTitle())
	s.cache.set(key, results)
	s.setResults(results)
	return results, nil
}

// Select picks a candidate by index into Results and enables commit.
func (s *Session) Select(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.results) {
		return fmt.Errorf("candidate index %d out of range", index)
	}
	s.selected = index
	s.state = StateSelected
	s.inlineErr = ""
	return nil
}

// Selected returns the chosen candidate, if any.
func (s *Session) Selected() (api.SearchResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected < 0 || s.selected >= len(s.results) {
		return api.SearchResult{}, false
	}
	return s.results[s.selected], true
}

// Commit posts the selected correspondence. For tv, season and episode
// default to 1 when unset and must not be negative; for movies both are
// omitted. Success closes the session and clears the cache; failure
// returns to the results state with an inline error so commit can be
// retried.
func (s *Session) Commit(ctx context.Context, season, episode int) (*api.FileDetail, error) {
	s.mu.Lock()
	if s.selected < 0 || s.selected >= len(s.results) {
		s.mu.Unlock()
		return nil, ErrNoSelection
	}
	candidate := s.results[s.selected]
	s.state = StateSubmitting
	s.mu.Unlock()

	mediaType := candidate.MediaType
	if mediaType == "" {
		mediaType = s.file.MediaType
	}

	req := api.MatchRequest{
		FileID:    s.file.ID,
		TMDBID:    candidate.ID,
		MediaType: mediaType,
	}
	if mediaType == "tv" {
		if season < 0 || episode < 0 {
			s.fail(ErrBadEpisode)
			return nil, ErrBadEpisode
		}
		if season == 0 && episode == 0 {
			season, episode = 1, 1
		}
		if episode == 0 {
			episode = 1
		}
		req.Season = &season
		req.Episode = &episode
	}

	detail, err := s.client.Match(ctx, req)
	if err != nil {
		s.fail(err)
		return nil, err
	}

	s.cache.clear()
	s.mu.Lock()
	s.state = StateClosed
	s.inlineErr = ""
	s.mu.Unlock()
	return detail, nil
}

// Close abandons the session and clears its cache.
func (s *Session) Close() {
	s.deb.Stop()
	s.cache.clear()
	s.mu.Lock()
	s.state = StateClosed
	s.mu.Unlock()
}

// referenceTitle is what candidates are ranked against.
func (s *Session) referenceTitle() string {
	if s.file.ParsedTitle != nil && *s.file.ParsedTitle != "" {
		return *s.file.ParsedTitle
	}
	return s.file.SourceFilename
}

func (s *Session) setResults(results []api.SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	s.selected = -1
	s.state = StateResults
	s.inlineErr = ""
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// fail records an inline error and re-enables the results view.
func (s *Session) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inlineErr = err.Error()
	if len(s.results) > 0 {
		s.state = StateResults
	} else {
		s.state = StateIdle
	}
}
