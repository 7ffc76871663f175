package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GroupedFiles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/grouped", r.URL.Path)
		assert.Equal(t, "manual", r.URL.Query().Get("status"))
		assert.Equal(t, "tv", r.URL.Query().Get("media_type"))
		assert.Equal(t, "wild", r.URL.Query().Get("search"))
		assert.Equal(t, "17", r.URL.Query().Get("_t"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{
			"key": "tv:603",
			"title": "Wilderness",
			"media_type": "tv",
			"total_files": 1,
			"seasons": {"1": [{"id": 1, "source_filename": "e1.mkv", "status": "manual"}]}
		}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)

	groups, err := client.GroupedFiles(context.Background(),
		GroupFilter{Status: "manual", MediaType: "tv", Search: "wild"}, 17)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "tv:603", groups[0].Key)
	require.Contains(t, groups[0].Seasons, "1")
	assert.Equal(t, "manual", groups[0].Seasons["1"][0].Status)
}

func TestClient_GroupedFiles_EmptyFilterOmitsParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.False(t, q.Has("status"))
		assert.False(t, q.Has("media_type"))
		assert.False(t, q.Has("search"))
		assert.True(t, q.Has("_t"), "cache buster is always present")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	groups, err := client.GroupedFiles(context.Background(), GroupFilter{}, 1)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestClient_Match_PostsRequestBody(t *testing.T) {
	season, episode := 2, 5
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/files/9/match", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req MatchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(603), req.TMDBID)
		assert.Equal(t, "tv", req.MediaType)
		require.NotNil(t, req.Season)
		assert.Equal(t, 2, *req.Season)

		_ = json.NewEncoder(w).Encode(FileDetail{ID: 9, Status: "matched"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	detail, err := client.Match(context.Background(), MatchRequest{
		FileID: 9, TMDBID: 603, MediaType: "tv", Season: &season, Episode: &episode,
	})
	require.NoError(t, err)
	assert.Equal(t, "matched", detail.Status)
}

func TestClient_ErrorDetailSurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail": "File not found"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.File(context.Background(), 999)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "File not found", apiErr.Detail)
	assert.Equal(t, "File not found", apiErr.Error())
}

func TestClient_ErrorNonJSONBodyFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded\n"))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Stats(context.Background())

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream exploded", apiErr.Detail)
}

func TestClient_ScanConflict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/scan", r.URL.Path)
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"detail": "Scan already in progress"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	_, err := client.Scan(context.Background(), "")

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "Scan already in progress", apiErr.Detail)
}

func TestClient_ScanSendsPathWhenSet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "/mnt/media", body["path"])
		_ = json.NewEncoder(w).Encode(ScanResult{Message: "Scan started"})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.Scan(context.Background(), "/mnt/media")
	require.NoError(t, err)
	assert.Equal(t, "Scan started", result.Message)
}

func TestClient_SearchTMDB_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tmdb/search", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "fight club", q.Get("query"))
		assert.Equal(t, "movie", q.Get("media_type"))
		assert.Equal(t, "1999", q.Get("year"))
		_, _ = w.Write([]byte(`[{"id": 550, "title": "Fight Club", "media_type": "movie"}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	results, err := client.SearchTMDB(context.Background(), "fight club", "movie", 1999)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(550), results[0].ID)
}

func TestClient_ReprocessAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/files/reprocess-all", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		_ = json.NewEncoder(w).Encode(ReprocessAllResult{Message: "done", Total: 5, Processed: 5, Linked: 4})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.ReprocessAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, result.Total)
	assert.Equal(t, 4, result.Linked)
}

func TestClient_EventsURL(t *testing.T) {
	client := NewClient("http://localhost:8000/")
	assert.Equal(t, "http://localhost:8000/api/events", client.EventsURL())
}
