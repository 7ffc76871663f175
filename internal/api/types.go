// Package api is the REST client for the organizer server.
package api

// Group is one title (movie or series) in the grouped files response.
// Exactly one of Seasons (tv) or Files (movie) is populated.
type Group struct {
	Key          string                 `json:"key"`
	Title        string                 `json:"title"`
	TMDBID       *int64                 `json:"tmdb_id"`
	MediaType    string                 `json:"media_type"`
	Year         *int                   `json:"year"`
	Poster       *string                `json:"poster"`
	TotalFiles   int                    `json:"total_files"`
	LinkedFiles  int                    `json:"linked_files"`
	PendingFiles int                    `json:"pending_files"`
	ManualFiles  int                    `json:"manual_files"`
	FailedFiles  int                    `json:"failed_files"`
	Seasons      map[string][]FileEntry `json:"seasons,omitempty"`
	Files        []FileEntry            `json:"files,omitempty"`
}

// FileEntry is the reduced per-file shape embedded in a Group.
type FileEntry struct {
	ID             int64   `json:"id"`
	SourceFilename string  `json:"source_filename"`
	SourcePath     string  `json:"source_path"`
	Status         string  `json:"status"`
	Season         *int    `json:"season"`
	Episode        *int    `json:"episode"`
	ErrorMessage   *string `json:"error_message"`
}

// FileDetail is the full per-file record returned by GET /files/{id}.
type FileDetail struct {
	ID              int64   `json:"id"`
	SourcePath      string  `json:"source_path"`
	SourceFilename  string  `json:"source_filename"`
	FileSize        int64   `json:"file_size"`
	MediaType       string  `json:"media_type"`
	ParsedTitle     *string `json:"parsed_title"`
	ParsedYear      *int    `json:"parsed_year"`
	ParsedSeason    *int    `json:"parsed_season"`
	ParsedEpisode   *int    `json:"parsed_episode"`
	TMDBID          *int64  `json:"tmdb_id"`
	TMDBTitle       *string `json:"tmdb_title"`
	TMDBYear        *int    `json:"tmdb_year"`
	TMDBPoster      *string `json:"tmdb_poster"`
	DestinationPath *string `json:"destination_path"`
	Status          string  `json:"status"`
	ErrorMessage    *string `json:"error_message"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
	ProcessedAt     *string `json:"processed_at"`
}

// MatchRequest commits a manual correspondence for a file.
// Season and Episode are required by the server when MediaType is "tv".
type MatchRequest struct {
	FileID    int64  `json:"file_id"`
	TMDBID    int64  `json:"tmdb_id"`
	MediaType string `json:"media_type"`
	Season    *int   `json:"season,omitempty"`
	Episode   *int   `json:"episode,omitempty"`
}

// SearchResult is one ranked candidate from the metadata provider.
type SearchResult struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title,omitempty"`
	Year          *int    `json:"year"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	Overview      string  `json:"overview,omitempty"`
	PosterPath    string  `json:"poster_path,omitempty"`
	MediaType     string  `json:"media_type"`
	Popularity    float64 `json:"popularity"`
}

// Stats mirrors GET /stats and the stats_updated push payload.
type Stats struct {
	TotalFiles int `json:"total_files"`
	Pending    int `json:"pending"`
	Matched    int `json:"matched"`
	Linked     int `json:"linked"`
	Failed     int `json:"failed"`
	Manual     int `json:"manual"`
	Ignored    int `json:"ignored"`
}

// ReprocessAllResult is the response of POST /files/reprocess-all.
type ReprocessAllResult struct {
	Message   string `json:"message"`
	Total     int    `json:"total"`
	Processed int    `json:"processed"`
	Linked    int    `json:"linked"`
}

// ScanResult is the response of POST /scan.
type ScanResult struct {
	Message string `json:"message"`
}

// AutoScanStatus is the scheduler state polled from /auto-scan/status.
type AutoScanStatus struct {
	Enabled  bool    `json:"enabled"`
	Interval int     `json:"interval"`
	Unit     string  `json:"unit"`
	Running  bool    `json:"running"`
	LastScan *string `json:"last_scan"`
	NextScan *string `json:"next_scan"`
}

// GroupFilter narrows the grouped files listing. Empty fields are omitted;
// populated fields combine with AND semantics server-side.
type GroupFilter struct {
	Status    string
	MediaType string
	Search    string
}
