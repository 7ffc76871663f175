package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error is a non-2xx response from the server. Detail carries the server's
// human-readable message verbatim and is what gets shown to the user.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server error %d", e.StatusCode)
}

// errorFromResponse builds an Error from a non-2xx response body.
// The server sends {"detail": "..."}; anything else falls back to the raw body.
func errorFromResponse(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return &Error{StatusCode: resp.StatusCode, Detail: payload.Detail}
	}

	return &Error{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(body))}
}
