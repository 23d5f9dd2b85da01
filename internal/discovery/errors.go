package discovery

import (
	"encoding/json"
	"fmt"
)

// BackendError reports a failed call to the search/answer/conversation
// service. It never exposes the transport's own error types to callers beyond
// Unwrap.
type BackendError struct {
	Op         string
	StatusCode int
	Status     string
	Message    string
	Err        error
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend returned %d %s: %s", e.Op, e.StatusCode, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// apiError is the Google API error body.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func newStatusError(op string, statusCode int, body []byte) *BackendError {
	e := &BackendError{Op: op, StatusCode: statusCode}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		e.Status = apiErr.Error.Status
		e.Message = apiErr.Error.Message
		return e
	}

	e.Message = truncate(string(body), 512)
	return e
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
