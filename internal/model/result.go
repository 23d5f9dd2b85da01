package model

// Answer session lifecycle states reported by the backend.
const (
	SessionStateUnspecified = "STATE_UNSPECIFIED"
	SessionStateInProgress  = "IN_PROGRESS"
)

// SearchResult is the normalized result of a search turn.
type SearchResult struct {
	Content string `json:"search"`
}

// AnswerResult is the normalized result of an answer turn.
type AnswerResult struct {
	AnswerText       string   `json:"answer"`
	RelatedQuestions []string `json:"related_questions"`
	SessionID        string   `json:"session_id,omitempty"`
	SessionState     string   `json:"state,omitempty"`
}
