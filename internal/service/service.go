// Package service implements the search, answer and conversation route
// controllers.
package service

import (
	"context"
	"errors"

	"github.com/capitalize-ai/datastore-webhooks/internal/discovery"
	"github.com/capitalize-ai/datastore-webhooks/internal/session"
	"github.com/capitalize-ai/datastore-webhooks/internal/utterance"
)

var (
	// ErrNoResults reports a search without hits.
	ErrNoResults = errors.New("no results")

	// ErrResponseShape reports a successful backend response missing the
	// field the route renders.
	ErrResponseShape = errors.New("unexpected response shape")
)

// Searcher runs plain searches.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]discovery.SearchResult, error)
}

// Answerer runs answer queries.
type Answerer interface {
	AnswerQuery(ctx context.Context, query, session string, wantRelated bool) (*discovery.AnswerQueryResponse, error)
}

// Converser runs conversation turns.
type Converser interface {
	ConverseConversation(ctx context.Context, query string, conversation *discovery.Conversation) (*discovery.ConverseConversationResponse, error)
}

// Outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeNoUtterance   = "no_utterance"
	OutcomeBackendError  = "backend_error"
	OutcomeSessionDecode = "session_decode_error"
	OutcomeResponseShape = "response_shape_error"
	OutcomeNoResults     = "no_results"
	OutcomeInternal      = "internal_error"
)

// Outcome classifies a controller error into a stable label.
func Outcome(err error) string {
	var backendErr *discovery.BackendError
	var decodeErr *session.DecodeError

	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, utterance.ErrNoUtterance):
		return OutcomeNoUtterance
	case errors.As(err, &backendErr):
		return OutcomeBackendError
	case errors.As(err, &decodeErr):
		return OutcomeSessionDecode
	case errors.Is(err, ErrResponseShape):
		return OutcomeResponseShape
	case errors.Is(err, ErrNoResults):
		return OutcomeNoResults
	default:
		return OutcomeInternal
	}
}
