package service

import (
	"context"

	"github.com/capitalize-ai/datastore-webhooks/internal/discovery"
)

type fakeSearcher struct {
	hits  []discovery.SearchResult
	err   error
	calls int
	query string
	max   int
}

func (f *fakeSearcher) Search(_ context.Context, query string, maxResults int) ([]discovery.SearchResult, error) {
	f.calls++
	f.query = query
	f.max = maxResults
	return f.hits, f.err
}

type fakeAnswerer struct {
	resp    *discovery.AnswerQueryResponse
	err     error
	calls   int
	query   string
	session string
	related bool
}

func (f *fakeAnswerer) AnswerQuery(_ context.Context, query, session string, wantRelated bool) (*discovery.AnswerQueryResponse, error) {
	f.calls++
	f.query = query
	f.session = session
	f.related = wantRelated
	return f.resp, f.err
}

type fakeConverser struct {
	resp         *discovery.ConverseConversationResponse
	err          error
	calls        int
	query        string
	conversation *discovery.Conversation
}

func (f *fakeConverser) ConverseConversation(_ context.Context, query string, conversation *discovery.Conversation) (*discovery.ConverseConversationResponse, error) {
	f.calls++
	f.query = query
	f.conversation = conversation
	return f.resp, f.err
}

func hit(content string) discovery.SearchResult {
	return discovery.SearchResult{
		ID: "doc-1",
		Document: &discovery.Document{
			ID: "doc-1",
			DerivedStructData: map[string]any{
				"extractive_answers": []any{
					map[string]any{"content": content, "pageNumber": "1"},
				},
			},
		},
	}
}

var errBackend = &discovery.BackendError{Op: discovery.OpSearch, StatusCode: 503, Message: "unavailable"}
