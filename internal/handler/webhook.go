// Package handler provides HTTP handlers for the webhook server.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/capitalize-ai/datastore-webhooks/internal/events"
	"github.com/capitalize-ai/datastore-webhooks/internal/middleware"
	"github.com/capitalize-ai/datastore-webhooks/internal/model"
	"github.com/capitalize-ai/datastore-webhooks/internal/reply"
	"github.com/capitalize-ai/datastore-webhooks/internal/service"
	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
	"github.com/capitalize-ai/datastore-webhooks/pkg/metrics"
)

const (
	maxBodyBytes = 2 << 20

	// invalidRequestMessage is the error message for undecodable payloads.
	invalidRequestMessage = "invalid webhook request"

	outcomeInvalidRequest = "invalid_request"

	publishTimeout = 2 * time.Second
)

// SearchController runs search turns.
type SearchController interface {
	Search(ctx context.Context, req *model.InboundRequest) (*model.SearchResult, error)
}

// AnswerController runs answer turns.
type AnswerController interface {
	Answer(ctx context.Context, req *model.InboundRequest) (*model.AnswerResult, error)
}

// ConversationController runs conversation turns.
type ConversationController interface {
	Converse(ctx context.Context, req *model.InboundRequest) (*model.ConversationResult, error)
}

// WebhookHandler serves the search, answer and conversation webhooks.
type WebhookHandler struct {
	search       SearchController
	answer       AnswerController
	conversation ConversationController
	publisher    events.Publisher
	logger       *logger.Logger

	// pending tracks turn events still being published.
	pending sync.WaitGroup
}

// NewWebhookHandler creates a new webhook handler. A nil publisher disables
// turn events.
func NewWebhookHandler(
	search SearchController,
	answer AnswerController,
	conversation ConversationController,
	publisher events.Publisher,
	log *logger.Logger,
) *WebhookHandler {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &WebhookHandler{
		search:       search,
		answer:       answer,
		conversation: conversation,
		publisher:    publisher,
		logger:       log,
	}
}

// turn is the rendered outcome of one webhook call.
type turn struct {
	envelope model.ReplyEnvelope
	session  string
	state    string
}

// Search handles GET|POST /search
func (h *WebhookHandler) Search(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, model.RouteSearch, func(ctx context.Context, req *model.InboundRequest) (turn, error) {
		result, err := h.search.Search(ctx, req)
		if err != nil {
			return turn{}, err
		}
		return turn{envelope: reply.Search(result)}, nil
	})
}

// Answer handles GET|POST /answer
func (h *WebhookHandler) Answer(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, model.RouteAnswer, func(ctx context.Context, req *model.InboundRequest) (turn, error) {
		result, err := h.answer.Answer(ctx, req)
		if err != nil {
			return turn{}, err
		}
		return turn{
			envelope: reply.Answer(result),
			session:  result.SessionID,
			state:    result.SessionState,
		}, nil
	})
}

// Conversation handles GET|POST /conversation
func (h *WebhookHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, model.RouteConversation, func(ctx context.Context, req *model.InboundRequest) (turn, error) {
		result, err := h.conversation.Converse(ctx, req)
		if err != nil {
			return turn{}, err
		}
		return turn{
			envelope: reply.Conversation(result),
			session:  result.Name,
			state:    result.State,
		}, nil
	})
}

func (h *WebhookHandler) serve(
	w http.ResponseWriter,
	r *http.Request,
	route model.Route,
	run func(context.Context, *model.InboundRequest) (turn, error),
) {
	ctx := logger.ContextWithRoute(r.Context(), string(route))
	start := time.Now()
	log := h.logger.ForRoute(ctx, string(route))

	req, err := decodeRequest(w, r)
	if err == nil {
		err = middleware.ValidateInbound(req)
	}
	if err != nil {
		log.Warn("rejected webhook request", zap.Error(err))
		metrics.RecordReply(string(route), outcomeInvalidRequest)
		writeJSON(w, log, http.StatusBadRequest, reply.Render(reply.ErrorWithMessage(invalidRequestMessage)))
		return
	}

	// Controllers log their own failures; the error only selects the reply.
	t, err := run(ctx, req)
	outcome := service.Outcome(err)
	if err != nil {
		t = turn{envelope: reply.Error(route)}
	}

	metrics.RecordReply(string(route), outcome)
	writeJSON(w, log, http.StatusOK, reply.Render(t.envelope))

	// The reply is only sent once the handler returns, so the event is
	// published in the background.
	event := &model.TurnEvent{
		ID:            uuid.New().String(),
		Route:         route,
		Outcome:       outcome,
		Session:       t.session,
		State:         t.state,
		LatencyMs:     time.Since(start).Milliseconds(),
		CorrelationID: logger.CorrelationID(ctx),
		CreatedAt:     start.UTC(),
	}
	publishCtx := context.WithoutCancel(ctx)

	h.pending.Add(1)
	go func() {
		defer h.pending.Done()
		h.publish(publishCtx, log, event)
	}()
}

// Wait blocks until every turn event handed to the publisher has been
// published or has failed.
func (h *WebhookHandler) Wait() {
	h.pending.Wait()
}

func (h *WebhookHandler) publish(ctx context.Context, log *logger.Logger, event *model.TurnEvent) {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := h.publisher.Publish(ctx, event); err != nil {
		log.Warn("failed to publish turn event",
			zap.String("event_id", event.ID),
			zap.String("outcome", event.Outcome),
			zap.Error(err),
		)
	}
}

// decodeRequest reads the webhook payload from the JSON body, or from the
// query string of a bodiless GET. An empty body yields an empty request.
func decodeRequest(w http.ResponseWriter, r *http.Request) (*model.InboundRequest, error) {
	req := &model.InboundRequest{}

	if r.Body != nil && r.Body != http.NoBody {
		body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	}

	if r.Method == http.MethodGet && req.Text == "" && req.Transcript == "" && req.Params() == nil {
		q := r.URL.Query()
		req.Text = q.Get("text")
		req.Transcript = q.Get("transcript")
		if s := q.Get(model.SessionParameter); s != "" {
			req.Parameters = map[string]any{model.SessionParameter: s}
		}
	}

	return req, nil
}
