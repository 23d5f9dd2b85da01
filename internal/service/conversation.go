package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/capitalize-ai/datastore-webhooks/internal/discovery"
	"github.com/capitalize-ai/datastore-webhooks/internal/model"
	"github.com/capitalize-ai/datastore-webhooks/internal/session"
	"github.com/capitalize-ai/datastore-webhooks/internal/utterance"
	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
)

// ConversationService handles the multi-turn conversation route. The
// conversation travels as an encoded handle in the session parameter.
type ConversationService struct {
	backend Converser
	logger  *logger.Logger
}

// NewConversationService creates a new conversation service.
func NewConversationService(backend Converser, log *logger.Logger) *ConversationService {
	return &ConversationService{
		backend: backend,
		logger:  log,
	}
}

// Converse sends the utterance as the next turn and returns the reply along
// with the updated, encoded conversation.
func (s *ConversationService) Converse(ctx context.Context, req *model.InboundRequest) (*model.ConversationResult, error) {
	log := s.logger.ForRoute(ctx, string(model.RouteConversation))

	query, ok := utterance.Normalize(req, log)
	if !ok {
		return nil, utterance.ErrNoUtterance
	}

	var conversation *discovery.Conversation
	if v, ok := req.Session(); ok {
		handle, err := session.DecodeValue(v)
		if err != nil {
			log.Error("failed to decode conversation session", zap.Error(err))
			return nil, err
		}
		conversation = discovery.ConversationFromHandle(handle)
	}

	resp, err := s.backend.ConverseConversation(ctx, query, conversation)
	if err != nil {
		return nil, err
	}
	if resp.Reply == nil || resp.Reply.Text() == "" {
		log.Error("reply missing from response")
		return nil, ErrResponseShape
	}
	if resp.Conversation == nil {
		log.Error("conversation missing from response")
		return nil, ErrResponseShape
	}

	blob, err := session.Encode(resp.Conversation.Handle())
	if err != nil {
		log.Error("failed to encode conversation session", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrResponseShape, err)
	}

	return &model.ConversationResult{
		ReplyText:   resp.Reply.Text(),
		SummaryText: resp.Reply.SummaryText(),
		SessionJSON: blob,
		State:       resp.Conversation.State,
		Name:        resp.Conversation.Name,
	}, nil
}
