package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
	"github.com/capitalize-ai/datastore-webhooks/internal/session"
	"github.com/capitalize-ai/datastore-webhooks/internal/utterance"
	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
)

// AnswerService handles the answer route. The session travels as the
// backend session name.
type AnswerService struct {
	backend     Answerer
	wantRelated bool
	logger      *logger.Logger
}

// NewAnswerService creates a new answer service.
func NewAnswerService(backend Answerer, wantRelated bool, log *logger.Logger) *AnswerService {
	return &AnswerService{
		backend:     backend,
		wantRelated: wantRelated,
		logger:      log,
	}
}

// Answer returns the generated answer and its related questions.
func (s *AnswerService) Answer(ctx context.Context, req *model.InboundRequest) (*model.AnswerResult, error) {
	log := s.logger.ForRoute(ctx, string(model.RouteAnswer))

	query, ok := utterance.Normalize(req, log)
	if !ok {
		return nil, utterance.ErrNoUtterance
	}

	var sessionName string
	if v, ok := req.Session(); ok {
		name, err := sessionNameOf(v)
		if err != nil {
			log.Error("failed to read answer session", zap.Error(err))
			return nil, err
		}
		sessionName = name
	}

	resp, err := s.backend.AnswerQuery(ctx, query, sessionName, s.wantRelated)
	if err != nil {
		return nil, err
	}
	if resp.Answer == nil {
		log.Error("answer missing from response")
		return nil, ErrResponseShape
	}
	if resp.Answer.AnswerText == "" {
		log.Warn("answer text empty",
			zap.String("state", resp.Answer.State),
			zap.Strings("skipped_reasons", resp.Answer.AnswerSkippedReasons),
		)
		return nil, ErrResponseShape
	}

	result := &model.AnswerResult{
		AnswerText:       resp.Answer.AnswerText,
		RelatedQuestions: make([]string, 0, len(resp.Answer.RelatedQuestions)),
	}
	result.RelatedQuestions = append(result.RelatedQuestions, resp.Answer.RelatedQuestions...)
	if resp.Session != nil {
		result.SessionID = resp.Session.Name
		result.SessionState = resp.Session.State
	}

	return result, nil
}

// sessionNameOf accepts a session name or an object carrying one.
func sessionNameOf(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case map[string]any:
		if name, ok := val["name"].(string); ok && name != "" {
			return name, nil
		}
		return "", &session.DecodeError{Err: session.ErrMissingName}
	default:
		return "", &session.DecodeError{Err: fmt.Errorf("unsupported session type %T", v)}
	}
}
