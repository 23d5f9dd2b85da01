package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/capitalize-ai/datastore-webhooks/internal/model"
	"github.com/capitalize-ai/datastore-webhooks/internal/utterance"
	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
)

// SearchService handles the search route.
type SearchService struct {
	backend    Searcher
	maxResults int
	logger     *logger.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(backend Searcher, maxResults int, log *logger.Logger) *SearchService {
	if maxResults <= 0 {
		maxResults = 1
	}
	return &SearchService{
		backend:    backend,
		maxResults: maxResults,
		logger:     log,
	}
}

// Search returns the first extractive answer of the top hit.
func (s *SearchService) Search(ctx context.Context, req *model.InboundRequest) (*model.SearchResult, error) {
	log := s.logger.ForRoute(ctx, string(model.RouteSearch))

	query, ok := utterance.Normalize(req, log)
	if !ok {
		return nil, utterance.ErrNoUtterance
	}

	hits, err := s.backend.Search(ctx, query, s.maxResults)
	if err != nil {
		return nil, err
	}
	if len(hits) == 0 {
		log.Info("search returned no results")
		return nil, ErrNoResults
	}

	content, ok := hits[0].Document.ExtractiveAnswer()
	if !ok || content == "" {
		log.Error("failed to extract a search content", zap.String("result_id", hits[0].ID))
		return nil, ErrResponseShape
	}

	return &model.SearchResult{Content: content}, nil
}
