// Package discovery provides a client for the managed search, answer and
// conversation service backing the webhooks.
package discovery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/capitalize-ai/datastore-webhooks/pkg/logger"
	"github.com/capitalize-ai/datastore-webhooks/pkg/metrics"
)

const (
	// DefaultAPIVersion is the REST API version used when none is configured.
	DefaultAPIVersion = "v1beta"

	defaultHost     = "discoveryengine.googleapis.com"
	cloudScope      = "https://www.googleapis.com/auth/cloud-platform"
	maxResponseSize = 16 << 20
)

// Operation names used for logs, metrics and errors.
const (
	OpSearch   = "search"
	OpAnswer   = "answer_query"
	OpConverse = "converse_conversation"
)

// Config holds client configuration.
type Config struct {
	// DataStoreID is the full data store resource name.
	DataStoreID string
	// Endpoint overrides the base URL derived from the data store location.
	Endpoint   string
	APIVersion string
	Options    *SearchOptions
	HTTPClient *http.Client
}

// Client calls the search, answer and converse operations of one data store.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiVersion  string
	dataStoreID string
	options     *SearchOptions
	logger      *logger.Logger
	tracer      trace.Tracer
}

// New creates a new client.
func New(cfg Config, log *logger.Logger) (*Client, error) {
	if cfg.DataStoreID == "" {
		return nil, errors.New("data store ID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	baseURL := cfg.Endpoint
	if baseURL == "" {
		baseURL = DefaultEndpoint(cfg.DataStoreID)
	}

	apiVersion := cfg.APIVersion
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiVersion:  apiVersion,
		dataStoreID: strings.Trim(cfg.DataStoreID, "/"),
		options:     cfg.Options,
		logger:      log,
		tracer:      otel.Tracer("github.com/capitalize-ai/datastore-webhooks/internal/discovery"),
	}, nil
}

// NewHTTPClient returns an authenticated, traced HTTP client. A non-empty
// accessToken is used as a static bearer token; otherwise Application Default
// Credentials are used.
func NewHTTPClient(ctx context.Context, accessToken string, timeout time.Duration) (*http.Client, error) {
	var ts oauth2.TokenSource
	if accessToken != "" {
		ts = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
	} else {
		creds, err := google.FindDefaultCredentials(ctx, cloudScope)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		ts = creds.TokenSource
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &oauth2.Transport{
			Source: ts,
			Base:   otelhttp.NewTransport(http.DefaultTransport),
		},
	}, nil
}

// DefaultEndpoint returns the regional base URL for a data store.
func DefaultEndpoint(dataStoreID string) string {
	parts := strings.Split(strings.Trim(dataStoreID, "/"), "/")
	if len(parts) > 3 && parts[2] == "locations" && parts[3] != "global" {
		return "https://" + parts[3] + "-" + defaultHost
	}
	return "https://" + defaultHost
}

// ServingConfig returns the default serving config of the data store.
func (c *Client) ServingConfig() string {
	return c.dataStoreID + "/servingConfigs/default_serving_config"
}

// Branch returns the default branch for a serving config path.
func Branch(servingConfig string) string {
	parts := strings.Split(servingConfig, "/")
	if len(parts) > 8 {
		parts = parts[:8]
	}
	return strings.Join(parts, "/") + "/branches/0"
}

// Search runs query and returns at most maxResults hits. Pages are fetched
// only until the cap is reached.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error) {
	if maxResults <= 0 {
		return nil, nil
	}

	servingConfig := c.ServingConfig()
	req := &SearchRequest{
		ServingConfig: servingConfig,
		Branch:        Branch(servingConfig),
		Query:         query,
	}
	c.options.apply(req)

	var results []SearchResult
	for {
		var resp SearchResponse
		if err := c.call(ctx, OpSearch, servingConfig+":search", req, &resp); err != nil {
			return nil, err
		}
		metrics.SearchPagesTotal.Inc()

		for _, r := range resp.Results {
			results = append(results, r)
			if len(results) >= maxResults {
				return results, nil
			}
		}

		if resp.NextPageToken == "" {
			return results, nil
		}
		req.PageToken = resp.NextPageToken
	}
}

// AnswerQuery asks for an answer to query within session. An empty session
// starts a new one.
func (c *Client) AnswerQuery(ctx context.Context, query, session string, wantRelated bool) (*AnswerQueryResponse, error) {
	if session == "" {
		session = c.dataStoreID + "/sessions/-"
	}

	servingConfig := c.ServingConfig()
	req := &AnswerQueryRequest{
		ServingConfig:        servingConfig,
		Query:                Query{Text: query},
		Session:              session,
		RelatedQuestionsSpec: &RelatedQuestionsSpec{Enable: wantRelated},
	}
	if c.options != nil {
		req.UserLabels = c.options.UserLabels
		req.UserPseudoID = c.options.UserPseudoID
	}

	var resp AnswerQueryResponse
	if err := c.call(ctx, OpAnswer, servingConfig+":answer", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConverseConversation sends query as the next turn of conversation. A nil
// conversation starts a new one.
func (c *Client) ConverseConversation(ctx context.Context, query string, conversation *Conversation) (*ConverseConversationResponse, error) {
	name := c.dataStoreID + "/conversations/-"
	if conversation != nil && conversation.Name != "" {
		name = conversation.Name
	}

	req := &ConverseConversationRequest{
		Name:          name,
		Query:         TextInput{Input: query},
		ServingConfig: c.ServingConfig(),
		Conversation:  conversation,
	}
	if c.options != nil {
		req.SafeSearch = c.options.SafeSearch
		req.UserLabels = c.options.UserLabels
		req.SummarySpec = c.options.summarySpec()
		req.Filter = c.options.Filter
		req.BoostSpec = c.options.BoostSpec
	}

	var resp ConverseConversationResponse
	if err := c.call(ctx, OpConverse, name+":converse", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// call POSTs body to resource and decodes the response into out. Every
// failure is logged here and returned as a *BackendError.
func (c *Client) call(ctx context.Context, op, resource string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, "discovery."+op, trace.WithAttributes(
		attribute.String("discovery.resource", resource),
	))
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			c.logger.FromContext(ctx).Error("backend call failed",
				zap.String("operation", op),
				zap.String("resource", resource),
				zap.Error(err),
			)
		}
		metrics.RecordBackendCall(op, status, time.Since(start).Seconds())
		span.End()
	}()

	payload, err := json.Marshal(body)
	if err != nil {
		return &BackendError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	url := fmt.Sprintf("%s/%s/%s", c.baseURL, c.apiVersion, resource)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &BackendError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &BackendError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return &BackendError{Op: op, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(op, resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &BackendError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
