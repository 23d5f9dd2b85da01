package discovery

import (
	"time"
)

// SearchRequest is the body of a servingConfigs.search call.
type SearchRequest struct {
	ServingConfig       string               `json:"servingConfig"`
	Branch              string               `json:"branch,omitempty"`
	Query               string               `json:"query,omitempty"`
	ImageQuery          *ImageQuery          `json:"imageQuery,omitempty"`
	PageSize            int                  `json:"pageSize"`
	PageToken           string               `json:"pageToken,omitempty"`
	Offset              int                  `json:"offset"`
	Filter              string               `json:"filter,omitempty"`
	CanonicalFilter     string               `json:"canonicalFilter,omitempty"`
	OrderBy             string               `json:"orderBy,omitempty"`
	UserInfo            *UserInfo            `json:"userInfo,omitempty"`
	FacetSpecs          []FacetSpec          `json:"facetSpecs,omitempty"`
	BoostSpec           *BoostSpec           `json:"boostSpec,omitempty"`
	Params              map[string]any       `json:"params,omitempty"`
	QueryExpansionSpec  *QueryExpansionSpec  `json:"queryExpansionSpec,omitempty"`
	SpellCorrectionSpec *SpellCorrectionSpec `json:"spellCorrectionSpec,omitempty"`
	UserPseudoID        string               `json:"userPseudoId,omitempty"`
	ContentSearchSpec   *ContentSearchSpec   `json:"contentSearchSpec,omitempty"`
	EmbeddingSpec       *EmbeddingSpec       `json:"embeddingSpec,omitempty"`
	RankingExpression   string               `json:"rankingExpression,omitempty"`
	SafeSearch          bool                 `json:"safeSearch,omitempty"`
	UserLabels          map[string]string    `json:"userLabels,omitempty"`
}

// ImageQuery carries a base64 encoded image.
type ImageQuery struct {
	ImageBytes string `json:"imageBytes" yaml:"image_bytes"`
}

// UserInfo identifies the end user.
type UserInfo struct {
	UserID    string `json:"userId,omitempty" yaml:"user_id"`
	UserAgent string `json:"userAgent,omitempty" yaml:"user_agent"`
}

// FacetSpec requests a facet over a document field.
type FacetSpec struct {
	FacetKey              FacetKey `json:"facetKey" yaml:"facet_key"`
	Limit                 int      `json:"limit,omitempty" yaml:"limit"`
	ExcludedFilterKeys    []string `json:"excludedFilterKeys,omitempty" yaml:"excluded_filter_keys"`
	EnableDynamicPosition bool     `json:"enableDynamicPosition,omitempty" yaml:"enable_dynamic_position"`
}

// FacetKey selects the facet field and its buckets.
type FacetKey struct {
	Key              string     `json:"key" yaml:"key"`
	Intervals        []Interval `json:"intervals,omitempty" yaml:"intervals"`
	RestrictedValues []string   `json:"restrictedValues,omitempty" yaml:"restricted_values"`
	Prefixes         []string   `json:"prefixes,omitempty" yaml:"prefixes"`
	Contains         []string   `json:"contains,omitempty" yaml:"contains"`
	CaseInsensitive  bool       `json:"caseInsensitive,omitempty" yaml:"case_insensitive"`
	OrderBy          string     `json:"orderBy,omitempty" yaml:"order_by"`
}

// Interval is a numeric facet bucket.
type Interval struct {
	Minimum          *float64 `json:"minimum,omitempty" yaml:"minimum"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty" yaml:"exclusive_minimum"`
	Maximum          *float64 `json:"maximum,omitempty" yaml:"maximum"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty" yaml:"exclusive_maximum"`
}

// BoostSpec adjusts ranking for matching documents.
type BoostSpec struct {
	ConditionBoostSpecs []ConditionBoostSpec `json:"conditionBoostSpecs,omitempty" yaml:"condition_boost_specs"`
}

// ConditionBoostSpec boosts documents matching Condition.
type ConditionBoostSpec struct {
	Condition string  `json:"condition" yaml:"condition"`
	Boost     float64 `json:"boost" yaml:"boost"`
}

// QueryExpansionSpec controls query expansion.
type QueryExpansionSpec struct {
	Condition            string `json:"condition,omitempty" yaml:"condition"`
	PinUnexpandedResults bool   `json:"pinUnexpandedResults,omitempty" yaml:"pin_unexpanded_results"`
}

// SpellCorrectionSpec controls spell correction.
type SpellCorrectionSpec struct {
	Mode string `json:"mode,omitempty" yaml:"mode"`
}

// ContentSearchSpec selects snippets, summaries and extractive content.
type ContentSearchSpec struct {
	SnippetSpec           *SnippetSpec           `json:"snippetSpec,omitempty" yaml:"snippet_spec"`
	SummarySpec           *SummarySpec           `json:"summarySpec,omitempty" yaml:"summary_spec"`
	ExtractiveContentSpec *ExtractiveContentSpec `json:"extractiveContentSpec,omitempty" yaml:"extractive_content_spec"`
}

// SnippetSpec requests snippets.
type SnippetSpec struct {
	ReturnSnippet bool `json:"returnSnippet,omitempty" yaml:"return_snippet"`
}

// SummarySpec requests a generated summary.
type SummarySpec struct {
	SummaryResultCount           int  `json:"summaryResultCount,omitempty" yaml:"summary_result_count"`
	IncludeCitations             bool `json:"includeCitations,omitempty" yaml:"include_citations"`
	IgnoreAdversarialQuery       bool `json:"ignoreAdversarialQuery,omitempty" yaml:"ignore_adversarial_query"`
	IgnoreNonSummarySeekingQuery bool `json:"ignoreNonSummarySeekingQuery,omitempty" yaml:"ignore_non_summary_seeking_query"`
}

// ExtractiveContentSpec requests extractive answers and segments.
type ExtractiveContentSpec struct {
	MaxExtractiveAnswerCount     int  `json:"maxExtractiveAnswerCount,omitempty" yaml:"max_extractive_answer_count"`
	MaxExtractiveSegmentCount    int  `json:"maxExtractiveSegmentCount,omitempty" yaml:"max_extractive_segment_count"`
	ReturnExtractiveSegmentScore bool `json:"returnExtractiveSegmentScore,omitempty" yaml:"return_extractive_segment_score"`
}

// EmbeddingSpec supplies query embeddings.
type EmbeddingSpec struct {
	EmbeddingVectors []EmbeddingVector `json:"embeddingVectors,omitempty" yaml:"embedding_vectors"`
}

// EmbeddingVector is an embedding for a document field.
type EmbeddingVector struct {
	FieldPath string    `json:"fieldPath" yaml:"field_path"`
	Vector    []float64 `json:"vector" yaml:"vector"`
}

// SearchResponse is one page of search results.
type SearchResponse struct {
	Results          []SearchResult `json:"results"`
	TotalSize        int            `json:"totalSize"`
	AttributionToken string         `json:"attributionToken"`
	NextPageToken    string         `json:"nextPageToken"`
}

// SearchResult is a single hit.
type SearchResult struct {
	ID       string    `json:"id"`
	Document *Document `json:"document"`
}

// Document is the matched document.
type Document struct {
	Name              string         `json:"name"`
	ID                string         `json:"id"`
	DerivedStructData map[string]any `json:"derivedStructData"`
}

// ExtractiveAnswer returns the content of the first extractive answer.
func (d *Document) ExtractiveAnswer() (string, bool) {
	if d == nil {
		return "", false
	}
	answers, ok := d.DerivedStructData["extractive_answers"].([]any)
	if !ok || len(answers) == 0 {
		return "", false
	}
	first, ok := answers[0].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := first["content"].(string)
	return content, ok
}

// AnswerQueryRequest is the body of a servingConfigs.answer call.
type AnswerQueryRequest struct {
	ServingConfig        string                `json:"servingConfig"`
	Query                Query                 `json:"query"`
	Session              string                `json:"session,omitempty"`
	RelatedQuestionsSpec *RelatedQuestionsSpec `json:"relatedQuestionsSpec,omitempty"`
	UserPseudoID         string                `json:"userPseudoId,omitempty"`
	UserLabels           map[string]string     `json:"userLabels,omitempty"`
}

// Query is the text of an answer query.
type Query struct {
	Text    string `json:"text"`
	QueryID string `json:"queryId,omitempty"`
}

// RelatedQuestionsSpec toggles related question generation.
type RelatedQuestionsSpec struct {
	Enable bool `json:"enable"`
}

// AnswerQueryResponse is the result of an answer call.
type AnswerQueryResponse struct {
	Answer           *Answer  `json:"answer"`
	Session          *Session `json:"session"`
	AnswerQueryToken string   `json:"answerQueryToken"`
}

// Answer is a generated answer.
type Answer struct {
	Name                 string   `json:"name"`
	State                string   `json:"state"`
	AnswerText           string   `json:"answerText"`
	RelatedQuestions     []string `json:"relatedQuestions"`
	AnswerSkippedReasons []string `json:"answerSkippedReasons"`
}

// Session is the answer session the query ran in.
type Session struct {
	Name         string        `json:"name"`
	State        string        `json:"state"`
	UserPseudoID string        `json:"userPseudoId"`
	Turns        []SessionTurn `json:"turns"`
	StartTime    *time.Time    `json:"startTime,omitempty"`
	EndTime      *time.Time    `json:"endTime,omitempty"`
}

// SessionTurn is a query and the answer resource it produced.
type SessionTurn struct {
	Query  *Query `json:"query,omitempty"`
	Answer string `json:"answer,omitempty"`
}

// ConverseConversationRequest is the body of a conversations.converse call.
type ConverseConversationRequest struct {
	Name          string            `json:"name"`
	Query         TextInput         `json:"query"`
	ServingConfig string            `json:"servingConfig,omitempty"`
	Conversation  *Conversation     `json:"conversation,omitempty"`
	SafeSearch    bool              `json:"safeSearch,omitempty"`
	UserLabels    map[string]string `json:"userLabels,omitempty"`
	SummarySpec   *SummarySpec      `json:"summarySpec,omitempty"`
	Filter        string            `json:"filter,omitempty"`
	BoostSpec     *BoostSpec        `json:"boostSpec,omitempty"`
}

// TextInput is a free-text user input.
type TextInput struct {
	Input string `json:"input"`
}

// ConverseConversationResponse is the result of a converse call.
type ConverseConversationResponse struct {
	Reply         *Reply         `json:"reply"`
	Conversation  *Conversation  `json:"conversation"`
	SearchResults []SearchResult `json:"searchResults"`
}

// Reply is the backend's conversational reply.
type Reply struct {
	Reply   string   `json:"reply,omitempty"`
	Summary *Summary `json:"summary,omitempty"`
}

// Summary is a generated search summary.
type Summary struct {
	SummaryText           string   `json:"summaryText"`
	SummarySkippedReasons []string `json:"summarySkippedReasons,omitempty"`
}

// Conversation is a multi-turn conversation.
type Conversation struct {
	Name         string                `json:"name"`
	State        string                `json:"state,omitempty"`
	UserPseudoID string                `json:"userPseudoId,omitempty"`
	Messages     []ConversationMessage `json:"messages,omitempty"`
	StartTime    *time.Time            `json:"startTime,omitempty"`
	EndTime      *time.Time            `json:"endTime,omitempty"`
}

// ConversationMessage is a user input or a reply.
type ConversationMessage struct {
	UserInput  *TextInput `json:"userInput,omitempty"`
	Reply      *Reply     `json:"reply,omitempty"`
	CreateTime *time.Time `json:"createTime,omitempty"`
}
