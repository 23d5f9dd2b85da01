package discovery

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults applied when the options document leaves them unset.
const (
	DefaultPageSize = 10
	DefaultOffset   = 0
)

// SearchOptions holds the optional request fields passed through to every
// backend call. Unset fields are omitted from the request.
type SearchOptions struct {
	PageSize            *int                 `yaml:"page_size"`
	PageToken           string               `yaml:"page_token"`
	Offset              *int                 `yaml:"offset"`
	Filter              string               `yaml:"filter"`
	CanonicalFilter     string               `yaml:"canonical_filter"`
	OrderBy             string               `yaml:"order_by"`
	UserInfo            *UserInfo            `yaml:"user_info"`
	FacetSpecs          []FacetSpec          `yaml:"facet_specs"`
	BoostSpec           *BoostSpec           `yaml:"boost_spec"`
	Params              map[string]any       `yaml:"params"`
	QueryExpansionSpec  *QueryExpansionSpec  `yaml:"query_expansion_spec"`
	SpellCorrectionSpec *SpellCorrectionSpec `yaml:"spell_correction_spec"`
	UserPseudoID        string               `yaml:"user_pseudo_id"`
	ContentSearchSpec   *ContentSearchSpec   `yaml:"content_search_spec"`
	EmbeddingSpec       *EmbeddingSpec       `yaml:"embedding_spec"`
	RankingExpression   string               `yaml:"ranking_expression"`
	SafeSearch          bool                 `yaml:"safe_search"`
	UserLabels          map[string]string    `yaml:"user_labels"`
	ImageQuery          *ImageQuery          `yaml:"image_query"`
}

// LoadSearchOptions reads a YAML options document. An empty path yields empty
// options.
func LoadSearchOptions(path string) (*SearchOptions, error) {
	if path == "" {
		return &SearchOptions{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search options: %w", err)
	}

	return ParseSearchOptions(data)
}

// ParseSearchOptions decodes a YAML options document.
func ParseSearchOptions(data []byte) (*SearchOptions, error) {
	var opts SearchOptions
	if err := yaml.Unmarshal(data, &opts); err != nil {
		return nil, fmt.Errorf("failed to parse search options: %w", err)
	}
	if opts.PageSize != nil && *opts.PageSize <= 0 {
		return nil, fmt.Errorf("page_size must be positive, got %d", *opts.PageSize)
	}
	if opts.Offset != nil && *opts.Offset < 0 {
		return nil, fmt.Errorf("offset must not be negative, got %d", *opts.Offset)
	}
	return &opts, nil
}

func (o *SearchOptions) pageSize() int {
	if o == nil || o.PageSize == nil {
		return DefaultPageSize
	}
	return *o.PageSize
}

func (o *SearchOptions) offset() int {
	if o == nil || o.Offset == nil {
		return DefaultOffset
	}
	return *o.Offset
}

// apply copies the passthrough fields onto req.
func (o *SearchOptions) apply(req *SearchRequest) {
	req.PageSize = o.pageSize()
	req.Offset = o.offset()
	if o == nil {
		return
	}
	req.PageToken = o.PageToken
	req.Filter = o.Filter
	req.CanonicalFilter = o.CanonicalFilter
	req.OrderBy = o.OrderBy
	req.UserInfo = o.UserInfo
	req.FacetSpecs = o.FacetSpecs
	req.BoostSpec = o.BoostSpec
	req.Params = o.Params
	req.QueryExpansionSpec = o.QueryExpansionSpec
	req.SpellCorrectionSpec = o.SpellCorrectionSpec
	req.UserPseudoID = o.UserPseudoID
	req.ContentSearchSpec = o.ContentSearchSpec
	req.EmbeddingSpec = o.EmbeddingSpec
	req.RankingExpression = o.RankingExpression
	req.SafeSearch = o.SafeSearch
	req.UserLabels = o.UserLabels
	req.ImageQuery = o.ImageQuery
}

func (o *SearchOptions) summarySpec() *SummarySpec {
	if o == nil || o.ContentSearchSpec == nil {
		return nil
	}
	return o.ContentSearchSpec.SummarySpec
}
