package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
)

// Search limits.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Params configures a search query. Every non-empty filter must match.
type Params struct {
	Query   string // Free text over title, description and transcript
	Book    string // Book name or alias, e.g. "1 Cor"
	Topic   string // Topic name, e.g. "grace"
	Passage string // Reference, e.g. "john 3:16"

	Limit  int
	Offset int
}

// Result is a page of search hits.
type Result struct {
	Query  string `json:"query"`
	Total  uint64 `json:"total"`
	TookMs int64  `json:"took_ms"`
	Hits   []Hit  `json:"hits"`
	Facets Facets `json:"facets"`
}

// Hit is a single matching video.
type Hit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Passages   []string          `json:"passages,omitempty"`
	Topics     []string          `json:"topics,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Facets counts the books and topics across all matches.
type Facets struct {
	Books  []FacetCount `json:"books,omitempty"`
	Topics []FacetCount `json:"topics,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// normalize clamps paging and canonicalizes the filters. Unknown books or
// unparseable passages are kept verbatim and will simply match nothing.
func (p Params) normalize() Params {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	p.Query = strings.TrimSpace(p.Query)
	if b := strings.TrimSpace(p.Book); b != "" {
		if name, ok := chapters.LookupBook(b); ok {
			p.Book = name
		} else {
			p.Book = b
		}
	}
	p.Topic = strings.ToLower(strings.TrimSpace(p.Topic))
	if ps := strings.TrimSpace(p.Passage); ps != "" {
		if ref, ok := chapters.ParseReference(ps); ok {
			p.Passage = ref.FullReference
		} else {
			p.Passage = ps
		}
	}
	return p
}

// Search executes a query. Ranking is Bleve's default scoring.
func (s *SearchIndex) Search(ctx context.Context, params Params) (*Result, error) {
	params = params.normalize()

	s.mu.RLock()
	defer s.mu.RUnlock()

	req := bleve.NewSearchRequestOptions(buildQuery(params), params.Limit, params.Offset, false)
	req.SortBy([]string{"-_score", "-created_at"})
	req.AddFacet("books", bleve.NewFacetRequest("books", 20))
	req.AddFacet("topics", bleve.NewFacetRequest("topics", 20))

	if params.Query != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.Highlight.AddField("transcript")
	}

	req.Fields = []string{"id", "title", "passages", "topics"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &Result{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]Hit, 0, len(res.Hits)),
	}

	for _, h := range res.Hits {
		hit := Hit{
			ID:       h.ID,
			Score:    h.Score,
			Passages: stringList(h.Fields["passages"]),
			Topics:   stringList(h.Fields["topics"]),
		}
		if t, ok := h.Fields["title"].(string); ok {
			hit.Title = t
		}

		if len(h.Fragments) > 0 {
			hit.Highlights = make(map[string]string)
			for field, fragments := range h.Fragments {
				if len(fragments) > 0 {
					hit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, hit)
	}

	result.Facets = extractFacets(res)
	return result, nil
}

// buildQuery combines the free-text query and filters with AND.
func buildQuery(params Params) query.Query {
	var queries []query.Query

	if params.Query != "" {
		titleMatch := bleve.NewMatchQuery(params.Query)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		descMatch.SetBoost(1.5)

		transcriptMatch := bleve.NewMatchQuery(params.Query)
		transcriptMatch.SetField("transcript")

		queries = append(queries, bleve.NewDisjunctionQuery(titleMatch, descMatch, transcriptMatch))
	}

	for field, value := range map[string]string{
		"books":    params.Book,
		"topics":   params.Topic,
		"passages": params.Passage,
	} {
		if value == "" {
			continue
		}
		tq := bleve.NewTermQuery(value)
		tq.SetField(field)
		queries = append(queries, tq)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// stringList reads a stored field that may hold one value or many.
func stringList(v any) []string {
	switch x := v.(type) {
	case string:
		return []string{x}
	case []any:
		out := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func extractFacets(res *bleve.SearchResult) Facets {
	var facets Facets

	if f, ok := res.Facets["books"]; ok && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			facets.Books = append(facets.Books, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	if f, ok := res.Facets["topics"]; ok && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			facets.Topics = append(facets.Topics, FacetCount{Value: term.Term, Count: term.Count})
		}
	}

	return facets
}
