package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Mastsam10/platform-sub000/internal/search"
	"github.com/Mastsam10/platform-sub000/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchVideos",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search videos",
		Description: "Full-text search over titles and transcripts with book, topic and passage filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexSearch",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Drops the search index and rebuilds it from the store",
		Tags:        []string{"Search"},
	}, s.handleReindex)
}

// SearchRequest contains search parameters.
type SearchRequest struct {
	Query   string `query:"q" doc:"Free text query"`
	Book    string `query:"book" doc:"Book name or alias, e.g. 1 Cor"`
	Topic   string `query:"topic" doc:"Topic name, e.g. grace"`
	Passage string `query:"passage" doc:"Scripture reference, e.g. jn 3:16"`
	Limit   int    `query:"limit" minimum:"0" maximum:"100" doc:"Max results (default 20)"`
	Offset  int    `query:"offset" minimum:"0" doc:"Offset for pagination"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *service.SearchResult
}

// ReindexResponse reports how many videos were indexed.
type ReindexResponse struct {
	Indexed int `json:"indexed" doc:"Videos written to the new index"`
}

// ReindexOutput wraps the reindex result for Huma.
type ReindexOutput struct {
	Body ReindexResponse
}

func (s *Server) handleSearch(ctx context.Context, input *SearchRequest) (*SearchOutput, error) {
	res, err := s.services.Search.Search(ctx, search.Params{
		Query:   input.Query,
		Book:    input.Book,
		Topic:   input.Topic,
		Passage: input.Passage,
		Limit:   input.Limit,
		Offset:  input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: res}, nil
}

func (s *Server) handleReindex(ctx context.Context, _ *struct{}) (*ReindexOutput, error) {
	n, err := s.services.Search.ReindexAll(ctx)
	if err != nil {
		return nil, err
	}
	return &ReindexOutput{Body: ReindexResponse{Indexed: n}}, nil
}
