package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the canonical book table in canonical order with recognised aliases",
		Tags:        []string{"Catalog"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTopics",
		Method:      http.MethodGet,
		Path:        "/api/v1/topics",
		Summary:     "List topics",
		Description: "Returns the controlled topic vocabulary and its keywords",
		Tags:        []string{"Catalog"},
	}, s.handleListTopics)
}

// ListBooksInput filters the book table.
type ListBooksInput struct {
	Testament string `query:"testament" enum:"OT,NT,ot,nt" doc:"Only books of this testament"`
}

// BookListResponse is the book table.
type BookListResponse struct {
	Books []chapters.Book `json:"books" doc:"Books in canonical order"`
	Total int             `json:"total" doc:"Number of books returned"`
}

// BookListOutput wraps the book table for Huma.
type BookListOutput struct {
	Body BookListResponse
}

// TopicListResponse is the topic vocabulary.
type TopicListResponse struct {
	Topics []chapters.Topic `json:"topics" doc:"Topics in detection order"`
}

// TopicListOutput wraps the topic vocabulary for Huma.
type TopicListOutput struct {
	Body TopicListResponse
}

func (s *Server) handleListBooks(_ context.Context, input *ListBooksInput) (*BookListOutput, error) {
	books := chapters.Books()
	if t := chapters.Testament(strings.ToUpper(input.Testament)); t != "" {
		filtered := books[:0]
		for _, b := range books {
			if b.Testament == t {
				filtered = append(filtered, b)
			}
		}
		books = filtered
	}
	return &BookListOutput{Body: BookListResponse{Books: books, Total: len(books)}}, nil
}

func (s *Server) handleListTopics(_ context.Context, _ *struct{}) (*TopicListOutput, error) {
	return &TopicListOutput{Body: TopicListResponse{Topics: chapters.Topics()}}, nil
}
