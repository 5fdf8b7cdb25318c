package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/service"
)

func (s *Server) registerVideoRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createVideo",
		Method:        http.MethodPost,
		Path:          "/api/v1/videos",
		Summary:       "Create video",
		Description:   "Registers a video. Provider defaults to upload",
		Tags:          []string{"Videos"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateVideo)

	huma.Register(s.api, huma.Operation{
		OperationID: "listVideos",
		Method:      http.MethodGet,
		Path:        "/api/v1/videos",
		Summary:     "List videos",
		Description: "Returns videos newest first with cursor pagination",
		Tags:        []string{"Videos"},
	}, s.handleListVideos)

	huma.Register(s.api, huma.Operation{
		OperationID: "getVideo",
		Method:      http.MethodGet,
		Path:        "/api/v1/videos/{id}",
		Summary:     "Get video",
		Description: "Returns a video by ID",
		Tags:        []string{"Videos"},
	}, s.handleGetVideo)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateVideo",
		Method:      http.MethodPatch,
		Path:        "/api/v1/videos/{id}",
		Summary:     "Update video",
		Description: "Applies a partial update. Status changes must follow the media lifecycle",
		Tags:        []string{"Videos"},
	}, s.handleUpdateVideo)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteVideo",
		Method:        http.MethodDelete,
		Path:          "/api/v1/videos/{id}",
		Summary:       "Delete video",
		Description:   "Deletes a video with its transcript and chapters",
		Tags:          []string{"Videos"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteVideo)
}

// === DTOs ===

// CreateVideoRequest is the request body for creating a video.
type CreateVideoRequest struct {
	Body service.CreateVideoInput
}

// UpdateVideoRequest is the request body for updating a video.
type UpdateVideoRequest struct {
	ID   string `path:"id" doc:"Video ID"`
	Body service.UpdateVideoInput
}

// ListVideosRequest contains pagination and filter parameters.
type ListVideosRequest struct {
	Limit  int    `query:"limit" minimum:"0" maximum:"200" doc:"Page size (default 50)"`
	Cursor string `query:"cursor" doc:"Cursor from the previous page"`
	Status string `query:"status" enum:"pending,processing,ready,errored" doc:"Only videos in this status"`
}

// VideoOutput wraps a single video for Huma.
type VideoOutput struct {
	Body *domain.Video
}

// VideoListResponse is a page of videos.
type VideoListResponse struct {
	Videos     []*domain.Video `json:"videos" doc:"Videos, newest first"`
	NextCursor string          `json:"next_cursor,omitempty" doc:"Cursor for the next page"`
	HasMore    bool            `json:"has_more" doc:"Whether more pages exist"`
}

// VideoListOutput wraps a page of videos for Huma.
type VideoListOutput struct {
	Body VideoListResponse
}

// === Handlers ===

func (s *Server) handleCreateVideo(ctx context.Context, input *CreateVideoRequest) (*VideoOutput, error) {
	v, err := s.services.Video.Create(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &VideoOutput{Body: v}, nil
}

func (s *Server) handleListVideos(ctx context.Context, input *ListVideosRequest) (*VideoListOutput, error) {
	page, err := s.services.Video.List(ctx, service.ListVideosInput{
		Limit:  input.Limit,
		Cursor: input.Cursor,
		Status: input.Status,
	})
	if err != nil {
		return nil, err
	}

	videos := page.Items
	if videos == nil {
		videos = []*domain.Video{}
	}
	return &VideoListOutput{Body: VideoListResponse{
		Videos:     videos,
		NextCursor: page.NextCursor,
		HasMore:    page.HasMore,
	}}, nil
}

func (s *Server) handleGetVideo(ctx context.Context, input *VideoIDInput) (*VideoOutput, error) {
	v, err := s.services.Video.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &VideoOutput{Body: v}, nil
}

func (s *Server) handleUpdateVideo(ctx context.Context, input *UpdateVideoRequest) (*VideoOutput, error) {
	v, err := s.services.Video.Update(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &VideoOutput{Body: v}, nil
}

func (s *Server) handleDeleteVideo(ctx context.Context, input *VideoIDInput) (*struct{}, error) {
	if err := s.services.Video.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}
