package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/service"
)

func (s *Server) registerChapterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "previewChapters",
		Method:       http.MethodPost,
		Path:         "/api/v1/chapters/preview",
		Summary:      "Preview chapters",
		Description:  "Runs the chapter generator over a transcript without storing anything",
		Tags:         []string{"Chapters"},
		MaxBodyBytes: service.MaxTranscriptBytes,
	}, s.handlePreviewChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "listVideoChapters",
		Method:      http.MethodGet,
		Path:        "/api/v1/videos/{id}/chapters",
		Summary:     "List video chapters",
		Description: "Returns a video's stored chapters in start order",
		Tags:        []string{"Chapters"},
	}, s.handleListVideoChapters)

	huma.Register(s.api, huma.Operation{
		OperationID: "regenerateVideoChapters",
		Method:      http.MethodPost,
		Path:        "/api/v1/videos/{id}/chapters/regenerate",
		Summary:     "Regenerate chapters",
		Description: "Re-runs the generator over the stored transcript and replaces the chapter set",
		Tags:        []string{"Chapters"},
	}, s.handleRegenerateChapters)
}

// PreviewChaptersInput is a transcript to run the generator over.
type PreviewChaptersInput struct {
	Body struct {
		Transcript        string  `json:"transcript" doc:"Plain transcript text"`
		BaseOffsetSeconds float64 `json:"base_offset_seconds,omitempty" doc:"Seconds added to every chapter start"`
	}
}

// PreviewChaptersResponse lists generated chapters.
type PreviewChaptersResponse struct {
	Chapters []chapters.Chapter `json:"chapters" doc:"Chapters in start order"`
}

// PreviewChaptersOutput wraps the preview for Huma.
type PreviewChaptersOutput struct {
	Body PreviewChaptersResponse
}

// VideoIDInput identifies a video by path.
type VideoIDInput struct {
	ID string `path:"id" doc:"Video ID"`
}

// ChapterListResponse lists a video's stored chapters.
type ChapterListResponse struct {
	VideoID  string                `json:"video_id" doc:"Video ID"`
	Chapters []domain.VideoChapter `json:"chapters" doc:"Chapters in start order"`
}

// ChapterListOutput wraps the chapter list for Huma.
type ChapterListOutput struct {
	Body ChapterListResponse
}

func (s *Server) handlePreviewChapters(_ context.Context, input *PreviewChaptersInput) (*PreviewChaptersOutput, error) {
	chs, err := s.services.Chapter.Preview(input.Body.Transcript, input.Body.BaseOffsetSeconds)
	if err != nil {
		return nil, err
	}
	return &PreviewChaptersOutput{Body: PreviewChaptersResponse{Chapters: chs}}, nil
}

func (s *Server) handleListVideoChapters(ctx context.Context, input *VideoIDInput) (*ChapterListOutput, error) {
	chs, err := s.services.Chapter.List(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return chapterList(input.ID, chs), nil
}

func (s *Server) handleRegenerateChapters(ctx context.Context, input *VideoIDInput) (*ChapterListOutput, error) {
	chs, err := s.services.Chapter.Regenerate(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return chapterList(input.ID, chs), nil
}

func chapterList(videoID string, chs []domain.VideoChapter) *ChapterListOutput {
	if chs == nil {
		chs = []domain.VideoChapter{}
	}
	return &ChapterListOutput{Body: ChapterListResponse{VideoID: videoID, Chapters: chs}}
}
