package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/service"
)

func (s *Server) registerTranscriptRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "putTranscript",
		Method:       http.MethodPut,
		Path:         "/api/v1/videos/{id}/transcript",
		Summary:      "Ingest transcript",
		Description:  "Stores a transcript for the video and regenerates its chapters. Re-sending identical content is a no-op",
		Tags:         []string{"Transcripts"},
		MaxBodyBytes: service.MaxTranscriptBytes + 64<<10,
	}, s.handlePutTranscript)

	huma.Register(s.api, huma.Operation{
		OperationID: "getTranscript",
		Method:      http.MethodGet,
		Path:        "/api/v1/videos/{id}/transcript",
		Summary:     "Get transcript",
		Description: "Returns the video's stored transcript",
		Tags:        []string{"Transcripts"},
	}, s.handleGetTranscript)
}

// PutTranscriptRequest carries transcript content inline.
type PutTranscriptRequest struct {
	ID   string `path:"id" doc:"Video ID"`
	Body struct {
		Format   string `json:"format,omitempty" doc:"srt, vtt, txt, json3 or deepgram. Detected when empty"`
		Content  string `json:"content" doc:"Raw transcript content"`
		Language string `json:"language,omitempty" doc:"Language code or name, e.g. en or English"`
		Filename string `json:"filename,omitempty" doc:"Original filename, used as a format hint"`
	}
}

// IngestOutput wraps an ingest result for Huma.
type IngestOutput struct {
	Body *service.IngestResult
}

// TranscriptOutput wraps a stored transcript for Huma.
type TranscriptOutput struct {
	Body *domain.Transcript
}

func (s *Server) handlePutTranscript(ctx context.Context, input *PutTranscriptRequest) (*IngestOutput, error) {
	res, err := s.services.Transcript.Ingest(ctx, input.ID, service.IngestInput{
		Format:   input.Body.Format,
		Filename: input.Body.Filename,
		Language: input.Body.Language,
		Source:   domain.TranscriptSourceUpload,
		Data:     []byte(input.Body.Content),
	})
	if err != nil {
		return nil, err
	}
	return &IngestOutput{Body: res}, nil
}

func (s *Server) handleGetTranscript(ctx context.Context, input *VideoIDInput) (*TranscriptOutput, error) {
	t, err := s.services.Transcript.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &TranscriptOutput{Body: t}, nil
}
