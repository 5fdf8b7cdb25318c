package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/zeebo/blake3"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/normalize"
	"github.com/Mastsam10/platform-sub000/internal/sse"
	"github.com/Mastsam10/platform-sub000/internal/store"
	"github.com/Mastsam10/platform-sub000/internal/transcript"
	"github.com/Mastsam10/platform-sub000/internal/validation"
)

// MaxTranscriptBytes caps the size of an ingested transcript.
const MaxTranscriptBytes = 8 << 20

// IngestInput is a raw transcript for one video.
type IngestInput struct {
	// Format is a transcript format name; empty detects it.
	Format string `json:"format,omitempty"`
	// Filename is an optional hint for format detection.
	Filename string                  `json:"filename,omitempty" validate:"max=255"`
	Language string                  `json:"language,omitempty" validate:"max=35"`
	Source   domain.TranscriptSource `json:"source,omitempty"`
	Data     []byte                  `json:"-"`
}

// IngestResult reports what an ingest stored.
type IngestResult struct {
	Transcript *domain.Transcript    `json:"transcript"`
	Chapters   []domain.VideoChapter `json:"chapters"`
	// Unchanged is set when the content matched the stored transcript and
	// nothing was rewritten.
	Unchanged bool `json:"unchanged"`
}

// TranscriptService ingests transcripts and keeps chapters in step.
type TranscriptService struct {
	store     store.Store
	validator *validation.Validator
	chapters  *ChapterService
	events    EventEmitter
	logger    *slog.Logger
}

// NewTranscriptService creates a new transcript service.
func NewTranscriptService(
	store store.Store,
	validator *validation.Validator,
	chapters *ChapterService,
	events EventEmitter,
	logger *slog.Logger,
) *TranscriptService {
	return &TranscriptService{
		store:     store,
		validator: validator,
		chapters:  chapters,
		events:    events,
		logger:    logger,
	}
}

// Ingest parses, stores and chapters a transcript. Re-sending identical
// content is a no-op once chapters exist.
func (s *TranscriptService) Ingest(ctx context.Context, videoID string, in IngestInput) (*IngestResult, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	if len(in.Data) > MaxTranscriptBytes {
		return nil, domainerrors.Validationf("transcript exceeds %d bytes", MaxTranscriptBytes)
	}

	source := in.Source
	switch source {
	case "":
		source = domain.TranscriptSourceUpload
	case domain.TranscriptSourceUpload, domain.TranscriptSourceDeepgram, domain.TranscriptSourceInbox:
	default:
		return nil, domainerrors.Validationf("unknown transcript source %q", source)
	}

	language := normalize.LanguageCode(in.Language)
	if in.Language != "" && language == "" {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"language": "is not a recognized language",
		})
	}

	video, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	format, err := transcript.ParseFormat(in.Format)
	if err != nil {
		return nil, parseError(err)
	}
	parsed, err := transcript.Parse(format, in.Filename, in.Data)
	if err != nil {
		return nil, parseError(err)
	}

	t := &domain.Transcript{
		VideoID:  videoID,
		Source:   source,
		Format:   string(parsed.Format),
		Language: language,
		Text:     parsed.Text,
	}
	if parsed.Timed {
		t.Segments = make([]domain.TranscriptSegment, len(parsed.Segments))
		for i, seg := range parsed.Segments {
			t.Segments[i] = domain.TranscriptSegment{Start: seg.Start, End: seg.End, Text: seg.Text}
		}
	}
	t.ContentHash = ContentHash(t)

	existing, err := s.store.GetTranscript(ctx, videoID)
	switch {
	case err == nil:
		if existing.ContentHash == t.ContentHash && existing.Language == t.Language {
			chs, err := s.store.ListChapters(ctx, videoID)
			if err != nil {
				return nil, err
			}
			if len(chs) > 0 {
				s.logger.Debug("transcript unchanged", "video_id", videoID, "hash", t.ContentHash)
				return &IngestResult{Transcript: existing, Chapters: chs, Unchanged: true}, nil
			}
		}
		t.CreatedAt = existing.CreatedAt
	case errors.Is(err, store.ErrNotFound):
		t.CreatedAt = time.Now()
	default:
		return nil, err
	}
	t.UpdatedAt = time.Now()

	if err := s.store.SaveTranscript(ctx, t); err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}
	s.logger.Info("transcript ingested",
		"video_id", videoID,
		"source", t.Source,
		"format", t.Format,
		"segments", len(t.Segments),
	)
	s.events.Emit(sse.NewTranscriptIngestedEvent(t))

	if parsed.DurationSeconds > 0 && video.DurationSeconds == 0 {
		video.DurationSeconds = parsed.DurationSeconds
		video.Touch()
		if err := s.store.UpdateVideo(ctx, video); err != nil {
			s.logger.Warn("failed to record duration", "video_id", videoID, "error", err)
		} else {
			s.events.Emit(sse.NewVideoUpdatedEvent(video))
		}
	}

	chs, err := s.chapters.apply(ctx, t)
	if err != nil {
		return nil, err
	}
	return &IngestResult{Transcript: t, Chapters: chs}, nil
}

// Get returns a video's transcript.
func (s *TranscriptService) Get(ctx context.Context, videoID string) (*domain.Transcript, error) {
	if _, err := s.store.GetVideo(ctx, videoID); err != nil {
		return nil, err
	}
	t, err := s.store.GetTranscript(ctx, videoID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domainerrors.NotFoundf("video %s has no transcript", videoID)
	}
	return t, err
}

// ContentHash fingerprints a transcript's text and segment timings.
func ContentHash(t *domain.Transcript) string {
	h := blake3.New()
	_, _ = io.WriteString(h, t.Text)
	for _, seg := range t.Segments {
		_, _ = io.WriteString(h, "\x00")
		_, _ = io.WriteString(h, strconv.FormatFloat(seg.Start, 'f', 3, 64))
		_, _ = io.WriteString(h, "\x00")
		_, _ = io.WriteString(h, strconv.FormatFloat(seg.End, 'f', 3, 64))
		_, _ = io.WriteString(h, "\x00")
		_, _ = io.WriteString(h, seg.Text)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func parseError(err error) error {
	switch {
	case errors.Is(err, transcript.ErrEmptyTranscript):
		return domainerrors.Unprocessablef("transcript has no spoken text")
	case errors.Is(err, transcript.ErrUnsupportedFormat):
		return domainerrors.Unsupported(err.Error())
	case errors.Is(err, transcript.ErrMalformed):
		return domainerrors.Validation(err.Error())
	default:
		return domainerrors.Wrap(err, domainerrors.CodeUnprocessable, "parse transcript")
	}
}
