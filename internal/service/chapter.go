package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/domain"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/sse"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// ChapterService generates and stores scripture and topic chapters.
type ChapterService struct {
	store     store.Store
	generator *chapters.Generator
	events    EventEmitter
	indexer   Indexer
	logger    *slog.Logger
}

// NewChapterService creates a new chapter service.
func NewChapterService(
	store store.Store,
	generator *chapters.Generator,
	events EventEmitter,
	indexer Indexer,
	logger *slog.Logger,
) *ChapterService {
	return &ChapterService{
		store:     store,
		generator: generator,
		events:    events,
		indexer:   indexer,
		logger:    logger,
	}
}

// Preview runs the generator over text without storing anything.
func (s *ChapterService) Preview(text string, baseOffsetSeconds float64) ([]chapters.Chapter, error) {
	if err := chapters.ValidateOffset(baseOffsetSeconds); err != nil {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"base_offset_seconds": err.Error(),
		})
	}
	out := s.generator.Generate(text, baseOffsetSeconds)
	if out == nil {
		out = []chapters.Chapter{}
	}
	return out, nil
}

// List returns a video's stored chapters in start order.
func (s *ChapterService) List(ctx context.Context, videoID string) ([]domain.VideoChapter, error) {
	if _, err := s.store.GetVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.store.ListChapters(ctx, videoID)
}

// Regenerate re-runs the generator over the stored transcript, replacing
// the video's chapters.
func (s *ChapterService) Regenerate(ctx context.Context, videoID string) ([]domain.VideoChapter, error) {
	if _, err := s.store.GetVideo(ctx, videoID); err != nil {
		return nil, err
	}

	t, err := s.store.GetTranscript(ctx, videoID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFoundf("video %s has no transcript", videoID)
		}
		return nil, err
	}

	return s.apply(ctx, t)
}

// apply generates chapters for a stored transcript and swaps them in.
// Timed transcripts place each chapter at its own segment.
func (s *ChapterService) apply(ctx context.Context, t *domain.Transcript) ([]domain.VideoChapter, error) {
	var generated []chapters.Chapter
	if len(t.Segments) > 0 {
		segs := make([]chapters.Segment, len(t.Segments))
		for i, seg := range t.Segments {
			segs[i] = chapters.Segment{Text: seg.Text, StartSeconds: seg.Start}
		}
		generated = s.generator.GenerateFromSegments(segs)
	} else {
		generated = s.generator.Generate(t.Text, 0)
	}

	chs := domain.ChaptersFromGenerated(t.VideoID, generated)
	if err := s.store.ReplaceChapters(ctx, t.VideoID, chs); err != nil {
		return nil, fmt.Errorf("replace chapters: %w", err)
	}

	s.logger.Info("chapters generated", "video_id", t.VideoID, "count", len(chs), "timed", len(t.Segments) > 0)
	s.events.Emit(sse.NewChaptersGeneratedEvent(t.VideoID, chs))
	if err := s.indexer.IndexVideo(ctx, t.VideoID); err != nil {
		s.logger.Warn("failed to index video", "video_id", t.VideoID, "error", err)
	}
	return chs, nil
}
