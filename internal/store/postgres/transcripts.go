package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// SaveTranscript upserts a video's transcript, keeping the first created_at.
func (s *Store) SaveTranscript(ctx context.Context, t *domain.Transcript) error {
	segments := t.Segments
	if segments == nil {
		segments = []domain.TranscriptSegment{}
	}
	segJSON, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("failed to marshal segments: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO transcripts (
			video_id, source, format, language, text, segments, content_hash, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (video_id) DO UPDATE SET
			source = EXCLUDED.source,
			format = EXCLUDED.format,
			language = EXCLUDED.language,
			text = EXCLUDED.text,
			segments = EXCLUDED.segments,
			content_hash = EXCLUDED.content_hash,
			updated_at = EXCLUDED.updated_at`,
		t.VideoID,
		string(t.Source),
		t.Format,
		t.Language,
		t.Text,
		segJSON,
		t.ContentHash,
		t.CreatedAt.UTC(),
		t.UpdatedAt.UTC(),
	)
	if isForeignKeyViolation(err) {
		return store.NotFound("video")
	}
	if err != nil {
		return fmt.Errorf("failed to save transcript: %w", err)
	}
	return nil
}

// GetTranscript returns the transcript of a video.
func (s *Store) GetTranscript(ctx context.Context, videoID string) (*domain.Transcript, error) {
	var (
		t       domain.Transcript
		segJSON []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT video_id, source, format, language, text, segments, content_hash, created_at, updated_at
		FROM transcripts WHERE video_id = $1`, videoID,
	).Scan(
		&t.VideoID,
		&t.Source,
		&t.Format,
		&t.Language,
		&t.Text,
		&segJSON,
		&t.ContentHash,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.NotFound("transcript")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}

	if err := json.Unmarshal(segJSON, &t.Segments); err != nil {
		return nil, fmt.Errorf("failed to unmarshal segments: %w", err)
	}
	if len(t.Segments) == 0 {
		t.Segments = nil
	}
	return &t, nil
}
