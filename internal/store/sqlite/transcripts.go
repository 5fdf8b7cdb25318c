package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// SaveTranscript inserts or replaces the transcript of a video. The original
// created_at survives a replace.
func (s *Store) SaveTranscript(ctx context.Context, t *domain.Transcript) error {
	segments := t.Segments
	if segments == nil {
		segments = []domain.TranscriptSegment{}
	}
	segJSON, err := json.Marshal(segments)
	if err != nil {
		return fmt.Errorf("marshal segments: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transcripts (
			video_id, source, format, language, text, segments, content_hash, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_id) DO UPDATE SET
			source = excluded.source,
			format = excluded.format,
			language = excluded.language,
			text = excluded.text,
			segments = excluded.segments,
			content_hash = excluded.content_hash,
			updated_at = excluded.updated_at`,
		t.VideoID,
		string(t.Source),
		t.Format,
		t.Language,
		t.Text,
		string(segJSON),
		t.ContentHash,
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if isForeignKeyViolation(err) {
		return store.NotFound("video")
	}
	return err
}

// GetTranscript returns the transcript of a video.
func (s *Store) GetTranscript(ctx context.Context, videoID string) (*domain.Transcript, error) {
	var (
		t         domain.Transcript
		segJSON   string
		createdAt string
		updatedAt string
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT video_id, source, format, language, text, segments, content_hash, created_at, updated_at
		FROM transcripts WHERE video_id = ?`, videoID,
	).Scan(
		&t.VideoID,
		&t.Source,
		&t.Format,
		&t.Language,
		&t.Text,
		&segJSON,
		&t.ContentHash,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.NotFound("transcript")
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(segJSON), &t.Segments); err != nil {
		return nil, fmt.Errorf("unmarshal segments: %w", err)
	}
	if len(t.Segments) == 0 {
		t.Segments = nil
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
