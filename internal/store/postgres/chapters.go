package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// ReplaceChapters swaps the chapter set of a video in one transaction.
func (s *Store) ReplaceChapters(ctx context.Context, videoID string, chs []domain.VideoChapter) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var one int
	err = tx.QueryRow(ctx, `SELECT 1 FROM videos WHERE id = $1 FOR UPDATE`, videoID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return store.NotFound("video")
	}
	if err != nil {
		return fmt.Errorf("failed to lock video: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM chapters WHERE video_id = $1`, videoID); err != nil {
		return fmt.Errorf("failed to delete chapters: %w", err)
	}

	if len(chs) > 0 {
		rows := make([][]any, len(chs))
		for i, c := range chs {
			rows[i] = []any{videoID, i, string(c.Type), c.Value, c.StartSeconds, c.EndSeconds}
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"chapters"},
			[]string{"video_id", "idx", "type", "value", "start_seconds", "end_seconds"},
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("failed to insert chapters: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListChapters returns a video's chapters in index order.
func (s *Store) ListChapters(ctx context.Context, videoID string) ([]domain.VideoChapter, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT video_id, idx, type, value, start_seconds, end_seconds
		FROM chapters WHERE video_id = $1 ORDER BY idx`, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer rows.Close()

	out := []domain.VideoChapter{}
	for rows.Next() {
		var c domain.VideoChapter
		if err := rows.Scan(&c.VideoID, &c.Index, &c.Type, &c.Value, &c.StartSeconds, &c.EndSeconds); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
