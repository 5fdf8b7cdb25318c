package sqlite

import (
	"context"
	"fmt"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// ReplaceChapters swaps the chapter set of a video in one transaction.
func (s *Store) ReplaceChapters(ctx context.Context, videoID string, chs []domain.VideoChapter) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM videos WHERE id = ?`, videoID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return store.NotFound("video")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM chapters WHERE video_id = ?`, videoID); err != nil {
		return fmt.Errorf("delete chapters: %w", err)
	}

	if len(chs) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO chapters (video_id, idx, type, value, start_seconds, end_seconds)
			VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, c := range chs {
			if _, err := stmt.ExecContext(ctx,
				videoID, i, string(c.Type), c.Value, c.StartSeconds, c.EndSeconds,
			); err != nil {
				return fmt.Errorf("insert chapter %d: %w", i, err)
			}
		}
	}

	return tx.Commit()
}

// ListChapters returns a video's chapters in index order.
func (s *Store) ListChapters(ctx context.Context, videoID string) ([]domain.VideoChapter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT video_id, idx, type, value, start_seconds, end_seconds
		FROM chapters WHERE video_id = ? ORDER BY idx`, videoID)
	if err != nil {
		return nil, err
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
