package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

func TestReplaceAndListChapters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateVideo(ctx, makeTestVideo("vid-1", "Sermon")); err != nil {
		t.Fatalf("create video: %v", err)
	}

	generated := chapters.GenerateChapters("Open to John 3:16 and trust in faith.", 10)
	chs := domain.ChaptersFromGenerated("vid-1", generated)
	if len(chs) != 2 {
		t.Fatalf("expected 2 generated chapters, got %d", len(chs))
	}

	if err := s.ReplaceChapters(ctx, "vid-1", chs); err != nil {
		t.Fatalf("replace chapters: %v", err)
	}

	got, err := s.ListChapters(ctx, "vid-1")
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 chapters, got %d", len(got))
	}
	if got[0].Type != chapters.KindPassage || got[0].Value != "John 3:16" || got[0].StartSeconds != 10 || got[0].EndSeconds != 40 {
		t.Errorf("unexpected first chapter: %+v", got[0])
	}
	if got[1].Type != chapters.KindTopic || got[1].Value != "Faith" || got[1].Index != 1 {
		t.Errorf("unexpected second chapter: %+v", got[1])
	}

	// A second replace swaps the whole set.
	if err := s.ReplaceChapters(ctx, "vid-1", chs[1:]); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	got, err = s.ListChapters(ctx, "vid-1")
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(got) != 1 || got[0].Index != 0 || got[0].Value != "Faith" {
		t.Errorf("unexpected chapters after replace: %+v", got)
	}

	// Empty clears.
	if err := s.ReplaceChapters(ctx, "vid-1", nil); err != nil {
		t.Fatalf("clear chapters: %v", err)
	}
	got, err = s.ListChapters(ctx, "vid-1")
	if err != nil {
		t.Fatalf("list chapters: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no chapters, got %d", len(got))
	}
}

func TestReplaceChapters_UnknownVideo(t *testing.T) {
	s := newTestStore(t)

	err := s.ReplaceChapters(context.Background(), "ghost", nil)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteVideo_CascadesTranscriptAndChapters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateVideo(ctx, makeTestVideo("vid-1", "Sermon")); err != nil {
		t.Fatalf("create video: %v", err)
	}
	if err := s.SaveTranscript(ctx, &domain.Transcript{
		VideoID: "vid-1", Source: domain.TranscriptSourceUpload, Format: "text", Text: "prayer",
	}); err != nil {
		t.Fatalf("save transcript: %v", err)
	}
	chs := domain.ChaptersFromGenerated("vid-1", chapters.GenerateChapters("prayer", 0))
	if err := s.ReplaceChapters(ctx, "vid-1", chs); err != nil {
		t.Fatalf("replace chapters: %v", err)
	}

	if err := s.DeleteVideo(ctx, "vid-1"); err != nil {
		t.Fatalf("delete video: %v", err)
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chapters`).Scan(&n); err != nil {
		t.Fatalf("count chapters: %v", err)
	}
	if n != 0 {
		t.Errorf("expected chapters to cascade, %d left", n)
	}
	if _, err := s.GetTranscript(ctx, "vid-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected transcript to cascade, got %v", err)
	}
}
