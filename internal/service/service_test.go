package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/search"
	"github.com/Mastsam10/platform-sub000/internal/sse"
	"github.com/Mastsam10/platform-sub000/internal/store/sqlite"
	"github.com/Mastsam10/platform-sub000/internal/validation"
	"github.com/Mastsam10/platform-sub000/internal/webhook"
)

// recorder captures emitted events.
type recorder struct {
	mu     sync.Mutex
	events []sse.Event
}

func (r *recorder) Emit(ev sse.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) types() []sse.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]sse.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

type testEnv struct {
	store       *sqlite.Store
	index       *search.SearchIndex
	events      *recorder
	videos      *VideoService
	transcripts *TranscriptService
	chapters    *ChapterService
	search      *SearchService
	webhooks    *WebhookService
}

const (
	testCloudflareSecret = "cf-secret"
	testMuxSecret        = "mux-secret"
	testDeepgramToken    = "dg-token-value"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	dedupe, err := webhook.NewDeduper(webhook.DeduperOptions{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = dedupe.Close() })

	gen, err := chapters.NewGenerator(chapters.Options{})
	require.NoError(t, err)

	events := &recorder{}
	v := validation.New()
	searchSvc := NewSearchService(idx, st, logger)
	chapterSvc := NewChapterService(st, gen, events, searchSvc, logger)
	videoSvc := NewVideoService(st, v, events, searchSvc, logger)
	transcriptSvc := NewTranscriptService(st, v, chapterSvc, events, logger)
	webhookSvc := NewWebhookService(WebhookConfig{
		CloudflareSecret: testCloudflareSecret,
		MuxSecret:        testMuxSecret,
		DeepgramToken:    testDeepgramToken,
	}, dedupe, videoSvc, transcriptSvc, logger)

	return &testEnv{
		store:       st,
		index:       idx,
		events:      events,
		videos:      videoSvc,
		transcripts: transcriptSvc,
		chapters:    chapterSvc,
		search:      searchSvc,
		webhooks:    webhookSvc,
	}
}

func (e *testEnv) createVideo(t *testing.T, title string) string {
	t.Helper()
	v, err := e.videos.Create(context.Background(), CreateVideoInput{Title: title})
	require.NoError(t, err)
	return v.ID
}

const sermonSRT = `1
00:00:10,000 --> 00:00:14,000
Turn with me to John 3:16.

2
00:01:00,000 --> 00:01:05,000
His grace is enough.
`
