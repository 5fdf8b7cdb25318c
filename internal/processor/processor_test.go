package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/watcher"
)

type ingestCall struct {
	videoID string
	in      service.IngestInput
}

type fakeIngester struct {
	mu    sync.Mutex
	calls []ingestCall
	err   error
	block chan struct{}
}

func (f *fakeIngester) Ingest(_ context.Context, videoID string, in service.IngestInput) (*service.IngestResult, error) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, ingestCall{videoID: videoID, in: in})
	if f.err != nil {
		return nil, f.err
	}
	return &service.IngestResult{Chapters: []domain.VideoChapter{{VideoID: videoID}}}, nil
}

func (f *fakeIngester) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestProcessor(t *testing.T, ing Ingester) *InboxProcessor {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p, err := NewInboxProcessor(t.TempDir(), ing, logger)
	require.NoError(t, err)
	return p
}

func writeInbox(t *testing.T, p *InboxProcessor, name, content string) string {
	t.Helper()
	path := filepath.Join(p.Root(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func added(path string) watcher.Event {
	return watcher.Event{Type: watcher.EventAdded, Path: path}
}

func TestNewInboxProcessor_CreatesDirs(t *testing.T) {
	p := newTestProcessor(t, &fakeIngester{})

	for _, dir := range []string{ProcessedDir, FailedDir} {
		info, err := os.Stat(filepath.Join(p.Root(), dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestProcessEvent_IngestsAndMovesToProcessed(t *testing.T) {
	ing := &fakeIngester{}
	p := newTestProcessor(t, ing)
	path := writeInbox(t, p, "vid_abc.srt", "1\n00:00:01,000 --> 00:00:04,000\nTurn to John 3:16\n")

	require.NoError(t, p.ProcessEvent(context.Background(), added(path)))

	require.Len(t, ing.calls, 1)
	assert.Equal(t, "vid_abc", ing.calls[0].videoID)
	assert.Equal(t, domain.TranscriptSourceInbox, ing.calls[0].in.Source)
	assert.Equal(t, "vid_abc.srt", ing.calls[0].in.Filename)
	assert.Contains(t, string(ing.calls[0].in.Data), "John 3:16")

	assert.NoFileExists(t, path)
	assert.FileExists(t, filepath.Join(p.Root(), ProcessedDir, "vid_abc.srt"))
}

func TestProcessEvent_FailureMovesToFailedWithReason(t *testing.T) {
	ing := &fakeIngester{err: domainerrors.NotFound("video not found")}
	p := newTestProcessor(t, ing)
	path := writeInbox(t, p, "vid_missing.txt", "hello")

	err := p.ProcessEvent(context.Background(), added(path))
	require.Error(t, err)
	assert.True(t, domainerrors.Is(err, domainerrors.ErrNotFound))

	failed := filepath.Join(p.Root(), FailedDir, "vid_missing.txt")
	assert.FileExists(t, failed)
	reason, err := os.ReadFile(failed + ".err")
	require.NoError(t, err)
	assert.Contains(t, string(reason), "video not found")
}

func TestProcessEvent_NameCollisionGetsTimestamp(t *testing.T) {
	p := newTestProcessor(t, &fakeIngester{})
	p.now = func() time.Time { return time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC) }

	first := writeInbox(t, p, "vid_abc.vtt", "WEBVTT\n")
	require.NoError(t, p.ProcessEvent(context.Background(), added(first)))
	second := writeInbox(t, p, "vid_abc.vtt", "WEBVTT\n\n")
	require.NoError(t, p.ProcessEvent(context.Background(), added(second)))

	assert.FileExists(t, filepath.Join(p.Root(), ProcessedDir, "vid_abc.vtt"))
	assert.FileExists(t, filepath.Join(p.Root(), ProcessedDir, "vid_abc.20261018T093000.vtt"))
}

func TestProcessEvent_Ignored(t *testing.T) {
	ing := &fakeIngester{}
	p := newTestProcessor(t, ing)
	ctx := context.Background()

	video := writeInbox(t, p, "vid_abc.mp4", "binary")
	require.NoError(t, p.ProcessEvent(ctx, added(video)))
	assert.FileExists(t, video, "non-transcripts stay in place")

	require.NoError(t, p.ProcessEvent(ctx, watcher.Event{Type: watcher.EventRemoved, Path: video}))

	nested := filepath.Join(p.Root(), ProcessedDir, "vid_abc.srt")
	require.NoError(t, os.WriteFile(nested, []byte("x"), 0o644))
	require.NoError(t, p.ProcessEvent(ctx, added(nested)))

	require.NoError(t, p.ProcessEvent(ctx, added(filepath.Join(p.Root(), "vid_gone.srt"))))

	assert.Zero(t, ing.callCount())
}

func TestProcessEvent_TooLarge(t *testing.T) {
	ing := &fakeIngester{}
	p := newTestProcessor(t, ing)
	path := filepath.Join(p.Root(), "vid_big.txt")
	require.NoError(t, os.WriteFile(path, make([]byte, service.MaxTranscriptBytes+1), 0o644))

	err := p.ProcessEvent(context.Background(), added(path))
	assert.ErrorContains(t, err, "exceeds")
	assert.Zero(t, ing.callCount())
	assert.FileExists(t, filepath.Join(p.Root(), FailedDir, "vid_big.txt"))
}

func TestProcessEvent_SkipsBusyVideo(t *testing.T) {
	ing := &fakeIngester{block: make(chan struct{})}
	p := newTestProcessor(t, ing)
	path := writeInbox(t, p, "vid_abc.txt", "first")

	require.True(t, p.locks.tryAcquire("vid_abc"))
	require.NoError(t, p.ProcessEvent(context.Background(), added(path)))
	p.locks.release("vid_abc")

	close(ing.block)
	assert.Zero(t, ing.callCount())
	assert.FileExists(t, path, "skipped file waits for the next sweep")
}

func TestSweep_ProcessesExistingFiles(t *testing.T) {
	ing := &fakeIngester{}
	p := newTestProcessor(t, ing)
	writeInbox(t, p, "vid_one.srt", "1\n00:00:01,000 --> 00:00:02,000\nhi\n")
	writeInbox(t, p, "vid_two.txt", "hello")
	writeInbox(t, p, "notes.md", "ignored")

	require.NoError(t, p.Sweep(context.Background()))

	assert.Equal(t, 2, ing.callCount())
	assert.FileExists(t, filepath.Join(p.Root(), "notes.md"))
	assert.FileExists(t, filepath.Join(p.Root(), ProcessedDir, "vid_one.srt"))
	assert.FileExists(t, filepath.Join(p.Root(), ProcessedDir, "vid_two.txt"))
}

func TestRun_WatcherToIngest(t *testing.T) {
	ing := &fakeIngester{}
	p := newTestProcessor(t, ing)

	w, err := watcher.New(slog.New(slog.NewTextHandler(io.Discard, nil)), watcher.Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)
	require.NoError(t, w.Watch(p.Root()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx) //nolint:errcheck // Test goroutine
	done := make(chan struct{})
	go func() {
		p.Run(ctx, w)
		close(done)
	}()

	writeInbox(t, p, "vid_live.txt", "Psalm 23:1 the Lord is my shepherd")

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(p.Root(), ProcessedDir, "vid_live.txt"))
		return err == nil
	}, 3*time.Second, 20*time.Millisecond)
	assert.Equal(t, 1, ing.callCount())

	require.NoError(t, w.Stop())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the watcher stopped")
	}
}

func TestIngestFile_ContextCancelledLeavesFile(t *testing.T) {
	ing := &fakeIngester{err: errors.New("context canceled")}
	p := newTestProcessor(t, ing)
	path := writeInbox(t, p, "vid_abc.txt", "hello")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.ProcessEvent(ctx, added(path))
	assert.ErrorIs(t, err, context.Canceled)
	assert.FileExists(t, path)
}
