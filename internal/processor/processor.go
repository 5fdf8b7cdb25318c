package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/watcher"
)

// Subdirectories of the inbox that receive handled files.
const (
	ProcessedDir = "processed"
	FailedDir    = "failed"
)

// Ingester stores a transcript for a video.
type Ingester interface {
	Ingest(ctx context.Context, videoID string, in service.IngestInput) (*service.IngestResult, error)
}

// InboxProcessor ingests transcript files dropped into an inbox directory.
//
//   - A file named "<videoID>.<ext>" is ingested for that video.
//   - Successful files move to processed/, failures to failed/ with a
//     sibling ".err" file holding the reason.
//   - Events for a video already being ingested are skipped; the file stays
//     put and is picked up by the next sweep.
type InboxProcessor struct {
	root     string
	ingester Ingester
	logger   *slog.Logger

	locks *videoLocks
	now   func() time.Time
}

// NewInboxProcessor creates the processor and its processed/ and failed/ directories.
func NewInboxProcessor(root string, ingester Ingester, logger *slog.Logger) (*InboxProcessor, error) {
	root = filepath.Clean(root)
	for _, dir := range []string{ProcessedDir, FailedDir} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create inbox %s dir: %w", dir, err)
		}
	}

	return &InboxProcessor{
		root:     root,
		ingester: ingester,
		logger:   logger,
		locks:    newVideoLocks(),
		now:      time.Now,
	}, nil
}

// Root returns the inbox directory.
func (p *InboxProcessor) Root() string {
	return p.root
}

// ProcessEvent handles one settled watcher event.
func (p *InboxProcessor) ProcessEvent(ctx context.Context, event watcher.Event) error {
	p.logger.Debug("processing event", "op", event.Type, "path", event.Path)

	if event.Type != watcher.EventAdded {
		return nil
	}
	if filepath.Dir(filepath.Clean(event.Path)) != p.root {
		return nil
	}

	fileType, videoID := classifyFile(event.Path)
	if fileType == FileTypeIgnored {
		p.logger.Debug("ignoring file", "path", event.Path)
		return nil
	}

	if !p.locks.tryAcquire(videoID) {
		p.logger.Debug("video already being ingested, skipping", "video_id", videoID, "path", event.Path)
		return nil
	}
	defer p.locks.release(videoID)

	return p.ingestFile(ctx, videoID, event.Path)
}

// Sweep ingests transcript files already waiting in the inbox.
func (p *InboxProcessor) Sweep(ctx context.Context) error {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		return fmt.Errorf("read inbox: %w", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !entry.Type().IsRegular() {
			continue
		}
		event := watcher.Event{Type: watcher.EventAdded, Path: filepath.Join(p.root, entry.Name())}
		if err := p.ProcessEvent(ctx, event); err != nil {
			p.logger.Warn("failed to process inbox file", "path", event.Path, "error", err)
		}
	}
	return nil
}

// Run feeds watcher events to ProcessEvent until ctx is done or the watcher stops.
func (p *InboxProcessor) Run(ctx context.Context, w *watcher.Watcher) {
	for {
		select {
		case event, ok := <-w.Events():
			if !ok {
				return
			}
			if err := p.ProcessEvent(ctx, event); err != nil {
				p.logger.Warn("failed to process event",
					"error", err,
					"op", event.Type,
					"path", event.Path,
				)
			}
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			p.logger.Warn("inbox watcher error", "error", err)
		case <-ctx.Done():
			return
		}
	}
}

func (p *InboxProcessor) ingestFile(ctx context.Context, videoID, path string) error {
	data, err := readLimited(path, service.MaxTranscriptBytes)
	if errors.Is(err, os.ErrNotExist) {
		// Moved or removed since the event fired.
		return nil
	}
	if err != nil {
		return p.fail(path, err)
	}

	result, err := p.ingester.Ingest(ctx, videoID, service.IngestInput{
		Filename: filepath.Base(path),
		Source:   domain.TranscriptSourceInbox,
		Data:     data,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return p.fail(path, err)
	}

	dest, err := p.move(path, ProcessedDir)
	if err != nil {
		return err
	}
	p.logger.Info("inbox transcript ingested",
		"video_id", videoID,
		"file", filepath.Base(path),
		"chapters", len(result.Chapters),
		"unchanged", result.Unchanged,
		"moved_to", dest,
	)
	return nil
}

// fail moves path to failed/, records the cause next to it and returns it.
func (p *InboxProcessor) fail(path string, cause error) error {
	dest, err := p.move(path, FailedDir)
	if err != nil {
		return errors.Join(cause, err)
	}
	if err := os.WriteFile(dest+".err", []byte(cause.Error()+"\n"), 0o644); err != nil {
		p.logger.Warn("failed to write inbox error note", "path", dest, "error", err)
	}
	p.logger.Warn("inbox transcript rejected", "file", filepath.Base(path), "error", cause)
	return fmt.Errorf("ingest %s: %w", filepath.Base(path), cause)
}

// move renames path into dir, adding a timestamp when the name is taken.
func (p *InboxProcessor) move(path, dir string) (string, error) {
	base := filepath.Base(path)
	dest := filepath.Join(p.root, dir, base)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(base)
		stamp := p.now().UTC().Format("20060102T150405")
		dest = filepath.Join(p.root, dir, base[:len(base)-len(ext)]+"."+stamp+ext)
	}
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to %s: %w", dir, err)
	}
	return dest, nil
}

// readLimited reads at most limit bytes and fails when the file is larger.
func readLimited(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("file exceeds %d bytes", limit)
	}
	return data, nil
}
