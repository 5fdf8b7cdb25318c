package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/config"
	"github.com/Mastsam10/platform-sub000/internal/logger"
	"github.com/Mastsam10/platform-sub000/internal/processor"
	"github.com/Mastsam10/platform-sub000/internal/service"
	"github.com/Mastsam10/platform-sub000/internal/watcher"
	"github.com/Mastsam10/platform-sub000/internal/webhook"
)

// DeduperHandle wraps the webhook deduper and its GC loop.
type DeduperHandle struct {
	*webhook.Deduper
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *DeduperHandle) Shutdown() error {
	h.cancel()
	return h.Close()
}

// ProvideDeduper opens the badger-backed delivery log and starts its value-log GC.
func ProvideDeduper(i do.Injector) (*DeduperHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	d, err := webhook.NewDeduper(webhook.DeduperOptions{
		Path:   cfg.Data.DedupePath(),
		TTL:    cfg.Webhook.DedupeTTL,
		Logger: log.Logger,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(dedupeGCInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				d.RunGC()
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Webhook deduper ready", "path", cfg.Data.DedupePath(), "ttl", cfg.Webhook.DedupeTTL)

	return &DeduperHandle{Deduper: d, cancel: cancel}, nil
}

// InboxWatcherHandle wraps the transcript inbox watcher. Watcher is nil when
// no inbox is configured.
type InboxWatcherHandle struct {
	Watcher   *watcher.Watcher
	Processor *processor.InboxProcessor
	cancel    context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *InboxWatcherHandle) Shutdown() error {
	if h.Watcher == nil {
		return nil
	}
	h.cancel()
	return h.Watcher.Stop()
}

// ProvideInboxWatcher watches INBOX_PATH and ingests transcripts dropped there.
func ProvideInboxWatcher(i do.Injector) (*InboxWatcherHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Inbox.Path == "" {
		log.Info("Transcript inbox disabled")
		return &InboxWatcherHandle{}, nil
	}

	transcriptService := do.MustInvoke[*service.TranscriptService](i)

	proc, err := processor.NewInboxProcessor(cfg.Inbox.Path, transcriptService, log.Logger)
	if err != nil {
		return nil, err
	}

	w, err := watcher.New(log.Logger, watcher.Options{SettleDelay: cfg.Inbox.SettleDelay})
	if err != nil {
		return nil, err
	}
	if err := w.Watch(proc.Root()); err != nil {
		_ = w.Stop()
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		if err := w.Start(ctx); err != nil {
			log.Error("Inbox watcher error", "error", err)
		}
	}()

	go func() {
		if err := proc.Sweep(ctx); err != nil {
			log.Warn("Inbox sweep failed", "error", err)
		}
		proc.Run(ctx, w)
	}()

	log.Info("Transcript inbox watching", "path", proc.Root(), "settle_delay", cfg.Inbox.SettleDelay)

	return &InboxWatcherHandle{Watcher: w, Processor: proc, cancel: cancel}, nil
}
