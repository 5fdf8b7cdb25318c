// Package service implements the platform's business logic on top of the
// store, the search index and the chapter generator.
package service

import (
	"context"

	"github.com/Mastsam10/platform-sub000/internal/sse"
)

// EventEmitter publishes change notifications to live subscribers.
// *sse.Manager satisfies it.
type EventEmitter interface {
	Emit(event sse.Event)
}

// Indexer keeps the search index in step with the store.
// *SearchService satisfies it.
type Indexer interface {
	IndexVideo(ctx context.Context, videoID string) error
	DeleteVideo(ctx context.Context, videoID string) error
}

// NoopEmitter discards events.
type NoopEmitter struct{}

// Emit implements EventEmitter.
func (NoopEmitter) Emit(sse.Event) {}

// NoopIndexer ignores index updates.
type NoopIndexer struct{}

// IndexVideo implements Indexer.
func (NoopIndexer) IndexVideo(context.Context, string) error { return nil }

// DeleteVideo implements Indexer.
func (NoopIndexer) DeleteVideo(context.Context, string) error { return nil }
