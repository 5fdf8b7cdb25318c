package search

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// mappingVersion is bumped whenever buildIndexMapping changes. An index
// on disk with a different version is dropped and rebuilt on open.
const mappingVersion = "1"

const (
	indexDirName    = "videos.bleve"
	versionFileName = "videos.version"
	batchSize       = 500
)

// Options configures the search index.
type Options struct {
	// DataPath holds the index. Empty keeps the index in memory.
	DataPath string
	Logger   *slog.Logger
}

// SearchIndex is a Bleve index of video documents. It is safe for
// concurrent use; Rebuild excludes every other call while it swaps indexes.
type SearchIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	dir    string
	logger *slog.Logger
}

// NewSearchIndex opens the index under opts.DataPath, creating it if absent.
// A corrupt index or one built with another mapping version is recreated
// empty and callers reindex from the store.
func NewSearchIndex(opts Options) (*SearchIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	if opts.DataPath == "" {
		index, err := bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create in-memory index: %w", err)
		}
		return &SearchIndex{index: index, logger: logger}, nil
	}

	s := &SearchIndex{dir: filepath.Join(opts.DataPath, indexDirName), logger: logger}
	versionPath := filepath.Join(opts.DataPath, versionFileName)

	if reason := s.staleReason(versionPath); reason != "" {
		logger.Info("recreating search index", "reason", reason, "mapping_version", mappingVersion)
		if err := os.RemoveAll(s.dir); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
	} else if index, err := bleve.Open(s.dir); err == nil {
		s.index = index
		logger.Info("opened search index", "path", s.dir)
		return s, nil
	} else if !errors.Is(err, bleve.ErrorIndexPathDoesNotExist) {
		logger.Warn("search index unreadable, recreating", "path", s.dir, "error", err)
		if err := os.RemoveAll(s.dir); err != nil {
			return nil, fmt.Errorf("remove corrupt index: %w", err)
		}
	}

	if err := os.MkdirAll(opts.DataPath, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	index, err := bleve.New(s.dir, buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}
	if err := os.WriteFile(versionPath, []byte(mappingVersion), 0o644); err != nil {
		logger.Warn("failed to write search version file", "error", err)
	}
	s.index = index
	logger.Info("created search index", "path", s.dir)
	return s, nil
}

// staleReason explains why an existing index must be dropped. It is empty
// when there is no index yet or the index matches mappingVersion.
func (s *SearchIndex) staleReason(versionPath string) string {
	if _, err := os.Stat(s.dir); err != nil {
		return ""
	}
	v, err := os.ReadFile(versionPath)
	switch {
	case err != nil:
		return "missing version file"
	case string(v) != mappingVersion:
		return "mapping version " + string(v) + " is outdated"
	}
	return ""
}

// Close releases the index.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexVideo adds or replaces one document.
func (s *SearchIndex) IndexVideo(doc *VideoDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Index(doc.ID, doc.ToMap())
}

// IndexVideos adds or replaces documents in batches.
func (s *SearchIndex) IndexVideos(docs []*VideoDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for chunk := range slices.Chunk(docs, batchSize) {
		b := s.index.NewBatch()
		for _, doc := range chunk {
			if err := b.Index(doc.ID, doc.ToMap()); err != nil {
				return fmt.Errorf("batch index %s: %w", doc.ID, err)
			}
		}
		if err := s.index.Batch(b); err != nil {
			return fmt.Errorf("commit batch of %d: %w", len(chunk), err)
		}
	}
	return nil
}

// DeleteVideo removes a document. Missing ids are a no-op.
func (s *SearchIndex) DeleteVideo(id string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(id)
}

// DocumentCount returns the number of indexed videos.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// Rebuild replaces the index with an empty one using the current mapping.
func (s *SearchIndex) Rebuild() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Close(); err != nil {
		return fmt.Errorf("close index: %w", err)
	}

	var (
		index bleve.Index
		err   error
	)
	if s.dir == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
	} else {
		if err := os.RemoveAll(s.dir); err != nil {
			return fmt.Errorf("remove index: %w", err)
		}
		index, err = bleve.New(s.dir, buildIndexMapping())
	}
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	s.index = index
	s.logger.Info("rebuilt search index", "path", s.dir)
	return nil
}
