package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	"github.com/Mastsam10/platform-sub000/internal/search"
	"github.com/Mastsam10/platform-sub000/internal/store"
)

// SearchService bridges the search index with the data store, handling
// document creation, updates, and query execution.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

var _ Indexer = (*SearchService)(nil)

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchHit is an index hit joined with the stored video.
type SearchHit struct {
	search.Hit
	Video *domain.Video `json:"video"`
}

// SearchResult is a page of hydrated hits.
type SearchResult struct {
	Query  string        `json:"query"`
	Total  uint64        `json:"total"`
	TookMs int64         `json:"took_ms"`
	Hits   []SearchHit   `json:"hits"`
	Facets search.Facets `json:"facets"`
}

// Search runs a query and loads each hit's video. Hits whose video has
// been deleted since indexing are dropped.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*SearchResult, error) {
	res, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	out := &SearchResult{
		Query:  res.Query,
		Total:  res.Total,
		TookMs: res.TookMs,
		Hits:   make([]SearchHit, 0, len(res.Hits)),
		Facets: res.Facets,
	}
	for _, hit := range res.Hits {
		v, err := s.store.GetVideo(ctx, hit.ID)
		if errors.Is(err, store.ErrNotFound) {
			s.logger.Debug("dropping stale search hit", "video_id", hit.ID)
			if out.Total > 0 {
				out.Total--
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load video %s: %w", hit.ID, err)
		}
		out.Hits = append(out.Hits, SearchHit{Hit: hit, Video: v})
	}
	return out, nil
}

// IndexVideo rebuilds one video's document from the store. A video that
// no longer exists is removed from the index.
func (s *SearchService) IndexVideo(ctx context.Context, videoID string) error {
	doc, err := s.buildDocument(ctx, videoID)
	if errors.Is(err, store.ErrNotFound) {
		return s.index.DeleteVideo(videoID)
	}
	if err != nil {
		return fmt.Errorf("build document: %w", err)
	}

	if err := s.index.IndexVideo(doc); err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	s.logger.Debug("indexed video", "id", videoID, "title", doc.Title)
	return nil
}

// DeleteVideo removes a video from the index.
func (s *SearchService) DeleteVideo(_ context.Context, videoID string) error {
	return s.index.DeleteVideo(videoID)
}

// DocumentCount returns the number of indexed videos.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll clears the index and rebuilds it from every stored video.
func (s *SearchService) ReindexAll(ctx context.Context) (int, error) {
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("rebuild index: %w", err)
	}

	var (
		count  int
		cursor string
	)
	for {
		page, err := s.store.ListVideos(ctx, store.ListVideosParams{
			PaginationParams: store.PaginationParams{Limit: store.MaxPageSize, Cursor: cursor},
		})
		if err != nil {
			return count, fmt.Errorf("list videos: %w", err)
		}

		docs := make([]*search.VideoDocument, 0, len(page.Items))
		for _, v := range page.Items {
			doc, err := s.documentFor(ctx, v)
			if err != nil {
				return count, fmt.Errorf("build document %s: %w", v.ID, err)
			}
			docs = append(docs, doc)
		}
		if err := s.index.IndexVideos(docs); err != nil {
			return count, fmt.Errorf("index batch: %w", err)
		}
		count += len(docs)

		if !page.HasMore {
			break
		}
		cursor = page.NextCursor
	}

	s.logger.Info("search index rebuilt", "videos", count)
	return count, nil
}

func (s *SearchService) buildDocument(ctx context.Context, videoID string) (*search.VideoDocument, error) {
	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}
	return s.documentFor(ctx, v)
}

func (s *SearchService) documentFor(ctx context.Context, v *domain.Video) (*search.VideoDocument, error) {
	t, err := s.store.GetTranscript(ctx, v.ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	chs, err := s.store.ListChapters(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	return search.NewVideoDocument(v, t, chs), nil
}
