// Package store defines the persistence interface for videos, transcripts
// and chapters. Implementations live in the sqlite and postgres
// subpackages.
package store

import (
	"context"

	"github.com/Mastsam10/platform-sub000/internal/domain"
)

// Store defines every persistence operation the services need.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Videos
	CreateVideo(ctx context.Context, v *domain.Video) error
	GetVideo(ctx context.Context, id string) (*domain.Video, error)
	GetVideoByProviderAsset(ctx context.Context, provider domain.Provider, assetID string) (*domain.Video, error)
	ListVideos(ctx context.Context, params ListVideosParams) (*PaginatedResult[*domain.Video], error)
	UpdateVideo(ctx context.Context, v *domain.Video) error
	// DeleteVideo removes the video with its transcript and chapters.
	DeleteVideo(ctx context.Context, id string) error

	// Transcripts
	SaveTranscript(ctx context.Context, t *domain.Transcript) error
	GetTranscript(ctx context.Context, videoID string) (*domain.Transcript, error)

	// Chapters
	// ReplaceChapters atomically swaps a video's chapter set.
	ReplaceChapters(ctx context.Context, videoID string, chs []domain.VideoChapter) error
	ListChapters(ctx context.Context, videoID string) ([]domain.VideoChapter, error)
}

// ListVideosParams filters and pages a video listing. Results are newest
// first.
type ListVideosParams struct {
	PaginationParams
	Status domain.VideoStatus
}
