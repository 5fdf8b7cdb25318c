package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/id"
	"github.com/Mastsam10/platform-sub000/internal/sse"
	"github.com/Mastsam10/platform-sub000/internal/store"
	"github.com/Mastsam10/platform-sub000/internal/validation"
	"github.com/Mastsam10/platform-sub000/internal/webhook"
)

// untitledVideo names videos created from provider events that carry no name.
const untitledVideo = "Untitled video"

// CreateVideoInput holds the fields of a new video.
type CreateVideoInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description,omitempty" validate:"max=5000"`
	Provider        string  `json:"provider,omitempty" validate:"omitempty,provider"`
	ProviderAssetID string  `json:"provider_asset_id,omitempty" validate:"max=255"`
	PlaybackID      string  `json:"playback_id,omitempty" validate:"max=255"`
	DurationSeconds float64 `json:"duration_seconds,omitempty" validate:"gte=0"`
}

// UpdateVideoInput holds a partial update. Nil fields are left unchanged.
type UpdateVideoInput struct {
	Title           *string  `json:"title,omitempty" validate:"omitempty,max=200"`
	Description     *string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	PlaybackID      *string  `json:"playback_id,omitempty" validate:"omitempty,max=255"`
	Status          *string  `json:"status,omitempty" validate:"omitempty,video_status"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
}

// ListVideosInput filters and pages a listing.
type ListVideosInput struct {
	Limit  int    `json:"limit" validate:"gte=0"`
	Cursor string `json:"cursor,omitempty"`
	Status string `json:"status,omitempty" validate:"omitempty,video_status"`
}

// VideoService manages the video catalogue.
type VideoService struct {
	store     store.Store
	validator *validation.Validator
	events    EventEmitter
	indexer   Indexer
	logger    *slog.Logger
}

// NewVideoService creates a new video service.
func NewVideoService(
	store store.Store,
	validator *validation.Validator,
	events EventEmitter,
	indexer Indexer,
	logger *slog.Logger,
) *VideoService {
	return &VideoService{
		store:     store,
		validator: validator,
		events:    events,
		indexer:   indexer,
		logger:    logger,
	}
}

// Create adds a video in the pending state.
func (s *VideoService) Create(ctx context.Context, in CreateVideoInput) (*domain.Video, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	provider := domain.Provider(in.Provider)
	if provider == "" {
		provider = domain.ProviderUpload
	}
	if in.ProviderAssetID != "" && provider == domain.ProviderUpload {
		return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"provider": "is required when provider_asset_id is set",
		})
	}

	videoID, err := id.Generate(id.PrefixVideo)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate video id")
	}

	v := &domain.Video{
		Base:            domain.Base{ID: videoID},
		Title:           in.Title,
		Description:     in.Description,
		Provider:        provider,
		ProviderAssetID: in.ProviderAssetID,
		PlaybackID:      in.PlaybackID,
		Status:          domain.VideoStatusPending,
		DurationSeconds: in.DurationSeconds,
	}
	v.InitTimestamps()

	if err := s.store.CreateVideo(ctx, v); err != nil {
		return nil, err
	}

	s.logger.Info("video created", "video_id", v.ID, "provider", v.Provider)
	s.events.Emit(sse.NewVideoCreatedEvent(v))
	s.reindex(ctx, v.ID)
	return v, nil
}

// Get returns a single video.
func (s *VideoService) Get(ctx context.Context, videoID string) (*domain.Video, error) {
	return s.store.GetVideo(ctx, videoID)
}

// List returns a page of videos, newest first.
func (s *VideoService) List(ctx context.Context, in ListVideosInput) (*store.PaginatedResult[*domain.Video], error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}
	return s.store.ListVideos(ctx, store.ListVideosParams{
		PaginationParams: store.PaginationParams{Limit: in.Limit, Cursor: in.Cursor},
		Status:           domain.VideoStatus(in.Status),
	})
}

// Update applies a partial update. A status change must follow the video
// lifecycle.
func (s *VideoService) Update(ctx context.Context, videoID string, in UpdateVideoInput) (*domain.Video, error) {
	if err := s.validator.Validate(in); err != nil {
		return nil, err
	}

	v, err := s.store.GetVideo(ctx, videoID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, domainerrors.ValidationWithDetails("validation failed", map[string]string{
				"title": "must not be empty",
			})
		}
		v.Title = title
	}
	if in.Description != nil {
		v.Description = strings.TrimSpace(*in.Description)
	}
	if in.PlaybackID != nil {
		v.PlaybackID = *in.PlaybackID
	}
	if in.DurationSeconds != nil {
		v.DurationSeconds = *in.DurationSeconds
	}
	if in.Status != nil {
		if err := v.SetStatus(domain.VideoStatus(*in.Status)); err != nil {
			return nil, domainerrors.Conflict(err.Error())
		}
	}
	v.Touch()

	if err := s.store.UpdateVideo(ctx, v); err != nil {
		return nil, err
	}

	s.events.Emit(sse.NewVideoUpdatedEvent(v))
	s.reindex(ctx, v.ID)
	return v, nil
}

// Delete removes a video along with its transcript and chapters.
func (s *VideoService) Delete(ctx context.Context, videoID string) error {
	if err := s.store.DeleteVideo(ctx, videoID); err != nil {
		return err
	}

	s.logger.Info("video deleted", "video_id", videoID)
	s.events.Emit(sse.NewVideoDeletedEvent(videoID))
	if err := s.indexer.DeleteVideo(ctx, videoID); err != nil {
		s.logger.Warn("failed to remove video from index", "video_id", videoID, "error", err)
	}
	return nil
}

// ApplyAssetEvent folds a provider notification into the catalogue. The
// video is found by provider asset, then by the passthrough video ID, and
// is created when neither matches. Status changes that the lifecycle does
// not allow, such as a late "processing" after "ready", are ignored.
//
// It returns nil without error when a deletion names an unknown asset.
func (s *VideoService) ApplyAssetEvent(ctx context.Context, ev *webhook.AssetEvent) (*domain.Video, error) {
	if ev.AssetID == "" {
		return nil, domainerrors.Validation("asset event has no asset id")
	}

	v, created, err := s.resolveAsset(ctx, ev)
	if err != nil || v == nil {
		return nil, err
	}

	if ev.PlaybackID != "" {
		v.PlaybackID = ev.PlaybackID
	}
	if ev.DurationSeconds > 0 {
		v.DurationSeconds = ev.DurationSeconds
	}

	switch {
	case ev.Deleted:
		// The media is gone, so the lifecycle does not apply.
		v.Status = domain.VideoStatusErrored
		v.PlaybackID = ""
	case ev.Status != "":
		if err := v.SetStatus(ev.Status); err != nil {
			s.logger.Debug("ignoring status change",
				"video_id", v.ID,
				"from", v.Status,
				"to", ev.Status,
				"delivery_id", ev.DeliveryID,
			)
		}
	}
	v.Touch()

	if created {
		err = s.store.CreateVideo(ctx, v)
		if errors.Is(err, store.ErrAlreadyExists) {
			// A concurrent delivery created it first.
			return s.ApplyAssetEvent(ctx, ev)
		}
	} else {
		err = s.store.UpdateVideo(ctx, v)
	}
	if err != nil {
		return nil, fmt.Errorf("apply asset event: %w", err)
	}

	s.logger.Info("asset event applied",
		"video_id", v.ID,
		"provider", ev.Provider,
		"asset_id", ev.AssetID,
		"status", v.Status,
		"created", created,
	)
	if created {
		s.events.Emit(sse.NewVideoCreatedEvent(v))
	} else {
		s.events.Emit(sse.NewVideoUpdatedEvent(v))
	}
	s.reindex(ctx, v.ID)
	return v, nil
}

// resolveAsset finds the video an event belongs to. created reports that the
// returned video is new and not yet stored.
func (s *VideoService) resolveAsset(ctx context.Context, ev *webhook.AssetEvent) (*domain.Video, bool, error) {
	v, err := s.store.GetVideoByProviderAsset(ctx, ev.Provider, ev.AssetID)
	if err == nil {
		return v, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, err
	}

	if ev.Deleted {
		s.logger.Debug("deletion for unknown asset", "provider", ev.Provider, "asset_id", ev.AssetID)
		return nil, false, nil
	}

	if id.Valid(id.PrefixVideo, ev.Passthrough) {
		v, err := s.store.GetVideo(ctx, ev.Passthrough)
		switch {
		case err == nil && v.ProviderAssetID == "":
			v.Provider = ev.Provider
			v.ProviderAssetID = ev.AssetID
			return v, false, nil
		case err == nil:
			s.logger.Warn("passthrough video already linked to another asset",
				"video_id", v.ID,
				"asset_id", ev.AssetID,
				"linked_asset_id", v.ProviderAssetID,
			)
		case !errors.Is(err, store.ErrNotFound):
			return nil, false, err
		}
	}

	videoID, err := id.Generate(id.PrefixVideo)
	if err != nil {
		return nil, false, domainerrors.Wrap(err, domainerrors.CodeInternal, "generate video id")
	}
	title := strings.TrimSpace(ev.Name)
	if title == "" {
		title = untitledVideo
	}
	v = &domain.Video{
		Base:            domain.Base{ID: videoID},
		Title:           title,
		Provider:        ev.Provider,
		ProviderAssetID: ev.AssetID,
		Status:          domain.VideoStatusPending,
	}
	v.InitTimestamps()
	return v, true, nil
}

// reindex refreshes the search document. The index is derived data, so a
// failure is logged and the write still succeeds.
func (s *VideoService) reindex(ctx context.Context, videoID string) {
	if err := s.indexer.IndexVideo(ctx, videoID); err != nil {
		s.logger.Warn("failed to index video", "video_id", videoID, "error", err)
	}
}
