package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Mastsam10/platform-sub000/internal/domain"
	domainerrors "github.com/Mastsam10/platform-sub000/internal/errors"
	"github.com/Mastsam10/platform-sub000/internal/transcript"
	"github.com/Mastsam10/platform-sub000/internal/webhook"
)

// WebhookConfig holds provider secrets. An empty secret disables that
// provider's endpoint.
type WebhookConfig struct {
	CloudflareSecret string
	MuxSecret        string
	DeepgramToken    string
	Tolerance        time.Duration
}

// WebhookResult is the acknowledgement returned to a provider.
type WebhookResult struct {
	// Duplicate is set when the delivery was seen before and skipped.
	Duplicate bool `json:"duplicate"`
	// Ignored is set for event types the platform does not act on.
	Ignored bool   `json:"ignored"`
	VideoID string `json:"video_id,omitempty"`
}

// WebhookService verifies provider callbacks and applies them once.
type WebhookService struct {
	cloudflare    *webhook.Verifier
	mux           *webhook.Verifier
	deepgramToken string
	deduper       *webhook.Deduper
	videos        *VideoService
	transcripts   *TranscriptService
	logger        *slog.Logger
}

// NewWebhookService creates a new webhook service. A nil deduper disables
// delivery de-duplication.
func NewWebhookService(
	cfg WebhookConfig,
	deduper *webhook.Deduper,
	videos *VideoService,
	transcripts *TranscriptService,
	logger *slog.Logger,
) *WebhookService {
	return &WebhookService{
		cloudflare:    webhook.NewVerifier(cfg.CloudflareSecret, cfg.Tolerance),
		mux:           webhook.NewVerifier(cfg.MuxSecret, cfg.Tolerance),
		deepgramToken: cfg.DeepgramToken,
		deduper:       deduper,
		videos:        videos,
		transcripts:   transcripts,
		logger:        logger,
	}
}

// Providers reports which webhook endpoints have a secret configured.
func (s *WebhookService) Providers() map[string]bool {
	return map[string]bool{
		"cloudflare": s.cloudflare.Configured(),
		"mux":        s.mux.Configured(),
		"deepgram":   s.deepgramToken != "",
	}
}

// HandleCloudflare processes a Cloudflare Stream notification.
func (s *WebhookService) HandleCloudflare(ctx context.Context, signature string, body []byte) (*WebhookResult, error) {
	if err := s.cloudflare.VerifyCloudflare(signature, body); err != nil {
		return nil, s.verifyError("cloudflare", err)
	}
	return s.handleAsset(ctx, webhook.ParseCloudflare, body)
}

// HandleMux processes a Mux notification.
func (s *WebhookService) HandleMux(ctx context.Context, signature string, body []byte) (*WebhookResult, error) {
	if err := s.mux.VerifyMux(signature, body); err != nil {
		return nil, s.verifyError("mux", err)
	}
	return s.handleAsset(ctx, webhook.ParseMux, body)
}

// HandleDeepgram ingests a Deepgram callback as the video's transcript.
func (s *WebhookService) HandleDeepgram(ctx context.Context, videoID, token string, body []byte) (*WebhookResult, error) {
	if err := webhook.VerifyToken(s.deepgramToken, token); err != nil {
		return nil, s.verifyError("deepgram", err)
	}

	deliveryID := webhook.DeliveryID("deepgram:"+videoID, body)
	first, err := s.firstDelivery(deliveryID)
	if err != nil {
		return nil, err
	}
	if !first {
		s.logger.Debug("duplicate webhook delivery", "provider", "deepgram", "delivery_id", deliveryID)
		return &WebhookResult{Duplicate: true, VideoID: videoID}, nil
	}

	_, err = s.transcripts.Ingest(ctx, videoID, IngestInput{
		Format: string(transcript.FormatDeepgram),
		Source: domain.TranscriptSourceDeepgram,
		Data:   body,
	})
	if err != nil {
		s.forget(deliveryID)
		return nil, err
	}
	return &WebhookResult{VideoID: videoID}, nil
}

func (s *WebhookService) handleAsset(
	ctx context.Context,
	parse func([]byte) (*webhook.AssetEvent, error),
	body []byte,
) (*WebhookResult, error) {
	ev, err := parse(body)
	if errors.Is(err, webhook.ErrIgnored) {
		return &WebhookResult{Ignored: true}, nil
	}
	if err != nil {
		return nil, domainerrors.Validation(err.Error())
	}

	first, err := s.firstDelivery(ev.DeliveryID)
	if err != nil {
		return nil, err
	}
	if !first {
		s.logger.Debug("duplicate webhook delivery", "provider", ev.Provider, "delivery_id", ev.DeliveryID)
		return &WebhookResult{Duplicate: true}, nil
	}

	v, err := s.videos.ApplyAssetEvent(ctx, ev)
	if err != nil {
		// Let the provider's retry through.
		s.forget(ev.DeliveryID)
		return nil, err
	}
	if v == nil {
		return &WebhookResult{Ignored: true}, nil
	}
	return &WebhookResult{VideoID: v.ID}, nil
}

func (s *WebhookService) firstDelivery(deliveryID string) (bool, error) {
	if s.deduper == nil || deliveryID == "" {
		return true, nil
	}
	first, err := s.deduper.FirstDelivery(deliveryID)
	if err != nil {
		return false, domainerrors.Wrap(err, domainerrors.CodeInternal, "record webhook delivery")
	}
	return first, nil
}

func (s *WebhookService) forget(deliveryID string) {
	if s.deduper == nil || deliveryID == "" {
		return
	}
	if err := s.deduper.Forget(deliveryID); err != nil {
		s.logger.Warn("failed to forget webhook delivery", "delivery_id", deliveryID, "error", err)
	}
}

func (s *WebhookService) verifyError(provider string, err error) error {
	s.logger.Warn("webhook rejected", "provider", provider, "error", err)
	if errors.Is(err, webhook.ErrNotConfigured) {
		return domainerrors.Unauthorized(provider + " webhooks are not configured")
	}
	return domainerrors.InvalidSignature(err.Error())
}
