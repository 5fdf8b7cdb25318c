package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/Mastsam10/platform-sub000/internal/service"
)

// maxWebhookBytes bounds provider callback bodies. Deepgram results carry
// the full transcript.
const maxWebhookBytes = service.MaxTranscriptBytes

func (s *Server) registerWebhookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "cloudflareWebhook",
		Method:       http.MethodPost,
		Path:         "/api/v1/webhooks/cloudflare",
		Summary:      "Cloudflare Stream webhook",
		Description:  "Receives signed Cloudflare Stream asset notifications",
		Tags:         []string{"Webhooks"},
		MaxBodyBytes: maxWebhookBytes,
	}, s.handleCloudflareWebhook)

	huma.Register(s.api, huma.Operation{
		OperationID:  "muxWebhook",
		Method:       http.MethodPost,
		Path:         "/api/v1/webhooks/mux",
		Summary:      "Mux webhook",
		Description:  "Receives signed Mux asset notifications",
		Tags:         []string{"Webhooks"},
		MaxBodyBytes: maxWebhookBytes,
	}, s.handleMuxWebhook)

	huma.Register(s.api, huma.Operation{
		OperationID:  "deepgramWebhook",
		Method:       http.MethodPost,
		Path:         "/api/v1/webhooks/deepgram/{videoID}",
		Summary:      "Deepgram callback",
		Description:  "Receives a Deepgram transcription result for a video",
		Tags:         []string{"Webhooks"},
		MaxBodyBytes: maxWebhookBytes,
	}, s.handleDeepgramWebhook)
}

// CloudflareWebhookInput is a raw signed Cloudflare delivery.
type CloudflareWebhookInput struct {
	Signature string `header:"Webhook-Signature" doc:"time=<unix>,sig1=<hex>"`
	RawBody   []byte
}

// MuxWebhookInput is a raw signed Mux delivery.
type MuxWebhookInput struct {
	Signature string `header:"Mux-Signature" doc:"t=<unix>,v1=<hex>"`
	RawBody   []byte
}

// DeepgramWebhookInput is a raw Deepgram callback for one video.
type DeepgramWebhookInput struct {
	VideoID string `path:"videoID" doc:"Video the transcript belongs to"`
	Token   string `header:"dg-token" doc:"Shared callback token"`
	RawBody []byte
}

// WebhookOutput wraps the acknowledgement for Huma.
type WebhookOutput struct {
	Body *service.WebhookResult
}

func (s *Server) handleCloudflareWebhook(ctx context.Context, input *CloudflareWebhookInput) (*WebhookOutput, error) {
	res, err := s.services.Webhook.HandleCloudflare(ctx, input.Signature, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &WebhookOutput{Body: res}, nil
}

func (s *Server) handleMuxWebhook(ctx context.Context, input *MuxWebhookInput) (*WebhookOutput, error) {
	res, err := s.services.Webhook.HandleMux(ctx, input.Signature, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &WebhookOutput{Body: res}, nil
}

func (s *Server) handleDeepgramWebhook(ctx context.Context, input *DeepgramWebhookInput) (*WebhookOutput, error) {
	res, err := s.services.Webhook.HandleDeepgram(ctx, input.VideoID, input.Token, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &WebhookOutput{Body: res}, nil
}
