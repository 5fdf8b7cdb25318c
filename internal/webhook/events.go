package webhook

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/Mastsam10/platform-sub000/internal/domain"
)

// ErrIgnored marks a well-formed event the platform does not act on.
var ErrIgnored = errors.New("webhook: event ignored")

// AssetEvent is a provider-neutral asset notification.
type AssetEvent struct {
	Provider   domain.Provider
	DeliveryID string
	AssetID    string
	PlaybackID string
	// Status is empty when the event carries no lifecycle change.
	Status          domain.VideoStatus
	DurationSeconds float64
	Name            string
	Passthrough     string
	Deleted         bool
}

// DeliveryID derives a stable id from a raw body for providers that send
// none.
func DeliveryID(prefix string, body []byte) string {
	sum := blake3.Sum256(body)
	return prefix + "_" + hex.EncodeToString(sum[:16])
}

type cloudflarePayload struct {
	UID           string  `json:"uid"`
	ReadyToStream bool    `json:"readyToStream"`
	Duration      float64 `json:"duration"`
	Status        struct {
		State string `json:"state"`
	} `json:"status"`
	Meta map[string]any `json:"meta"`
}

// ParseCloudflare decodes a Cloudflare Stream video notification. The video
// uid doubles as the playback id.
func ParseCloudflare(body []byte) (*AssetEvent, error) {
	var p cloudflarePayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode cloudflare payload: %w", err)
	}
	if p.UID == "" {
		return nil, errors.New("cloudflare payload: missing uid")
	}

	ev := &AssetEvent{
		Provider:        domain.ProviderCloudflare,
		DeliveryID:      DeliveryID("cf", body),
		AssetID:         p.UID,
		PlaybackID:      p.UID,
		Status:          cloudflareStatus(p.Status.State, p.ReadyToStream),
		DurationSeconds: max(p.Duration, 0),
	}
	if name, ok := p.Meta["name"].(string); ok {
		ev.Name = name
	}
	if pt, ok := p.Meta["passthrough"].(string); ok {
		ev.Passthrough = pt
	}
	return ev, nil
}

func cloudflareStatus(state string, ready bool) domain.VideoStatus {
	if ready {
		return domain.VideoStatusReady
	}
	switch state {
	case "ready":
		return domain.VideoStatusReady
	case "error":
		return domain.VideoStatusErrored
	case "pendingupload", "downloading", "queued":
		return domain.VideoStatusPending
	case "inprogress":
		return domain.VideoStatusProcessing
	}
	return ""
}

type muxPayload struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Data struct {
		ID          string  `json:"id"`
		Status      string  `json:"status"`
		Duration    float64 `json:"duration"`
		Passthrough string  `json:"passthrough"`
		PlaybackIDs []struct {
			ID     string `json:"id"`
			Policy string `json:"policy"`
		} `json:"playback_ids"`
	} `json:"data"`
}

// ParseMux decodes a Mux video.asset.* event. Other event types return
// ErrIgnored.
func ParseMux(body []byte) (*AssetEvent, error) {
	var p muxPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode mux payload: %w", err)
	}
	if !strings.HasPrefix(p.Type, "video.asset.") {
		return nil, fmt.Errorf("%w: %s", ErrIgnored, p.Type)
	}
	if p.Data.ID == "" {
		return nil, errors.New("mux payload: missing asset id")
	}

	ev := &AssetEvent{
		Provider:        domain.ProviderMux,
		DeliveryID:      p.ID,
		AssetID:         p.Data.ID,
		DurationSeconds: max(p.Data.Duration, 0),
		Passthrough:     p.Data.Passthrough,
	}
	if ev.DeliveryID == "" {
		ev.DeliveryID = DeliveryID("mux", body)
	}
	for _, pb := range p.Data.PlaybackIDs {
		if pb.Policy == "public" {
			ev.PlaybackID = pb.ID
			break
		}
	}
	if ev.PlaybackID == "" && len(p.Data.PlaybackIDs) > 0 {
		ev.PlaybackID = p.Data.PlaybackIDs[0].ID
	}

	switch strings.TrimPrefix(p.Type, "video.asset.") {
	case "created":
		ev.Status = domain.VideoStatusProcessing
	case "ready":
		ev.Status = domain.VideoStatusReady
	case "errored":
		ev.Status = domain.VideoStatusErrored
	case "deleted":
		ev.Deleted = true
	default:
		switch p.Data.Status {
		case "ready":
			ev.Status = domain.VideoStatusReady
		case "errored":
			ev.Status = domain.VideoStatusErrored
		case "preparing":
			ev.Status = domain.VideoStatusProcessing
		}
	}
	return ev, nil
}
