// Package domain contains the core business entities of the video platform.
package domain

import (
	"fmt"
	"time"
)

// Base provides common fields for stored entities.
type Base struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Base) Touch() {
	b.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
func (b *Base) InitTimestamps() {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Provider identifies where a video's media is hosted.
type Provider string

const (
	ProviderCloudflare Provider = "cloudflare"
	ProviderMux        Provider = "mux"
	ProviderUpload     Provider = "upload"
)

// Valid reports whether p is a known provider.
func (p Provider) Valid() bool {
	switch p {
	case ProviderCloudflare, ProviderMux, ProviderUpload:
		return true
	}
	return false
}

// VideoStatus is the processing state of a video's media.
type VideoStatus string

const (
	VideoStatusPending    VideoStatus = "pending"
	VideoStatusProcessing VideoStatus = "processing"
	VideoStatusReady      VideoStatus = "ready"
	VideoStatusErrored    VideoStatus = "errored"
)

// transitions lists the states reachable from each state. Providers may
// skip processing and report ready or errored straight away.
var transitions = map[VideoStatus][]VideoStatus{
	VideoStatusPending:    {VideoStatusProcessing, VideoStatusReady, VideoStatusErrored},
	VideoStatusProcessing: {VideoStatusReady, VideoStatusErrored},
	VideoStatusErrored:    {VideoStatusProcessing, VideoStatusReady},
	VideoStatusReady:      nil,
}

// Valid reports whether s is a known status.
func (s VideoStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether a video may move from s to next. Staying
// in the same state is always allowed.
func (s VideoStatus) CanTransition(next VideoStatus) bool {
	if s == next {
		return next.Valid()
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Video is a published sermon or talk.
type Video struct {
	Base
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	Provider        Provider    `json:"provider"`
	ProviderAssetID string      `json:"provider_asset_id,omitempty"`
	PlaybackID      string      `json:"playback_id,omitempty"`
	Status          VideoStatus `json:"status"`
	DurationSeconds float64     `json:"duration_seconds,omitempty"`
}

// SetStatus moves the video to next, rejecting transitions the lifecycle
// does not allow.
func (v *Video) SetStatus(next VideoStatus) error {
	if !v.Status.CanTransition(next) {
		return fmt.Errorf("video %s: cannot move from %s to %s", v.ID, v.Status, next)
	}
	if v.Status != next {
		v.Status = next
		v.Touch()
	}
	return nil
}
