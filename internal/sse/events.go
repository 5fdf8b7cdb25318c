// Package sse implements Server-Sent Events for real-time video, transcript
// and chapter updates.
package sse

import (
	"time"

	"github.com/Mastsam10/platform-sub000/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	EventVideoCreated EventType = "video.created"
	EventVideoUpdated EventType = "video.updated"
	EventVideoDeleted EventType = "video.deleted"

	// EventTranscriptIngested fires after a transcript is stored.
	EventTranscriptIngested EventType = "transcript.ingested"
	// EventChaptersGenerated fires after a video's chapter set is replaced.
	EventChaptersGenerated EventType = "chapters.generated"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	// ID is assigned by the Manager when the event is broadcast.
	ID        uint64    `json:"-"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
	// VideoID scopes the event. Clients subscribed to one video only receive
	// events with a matching VideoID. Not serialized.
	VideoID string `json:"-"`
}

// VideoEventData is the payload of video.* events.
type VideoEventData struct {
	Video *domain.Video `json:"video"`
}

// VideoDeletedEventData is the payload of video.deleted.
type VideoDeletedEventData struct {
	VideoID string `json:"video_id"`
}

// TranscriptIngestedEventData is the payload of transcript.ingested.
type TranscriptIngestedEventData struct {
	VideoID     string `json:"video_id"`
	Source      string `json:"source"`
	Format      string `json:"format"`
	ContentHash string `json:"content_hash"`
	Segments    int    `json:"segments"`
}

// ChaptersGeneratedEventData is the payload of chapters.generated.
type ChaptersGeneratedEventData struct {
	VideoID  string                `json:"video_id"`
	Chapters []domain.VideoChapter `json:"chapters"`
}

// HeartbeatEventData is the payload of heartbeat.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewVideoCreatedEvent creates a video.created event.
func NewVideoCreatedEvent(v *domain.Video) Event {
	return Event{
		Type:      EventVideoCreated,
		Data:      VideoEventData{Video: v},
		VideoID:   v.ID,
		Timestamp: time.Now(),
	}
}

// NewVideoUpdatedEvent creates a video.updated event.
func NewVideoUpdatedEvent(v *domain.Video) Event {
	return Event{
		Type:      EventVideoUpdated,
		Data:      VideoEventData{Video: v},
		VideoID:   v.ID,
		Timestamp: time.Now(),
	}
}

// NewVideoDeletedEvent creates a video.deleted event.
func NewVideoDeletedEvent(videoID string) Event {
	return Event{
		Type:      EventVideoDeleted,
		Data:      VideoDeletedEventData{VideoID: videoID},
		VideoID:   videoID,
		Timestamp: time.Now(),
	}
}

// NewTranscriptIngestedEvent creates a transcript.ingested event.
func NewTranscriptIngestedEvent(t *domain.Transcript) Event {
	return Event{
		Type: EventTranscriptIngested,
		Data: TranscriptIngestedEventData{
			VideoID:     t.VideoID,
			Source:      string(t.Source),
			Format:      t.Format,
			ContentHash: t.ContentHash,
			Segments:    len(t.Segments),
		},
		VideoID:   t.VideoID,
		Timestamp: time.Now(),
	}
}

// NewChaptersGeneratedEvent creates a chapters.generated event.
func NewChaptersGeneratedEvent(videoID string, chs []domain.VideoChapter) Event {
	if chs == nil {
		chs = []domain.VideoChapter{}
	}
	return Event{
		Type:      EventChaptersGenerated,
		Data:      ChaptersGeneratedEventData{VideoID: videoID, Chapters: chs},
		VideoID:   videoID,
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
