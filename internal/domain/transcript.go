package domain

import (
	"time"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
)

// TranscriptSource records how a transcript reached the platform.
type TranscriptSource string

const (
	TranscriptSourceDeepgram TranscriptSource = "deepgram"
	TranscriptSourceUpload   TranscriptSource = "upload"
	TranscriptSourceInbox    TranscriptSource = "inbox"
)

// TranscriptSegment is a timed piece of transcript text.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the cleaned text of a video. A video has at most one.
type Transcript struct {
	VideoID     string              `json:"video_id"`
	Source      TranscriptSource    `json:"source"`
	Format      string              `json:"format"`
	Language    string              `json:"language,omitempty"`
	Text        string              `json:"text"`
	Segments    []TranscriptSegment `json:"segments,omitempty"`
	ContentHash string              `json:"content_hash"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// VideoChapter is a persisted chapter marker. Index is the position in the
// generated, start-ordered list.
type VideoChapter struct {
	VideoID      string        `json:"video_id"`
	Index        int           `json:"index"`
	Type         chapters.Kind `json:"type"`
	Value        string        `json:"value"`
	StartSeconds float64       `json:"start_seconds"`
	EndSeconds   float64       `json:"end_seconds"`
}

// ChaptersFromGenerated attaches generated chapters to a video.
func ChaptersFromGenerated(videoID string, generated []chapters.Chapter) []VideoChapter {
	out := make([]VideoChapter, len(generated))
	for i, c := range generated {
		out[i] = VideoChapter{
			VideoID:      videoID,
			Index:        i,
			Type:         c.Type,
			Value:        c.Value,
			StartSeconds: c.StartSeconds,
			EndSeconds:   c.EndSeconds,
		}
	}
	return out
}
