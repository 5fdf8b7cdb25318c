// Package transcript parses subtitle files and speech-to-text output into
// timed, markup-free segments ready for chapter detection.
package transcript

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/normalize"
)

// Format identifies a transcript encoding.
type Format string

// Supported formats.
const (
	FormatAuto     Format = ""
	FormatText     Format = "text"
	FormatSRT      Format = "srt"
	FormatVTT      Format = "vtt"
	FormatDeepgram Format = "deepgram"
	FormatJSON3    Format = "json3"
)

var (
	// ErrEmptyTranscript is returned when input holds no spoken text.
	ErrEmptyTranscript = errors.New("transcript is empty")
	// ErrUnsupportedFormat is returned for unknown format names.
	ErrUnsupportedFormat = errors.New("unsupported transcript format")
	// ErrMalformed is returned when a timed format cannot be decoded.
	ErrMalformed = errors.New("malformed transcript")
)

// Segment is a timed piece of transcript text.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Transcript is the result of parsing.
type Transcript struct {
	Format   Format    `json:"format"`
	Segments []Segment `json:"segments"`
	// Text is every segment joined with single spaces.
	Text string `json:"text"`
	// Timed is false for plain text, where all segments start at zero.
	Timed bool `json:"timed"`
	// SourceID is the upstream request id when the format carries one.
	SourceID string `json:"sourceId,omitempty"`
	// DurationSeconds is the media duration when the format reports it.
	DurationSeconds float64 `json:"durationSeconds,omitempty"`
}

// ChapterSegments converts the segments for chapter detection.
func (t *Transcript) ChapterSegments() []chapters.Segment {
	out := make([]chapters.Segment, len(t.Segments))
	for i, s := range t.Segments {
		out[i] = chapters.Segment{Text: s.Text, StartSeconds: s.Start}
	}
	return out
}

// ParseFormat validates a user-supplied format name. The empty string and
// "auto" select detection.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatAuto, "auto":
		return FormatAuto, nil
	case FormatText, "txt", "plain":
		return FormatText, nil
	case FormatSRT, FormatVTT, FormatDeepgram, FormatJSON3:
		return f, nil
	case "webvtt":
		return FormatVTT, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// DetectFormat guesses the format from the file name, falling back to the
// content.
func DetectFormat(filename string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".srt":
		return FormatSRT
	case ".vtt":
		return FormatVTT
	case ".txt":
		return FormatText
	case ".json3":
		return FormatJSON3
	}

	head := strings.TrimSpace(strings.TrimPrefix(string(data), "\ufeff"))
	switch {
	case strings.HasPrefix(head, "WEBVTT"):
		return FormatVTT
	case strings.HasPrefix(head, "{"):
		if strings.Contains(head, `"events"`) && !strings.Contains(head, `"results"`) {
			return FormatJSON3
		}
		return FormatDeepgram
	case strings.Contains(head, "-->"):
		return FormatSRT
	default:
		return FormatText
	}
}

// Parse decodes data in the given format. FormatAuto detects it first using
// filename as a hint.
func Parse(format Format, filename string, data []byte) (*Transcript, error) {
	if format == FormatAuto {
		format = DetectFormat(filename, data)
	}

	var (
		t   *Transcript
		err error
	)
	switch format {
	case FormatText:
		t, err = ParsePlain(data)
	case FormatSRT:
		t, err = ParseSRT(data)
	case FormatVTT:
		t, err = ParseVTT(data)
	case FormatDeepgram:
		t, err = ParseDeepgram(data)
	case FormatJSON3:
		t, err = ParseJSON3(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ParsePlain wraps untimed text in a single segment at zero.
func ParsePlain(data []byte) (*Transcript, error) {
	text := Clean(string(data))
	if text == "" {
		return nil, ErrEmptyTranscript
	}
	return &Transcript{
		Format:   FormatText,
		Segments: []Segment{{Text: text}},
		Text:     text,
	}, nil
}

// build drops empty segments and assembles the flat text.
func build(format Format, segs []Segment) (*Transcript, error) {
	kept := segs[:0]
	parts := make([]string, 0, len(segs))
	for i, s := range segs {
		if chapters.ValidateOffset(s.Start) != nil || s.End < s.Start {
			return nil, fmt.Errorf("%w: segment %d has invalid timing %.3f-%.3f", ErrMalformed, i+1, s.Start, s.End)
		}
		s.Text = Clean(s.Text)
		if s.Text == "" {
			continue
		}
		kept = append(kept, s)
		parts = append(parts, s.Text)
	}
	if len(kept) == 0 {
		return nil, ErrEmptyTranscript
	}
	return &Transcript{
		Format:   format,
		Segments: kept,
		Text:     strings.Join(parts, " "),
		Timed:    true,
	}, nil
}

// Clean strips inline markup and normalizes whitespace and Unicode.
func Clean(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = assTagPattern.ReplaceAllString(s, "")
	s = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ").Replace(s)
	return normalize.Text(s)
}
