package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// rawJSON3 is the YouTube timed-text format served with fmt=json3.
type rawJSON3 struct {
	Events []struct {
		TStartMs    *int64 `json:"tStartMs,omitempty"`
		DDurationMs *int64 `json:"dDurationMs,omitempty"`
		Segs        []struct {
			Utf8 string `json:"utf8"`
		} `json:"segs,omitempty"`
	} `json:"events"`
}

// ParseJSON3 decodes YouTube json3 captions. Events without text, including
// the newline-only events auto captions emit between lines, are dropped.
func ParseJSON3(data []byte) (*Transcript, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyTranscript
	}

	var raw rawJSON3
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode json3: %v", ErrMalformed, err)
	}

	segs := make([]Segment, 0, len(raw.Events))
	for _, ev := range raw.Events {
		if ev.TStartMs == nil || len(ev.Segs) == 0 {
			continue
		}
		var b strings.Builder
		for _, s := range ev.Segs {
			b.WriteString(s.Utf8)
		}
		start := float64(*ev.TStartMs) / 1000
		end := start
		if ev.DDurationMs != nil {
			end += float64(*ev.DDurationMs) / 1000
		}
		segs = append(segs, Segment{Start: start, End: end, Text: b.String()})
	}
	return build(FormatJSON3, segs)
}
