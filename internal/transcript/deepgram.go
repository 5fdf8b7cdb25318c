package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// deepgramResponse is the subset of a Deepgram pre-recorded response used
// here. Unknown fields are ignored.
type deepgramResponse struct {
	Metadata struct {
		RequestID string  `json:"request_id"`
		Duration  float64 `json:"duration"`
	} `json:"metadata"`
	Results struct {
		Channels []struct {
			Alternatives []deepgramAlternative `json:"alternatives"`
		} `json:"channels"`
		Utterances []struct {
			Start      float64 `json:"start"`
			End        float64 `json:"end"`
			Transcript string  `json:"transcript"`
		} `json:"utterances"`
	} `json:"results"`
}

type deepgramAlternative struct {
	Transcript string `json:"transcript"`
	Paragraphs *struct {
		Paragraphs []struct {
			Sentences []struct {
				Text  string  `json:"text"`
				Start float64 `json:"start"`
				End   float64 `json:"end"`
			} `json:"sentences"`
		} `json:"paragraphs"`
	} `json:"paragraphs"`
	Words []struct {
		Word           string  `json:"word"`
		PunctuatedWord string  `json:"punctuated_word"`
		Start          float64 `json:"start"`
		End            float64 `json:"end"`
	} `json:"words"`
}

// ParseDeepgram decodes a Deepgram pre-recorded transcription. Utterances
// are preferred, then paragraph sentences, then the first channel's full
// transcript as a single segment.
func ParseDeepgram(data []byte) (*Transcript, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyTranscript
	}

	var resp deepgramResponse
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode deepgram response: %v", ErrMalformed, err)
	}

	var segs []Segment
	switch {
	case len(resp.Results.Utterances) > 0:
		for _, u := range resp.Results.Utterances {
			segs = append(segs, Segment{Start: u.Start, End: u.End, Text: u.Transcript})
		}
	case len(resp.Results.Channels) > 0 && len(resp.Results.Channels[0].Alternatives) > 0:
		segs = alternativeSegments(resp.Results.Channels[0].Alternatives[0], resp.Metadata.Duration)
	default:
		return nil, fmt.Errorf("%w: deepgram response has no channels", ErrMalformed)
	}

	t, err := build(FormatDeepgram, segs)
	if err != nil {
		return nil, err
	}
	t.SourceID = resp.Metadata.RequestID
	t.DurationSeconds = resp.Metadata.Duration
	return t, nil
}

func alternativeSegments(alt deepgramAlternative, duration float64) []Segment {
	var segs []Segment
	if alt.Paragraphs != nil {
		for _, p := range alt.Paragraphs.Paragraphs {
			for _, s := range p.Sentences {
				segs = append(segs, Segment{Start: s.Start, End: s.End, Text: s.Text})
			}
		}
	}
	if len(segs) > 0 {
		return segs
	}

	end := duration
	if n := len(alt.Words); n > 0 {
		end = alt.Words[n-1].End
	}
	return []Segment{{Start: 0, End: end, Text: alt.Transcript}}
}
