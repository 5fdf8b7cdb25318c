package transcript

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
	assTagPattern = regexp.MustCompile(`\{\\[^}]*\}`)
)

// ParseSRT decodes SubRip subtitles. Cue numbers are optional; a period is
// accepted in place of the millisecond comma.
func ParseSRT(data []byte) (*Transcript, error) {
	blocks := splitBlocks(string(data))
	segs := make([]Segment, 0, len(blocks))

	for i, block := range blocks {
		lines := strings.Split(block, "\n")
		start := 0
		if isNumeric(lines[0]) {
			start++
		}
		if start >= len(lines) || !strings.Contains(lines[start], "-->") {
			return nil, fmt.Errorf("%w: cue %d: missing timing line", ErrMalformed, i+1)
		}

		from, to, err := parseTiming(lines[start], parseSRTTimestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: cue %d: %v", ErrMalformed, i+1, err)
		}
		segs = append(segs, Segment{
			Start: from,
			End:   to,
			Text:  strings.Join(lines[start+1:], " "),
		})
	}
	return build(FormatSRT, segs)
}

// ParseVTT decodes WebVTT captions. NOTE, STYLE and REGION blocks are
// skipped, as are cue settings after the timing.
func ParseVTT(data []byte) (*Transcript, error) {
	blocks := splitBlocks(string(data))
	if len(blocks) == 0 {
		return nil, ErrEmptyTranscript
	}
	if !strings.HasPrefix(blocks[0], "WEBVTT") {
		return nil, fmt.Errorf("%w: missing WEBVTT header", ErrMalformed)
	}

	segs := make([]Segment, 0, len(blocks)-1)
	for i, block := range blocks[1:] {
		if strings.HasPrefix(block, "NOTE") || strings.HasPrefix(block, "STYLE") || strings.HasPrefix(block, "REGION") {
			continue
		}

		lines := strings.Split(block, "\n")
		start := 0
		if !strings.Contains(lines[0], "-->") {
			start++ // cue identifier
		}
		if start >= len(lines) || !strings.Contains(lines[start], "-->") {
			return nil, fmt.Errorf("%w: cue %d: missing timing line", ErrMalformed, i+1)
		}

		from, to, err := parseTiming(lines[start], parseVTTTimestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: cue %d: %v", ErrMalformed, i+1, err)
		}
		segs = append(segs, Segment{
			Start: from,
			End:   to,
			Text:  strings.Join(lines[start+1:], " "),
		})
	}
	return build(FormatVTT, segs)
}

func splitBlocks(content string) []string {
	content = strings.TrimPrefix(content, "\ufeff")
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	var blocks []string
	for _, b := range strings.Split(content, "\n\n") {
		lines := strings.Split(b, "\n")
		kept := lines[:0]
		for _, l := range lines {
			if l = strings.TrimSpace(l); l != "" {
				kept = append(kept, l)
			}
		}
		if len(kept) > 0 {
			blocks = append(blocks, strings.Join(kept, "\n"))
		}
	}
	return blocks
}

func parseTiming(line string, parse func(string) (float64, error)) (float64, float64, error) {
	parts := strings.SplitN(line, "-->", 2)
	from, err := parse(parts[0])
	if err != nil {
		return 0, 0, err
	}
	// Drop VTT cue settings such as "align:start".
	endField := strings.Fields(parts[1])
	if len(endField) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp")
	}
	to, err := parse(endField[0])
	if err != nil {
		return 0, 0, err
	}
	if to < from {
		return 0, 0, fmt.Errorf("cue ends before it starts")
	}
	return from, to, nil
}

// parseSRTTimestamp parses HH:MM:SS,mmm.
func parseSRTTimestamp(value string) (float64, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ".", ",")
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return clockSeconds(value, hms[0], hms[1], hms[2], timeParts[1])
}

// parseVTTTimestamp parses [HH:]MM:SS.mmm.
func parseVTTTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	clock, frac, ok := strings.Cut(value, ".")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(clock, ":")
	switch len(hms) {
	case 2:
		return clockSeconds(value, "0", hms[0], hms[1], frac)
	case 3:
		return clockSeconds(value, hms[0], hms[1], hms[2], frac)
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
}

func clockSeconds(raw, h, m, s, ms string) (float64, error) {
	hours, errH := strconv.Atoi(h)
	minutes, errM := strconv.Atoi(m)
	seconds, errS := strconv.Atoi(s)
	millis, errMS := strconv.Atoi(ms)
	if errH != nil || errM != nil || errS != nil || errMS != nil ||
		hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 || millis < 0 || len(ms) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", raw)
	}
	return float64(hours*3600+minutes*60+seconds) + float64(millis)/1000, nil
}

func isNumeric(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	_, err := strconv.Atoi(value)
	return err == nil
}
