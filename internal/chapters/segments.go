package chapters

// Segment is a timed slice of a transcript, such as a subtitle cue or a
// speech-to-text utterance.
type Segment struct {
	Text         string
	StartSeconds float64
}

// GenerateFromSegments places each chapter at the segment it was found in
// instead of at a single base offset. Passages are reported per occurrence.
// A topic is reported once, at the first segment that triggers it.
//
// It panics if ValidateOffset rejects any segment start.
func (g *Generator) GenerateFromSegments(segments []Segment) []Chapter {
	var (
		passages []Chapter
		topics   []Chapter
		seen     = make(map[string]struct{})
	)

	for _, seg := range segments {
		mustValidOffset(seg.StartSeconds)

		for _, r := range detectReferences(seg.Text, seg.StartSeconds) {
			passages = append(passages, g.passageChapter(r))
		}
		for _, t := range g.DetectTopicTags(seg.Text, seg.StartSeconds) {
			if _, dup := seen[t.Topic]; dup {
				continue
			}
			seen[t.Topic] = struct{}{}
			topics = append(topics, g.topicChapter(t))
		}
	}

	out := append(passages, topics...)
	sortChapters(out)
	return out
}

// GenerateFromSegments runs segment mode with the default windows.
func GenerateFromSegments(segments []Segment) []Chapter {
	return defaultGenerator.GenerateFromSegments(segments)
}
