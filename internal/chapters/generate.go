// Package chapters turns sermon transcripts into timestamped chapter markers:
// Bible passage citations and topic tags from a fixed vocabulary.
//
// Detection is pure and best effort. Unrecognized or malformed citations are
// omitted rather than reported, and all tables are read-only after package
// initialization, so every function is safe for concurrent use.
package chapters

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"unicode"
	"unicode/utf8"
)

// Kind distinguishes passage chapters from topic chapters.
type Kind string

// Chapter kinds.
const (
	KindPassage Kind = "passage"
	KindTopic   Kind = "topic"
)

// Default display windows.
const (
	DefaultPassageWindow = 30.0
	DefaultTopicWindow   = 60.0
)

// MaxOffsetSeconds bounds offsets so that adding a window still yields a
// strictly later end time.
const MaxOffsetSeconds = 1e9

// minWindow keeps offset+window > offset for every offset up to
// MaxOffsetSeconds.
const minWindow = 1e-3

// ErrInvalidOffset is returned by ValidateOffset.
var ErrInvalidOffset = errors.New("offset must be a finite number of seconds between 0 and 1e9")

// Chapter is a navigation marker attached to a video.
type Chapter struct {
	Type         Kind    `json:"type"`
	Value        string  `json:"value"`
	StartSeconds float64 `json:"startSeconds"`
	EndSeconds   float64 `json:"endSeconds"`
}

// Options tunes a Generator. Zero values take the defaults.
type Options struct {
	// PassageWindow is the display length of a passage chapter in seconds.
	PassageWindow float64
	// TopicWindow is the display length of a topic chapter in seconds.
	TopicWindow float64
	// TopicWordBoundary requires topic keywords to match whole words, so
	// "unfaithful" no longer triggers faith.
	TopicWordBoundary bool
}

// Generator produces chapters with a fixed set of options.
type Generator struct {
	opts Options
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.PassageWindow == 0 {
		opts.PassageWindow = DefaultPassageWindow
	}
	if opts.TopicWindow == 0 {
		opts.TopicWindow = DefaultTopicWindow
	}
	if !(opts.PassageWindow >= minWindow) || math.IsInf(opts.PassageWindow, 0) {
		return nil, fmt.Errorf("passage window must be at least %vs, got %v", minWindow, opts.PassageWindow)
	}
	if !(opts.TopicWindow >= minWindow) || math.IsInf(opts.TopicWindow, 0) {
		return nil, fmt.Errorf("topic window must be at least %vs, got %v", minWindow, opts.TopicWindow)
	}
	return &Generator{opts: opts}, nil
}

var defaultGenerator = &Generator{opts: Options{
	PassageWindow: DefaultPassageWindow,
	TopicWindow:   DefaultTopicWindow,
}}

// Options returns the generator's effective options.
func (g *Generator) Options() Options {
	return g.opts
}

// GenerateChapters runs both detectors over transcript and returns passage
// chapters (30s) followed by topic chapters (60s), sorted by start time.
//
// It panics if baseOffsetSeconds is negative, NaN, infinite or above
// MaxOffsetSeconds.
func GenerateChapters(transcript string, baseOffsetSeconds float64) []Chapter {
	return defaultGenerator.Generate(transcript, baseOffsetSeconds)
}

// Generate is GenerateChapters with the generator's options.
func (g *Generator) Generate(transcript string, baseOffsetSeconds float64) []Chapter {
	mustValidOffset(baseOffsetSeconds)

	refs := detectReferences(transcript, baseOffsetSeconds)
	topics := g.DetectTopicTags(transcript, baseOffsetSeconds)

	out := make([]Chapter, 0, len(refs)+len(topics))
	for _, r := range refs {
		out = append(out, g.passageChapter(r))
	}
	for _, t := range topics {
		out = append(out, g.topicChapter(t))
	}
	sortChapters(out)
	return out
}

// DetectTopicTags is DetectTopics honouring the generator's matching mode.
func (g *Generator) DetectTopicTags(transcript string, offsetSeconds float64) []TopicTag {
	names := detectTopics(transcript, g.opts.TopicWordBoundary)
	if len(names) == 0 {
		return nil
	}
	tags := make([]TopicTag, len(names))
	for i, n := range names {
		tags[i] = TopicTag{Topic: n, OffsetSeconds: offsetSeconds}
	}
	return tags
}

func (g *Generator) passageChapter(r ScriptureReference) Chapter {
	return Chapter{
		Type:         KindPassage,
		Value:        r.FullReference,
		StartSeconds: r.OffsetSeconds,
		EndSeconds:   r.OffsetSeconds + g.opts.PassageWindow,
	}
}

func (g *Generator) topicChapter(t TopicTag) Chapter {
	return Chapter{
		Type:         KindTopic,
		Value:        titleCase(t.Topic),
		StartSeconds: t.OffsetSeconds,
		EndSeconds:   t.OffsetSeconds + g.opts.TopicWindow,
	}
}

func sortChapters(chs []Chapter) {
	slices.SortStableFunc(chs, func(a, b Chapter) int {
		switch {
		case a.StartSeconds < b.StartSeconds:
			return -1
		case a.StartSeconds > b.StartSeconds:
			return 1
		}
		return 0
	})
}

// titleCase upper-cases the first rune and leaves the rest unchanged.
func titleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// ValidateOffset reports whether offset can be passed to the generator.
func ValidateOffset(offset float64) error {
	if math.IsNaN(offset) || offset < 0 || offset > MaxOffsetSeconds {
		return fmt.Errorf("%w: %v", ErrInvalidOffset, offset)
	}
	return nil
}

func mustValidOffset(offset float64) {
	if err := ValidateOffset(offset); err != nil {
		panic("chapters: " + err.Error())
	}
}
