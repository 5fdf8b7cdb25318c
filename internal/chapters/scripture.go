package chapters

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// citationPattern is a shape detector only. The alias table decides whether
// a match is a real citation. The optional space belongs to a leading digit
// ("1 cor"), so a match always starts at a word and the words before it stay
// available to resolveBook.
var citationPattern = regexp.MustCompile(`(?i)\b((?:[1-3]\s?)?[a-z]+)\s+(\d+):(\d+)(?:\s*[-–]\s*(\d+))?`)

// maxLookback is how many words before a match may belong to the book name
// ("Song of Solomon", "First John").
const maxLookback = 2

// ScriptureReference is one citation found in a transcript.
type ScriptureReference struct {
	Book    string `json:"book"`
	Chapter int    `json:"chapter"`
	Verse   int    `json:"verse"`
	// EndVerse is zero when no range was cited.
	EndVerse      int     `json:"endVerse,omitempty"`
	FullReference string  `json:"fullReference"`
	OffsetSeconds float64 `json:"offsetSeconds"`
}

// HasRange reports whether the reference spans more than one verse.
func (r ScriptureReference) HasRange() bool {
	return r.EndVerse > r.Verse
}

func formatReference(book string, chapter, verse, endVerse int) string {
	if endVerse > verse {
		return fmt.Sprintf("%s %d:%d-%d", book, chapter, verse, endVerse)
	}
	return fmt.Sprintf("%s %d:%d", book, chapter, verse)
}

// DetectScriptureReferences scans transcript for Bible citations and returns
// them in the order they occur. Unrecognized books and malformed numbers are
// dropped silently. Every occurrence is reported, duplicates included.
//
// It panics if ValidateOffset rejects baseOffsetSeconds.
func DetectScriptureReferences(transcript string, baseOffsetSeconds float64) []ScriptureReference {
	mustValidOffset(baseOffsetSeconds)
	return detectReferences(transcript, baseOffsetSeconds)
}

func detectReferences(text string, offset float64) []ScriptureReference {
	matches := citationPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	refs := make([]ScriptureReference, 0, len(matches))
	for _, m := range matches {
		book, ok := resolveBook(text[:m[0]], text[m[2]:m[3]])
		if !ok {
			continue
		}

		chapter, ok := parsePositive(text[m[4]:m[5]])
		if !ok {
			continue
		}
		verse, ok := parsePositive(text[m[6]:m[7]])
		if !ok {
			continue
		}

		end := 0
		if m[8] >= 0 {
			if v, ok := parsePositive(text[m[8]:m[9]]); ok && v > verse {
				end = v
			}
		}

		refs = append(refs, ScriptureReference{
			Book:          book,
			Chapter:       chapter,
			Verse:         verse,
			EndVerse:      end,
			FullReference: formatReference(book, chapter, verse, end),
			OffsetSeconds: offset,
		})
	}
	return refs
}

// resolveBook looks the candidate up in the alias table. When preceding
// words are available the longest multi-word name wins, so "First John"
// resolves to 1 John rather than John.
func resolveBook(before, candidate string) (string, bool) {
	words := trailingWords(before, maxLookback)
	for n := len(words); n > 0; n-- {
		name := strings.Join(words[len(words)-n:], " ") + " " + candidate
		if book, ok := LookupBook(name); ok {
			return book, true
		}
	}
	return LookupBook(candidate)
}

// trailingWords returns up to n words immediately preceding a match. Words
// separated from the match by anything other than whitespace are ignored.
func trailingWords(s string, n int) []string {
	if r, _ := utf8.DecodeLastRuneInString(s); !unicode.IsSpace(r) {
		return nil
	}

	fields := strings.Fields(s)
	if len(fields) > n {
		fields = fields[len(fields)-n:]
	}

	// Stop at the first word carrying punctuation; it ends a clause.
	start := len(fields)
	for i := len(fields) - 1; i >= 0; i-- {
		if !isLetters(fields[i]) {
			break
		}
		start = i
	}
	return fields[start:]
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return s != ""
}

func parsePositive(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ParseReference parses text holding exactly one citation, such as a
// search query ("jn 3:16"), into its canonical form.
func ParseReference(s string) (ScriptureReference, bool) {
	s = strings.TrimSpace(s)
	refs := detectReferences(s, 0)
	if len(refs) != 1 {
		return ScriptureReference{}, false
	}
	m := citationPattern.FindStringIndex(s)
	if m == nil || m[1] != len(s) {
		return ScriptureReference{}, false
	}
	return refs[0], true
}
