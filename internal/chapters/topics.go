package chapters

import (
	"regexp"
	"strings"
)

// Topic is an entry in the controlled topic vocabulary.
type Topic struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// TopicTag is a topic detected in a transcript.
type TopicTag struct {
	Topic         string  `json:"topic"`
	OffsetSeconds float64 `json:"offsetSeconds"`
}

// vocabulary is checked in declaration order, which is also the output order.
// Keywords are matched as substrings, so short stems are avoided.
var vocabulary = []Topic{
	{Name: "faith", Keywords: []string{"faith", "faithful", "faithfulness", "believe", "belief"}},
	{Name: "hope", Keywords: []string{"hope", "hopeful", "hoping"}},
	{Name: "love", Keywords: []string{"love", "loving", "beloved", "charity", "compassion"}},
	{Name: "grace", Keywords: []string{"grace", "gracious", "mercy", "merciful"}},
	{Name: "forgiveness", Keywords: []string{"forgive", "forgiven", "forgiveness", "pardon"}},
	{Name: "salvation", Keywords: []string{"salvation", "saved", "savior", "saviour", "redeem", "redemption", "born again"}},
	{Name: "prayer", Keywords: []string{"prayer", "pray", "praying", "intercession"}},
	{Name: "repentance", Keywords: []string{"repent", "repentance", "sinful", "sinner"}},
	{Name: "worship", Keywords: []string{"worship", "praise", "hallelujah", "adoration"}},
	{Name: "peace", Keywords: []string{"peace", "peaceful", "anxiety", "anxious"}},
	{Name: "suffering", Keywords: []string{"suffering", "suffer", "trials", "tribulation", "persecution", "grief"}},
	{Name: "wisdom", Keywords: []string{"wisdom", "discernment", "understanding"}},
	{Name: "obedience", Keywords: []string{"obey", "obedience", "obedient", "commandment"}},
	{Name: "stewardship", Keywords: []string{"tithe", "tithing", "generosity", "generous", "stewardship"}},
	{Name: "family", Keywords: []string{"marriage", "husband", "wife", "parenting", "children"}},
	{Name: "heaven", Keywords: []string{"heaven", "eternal life", "eternity", "kingdom of god"}},
}

// boundaryPatterns holds one compiled word-boundary pattern per topic, in
// vocabulary order.
var boundaryPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(vocabulary))
	for i, t := range vocabulary {
		quoted := make([]string, len(t.Keywords))
		for j, k := range t.Keywords {
			quoted[j] = regexp.QuoteMeta(k)
		}
		out[i] = regexp.MustCompile(`(?i)\b(?:` + strings.Join(quoted, "|") + `)\b`)
	}
	return out
}()

// Topics returns a copy of the topic vocabulary in declaration order.
func Topics() []Topic {
	out := make([]Topic, len(vocabulary))
	for i, t := range vocabulary {
		out[i] = Topic{Name: t.Name, Keywords: append([]string(nil), t.Keywords...)}
	}
	return out
}

// DetectTopics returns every topic whose keywords occur in transcript.
// Matching is case-insensitive substring containment, so "unfaithful"
// triggers faith. Each topic appears at most once, in vocabulary order.
func DetectTopics(transcript string) []string {
	return detectTopics(transcript, false)
}

func detectTopics(text string, wordBoundary bool) []string {
	var found []string
	if wordBoundary {
		for i, re := range boundaryPatterns {
			if re.MatchString(text) {
				found = append(found, vocabulary[i].Name)
			}
		}
		return found
	}

	lower := strings.ToLower(text)
	for _, t := range vocabulary {
		for _, k := range t.Keywords {
			if strings.Contains(lower, k) {
				found = append(found, t.Name)
				break
			}
		}
	}
	return found
}
