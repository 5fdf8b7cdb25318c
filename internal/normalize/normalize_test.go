package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageCode(t *testing.T) {
	known := map[string]string{
		"en":      "en",
		"eng":     "en",
		"en-US":   "en",
		"en_GB":   "en",
		"English": "en",
		"SPANISH": "es",
		"es-419":  "es",
		"ger":     "de",
		"  en  ":  "en",
	}
	for in, want := range known {
		assert.Equal(t, want, LanguageCode(in), "LanguageCode(%q)", in)
	}

	for _, in := range []string{"", "xyz", "e1", "klingon"} {
		assert.Empty(t, LanguageCode(in), "LanguageCode(%q)", in)
	}
}

func TestText(t *testing.T) {
	cases := []struct{ name, in, want string }{
		{"empty", "", ""},
		{"collapses whitespace", "  John   3:16\n\nsays ", "John 3:16 says"},
		{"non-breaking space", "Romans\u00a08:28", "Romans 8:28"},
		{"line separator", "grace\u2028and peace", "grace and peace"},
		{"zero width", "fa\u200bith", "faith"},
		{"composes to NFC", "e\u0301glise", "\u00e9glise"},
		{"drops control chars", "hope\x00\x07", "hope"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Text(c.in))
		})
	}
}
