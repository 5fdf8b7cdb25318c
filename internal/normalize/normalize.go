// Package normalize provides utilities for normalizing and sanitizing text.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// iso639_2to1 maps ISO 639-2 (3-letter) codes to ISO 639-1 codes for the
// languages sermons are commonly transcribed in.
//
//nolint:gochecknoglobals // Static lookup table for language normalization
var iso639_2to1 = map[string]string{
	"eng": "en", "spa": "es", "fra": "fr", "fre": "fr", "deu": "de", "ger": "de",
	"por": "pt", "ita": "it", "nld": "nl", "dut": "nl", "kor": "ko", "zho": "zh",
	"chi": "zh", "rus": "ru", "ukr": "uk", "pol": "pl", "ron": "ro", "rum": "ro",
	"swa": "sw", "tgl": "tl", "fil": "tl", "hin": "hi", "ind": "id", "jpn": "ja",
	"yor": "yo", "ibo": "ig", "amh": "am", "afr": "af", "heb": "he", "ara": "ar",
}

//nolint:gochecknoglobals // Static lookup table for language normalization
var languageNameToCode = map[string]string{
	"english": "en", "spanish": "es", "español": "es", "french": "fr",
	"german": "de", "portuguese": "pt", "italian": "it", "dutch": "nl",
	"korean": "ko", "chinese": "zh", "mandarin": "zh", "russian": "ru",
	"ukrainian": "uk", "polish": "pl", "romanian": "ro", "swahili": "sw",
	"tagalog": "tl", "filipino": "tl", "hindi": "hi", "indonesian": "id",
	"japanese": "ja", "yoruba": "yo", "igbo": "ig", "amharic": "am",
	"afrikaans": "af", "hebrew": "he", "arabic": "ar",
}

// LanguageCode converts a language tag, locale, or name to an ISO 639-1 code.
//
//	"en", "eng", "en-US", "English" -> "en"
//
// Returns empty string for unrecognized values.
func LanguageCode(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}

	if idx := strings.IndexAny(s, "-_"); idx > 0 {
		s = s[:idx]
	}

	switch len(s) {
	case 2:
		if isASCIILetters(s) {
			return s
		}
	case 3:
		if code, ok := iso639_2to1[s]; ok {
			return code
		}
	}

	return languageNameToCode[s]
}

func isASCIILetters(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// Text composes s to NFC, turns every Unicode space (non-breaking spaces,
// line and paragraph separators) into an ASCII space, drops control and
// format characters, and collapses runs of whitespace.
func Text(s string) string {
	s = norm.NFC.String(s)

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
			continue
		case unicode.IsControl(r), unicode.Is(unicode.Cf, r):
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
