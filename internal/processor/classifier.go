// Package processor turns settled inbox files into transcript ingests.
package processor

import (
	"path/filepath"
	"strings"
)

// FileType represents the type of file detected by the classifier.
type FileType int

const (
	// FileTypeTranscript is a transcript named after its video (.srt, .vtt, .txt, .json, .json3).
	FileTypeTranscript FileType = iota
	// FileTypeIgnored is anything else.
	FileTypeIgnored
)

// String returns the string representation of a FileType.
func (ft FileType) String() string {
	switch ft {
	case FileTypeTranscript:
		return "transcript"
	case FileTypeIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

var transcriptExts = map[string]bool{
	".srt":   true,
	".vtt":   true,
	".txt":   true,
	".json":  true,
	".json3": true,
}

// classifyFile maps "<videoID>.<ext>" to its video ID. The extension match
// is case-insensitive; the ID is returned as written.
func classifyFile(path string) (FileType, string) {
	if path == "" {
		return FileTypeIgnored, ""
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if !transcriptExts[strings.ToLower(ext)] {
		return FileTypeIgnored, ""
	}

	videoID := strings.TrimSuffix(base, ext)
	if videoID == "" || strings.ContainsAny(videoID, " \t") {
		return FileTypeIgnored, ""
	}
	return FileTypeTranscript, videoID
}
