// Package search provides full-text search over videos using Bleve.
// Each video is one document carrying its metadata, transcript text and the
// passages, books and topics its chapters cite, so listeners can find
// sermons by what was preached as well as by title.
package search

import (
	"slices"
	"strings"

	"github.com/Mastsam10/platform-sub000/internal/chapters"
	"github.com/Mastsam10/platform-sub000/internal/domain"
)

// VideoDocument is the indexed form of a video.
//
// Passages, books and topics are denormalized from the chapter list so a
// single query can filter on them.
type VideoDocument struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Transcript  string `json:"transcript,omitempty"`

	// Canonical references, e.g. "John 3:16-18".
	Passages []string `json:"passages,omitempty"`
	// Canonical book names, e.g. "1 Corinthians".
	Books []string `json:"books,omitempty"`
	// Lowercase topic names from the vocabulary.
	Topics []string `json:"topics,omitempty"`

	Status          string  `json:"status"`
	Provider        string  `json:"provider"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis
	UpdatedAt int64 `json:"updated_at"` // Unix millis
}

// NewVideoDocument builds a document from a video, its transcript (may be
// nil) and its chapters.
func NewVideoDocument(v *domain.Video, t *domain.Transcript, chs []domain.VideoChapter) *VideoDocument {
	doc := &VideoDocument{
		ID:              v.ID,
		Title:           v.Title,
		Description:     v.Description,
		Status:          string(v.Status),
		Provider:        string(v.Provider),
		DurationSeconds: v.DurationSeconds,
		CreatedAt:       v.CreatedAt.UnixMilli(),
		UpdatedAt:       v.UpdatedAt.UnixMilli(),
	}
	if t != nil {
		doc.Transcript = t.Text
	}

	for _, c := range chs {
		switch c.Type {
		case chapters.KindPassage:
			doc.Passages = appendUnique(doc.Passages, c.Value)
			if ref, ok := chapters.ParseReference(c.Value); ok {
				doc.Books = appendUnique(doc.Books, ref.Book)
			}
		case chapters.KindTopic:
			doc.Topics = appendUnique(doc.Topics, strings.ToLower(c.Value))
		}
	}
	return doc
}

func appendUnique(list []string, v string) []string {
	if slices.Contains(list, v) {
		return list
	}
	return append(list, v)
}

// ToMap converts the document to a map keyed by the mapping's field names.
func (d *VideoDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"status":     d.Status,
		"provider":   d.Provider,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Transcript != "" {
		m["transcript"] = d.Transcript
	}
	if len(d.Passages) > 0 {
		m["passages"] = d.Passages
	}
	if len(d.Books) > 0 {
		m["books"] = d.Books
	}
	if len(d.Topics) > 0 {
		m["topics"] = d.Topics
	}
	if d.DurationSeconds > 0 {
		m["duration_seconds"] = d.DurationSeconds
	}

	return m
}
