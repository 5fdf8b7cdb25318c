package store

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// Pagination limits.
const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// PaginationParams contains pagination request parameters.
type PaginationParams struct {
	Limit  int    // Items per page (defaults to 50, maximum 200)
	Cursor string // Opaque cursor for the next page (empty for first page)
}

// PaginatedResult contains paginated data and metadata.
type PaginatedResult[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // Empty if no more pages
	HasMore    bool   `json:"has_more"`
}

// Validate clamps the limit into range.
func (p *PaginationParams) Validate() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
}

// EncodeCursor creates an opaque cursor from a key.
func EncodeCursor(key string) string {
	if key == "" {
		return ""
	}
	return base64.URLEncoding.EncodeToString([]byte(key))
}

// DecodeCursor decodes a cursor back to a key.
func DecodeCursor(cursor string) (string, error) {
	if cursor == "" {
		return "", nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return "", fmt.Errorf("invalid cursor: %w", err)
	}

	return string(decoded), nil
}

// Position is a keyset position in a newest-first listing.
type Position struct {
	CreatedAt time.Time
	ID        string
}

// EncodePosition turns the last item of a page into a cursor.
func EncodePosition(p Position) string {
	return EncodeCursor(p.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + p.ID)
}

// DecodePosition parses a cursor produced by EncodePosition. An empty
// cursor yields a nil position.
func DecodePosition(cursor string) (*Position, error) {
	key, err := DecodeCursor(cursor)
	if err != nil || key == "" {
		return nil, err
	}
	ts, id, ok := strings.Cut(key, "|")
	if !ok || id == "" {
		return nil, fmt.Errorf("invalid cursor: malformed key")
	}
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return nil, fmt.Errorf("invalid cursor: %w", err)
	}
	return &Position{CreatedAt: t, ID: id}, nil
}
