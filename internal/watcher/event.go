package watcher

import (
	"path/filepath"
	"time"
)

// Op says what happened to a file.
type Op string

const (
	// EventAdded: the file exists and stopped changing for a settle delay.
	EventAdded Op = "added"
	// EventRemoved: the file was deleted or renamed away.
	EventRemoved Op = "removed"
)

// Event reports a settled change to a file in a watched directory.
type Event struct {
	Type Op
	Path string
	// Size and ModTime are the settled values; zero for removals.
	Size    int64
	ModTime time.Time
}

// Name returns the file's base name.
func (e Event) Name() string { return filepath.Base(e.Path) }
