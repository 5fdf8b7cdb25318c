package watcher

import (
	"path/filepath"
	"strings"
	"time"
)

// DefaultSettleDelay is how long a file must stay unchanged before it is reported.
const DefaultSettleDelay = 2 * time.Second

// DefaultIgnorePatterns match OS metadata and partial downloads or edits.
var DefaultIgnorePatterns = []string{
	".DS_Store", "Thumbs.db",
	"*.tmp", "*.temp", "*.part", "*.crdownload",
	"*.swp", "*~",
}

// Options configures a Watcher.
type Options struct {
	// SettleDelay defaults to DefaultSettleDelay.
	SettleDelay time.Duration
	// IgnorePatterns are filepath.Match patterns tested against base names.
	// Nil selects DefaultIgnorePatterns and turns IgnoreHidden on; an empty
	// slice ignores nothing and leaves IgnoreHidden as given.
	IgnorePatterns []string
	IgnoreHidden   bool
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.IgnorePatterns == nil {
		o.IgnorePatterns = DefaultIgnorePatterns
		o.IgnoreHidden = true
	}
}

// ignored reports whether path's base name is filtered out. Parent
// directories are not checked.
func (o *Options) ignored(path string) bool {
	name := filepath.Base(path)
	if o.IgnoreHidden && len(name) > 1 && strings.HasPrefix(name, ".") && name != ".." {
		return true
	}
	for _, pattern := range o.IgnorePatterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}
