package processor

import "sync"

// videoLocks allows one ingest per video at a time. Released ids are
// forgotten, so the table only holds videos currently being ingested.
type videoLocks struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newVideoLocks() *videoLocks {
	return &videoLocks{busy: make(map[string]struct{})}
}

// tryAcquire claims videoID. It returns false when another ingest holds it.
func (l *videoLocks) tryAcquire(videoID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.busy[videoID]; held {
		return false
	}
	l.busy[videoID] = struct{}{}
	return true
}

func (l *videoLocks) release(videoID string) {
	l.mu.Lock()
	delete(l.busy, videoID)
	l.mu.Unlock()
}

func (l *videoLocks) held() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.busy)
}
