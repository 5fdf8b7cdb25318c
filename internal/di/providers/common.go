package providers

import "time"

const (
	// shutdownTimeout bounds graceful shutdown of a single service.
	shutdownTimeout = 30 * time.Second

	// dedupeGCInterval is how often the webhook deduper reclaims badger value-log space.
	dedupeGCInterval = 10 * time.Minute
)
