package webhook

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// DefaultDedupeTTL is how long a delivery id is remembered.
const DefaultDedupeTTL = 24 * time.Hour

const deliveryPrefix = "delivery:"

// Deduper remembers delivery ids so a redelivered webhook is acknowledged
// without being applied twice. Entries expire after the TTL.
type Deduper struct {
	db     *badger.DB
	ttl    time.Duration
	logger *slog.Logger
}

// DeduperOptions configures a Deduper.
type DeduperOptions struct {
	// Path is the badger directory. Empty runs in memory.
	Path   string
	TTL    time.Duration
	Logger *slog.Logger
}

// NewDeduper opens the badger database backing the deduper.
func NewDeduper(opts DeduperOptions) (*Deduper, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.Path == "" {
		bopts = bopts.WithInMemory(true)
	}
	bopts.Logger = nil            // Disable Badger's internal logging
	bopts.SyncWrites = true       // Survive crashes between ack and apply
	bopts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultDedupeTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Deduper{db: db, ttl: ttl, logger: logger}, nil
}

// FirstDelivery records id and reports whether it had not been seen within
// the TTL. Concurrent callers with the same id get exactly one true.
func (d *Deduper) FirstDelivery(id string) (bool, error) {
	key := []byte(deliveryPrefix + id)
	first := false

	err := d.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			return nil
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		first = true
		stamp := []byte(time.Now().UTC().Format(time.RFC3339))
		return txn.SetEntry(badger.NewEntry(key, stamp).WithTTL(d.ttl))
	})
	if errors.Is(err, badger.ErrConflict) {
		// Another writer recorded the same id first.
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record delivery: %w", err)
	}

	if !first {
		d.logger.Debug("duplicate webhook delivery", "delivery_id", id)
	}
	return first, nil
}

// Forget drops a delivery id so a failed apply can be retried by the
// provider.
func (d *Deduper) Forget(id string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(deliveryPrefix + id))
	})
}

// RunGC reclaims value log space. Call periodically.
func (d *Deduper) RunGC() {
	for d.db.RunValueLogGC(0.5) == nil {
	}
}

// Close closes the badger database.
func (d *Deduper) Close() error {
	return d.db.Close()
}
