package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/transitlab/graphrag/rag"
)

// envelope wraps every stored payload with a checksum so torn or tampered
// entries can be detected on read.
type envelope struct {
	Checksum  string          `json:"checksum"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

func checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return fmt.Sprintf("%x", sum[:])
}

// BadgerCache implements Cache on an embedded BadgerDB.
type BadgerCache struct {
	db  *badger.DB
	log *zap.SugaredLogger
}

type badgerOptions struct {
	path       string
	inMemory   bool
	syncWrites bool
	log        *zap.SugaredLogger
}

// BadgerOption configures the badger-backed cache.
type BadgerOption func(*badgerOptions)

// WithPath sets the directory for database files.
func WithPath(path string) BadgerOption {
	return func(o *badgerOptions) { o.path = path }
}

// WithInMemory enables in-memory mode with no disk persistence. Useful for
// tests.
func WithInMemory() BadgerOption {
	return func(o *badgerOptions) { o.inMemory = true }
}

// WithSyncWrites toggles synchronous writes.
func WithSyncWrites(b bool) BadgerOption {
	return func(o *badgerOptions) { o.syncWrites = b }
}

// WithLogger sets the structured logger.
func WithLogger(log *zap.SugaredLogger) BadgerOption {
	return func(o *badgerOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// NewBadgerCache opens a badger-backed cache. Either WithPath or
// WithInMemory must be given.
func NewBadgerCache(opts ...BadgerOption) (*BadgerCache, error) {
	o := &badgerOptions{
		syncWrites: true,
		log:        zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(o)
	}

	var bopts badger.Options
	if o.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if o.path == "" {
			return nil, errors.New("cache path is required for persistent mode")
		}
		if err := os.MkdirAll(o.path, 0o750); err != nil {
			return nil, errors.Wrap(err, "create cache directory")
		}
		bopts = badger.DefaultOptions(o.path)
	}
	bopts = bopts.WithSyncWrites(o.syncWrites).WithLogger(nil)

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, errors.Wrap(err, "open cache database")
	}
	return &BadgerCache{db: db, log: o.log}, nil
}

// Close releases the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// Get returns the payload for key. A corrupt entry is moved to the
// quarantine namespace and reported as a miss wrapped in ErrCacheCorrupt.
func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "read cache entry")
	}

	payload, ok := decodeEnvelope(raw)
	if !ok {
		c.log.Warnw("quarantining corrupt cache entry", "key", key)
		if qerr := c.quarantine(key, raw); qerr != nil {
			return nil, false, qerr
		}
		return nil, false, errors.Wrap(rag.ErrCacheCorrupt, key)
	}
	return payload, true, nil
}

// Put stores payload under key inside a checksummed envelope. The write is
// atomic, a reader sees either the old entry or the new one.
func (c *BadgerCache) Put(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := envelope{
		Checksum:  checksum(payload),
		CreatedAt: time.Now().UTC(),
		Payload:   json.RawMessage(payload),
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}
	err = c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	return errors.Wrap(err, "write cache entry")
}

// Invalidate removes one entry. Missing keys are ignored.
func (c *BadgerCache) Invalidate(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	return errors.Wrap(err, "delete cache entry")
}

// InvalidatePrefix removes every entry under prefix.
func (c *BadgerCache) InvalidatePrefix(ctx context.Context, prefix string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	keys, err := c.keysWithPrefix(prefix)
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, key := range keys {
		err := c.db.Update(func(txn *badger.Txn) error {
			return txn.Delete(key)
		})
		if err != nil {
			return removed, errors.Wrap(err, "delete cache entry")
		}
		removed++
	}
	return removed, nil
}

// Clear removes every entry including quarantined ones.
func (c *BadgerCache) Clear(ctx context.Context) (int, error) {
	return c.InvalidatePrefix(ctx, "")
}

// Stats counts entries by namespace.
func (c *BadgerCache) Stats(ctx context.Context) (*Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := &Stats{}
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			stats.TotalBytes += item.EstimatedSize()
			switch {
			case strings.HasPrefix(key, PrefixCommunity):
				stats.CommunityEntries++
			case strings.HasPrefix(key, PrefixSummary):
				stats.SummaryEntries++
			case strings.HasPrefix(key, PrefixQuarantine):
				stats.QuarantineEntries++
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan cache")
	}
	return stats, nil
}

// Validate checks every live entry's envelope and checksum. Corrupt entries
// are moved to the quarantine namespace for later inspection.
func (c *BadgerCache) Validate(ctx context.Context) (*ValidationReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &ValidationReport{}
	var corrupt []string
	err := c.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := string(item.Key())
			if strings.HasPrefix(key, PrefixQuarantine) {
				continue
			}
			raw, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if _, ok := decodeEnvelope(raw); ok {
				report.Healthy++
			} else {
				corrupt = append(corrupt, key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan cache")
	}

	for _, key := range corrupt {
		var raw []byte
		err := c.db.View(func(txn *badger.Txn) error {
			item, err := txn.Get([]byte(key))
			if err != nil {
				return err
			}
			raw, err = item.ValueCopy(nil)
			return err
		})
		if err != nil {
			continue // removed concurrently
		}
		if err := c.quarantine(key, raw); err != nil {
			return nil, err
		}
		c.log.Warnw("quarantined corrupt cache entry", "key", key)
		report.Corrupt++
		report.Quarantined = append(report.Quarantined, key)
	}
	return report, nil
}

// quarantine moves a raw entry under the quarantine prefix and deletes the
// original key in one transaction.
func (c *BadgerCache) quarantine(key string, raw []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(PrefixQuarantine+key), raw); err != nil {
			return err
		}
		return txn.Delete([]byte(key))
	})
	return errors.Wrap(err, "quarantine cache entry")
}

func (c *BadgerCache) keysWithPrefix(prefix string) ([][]byte, error) {
	var keys [][]byte
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "scan cache")
	}
	return keys, nil
}

func decodeEnvelope(raw []byte) ([]byte, bool) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	if env.Checksum == "" || checksum(env.Payload) != env.Checksum {
		return nil, false
	}
	return env.Payload, true
}
