// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/atomic"
)

var (
	_ database.KeyValueReaderWriterDeleter = (*Database)(nil)
	_ database.Batcher                     = (*Database)(nil)
	_ database.Batch                       = (*Batch)(nil)

	errInvalidOperation = errors.New("invalid operation")
)

type Config struct {
	CacheSize                   int    `yaml:"cacheSize"`
	BytesPerSync                int    `yaml:"bytesPerSync"`
	WALBytesPerSync             int    `yaml:"walBytesPerSync"` // 0 means no background syncing
	MemTableStopWritesThreshold int    `yaml:"memTableStopWritesThreshold"`
	MemTableSize                uint64 `yaml:"memTableSize"`
	MaxOpenFiles                int    `yaml:"maxOpenFiles"`
	ConcurrentCompactions       int    `yaml:"concurrentCompactions"`
	Sync                        bool   `yaml:"sync"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   128 * 1024 * 1024,
		BytesPerSync:                1024 * 1024,
		WALBytesPerSync:             1024 * 1024,
		MemTableStopWritesThreshold: 8,
		MemTableSize:                16 * 1024 * 1024,
		MaxOpenFiles:                4_096,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database is a key-value store backed by pebble.
type Database struct {
	db      *pebble.DB
	metrics *metrics
	wopts   *pebble.WriteOptions

	closed  atomic.Bool
	closing chan struct{}
	closers sync.WaitGroup
}

// New opens (or creates) the database at [file]. The returned registry
// holds the database metrics.
func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
	d := &Database{closing: make(chan struct{})}
	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                       cache,
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MemTableSize:                cfg.MemTableSize,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	opts.Experimental.ReadSamplingMultiplier = -1 // explicitly disable seek compaction
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics
	d.wopts = pebble.NoSync
	if cfg.Sync {
		d.wopts = pebble.Sync
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db

	d.closers.Add(1)
	go func() {
		defer d.closers.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	if db.closed.Load() {
		return false, database.ErrClosed
	}
	_, closer, err := db.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, updateError(err)
	}
	return true, closer.Close()
}

func (db *Database) Get(key []byte) ([]byte, error) {
	if db.closed.Load() {
		return nil, database.ErrClosed
	}
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	ret := slices.Clone(data)
	return ret, closer.Close()
}

func (db *Database) Put(key []byte, value []byte) error {
	if db.closed.Load() {
		return database.ErrClosed
	}
	start := time.Now()
	defer db.observeWrite(start)
	return updateError(db.db.Set(key, value, db.wopts))
}

func (db *Database) Delete(key []byte) error {
	if db.closed.Load() {
		return database.ErrClosed
	}
	start := time.Now()
	defer db.observeWrite(start)
	return updateError(db.db.Delete(key, db.wopts))
}

func (db *Database) observeWrite(start time.Time) {
	db.metrics.putLatency.Observe(float64(time.Since(start)))
}

func (db *Database) NewBatch() database.Batch {
	return &Batch{db: db, batch: db.db.NewBatch()}
}

func (db *Database) Close() error {
	if !db.closed.CompareAndSwap(false, true) {
		return database.ErrClosed
	}
	close(db.closing)
	db.closers.Wait()
	return updateError(db.db.Close())
}

// Batch accumulates writes that are applied atomically by Write.
type Batch struct {
	db    *Database
	batch *pebble.Batch
}

func (b *Batch) Put(key []byte, value []byte) error {
	return b.batch.Set(key, value, nil)
}

func (b *Batch) Delete(key []byte) error {
	return b.batch.Delete(key, nil)
}

// Size is the encoded size of the pending writes.
func (b *Batch) Size() int {
	return b.batch.Len()
}

func (b *Batch) Write() error {
	if b.db.closed.Load() {
		return database.ErrClosed
	}
	b.db.metrics.batchWrites.Inc()
	return updateError(b.batch.Commit(b.db.wopts))
}

func (b *Batch) Reset() {
	b.batch.Reset()
}

// Replay applies the pending writes to [w] in insertion order.
func (b *Batch) Replay(w database.KeyValueWriterDeleter) error {
	reader := b.batch.Reader()
	for {
		kind, k, v, ok := reader.Next()
		if !ok {
			return nil
		}
		switch kind {
		case pebble.InternalKeyKindSet:
			if err := w.Put(k, v); err != nil {
				return err
			}
		case pebble.InternalKeyKindDelete:
			if err := w.Delete(k); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %v", errInvalidOperation, kind)
		}
	}
}

func (b *Batch) Inner() database.Batch {
	return b
}

func updateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	default:
		return err
	}
}
