package cache

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/quantmind-br/docmanifest/internal/config"
	"github.com/quantmind-br/docmanifest/internal/domain"
)

// BadgerCache is a digest cache backed by BadgerDB
type BadgerCache struct {
	db       *badger.DB
	ttl      time.Duration
	inMemory bool
}

// NewBadgerCache opens (or creates) a BadgerDB digest cache
func NewBadgerCache(opts Options) (*BadgerCache, error) {
	var badgerOpts badger.Options

	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Directory == "" {
			opts.Directory = config.DigestCacheDir()
		}

		if err := os.MkdirAll(opts.Directory, 0755); err != nil {
			return nil, err
		}

		badgerOpts = badger.DefaultOptions(opts.Directory)
	}

	// Disable logging unless explicitly enabled
	if !opts.Logger {
		badgerOpts = badgerOpts.WithLogger(nil)
	}

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, err
	}

	return &BadgerCache{db: db, ttl: opts.TTL, inMemory: opts.InMemory}, nil
}

// Get returns the digest stored under key
func (c *BadgerCache) Get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return domain.ErrCacheMiss
			}
			return err
		}

		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}

	return string(value), nil
}

// Set stores digest under key with the configured TTL
func (c *BadgerCache) Set(ctx context.Context, key string, digest string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), []byte(digest))
		if c.ttl > 0 {
			e = e.WithTTL(c.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Size returns the number of entries in the cache
func (c *BadgerCache) Size() int64 {
	var count int64
	_ = c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Close runs one value log GC pass and releases the database
func (c *BadgerCache) Close() error {
	if !c.inMemory {
		// ErrNoRewrite is the common outcome for a small cache
		_ = c.db.RunValueLogGC(0.5)
	}
	return c.db.Close()
}
