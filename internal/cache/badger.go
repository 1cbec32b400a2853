package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v4"
)

// BadgerCache is an embedded Cache for single-node deployments and tests.
// An empty path keeps everything in memory.
type BadgerCache struct {
	db *badgerdb.DB
}

func NewBadgerCache(path string) (*BadgerCache, error) {
	opts := badgerdb.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

func (b *BadgerCache) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value []byte
	err := b.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return "", ErrMiss
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (b *BadgerCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry := badgerdb.NewEntry([]byte(key), []byte(value))
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.SetEntry(entry)
	})
}

func (b *BadgerCache) Del(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(key))
	})
}

func (b *BadgerCache) Alive(ctx context.Context) bool {
	if ctx.Err() != nil || b.db.IsClosed() {
		return false
	}
	return b.db.View(func(txn *badgerdb.Txn) error { return nil }) == nil
}

func (b *BadgerCache) Close() error {
	return b.db.Close()
}
