package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.etcd.io/bbolt"
)

// geocodeBucket is the bbolt bucket holding cached lookups.
const geocodeBucket = "geocode"

// CachedProvider wraps a Provider with a bbolt-backed cache keyed by the
// normalized address. Only non-empty results are stored, so a miss at the
// provider is retried on the next save.
type CachedProvider struct {
	next Provider
	db   *bbolt.DB
	log  *slog.Logger
}

// NewCachedProvider opens (or creates) the cache file at path.
// Call Close when done.
func NewCachedProvider(next Provider, path string, log *slog.Logger) (*CachedProvider, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("geo.NewCachedProvider: create cache dir: %w", err)
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("geo.NewCachedProvider: open %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(geocodeBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("geo.NewCachedProvider: create bucket: %w", err)
	}

	return &CachedProvider{next: next, db: db, log: log}, nil
}

// Geocode returns the cached candidates for address, or asks the wrapped
// provider and caches a non-empty answer. Cache failures are logged and
// never fail the lookup.
func (c *CachedProvider) Geocode(ctx context.Context, address string) ([]Candidate, error) {
	key := cacheKey(address)

	cached, ok, err := c.get(key)
	if err != nil {
		c.log.WarnContext(ctx, "geocode cache read failed", "address", address, "error", err)
	}
	if ok {
		return cached, nil
	}

	candidates, err := c.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if len(candidates) > 0 {
		if err := c.put(key, candidates); err != nil {
			c.log.WarnContext(ctx, "geocode cache write failed", "address", address, "error", err)
		}
	}
	return candidates, nil
}

// Close releases the cache file lock.
func (c *CachedProvider) Close() error {
	return c.db.Close()
}

func (c *CachedProvider) get(key string) ([]Candidate, bool, error) {
	var raw []byte
	err := c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(geocodeBucket)).Get([]byte(key)); v != nil {
			// v is only valid inside the transaction.
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil || raw == nil {
		return nil, false, err
	}

	var candidates []Candidate
	if err := json.Unmarshal(raw, &candidates); err != nil {
		return nil, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return candidates, true, nil
}

func (c *CachedProvider) put(key string, candidates []Candidate) error {
	raw, err := json.Marshal(candidates)
	if err != nil {
		return fmt.Errorf("encode entry: %w", err)
	}
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(geocodeBucket)).Put([]byte(key), raw)
	})
}

// cacheKey collapses case and whitespace so trivially different spellings
// of an address share an entry.
func cacheKey(address string) string {
	return strings.ToLower(strings.Join(strings.Fields(address), " "))
}
