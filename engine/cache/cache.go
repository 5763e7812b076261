// Package cache stores encoded query records in Redis so repeated
// compilations of the same source text can skip the parse and encode
// steps. Only queries whose metadata carries the CACHE_RESULT hint are
// admitted.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nsql-lang/nsql/engine/codec"
	"github.com/nsql-lang/nsql/mapping"
)

// ErrMiss is returned by Get when no record is stored for the source.
var ErrMiss = errors.New("cache: record not found")

// DefaultPrefix namespaces cache keys in a shared Redis instance.
const DefaultPrefix = "nsql:record"

// Store is a Redis-backed record cache.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// New wraps a Redis client. An empty prefix falls back to DefaultPrefix.
func New(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

// Key derives the cache key for a source string. The key is a digest of
// the source text, so formatting-identical queries share an entry.
func (s *Store) Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return fmt.Sprintf("%s:%s", s.prefix, hex.EncodeToString(sum[:16]))
}

// Cacheable reports whether metadata admits the record into the cache.
func Cacheable(meta *codec.ExecutionMetadata) bool {
	return meta != nil && meta.Hints.Has(mapping.HintCacheResult)
}

// TTL derives the entry lifetime from the query's execution timeout.
// A zero timeout falls back to the default metadata timeout.
func TTL(meta *codec.ExecutionMetadata) time.Duration {
	ms := codec.DefaultMetadata().TimeoutMS
	if meta != nil && meta.TimeoutMS > 0 {
		ms = meta.TimeoutMS
	}
	return time.Duration(ms) * time.Millisecond
}

// Put stores an encoded record. Records whose metadata lacks the
// CACHE_RESULT hint are silently skipped.
func (s *Store) Put(ctx context.Context, source string, record []byte, meta *codec.ExecutionMetadata) error {
	if !Cacheable(meta) {
		return nil
	}
	err := s.rdb.Set(ctx, s.Key(source), record, TTL(meta)).Err()
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Get fetches the encoded record for a source string. Returns ErrMiss
// when nothing is stored.
func (s *Store) Get(ctx context.Context, source string) ([]byte, error) {
	data, err := s.rdb.Get(ctx, s.Key(source)).Bytes()
	if err == redis.Nil {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	return data, nil
}

// Invalidate removes the entry for a source string, if present.
func (s *Store) Invalidate(ctx context.Context, source string) error {
	err := s.rdb.Del(ctx, s.Key(source)).Err()
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

// Flush removes every entry under the store's prefix. It scans rather
// than using KEYS so a large cache does not block the server.
func (s *Store) Flush(ctx context.Context) error {
	pattern := s.prefix + ":*"
	var cursor uint64
	for {
		keys, next, err := s.rdb.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("cache flush: %w", err)
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("cache flush: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
