package contract

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a key or hash field does not exist.
	ErrNotFound = errors.New("key not found")

	// ErrWrongType is returned when an operation targets a key holding a
	// different data type (Redis WRONGTYPE).
	ErrWrongType = errors.New("operation against a key holding the wrong kind of value")
)

// ScoredMember is a sorted-set entry.
type ScoredMember struct {
	Member string
	Score  float64
}

// StateRepository is the key/value + hash + sorted-set contract every
// backend must satisfy. All operations are atomic at the single-key level;
// HSet applies a multi-field batch so no partial update is visible to a
// concurrent reader.
type StateRepository interface {
	Ping(ctx context.Context) error

	// Strings (TTL of 0 means no expiry)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (int64, error)
	Keys(ctx context.Context, pattern string) ([]string, error)

	// Hashes
	HGet(ctx context.Context, key, field string) (string, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HSet(ctx context.Context, key string, fields map[string]interface{}) error
	HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error)

	// Sorted sets
	ZAdd(ctx context.Context, key, member string, score float64) error
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)
}
