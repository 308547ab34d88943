// Package semcache is the semantic response cache. Entries are keyed by a
// hash of the normalized command text plus the three context fields that
// change what the computer should answer (rank level, mission stage,
// location), so a rank or location transition can never replay a stale
// response for the same words.
package semcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"ship-computer-be/internal/constant"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/internal/repository/contract"
	"ship-computer-be/pkg/engine"
)

type Cache struct {
	store  contract.StateRepository
	logger logger.ILogger
}

func NewCache(store contract.StateRepository, log logger.ILogger) *Cache {
	return &Cache{store: store, logger: log}
}

// Key derives the cache key. It is a pure function of its inputs: identical
// inputs always produce identical keys.
func Key(text string, rankLevel, missionStage int, location string) string {
	normalized := strings.TrimSpace(strings.ToLower(text))
	raw := fmt.Sprintf("%d-%d-%s:%s", rankLevel, missionStage, location, normalized)
	sum := sha256.Sum256([]byte(raw))
	return constant.KeySemCachePrefix + hex.EncodeToString(sum[:])
}

// Lookup returns the cached result for key, if present and decodable. An
// entry that fails to deserialize is treated as a miss so the request
// degrades to a model call instead of failing.
func (c *Cache) Lookup(ctx context.Context, key string) (*engine.Result, bool) {
	raw, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var res engine.Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		c.logger.Warn("SemCache", "Undecodable cache entry, degrading to model", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return nil, false
	}
	if res.Updates == nil {
		res.Updates = map[string]int{}
	}
	return &res, true
}

// Store writes a result under key with the fixed TTL.
func (c *Cache) Store(ctx context.Context, key string, res *engine.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, string(data), constant.SemCacheTTL)
}
