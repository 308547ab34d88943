package memory

import (
	"context"
	"path"
	"sort"
	"sync"
	"time"

	"ship-computer-be/internal/repository/contract"

	"github.com/patrickmn/go-cache"
)

// StateRepository is the in-process fallback backend. String keys live in a
// go-cache instance so TTL expiry behaves like Redis; hashes and sorted sets
// have no per-field TTL semantics and sit in mutex-guarded maps.
type StateRepository struct {
	mu      sync.RWMutex
	strings *cache.Cache
	hashes  map[string]map[string]string
	zsets   map[string]map[string]float64
}

func NewStateRepository() *StateRepository {
	return &StateRepository{
		strings: cache.New(cache.NoExpiration, 1*time.Minute),
		hashes:  make(map[string]map[string]string),
		zsets:   make(map[string]map[string]float64),
	}
}

func (r *StateRepository) Ping(ctx context.Context) error {
	return nil
}

// typeOf reports which structure currently owns a key. Callers must hold at
// least the read lock.
func (r *StateRepository) typeOf(key string) string {
	if _, ok := r.strings.Get(key); ok {
		return "string"
	}
	if _, ok := r.hashes[key]; ok {
		return "hash"
	}
	if _, ok := r.zsets[key]; ok {
		return "zset"
	}
	return ""
}

func (r *StateRepository) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if val, ok := r.strings.Get(key); ok {
		return val.(string), nil
	}
	if r.typeOf(key) != "" {
		return "", contract.ErrWrongType
	}
	return "", contract.ErrNotFound
}

func (r *StateRepository) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Redis SET overwrites a key of any type.
	delete(r.hashes, key)
	delete(r.zsets, key)
	if ttl <= 0 {
		r.strings.Set(key, value, cache.NoExpiration)
	} else {
		r.strings.Set(key, value, ttl)
	}
	return nil
}

func (r *StateRepository) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		r.strings.Delete(key)
		delete(r.hashes, key)
		delete(r.zsets, key)
	}
	return nil
}

func (r *StateRepository) Exists(ctx context.Context, keys ...string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var count int64
	for _, key := range keys {
		if r.typeOf(key) != "" {
			count++
		}
	}
	return count, nil
}

func (r *StateRepository) Keys(ctx context.Context, pattern string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var keys []string
	for key := range r.strings.Items() {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	for key := range r.hashes {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	for key := range r.zsets {
		if ok, _ := path.Match(pattern, key); ok {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (r *StateRepository) HGet(ctx context.Context, key, field string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.hashes[key]
	if !ok {
		if r.typeOf(key) != "" {
			return "", contract.ErrWrongType
		}
		return "", contract.ErrNotFound
	}
	val, ok := hash[field]
	if !ok {
		return "", contract.ErrNotFound
	}
	return val, nil
}

func (r *StateRepository) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	hash, ok := r.hashes[key]
	if !ok {
		if r.typeOf(key) != "" {
			return nil, contract.ErrWrongType
		}
		// Redis returns an empty hash, not an error.
		return map[string]string{}, nil
	}
	out := make(map[string]string, len(hash))
	for k, v := range hash {
		out[k] = v
	}
	return out, nil
}

func (r *StateRepository) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if t := r.typeOf(key); t != "" && t != "hash" {
		return contract.ErrWrongType
	}
	hash, ok := r.hashes[key]
	if !ok {
		hash = make(map[string]string)
		r.hashes[key] = hash
	}
	for k, v := range fields {
		hash[k] = stringify(v)
	}
	return nil
}

func (r *StateRepository) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t := r.typeOf(key); t != "" && t != "hash" {
		return 0, contract.ErrWrongType
	}
	hash, ok := r.hashes[key]
	if !ok {
		hash = make(map[string]string)
		r.hashes[key] = hash
	}
	current := parseInt(hash[field])
	current += incr
	hash[field] = stringify(current)
	return current, nil
}

func (r *StateRepository) ZAdd(ctx context.Context, key, member string, score float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t := r.typeOf(key); t != "" && t != "zset" {
		return contract.ErrWrongType
	}
	zset, ok := r.zsets[key]
	if !ok {
		zset = make(map[string]float64)
		r.zsets[key] = zset
	}
	zset[member] = score
	return nil
}

func (r *StateRepository) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]contract.ScoredMember, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	zset, ok := r.zsets[key]
	if !ok {
		if r.typeOf(key) != "" {
			return nil, contract.ErrWrongType
		}
		return []contract.ScoredMember{}, nil
	}

	members := make([]contract.ScoredMember, 0, len(zset))
	for member, score := range zset {
		members = append(members, contract.ScoredMember{Member: member, Score: score})
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].Score != members[j].Score {
			return members[i].Score > members[j].Score
		}
		// Equal scores order in reverse lexicographical order, like Redis.
		return members[i].Member > members[j].Member
	})

	// Redis range semantics: inclusive stop, negative indices from the end.
	n := int64(len(members))
	if start < 0 {
		start = n + start
	}
	if start < 0 {
		start = 0
	}
	if stop < 0 {
		stop = n + stop
	}
	if stop >= n {
		stop = n - 1
	}
	if start >= n || stop < start {
		return []contract.ScoredMember{}, nil
	}
	return members[start : stop+1], nil
}
