package implementation

import (
	"context"
	"errors"
	"strings"
	"time"

	"ship-computer-be/internal/repository/contract"

	"github.com/redis/go-redis/v9"
)

type RedisStateRepositoryImpl struct {
	rdb *redis.Client
}

func NewRedisStateRepository(rdb *redis.Client) contract.StateRepository {
	return &RedisStateRepositoryImpl{rdb: rdb}
}

// translate maps go-redis errors onto the contract sentinels so callers can
// errors.Is against a single vocabulary regardless of backend.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, redis.Nil) {
		return contract.ErrNotFound
	}
	if strings.HasPrefix(err.Error(), "WRONGTYPE") {
		return contract.ErrWrongType
	}
	return err
}

func (r *RedisStateRepositoryImpl) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStateRepositoryImpl) Get(ctx context.Context, key string) (string, error) {
	val, err := r.rdb.Get(ctx, key).Result()
	return val, translate(err)
}

func (r *RedisStateRepositoryImpl) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return translate(r.rdb.Set(ctx, key, value, ttl).Err())
}

func (r *RedisStateRepositoryImpl) Delete(ctx context.Context, keys ...string) error {
	return translate(r.rdb.Del(ctx, keys...).Err())
}

func (r *RedisStateRepositoryImpl) Exists(ctx context.Context, keys ...string) (int64, error) {
	n, err := r.rdb.Exists(ctx, keys...).Result()
	return n, translate(err)
}

func (r *RedisStateRepositoryImpl) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := r.rdb.Keys(ctx, pattern).Result()
	return keys, translate(err)
}

func (r *RedisStateRepositoryImpl) HGet(ctx context.Context, key, field string) (string, error) {
	val, err := r.rdb.HGet(ctx, key, field).Result()
	return val, translate(err)
}

func (r *RedisStateRepositoryImpl) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	val, err := r.rdb.HGetAll(ctx, key).Result()
	return val, translate(err)
}

func (r *RedisStateRepositoryImpl) HSet(ctx context.Context, key string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return translate(r.rdb.HSet(ctx, key, fields).Err())
}

func (r *RedisStateRepositoryImpl) HIncrBy(ctx context.Context, key, field string, incr int64) (int64, error) {
	val, err := r.rdb.HIncrBy(ctx, key, field, incr).Result()
	return val, translate(err)
}

func (r *RedisStateRepositoryImpl) ZAdd(ctx context.Context, key, member string, score float64) error {
	return translate(r.rdb.ZAdd(ctx, key, redis.Z{Member: member, Score: score}).Err())
}

func (r *RedisStateRepositoryImpl) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]contract.ScoredMember, error) {
	zs, err := r.rdb.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, translate(err)
	}
	members := make([]contract.ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		members = append(members, contract.ScoredMember{Member: member, Score: z.Score})
	}
	return members, nil
}
