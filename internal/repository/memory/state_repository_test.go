package memory

import (
	"context"
	"testing"
	"time"

	"ship-computer-be/internal/repository/contract"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringOps(t *testing.T) {
	r := NewStateRepository()
	ctx := context.Background()

	_, err := r.Get(ctx, "missing")
	assert.ErrorIs(t, err, contract.ErrNotFound)

	require.NoError(t, r.Set(ctx, "k", "v", 0))
	val, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, r.Delete(ctx, "k"))
	_, err = r.Get(ctx, "k")
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestSetWithTTLExpires(t *testing.T) {
	r := NewStateRepository()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "ephemeral", "v", 20*time.Millisecond))
	val, err := r.Get(ctx, "ephemeral")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	time.Sleep(40 * time.Millisecond)
	_, err = r.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, contract.ErrNotFound)
}

func TestHashOps(t *testing.T) {
	r := NewStateRepository()
	ctx := context.Background()

	// Missing hash reads as empty, not as an error.
	all, err := r.HGetAll(ctx, "h")
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, r.HSet(ctx, "h", map[string]interface{}{"a": 1, "b": "two"}))
	val, err := r.HGet(ctx, "h", "a")
	require.NoError(t, err)
	assert.Equal(t, "1", val)

	_, err = r.HGet(ctx, "h", "nope")
	assert.ErrorIs(t, err, contract.ErrNotFound)

	all, err = r.HGetAll(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "1", "b": "two"}, all)

	n, err := r.HIncrBy(ctx, "h", "a", 5)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)

	n, err = r.HIncrBy(ctx, "h", "fresh", 3)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestWrongTypeErrors(t *testing.T) {
	r := NewStateRepository()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "s", "v", 0))
	err := r.HSet(ctx, "s", map[string]interface{}{"a": 1})
	assert.ErrorIs(t, err, contract.ErrWrongType)
	_, err = r.HGet(ctx, "s", "a")
	assert.ErrorIs(t, err, contract.ErrWrongType)

	require.NoError(t, r.HSet(ctx, "h", map[string]interface{}{"a": 1}))
	_, err = r.Get(ctx, "h")
	assert.ErrorIs(t, err, contract.ErrWrongType)

	// SET overwrites a key of any type, like Redis.
	require.NoError(t, r.Set(ctx, "h", "now a string", 0))
	val, err := r.Get(ctx, "h")
	require.NoError(t, err)
	assert.Equal(t, "now a string", val)
}

func TestKeysPatternMatch(t *testing.T) {
	r := NewStateRepository()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "auth_session:alice", "1234", 0))
	require.NoError(t, r.Set(ctx, "auth_session:bob", "5678", 0))
	require.NoError(t, r.Set(ctx, "other", "x", 0))

	keys, err := r.Keys(ctx, "auth_session:*")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"auth_session:alice", "auth_session:bob"}, keys)
}

func TestZSetOps(t *testing.T) {
	r := NewStateRepository()
	ctx := context.Background()

	empty, err := r.ZRevRangeWithScores(ctx, "lb", 0, 9)
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, r.ZAdd(ctx, "lb", "alice", 100))
	require.NoError(t, r.ZAdd(ctx, "lb", "bob", 300))
	require.NoError(t, r.ZAdd(ctx, "lb", "carol", 200))

	top, err := r.ZRevRangeWithScores(ctx, "lb", 0, 1)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bob", top[0].Member)
	assert.Equal(t, "carol", top[1].Member)

	// ZADD on an existing member replaces the score.
	require.NoError(t, r.ZAdd(ctx, "lb", "alice", 999))
	top, err = r.ZRevRangeWithScores(ctx, "lb", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", top[0].Member)

	// Negative stop means "through the end".
	all, err := r.ZRevRangeWithScores(ctx, "lb", 0, -1)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestExistsCountsAllTypes(t *testing.T) {
	r := NewStateRepository()
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "s", "v", 0))
	require.NoError(t, r.HSet(ctx, "h", map[string]interface{}{"a": 1}))
	require.NoError(t, r.ZAdd(ctx, "z", "m", 1))

	n, err := r.Exists(ctx, "s", "h", "z", "missing")
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}
