package database

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"ship-computer-be/internal/config"
	"ship-computer-be/internal/pkg/logger"
	"ship-computer-be/internal/repository/contract"
	"ship-computer-be/internal/repository/implementation"
	"ship-computer-be/internal/repository/memory"
)

const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// Connect returns the state store plus the raw client when Redis is in
// play. The client is nil in mock mode or after fallback; callers that
// want Redis pub/sub must check for that.
//
// Connection failures degrade to the in-memory store rather than
// aborting startup, so the ship stays operable on a laptop with no
// Redis running. State is then process-local and lost on restart.
func Connect(cfg config.RedisConfig, log logger.ILogger) (contract.StateRepository, *redis.Client) {
	if cfg.UseMock {
		log.Info("Database", "Mock store requested, using in-memory state", nil)
		return memory.NewStateRepository(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	for attempt := 1; attempt <= connectAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err == nil {
			log.Info("Database", "Connected to Redis", map[string]interface{}{"addr": cfg.Addr})
			return implementation.NewRedisStateRepository(client), client
		}
		log.Warn("Database", "Redis not reachable, retrying", map[string]interface{}{
			"addr":    cfg.Addr,
			"attempt": attempt,
			"error":   err.Error(),
		})
		if attempt < connectAttempts {
			time.Sleep(connectBackoff)
		}
	}

	log.Error("Database", "Redis unavailable, falling back to in-memory state", map[string]interface{}{"addr": cfg.Addr})
	_ = client.Close()
	return memory.NewStateRepository(), nil
}
