package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"ship-computer-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const clusterChannel = "bridge_events"

// Hub fans ship state snapshots out to every connected bridge console.
// Consoles are read-only observers; nothing a client writes is acted on.
type Hub struct {
	// Registered clients map: UserID -> List of Clients (multi-device)
	clients map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance communication. Nil when the
	// state store is in-memory; broadcasts then stay instance-local.
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

func (h *Hub) Run() {
	// Start Redis Subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Console connected", map[string]interface{}{"user_id": client.UserID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.UserID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.UserID]) == 0 {
					delete(h.clients, client.UserID)
					h.logger.Info("Hub", "Console fully disconnected", map[string]interface{}{"user_id": client.UserID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastState pushes a full systems snapshot to every local console
// and relays it to sibling instances through Redis.
func (h *Hub) BroadcastState(systems map[string]int) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "state_update",
		"systems": systems,
	})
	h.broadcastLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), clusterChannel, data)
	}
}

// BroadcastAlert pushes a named alert frame, used for radiation leaks
// and location denials that consoles render as flashing banners.
func (h *Hub) BroadcastAlert(alert string, detail map[string]interface{}) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":   "alert",
		"alert":  alert,
		"detail": detail,
	})
	h.broadcastLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), clusterChannel, data)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.clients {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Console send buffer full, dropping connection", map[string]interface{}{"user_id": client.UserID})
				close(client.Send)
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	// Every instance subscribes to the same channel and re-broadcasts
	// locally. Frames published by this instance come back too; that is
	// harmless because consoles render the latest snapshot idempotently.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for msg := range ch {
		if !json.Valid([]byte(msg.Payload)) {
			log.Printf("Redis msg parse error: invalid frame on %s", clusterChannel)
			continue
		}
		h.broadcastLocal([]byte(msg.Payload))
	}
}
