package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// UpdatesChannel is the Redis channel replicas use to share live updates.
const UpdatesChannel = "crisisguard:updates"

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub pushes dashboard events to every connected browser. With a Redis
// client, events go through UpdatesChannel so all replicas see them;
// without one they are broadcast locally.
type Hub struct {
	mu      sync.RWMutex
	clients map[uuid.UUID]*client
	redis   *redis.Client
	logger  *zap.Logger
}

func NewHub(redisClient *redis.Client, logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*client),
		redis:   redisClient,
		logger:  logger,
	}
}

func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.New()
	h.register(id, conn)

	go func() {
		defer h.unregister(id)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *Hub) register(id uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[id] = &client{conn: conn}
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("websocket connected", zap.String("client_id", id.String()), zap.Int("total", total))
}

func (h *Hub) unregister(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	delete(h.clients, id)
	h.mu.Unlock()

	if ok {
		c.conn.Close()
		h.logger.Debug("websocket disconnected", zap.String("client_id", id.String()))
	}
}

// ConnectionCount returns the number of open sockets on this replica.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends an event to all dashboard clients. Errors are logged; a
// lost live update never fails the request that caused it.
func (h *Hub) Publish(ctx context.Context, eventType string, payload interface{}) {
	data, err := json.Marshal(models.WSMessage{Type: eventType, Payload: payload})
	if err != nil {
		h.logger.Error("failed to encode websocket event", zap.String("type", eventType), zap.Error(err))
		return
	}

	if h.redis != nil {
		err := h.redis.Publish(ctx, UpdatesChannel, data).Err()
		if err == nil {
			return
		}
		h.logger.Warn("redis publish failed, broadcasting locally", zap.Error(err))
	}
	h.broadcast(data)
}

// Run relays UpdatesChannel to local clients until ctx is done. It returns
// immediately when the hub has no Redis client.
func (h *Hub) Run(ctx context.Context) {
	if h.redis == nil {
		return
	}

	pubsub := h.redis.Subscribe(ctx, UpdatesChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.broadcast([]byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.RLock()
	targets := make(map[uuid.UUID]*client, len(h.clients))
	for id, c := range h.clients {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, c := range targets {
		if err := c.write(data); err != nil {
			h.logger.Debug("websocket write failed", zap.String("client_id", id.String()), zap.Error(err))
			h.unregister(id)
		}
	}
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[uuid.UUID]*client)
	h.mu.Unlock()

	for _, c := range clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		c.mu.Unlock()
		c.conn.Close()
	}
}
