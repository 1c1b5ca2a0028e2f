package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"matchtrip-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ClusterChannel carries pushes between API instances.
const ClusterChannel = "cluster_events"

const broadcastTarget = "*"

// Envelope is the frame written to websocket clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterPayload struct {
	Origin       string          `json:"origin"`
	TargetUserID string          `json:"target_user_id"`
	Message      json.RawMessage `json:"message"`
}

type Hub struct {
	// UserID -> connections (multi-device)
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis fan-out to the other instances, optional
	rdb *redis.Client
	// instanceID lets an instance skip its own cluster messages
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			h.logger.Debug("WS_HUB", "Client registered", map[string]interface{}{"user_id": client.UserID})
		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := h.clients[client.UserID]
	for i, c := range clients {
		if c == client {
			h.clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.clients[client.UserID]) == 0 {
		delete(h.clients, client.UserID)
	}
}

// Online reports whether userID has a connection on this instance.
func (h *Hub) Online(userID uuid.UUID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID]) > 0
}

// Send pushes a frame to every connection of userID, locally and through
// Redis to the other instances.
func (h *Hub) Send(userID uuid.UUID, kind string, data interface{}) {
	msg, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		h.logger.Error("WS_HUB", "Failed to encode frame", map[string]interface{}{"error": err.Error()})
		return
	}
	h.deliverLocal(userID.String(), msg)
	h.publish(userID.String(), msg)
}

// Broadcast pushes a frame to every connected client of the cluster.
func (h *Hub) Broadcast(kind string, data interface{}) {
	msg, err := json.Marshal(Envelope{Type: kind, Data: data})
	if err != nil {
		h.logger.Error("WS_HUB", "Failed to encode frame", map[string]interface{}{"error": err.Error()})
		return
	}
	h.deliverLocal(broadcastTarget, msg)
	h.publish(broadcastTarget, msg)
}

func (h *Hub) deliverLocal(target string, msg []byte) {
	var slow []*Client

	h.mu.RLock()
	if target == broadcastTarget {
		for _, clients := range h.clients {
			slow = append(slow, offer(clients, msg)...)
		}
	} else if uid, err := uuid.Parse(target); err == nil {
		slow = offer(h.clients[uid], msg)
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("WS_HUB", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": c.UserID})
		h.remove(c)
	}
}

// offer queues msg on every client and returns the ones whose buffer is full.
func offer(clients []*Client, msg []byte) []*Client {
	var slow []*Client
	for _, client := range clients {
		select {
		case client.Send <- msg:
		default:
			slow = append(slow, client)
		}
	}
	return slow
}

func (h *Hub) publish(target string, msg []byte) {
	if h.rdb == nil {
		return
	}
	payload, _ := json.Marshal(clusterPayload{Origin: h.instanceID, TargetUserID: target, Message: msg})
	if err := h.rdb.Publish(context.Background(), ClusterChannel, payload).Err(); err != nil {
		h.logger.Warn("WS_HUB", "Cluster publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// subscribeToRedis delivers frames published by other instances to the
// clients connected here.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, ClusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var payload clusterPayload
		if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
			h.logger.Warn("WS_HUB", "Bad cluster message", map[string]interface{}{"error": err.Error()})
			continue
		}
		if payload.Origin == h.instanceID {
			continue
		}
		h.deliverLocal(payload.TargetUserID, payload.Message)
	}
}
