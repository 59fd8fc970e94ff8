package ws

import (
	"encoding/json"
	"sync"

	"gigaaura/internal/domain"
	"gigaaura/internal/models"
)

// Event is the envelope every subscriber receives. Payloads are hints to
// refetch, not the data of record.
type Event struct {
	Channel string      `json:"channel"`
	Event   string      `json:"event"`
	Payload interface{} `json:"payload,omitempty"`
}

// Client is one WebSocket connection and the channels it subscribed to.
type Client struct {
	Send     chan []byte
	channels map[string]struct{}
	hub      *Hub
	mu       sync.Mutex
	closed   bool
}

func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
	if c.hub != nil {
		c.hub.unregister(c)
	}
}

func (c *Client) subscribed(channel string) bool {
	_, ok := c.channels[channel]
	return ok
}

// trySend queues data without blocking. Reports false when the client is
// already closed or its buffer is full.
func (c *Client) trySend(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Hub fans events out to subscribed clients. Sends are non-blocking: a slow
// consumer drops events rather than stalling the publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*Client]struct{})}
}

// Register adds a client subscribed to the given channels. Unknown channel
// names are kept as-is; they simply never receive events.
func (h *Hub) Register(channels []string) *Client {
	c := &Client{
		Send:     make(chan []byte, 64),
		channels: make(map[string]struct{}, len(channels)),
		hub:      h,
	}
	for _, ch := range channels {
		c.channels[ch] = struct{}{}
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	return c
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

// Publish broadcasts an event to every client subscribed to the channel.
func (h *Hub) Publish(channel, event string, payload interface{}) {
	data, err := json.Marshal(Event{Channel: channel, Event: event, Payload: payload})
	if err != nil {
		return
	}
	h.mu.RLock()
	targets := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		if c.subscribed(channel) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range targets {
		c.trySend(data)
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishPoints tells other sessions a wallet's points changed. Satisfies the
// ledger's Notifier.
func (h *Hub) PublishPoints(wallet string, state models.PointsState) {
	h.Publish(domain.ChannelNotifications, domain.EventUpdated, map[string]interface{}{
		"walletAddress": wallet,
		"totalPoints":   state.TotalPoints,
	})
}

// PublishPost announces a new or updated post on the posts channel.
func (h *Hub) PublishPost(event, postID string) {
	h.Publish(domain.ChannelPosts, event, map[string]interface{}{"postId": postID})
}

// PublishNotification pings the recipient's sessions to refetch.
func (h *Hub) PublishNotification(recipient string) {
	h.Publish(domain.ChannelNotifications, domain.EventNew, map[string]interface{}{
		"recipientWallet": recipient,
	})
}
