package market

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventType for ticker messages
type EventType string

const (
	EventPriceUpdate  EventType = "price_update"
	EventMarketOpened EventType = "market_opened"
	EventMarketClosed EventType = "market_closed"
	EventSettlement   EventType = "settlement"
	EventIPOUpdated   EventType = "ipo_updated"
)

const tickerChannel = "market:events"

// Event is one ticker message pushed to connected clients
type Event struct {
	Type      EventType `json:"type"`
	Price     int64     `json:"price,omitempty"`
	Volume    int64     `json:"volume,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Connection represents one subscribed WebSocket client
type Connection struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub broadcasts market events to WebSocket clients. With Redis
// configured, events are fanned out across instances via Pub/Sub;
// without it, broadcasting stays instance-local.
type Hub struct {
	connections map[*Connection]bool
	redis       *redis.Client
	pubsub      *redis.PubSub

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	local      chan []byte

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a market ticker hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		connections: make(map[*Connection]bool),
		redis:       redisClient,
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		local:       make(chan []byte, 64),
		ctx:         ctx,
		cancel:      cancel,
	}
	if redisClient != nil {
		h.pubsub = redisClient.Subscribe(ctx, tickerChannel)
	}
	return h
}

// Run processes registrations and fan-out until Stop is called
func (h *Hub) Run() {
	var redisEvents <-chan *redis.Message
	if h.pubsub != nil {
		redisEvents = h.pubsub.Channel()
	}

	for {
		select {
		case <-h.ctx.Done():
			return
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()
		case conn := <-h.unregister:
			h.mu.Lock()
			if h.connections[conn] {
				delete(h.connections, conn)
				close(conn.Send)
			}
			h.mu.Unlock()
		case msg, ok := <-redisEvents:
			if !ok {
				redisEvents = nil
				continue
			}
			h.fanOut([]byte(msg.Payload))
		case payload := <-h.local:
			h.fanOut(payload)
		}
	}
}

// Stop shuts the hub down
func (h *Hub) Stop() {
	h.cancel()
	if h.pubsub != nil {
		_ = h.pubsub.Close()
	}
}

// Register adds a client connection. After Stop the hub accepts no
// more clients and the connection's send channel is closed so its
// write pump terminates.
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.ctx.Done():
		close(conn.Send)
	}
}

// Unregister removes a client connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

// Broadcast publishes an event to all subscribers
func (h *Hub) Broadcast(ctx context.Context, ev Event) {
	ev.Timestamp = time.Now()
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if h.redis != nil {
		if err := h.redis.Publish(ctx, tickerChannel, payload).Err(); err != nil {
			log.Warn().Err(err).Msg("Ticker publish failed, delivering locally")
			h.deliverLocal(payload)
		}
		return
	}
	h.deliverLocal(payload)
}

// deliverLocal hands an event to the run loop without blocking a
// stopped hub; once the loop has exited nothing drains the channel.
func (h *Hub) deliverLocal(payload []byte) {
	select {
	case h.local <- payload:
	case <-h.ctx.Done():
	}
}

func (h *Hub) fanOut(payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.connections {
		select {
		case conn.Send <- payload:
		default:
			// Slow consumer, drop the event
		}
	}
}

// WritePump drains the connection's send channel to the socket
func (c *Connection) WritePump() {
	defer c.Conn.Close()
	for payload := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}
