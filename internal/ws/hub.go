package ws

import (
	"context"
	"sync"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/workhive/workhive-api/internal/presence"
	"github.com/workhive/workhive-api/internal/realtime"
)

// Hub bridges the in-process broker to websocket connections. Each
// client gets one subscription on its own user topic; closing the
// connection cancels the subscription, so nothing keeps publishing into
// a dead socket.
type Hub struct {
	broker   *realtime.Broker
	presence *presence.Tracker

	mu      sync.RWMutex
	clients map[uint]map[*Client]struct{}
}

func NewHub(broker *realtime.Broker, tracker *presence.Tracker) *Hub {
	return &Hub{
		broker:   broker,
		presence: tracker,
		clients:  map[uint]map[*Client]struct{}{},
	}
}

type Client struct {
	UserID uint
	Conn   *websocket.Conn

	sub    *realtime.Subscription
	ctx    context.Context
	cancel context.CancelFunc
}

func (h *Hub) AddClient(userID uint, conn *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Client{
		UserID: userID,
		Conn:   conn,
		sub:    h.broker.Subscribe(realtime.UserTopic(userID)),
		ctx:    ctx,
		cancel: cancel,
	}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	_ = h.presence.Heartbeat(ctx, userID)

	go c.writeLoop()
	go h.keepAliveLoop(c)

	return c
}

func (h *Hub) RemoveClient(c *Client) {
	c.sub.Cancel()
	c.cancel()

	h.mu.Lock()
	last := false
	if set, ok := h.clients[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
			last = true
		}
	}
	h.mu.Unlock()

	if last {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = h.presence.Clear(ctx, c.UserID)
		cancel()
	}

	_ = c.Conn.Close(websocket.StatusNormalClosure, "bye")
}

func (c *Client) writeLoop() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case ev, ok := <-c.sub.Events():
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			_ = wsjson.Write(writeCtx, c.Conn, ev)
			cancel()
		}
	}
}

// keepAliveLoop pings the socket and refreshes the presence key while
// the connection lives.
func (h *Hub) keepAliveLoop(c *Client) {
	ticker := time.NewTicker(25 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Conn.Ping(pingCtx)
			_ = h.presence.Heartbeat(pingCtx, c.UserID)
			cancel()
		}
	}
}
