package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/skillhubapp/skillhub-api/internal/authz"
)

var errNotParticipant = errors.New("not a participant of this booking")

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxFrameSize   = 16 * 1024
	sendBufferSize = 64
)

// Client is one authenticated websocket connection. The identity is bound
// at connect time and never re-derived per message.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	identity authz.Identity
	name     string

	send chan []byte

	mu     sync.Mutex
	joined map[uint]struct{}
}

func newClient(hub *Hub, conn *websocket.Conn, identity authz.Identity, name string) *Client {
	return &Client{
		hub:      hub,
		conn:     conn,
		identity: identity,
		name:     name,
		send:     make(chan []byte, sendBufferSize),
		joined:   make(map[uint]struct{}),
	}
}

// ===============================
// Room bookkeeping
// ===============================

func (c *Client) trackRoom(bookingID uint) {
	c.mu.Lock()
	c.joined[bookingID] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) untrackRoom(bookingID uint) {
	c.mu.Lock()
	delete(c.joined, bookingID)
	c.mu.Unlock()
}

func (c *Client) joinedRooms() []uint {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]uint, 0, len(c.joined))
	for id := range c.joined {
		ids = append(ids, id)
	}
	return ids
}

// ===============================
// Outbound
// ===============================

// enqueue drops the frame when the client's buffer is full: live delivery
// is at-most-once and a slow consumer misses pushes rather than stalling
// the room.
func (c *Client) enqueue(payload []byte) {
	if payload == nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		log.Printf("chat: dropping frame for slow client %d", c.identity.ID)
	}
}

func (c *Client) sendError(message, details string) {
	c.enqueue(encode(EventMessageError, errorPayload{
		Message: message,
		Details: details,
	}))
}

// ===============================
// Pumps
// ===============================

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.hub.Detach(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("chat: read error for user %d: %v", c.identity.ID, err)
			}
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			c.sendError("Invalid event", "")
			continue
		}

		c.dispatch(ctx, f)
	}
}

// dispatch handles one inbound event. Event failures answer the sender
// with messageError and never terminate the connection.
func (c *Client) dispatch(ctx context.Context, f frame) {
	switch f.Event {
	case EventJoinRoom:
		var p joinPayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.BookingID == 0 {
			c.sendError("Invalid event", "")
			return
		}
		if err := c.hub.Join(ctx, c, p.BookingID); err != nil {
			c.sendError("Unable to join this room", "")
		}

	case EventLeaveRoom:
		var p joinPayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.BookingID == 0 {
			c.sendError("Invalid event", "")
			return
		}
		c.hub.Leave(c, p.BookingID)

	case EventSendMessage:
		var p sendPayload
		if err := json.Unmarshal(f.Data, &p); err != nil || p.BookingID == 0 {
			c.sendError("Invalid event", "")
			return
		}
		c.hub.SendMessage(ctx, c, p)

	default:
		c.sendError("Unknown event", f.Event)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
