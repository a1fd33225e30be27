package chat

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

// Bound at the channel layer; the stored column allows 2000. Both are
// character counts, not bytes.
const (
	maxEventBodyLen  = 5000
	maxStoredBodyLen = 2000
)

// Store is the persistence the hub needs. Messages are written before any
// broadcast; the hub never invents state the database does not have.
type Store interface {
	GetUserByID(ctx context.Context, id uint) (*models.User, error)
	GetBookingByID(ctx context.Context, id uint) (*models.Booking, error)
	CreateMessage(ctx context.Context, m *models.Message) error
}

// room is the fan-out group for one booking. Its mutex covers the whole
// persist-then-broadcast step so delivery order inside a room always
// matches persistence order.
type room struct {
	mu      sync.Mutex
	members map[*Client]struct{}
}

// Hub owns room membership. One room per booking id, created lazily on
// the first join and dropped with its last member.
type Hub struct {
	store Store

	mu    sync.RWMutex
	rooms map[uint]*room
}

func NewHub(store Store) *Hub {
	return &Hub{
		store: store,
		rooms: make(map[uint]*room),
	}
}

// ======================================================
// Membership
// ======================================================

// Join admits the client to the booking's room. Only a participant of the
// booking or an admin may join; anyone else is refused and no membership
// is recorded.
func (h *Hub) Join(ctx context.Context, c *Client, bookingID uint) error {
	b, err := h.store.GetBookingByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if !authz.IsParticipantOrAdmin(c.identity, b) {
		return errNotParticipant
	}

	// Membership is inserted while still holding the hub lock, so a
	// concurrent last-member Leave cannot reap the room between lookup
	// and insert and strand this client on an orphaned room.
	h.mu.Lock()
	r, ok := h.rooms[bookingID]
	if !ok {
		r = &room{members: make(map[*Client]struct{})}
		h.rooms[bookingID] = r
	}
	r.mu.Lock()
	r.members[c] = struct{}{}
	r.mu.Unlock()
	h.mu.Unlock()

	c.trackRoom(bookingID)
	return nil
}

func (h *Hub) Leave(c *Client, bookingID uint) {
	// Untrack even when the room is already gone so the client never
	// carries a stale id.
	c.untrackRoom(bookingID)

	h.mu.Lock()
	r, ok := h.rooms[bookingID]
	h.mu.Unlock()
	if !ok {
		return
	}

	r.mu.Lock()
	delete(r.members, c)
	empty := len(r.members) == 0
	r.mu.Unlock()

	if empty {
		h.mu.Lock()
		if rr, ok := h.rooms[bookingID]; ok {
			rr.mu.Lock()
			if len(rr.members) == 0 {
				delete(h.rooms, bookingID)
			}
			rr.mu.Unlock()
		}
		h.mu.Unlock()
	}
}

// Detach removes a disconnecting client from every room it joined.
func (h *Hub) Detach(c *Client) {
	for _, id := range c.joinedRooms() {
		h.Leave(c, id)
	}
}

// InRoom reports current membership; used by tests and diagnostics.
func (h *Hub) InRoom(c *Client, bookingID uint) bool {
	h.mu.RLock()
	r, ok := h.rooms[bookingID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, in := r.members[c]
	return in
}

// ======================================================
// Send pipeline: validate -> persist -> broadcast
// ======================================================

// SendMessage runs the full pipeline for one inbound sendMessage event.
// Every failure is reported to the sending client only; the connection
// stays open.
func (h *Hub) SendMessage(ctx context.Context, c *Client, p sendPayload) {
	body := strings.TrimSpace(p.Message)

	// (a) channel-layer bounds
	if body == "" || utf8.RuneCountInString(p.Message) > maxEventBodyLen {
		c.sendError("Invalid message", "")
		return
	}

	// (b) anti-spoofing: the claimed sender must be the identity this
	// connection authenticated as. Reported privately, never raised
	// into other rooms.
	if p.Sender.ID != c.identity.ID {
		c.sendError("Unauthorized sender ID.", "")
		return
	}

	// (c) participant check against the booking itself
	b, err := h.store.GetBookingByID(ctx, p.BookingID)
	if err != nil {
		c.sendError("Failed to send message", "booking not found")
		return
	}
	if !authz.IsParticipant(c.identity, b) {
		c.sendError("Failed to send message", "not a participant of this booking")
		return
	}

	if utf8.RuneCountInString(body) > maxStoredBodyLen {
		c.sendError("Failed to send message", "message too long")
		return
	}

	h.mu.RLock()
	r := h.rooms[p.BookingID]
	h.mu.RUnlock()

	// Persist and broadcast under the room lock so every member observes
	// messages in persistence order. A missing room still persists: live
	// delivery is best effort, history is the record.
	if r != nil {
		r.mu.Lock()
		defer r.mu.Unlock()
	}

	m := &models.Message{
		BookingID:   p.BookingID,
		SenderID:    c.identity.ID,
		Body:        body,
		MessageType: models.MessageTypeUser,
	}

	if err := h.store.CreateMessage(ctx, m); err != nil {
		c.sendError("Failed to send message", "")
		return
	}

	out := encode(EventReceiveMessage, messagePayload{
		ID:        m.ID,
		BookingID: m.BookingID,
		Message:   m.Body,
		Sender: senderInfo{
			ID:   c.identity.ID,
			Name: c.name,
			Role: c.identity.Role,
		},
		CreatedAt: m.CreatedAt,
	})

	if r != nil {
		for member := range r.members {
			member.enqueue(out)
		}
	}
}
