package chat

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/skillhubapp/skillhub-api/internal/authz"
	"github.com/skillhubapp/skillhub-api/internal/httperr"
	"github.com/skillhubapp/skillhub-api/internal/models"
)

// --- mocks ---

type mockStore struct {
	booking   *models.Booking
	saved     []*models.Message
	createErr error
}

func (m *mockStore) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	return &models.User{ID: id, Name: "user"}, nil
}

func (m *mockStore) GetBookingByID(ctx context.Context, id uint) (*models.Booking, error) {
	if m.booking == nil || m.booking.ID != id {
		return nil, httperr.ErrBusiness(httperr.CodeBookingNotFound)
	}
	return m.booking, nil
}

func (m *mockStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	msg.ID = uint(len(m.saved) + 1)
	m.saved = append(m.saved, msg)
	return nil
}

var _ Store = (*mockStore)(nil)

func testBooking() *models.Booking {
	return &models.Booking{ID: 10, StudentID: 1, InstructorID: 2, Status: "confirmed"}
}

func client(h *Hub, id uint, role string) *Client {
	return newClient(h, nil, authz.Identity{ID: id, Role: role}, "user")
}

// readFrame pops one queued frame from the client, failing when nothing
// was enqueued.
func readFrame(t *testing.T, c *Client) frame {
	t.Helper()
	select {
	case raw := <-c.send:
		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			t.Fatalf("bad frame %q: %v", raw, err)
		}
		return f
	default:
		t.Fatal("no frame enqueued")
		return frame{}
	}
}

func assertNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame: %s", raw)
	default:
	}
}

func send(forBooking uint, senderID uint, body string) sendPayload {
	p := sendPayload{BookingID: forBooking, Message: body}
	p.Sender.ID = senderID
	return p
}

// --- membership ---

func TestJoinAdmitsParticipantsAndAdmin(t *testing.T) {
	h := NewHub(&mockStore{booking: testBooking()})

	for _, c := range []*Client{
		client(h, 1, authz.RoleStudent),
		client(h, 2, authz.RoleInstructor),
		client(h, 99, authz.RoleAdmin),
	} {
		if err := h.Join(context.Background(), c, 10); err != nil {
			t.Fatalf("Join user %d: %v", c.identity.ID, err)
		}
		if !h.InRoom(c, 10) {
			t.Errorf("user %d not in room after Join", c.identity.ID)
		}
	}
}

func TestJoinRefusesStranger(t *testing.T) {
	h := NewHub(&mockStore{booking: testBooking()})
	c := client(h, 50, authz.RoleStudent)

	if err := h.Join(context.Background(), c, 10); err != errNotParticipant {
		t.Fatalf("Join: %v, want errNotParticipant", err)
	}
	if h.InRoom(c, 10) {
		t.Error("stranger recorded as member")
	}
}

func TestJoinUnknownBooking(t *testing.T) {
	h := NewHub(&mockStore{})
	c := client(h, 1, authz.RoleStudent)

	if err := h.Join(context.Background(), c, 10); err == nil {
		t.Fatal("Join succeeded for missing booking")
	}
}

func TestLeaveDropsEmptyRoom(t *testing.T) {
	h := NewHub(&mockStore{booking: testBooking()})
	c := client(h, 1, authz.RoleStudent)

	if err := h.Join(context.Background(), c, 10); err != nil {
		t.Fatalf("Join: %v", err)
	}
	h.Leave(c, 10)

	if h.InRoom(c, 10) {
		t.Error("still a member after Leave")
	}
	h.mu.RLock()
	_, kept := h.rooms[10]
	h.mu.RUnlock()
	if kept {
		t.Error("empty room not dropped")
	}
}

// A client carrying an id for a room the hub already reaped must still
// drop it on Leave.
func TestLeaveUntracksReapedRoom(t *testing.T) {
	h := NewHub(&mockStore{booking: testBooking()})
	c := client(h, 1, authz.RoleStudent)

	c.trackRoom(10)
	h.Leave(c, 10)

	if len(c.joinedRooms()) != 0 {
		t.Errorf("joinedRooms = %v, want none", c.joinedRooms())
	}
}

func TestDetachLeavesAllRooms(t *testing.T) {
	store := &mockStore{booking: testBooking()}
	h := NewHub(store)
	c := client(h, 99, authz.RoleAdmin)

	if err := h.Join(context.Background(), c, 10); err != nil {
		t.Fatalf("Join: %v", err)
	}
	h.Detach(c)

	if h.InRoom(c, 10) {
		t.Error("still a member after Detach")
	}
	if len(c.joinedRooms()) != 0 {
		t.Errorf("joinedRooms = %v after Detach", c.joinedRooms())
	}
}

// --- send pipeline ---

func TestSendMessagePersistsThenBroadcasts(t *testing.T) {
	store := &mockStore{booking: testBooking()}
	h := NewHub(store)

	student := client(h, 1, authz.RoleStudent)
	instructor := client(h, 2, authz.RoleInstructor)
	for _, c := range []*Client{student, instructor} {
		if err := h.Join(context.Background(), c, 10); err != nil {
			t.Fatalf("Join: %v", err)
		}
	}

	h.SendMessage(context.Background(), student, send(10, 1, "see you at 9"))

	if len(store.saved) != 1 {
		t.Fatalf("saved %d messages, want 1", len(store.saved))
	}
	if store.saved[0].SenderID != 1 || store.saved[0].Body != "see you at 9" {
		t.Errorf("saved = %+v", store.saved[0])
	}

	for _, c := range []*Client{student, instructor} {
		f := readFrame(t, c)
		if f.Event != EventReceiveMessage {
			t.Fatalf("event = %s, want %s", f.Event, EventReceiveMessage)
		}
		var p messagePayload
		if err := json.Unmarshal(f.Data, &p); err != nil {
			t.Fatalf("payload: %v", err)
		}
		if p.Message != "see you at 9" || p.Sender.ID != 1 {
			t.Errorf("payload = %+v", p)
		}
	}
}

func TestSendMessageRejectsSpoofedSender(t *testing.T) {
	store := &mockStore{booking: testBooking()}
	h := NewHub(store)

	student := client(h, 1, authz.RoleStudent)
	instructor := client(h, 2, authz.RoleInstructor)
	for _, c := range []*Client{student, instructor} {
		if err := h.Join(context.Background(), c, 10); err != nil {
			t.Fatalf("Join: %v", err)
		}
	}

	// Claims to be the instructor over the student's connection.
	h.SendMessage(context.Background(), student, send(10, 2, "spoofed"))

	if len(store.saved) != 0 {
		t.Fatalf("spoofed message persisted")
	}

	f := readFrame(t, student)
	if f.Event != EventMessageError {
		t.Fatalf("event = %s, want %s", f.Event, EventMessageError)
	}
	var p errorPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Message != "Unauthorized sender ID." {
		t.Errorf("message = %q", p.Message)
	}

	// The error is private to the sender.
	assertNoFrame(t, instructor)
}

func TestSendMessageBounds(t *testing.T) {
	store := &mockStore{booking: testBooking()}
	h := NewHub(store)
	c := client(h, 1, authz.RoleStudent)
	if err := h.Join(context.Background(), c, 10); err != nil {
		t.Fatalf("Join: %v", err)
	}

	cases := []struct {
		name string
		body string
		want string
	}{
		{"empty", "   ", "Invalid message"},
		{"over event bound", strings.Repeat("a", maxEventBodyLen+1), "Invalid message"},
		{"over stored bound", strings.Repeat("a", maxStoredBodyLen+1), "Failed to send message"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h.SendMessage(context.Background(), c, send(10, 1, tc.body))

			if len(store.saved) != 0 {
				t.Fatal("out-of-bounds message persisted")
			}
			f := readFrame(t, c)
			if f.Event != EventMessageError {
				t.Fatalf("event = %s", f.Event)
			}
			var p errorPayload
			if err := json.Unmarshal(f.Data, &p); err != nil {
				t.Fatalf("payload: %v", err)
			}
			if p.Message != tc.want {
				t.Errorf("message = %q, want %q", p.Message, tc.want)
			}
		})
	}
}

// Bounds are character counts: a multi-byte body inside them must pass
// even when its byte length is far larger.
func TestSendMessageCountsCharactersNotBytes(t *testing.T) {
	store := &mockStore{booking: testBooking()}
	h := NewHub(store)
	c := client(h, 1, authz.RoleStudent)
	if err := h.Join(context.Background(), c, 10); err != nil {
		t.Fatalf("Join: %v", err)
	}

	// 1500 characters, 4500 bytes.
	body := strings.Repeat("你", 1500)
	h.SendMessage(context.Background(), c, send(10, 1, body))

	if len(store.saved) != 1 {
		t.Fatalf("saved %d messages, want 1", len(store.saved))
	}
	if store.saved[0].Body != body {
		t.Error("stored body mangled")
	}
	f := readFrame(t, c)
	if f.Event != EventReceiveMessage {
		t.Fatalf("event = %s, want %s", f.Event, EventReceiveMessage)
	}

	// 2001 characters is over the stored bound regardless of encoding.
	h.SendMessage(context.Background(), c, send(10, 1, strings.Repeat("你", maxStoredBodyLen+1)))

	if len(store.saved) != 1 {
		t.Fatal("over-bound multi-byte message persisted")
	}
	if f := readFrame(t, c); f.Event != EventMessageError {
		t.Fatalf("event = %s, want %s", f.Event, EventMessageError)
	}
}

func TestSendMessageRequiresParticipant(t *testing.T) {
	store := &mockStore{booking: testBooking()}
	h := NewHub(store)

	// Admins can observe a room but only participants speak in it.
	admin := client(h, 99, authz.RoleAdmin)
	if err := h.Join(context.Background(), admin, 10); err != nil {
		t.Fatalf("Join: %v", err)
	}

	h.SendMessage(context.Background(), admin, send(10, 99, "hello"))

	if len(store.saved) != 0 {
		t.Fatal("non-participant message persisted")
	}
	f := readFrame(t, admin)
	if f.Event != EventMessageError {
		t.Fatalf("event = %s", f.Event)
	}
}

func TestSendMessagePersistsWithoutRoom(t *testing.T) {
	store := &mockStore{booking: testBooking()}
	h := NewHub(store)
	c := client(h, 1, authz.RoleStudent)

	// Never joined: history still records the message, nobody gets a push.
	h.SendMessage(context.Background(), c, send(10, 1, "offline note"))

	if len(store.saved) != 1 {
		t.Fatalf("saved %d messages, want 1", len(store.saved))
	}
	assertNoFrame(t, c)
}

func TestSendMessageStoreFailure(t *testing.T) {
	store := &mockStore{booking: testBooking(), createErr: context.DeadlineExceeded}
	h := NewHub(store)
	c := client(h, 1, authz.RoleStudent)
	if err := h.Join(context.Background(), c, 10); err != nil {
		t.Fatalf("Join: %v", err)
	}

	h.SendMessage(context.Background(), c, send(10, 1, "hello"))

	f := readFrame(t, c)
	if f.Event != EventMessageError {
		t.Fatalf("event = %s, want %s", f.Event, EventMessageError)
	}
}

// --- dispatch ---

func TestDispatchUnknownEvent(t *testing.T) {
	h := NewHub(&mockStore{booking: testBooking()})
	c := client(h, 1, authz.RoleStudent)

	c.dispatch(context.Background(), frame{Event: "typing", Data: json.RawMessage(`{}`)})

	f := readFrame(t, c)
	if f.Event != EventMessageError {
		t.Fatalf("event = %s", f.Event)
	}
	var p errorPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Message != "Unknown event" {
		t.Errorf("message = %q", p.Message)
	}
}

func TestDispatchJoinRefusal(t *testing.T) {
	h := NewHub(&mockStore{booking: testBooking()})
	c := client(h, 50, authz.RoleStudent)

	c.dispatch(context.Background(), frame{Event: EventJoinRoom, Data: json.RawMessage(`{"bookingId":10}`)})

	f := readFrame(t, c)
	if f.Event != EventMessageError {
		t.Fatalf("event = %s", f.Event)
	}
	var p errorPayload
	if err := json.Unmarshal(f.Data, &p); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if p.Message != "Unable to join this room" {
		t.Errorf("message = %q", p.Message)
	}
}
