package chat

import (
	"encoding/json"
	"time"
)

// Wire events. Inbound frames carry an event name and a payload; outbound
// frames mirror the shape so web clients can keep one codec.
const (
	EventJoinRoom       = "joinRoom"
	EventLeaveRoom      = "leaveRoom"
	EventSendMessage    = "sendMessage"
	EventReceiveMessage = "receiveMessage"
	EventMessageError   = "messageError"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinPayload struct {
	BookingID uint `json:"bookingId"`
}

type sendPayload struct {
	BookingID uint   `json:"bookingId"`
	Message   string `json:"message"`
	Sender    struct {
		ID uint `json:"_id"`
	} `json:"sender"`
}

type senderInfo struct {
	ID   uint   `json:"_id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type messagePayload struct {
	ID        uint       `json:"_id"`
	BookingID uint       `json:"bookingId"`
	Message   string     `json:"message"`
	Sender    senderInfo `json:"sender"`
	CreatedAt time.Time  `json:"createdAt"`
}

type errorPayload struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func encode(event string, data any) []byte {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	out, err := json.Marshal(frame{Event: event, Data: raw})
	if err != nil {
		return nil
	}
	return out
}
