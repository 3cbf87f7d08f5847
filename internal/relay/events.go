package relay

import (
	"time"

	"github.com/checkpoint-chat/relay/internal/domain"
)

// Inbound frame types.
const (
	FrameJoin    = "join"
	FrameMessage = "message"
	FrameLeave   = "leave"
)

// Outbound event types.
const (
	EventJoin       = "join"
	EventLeave      = "leave"
	EventMessage    = "message"
	EventUserJoined = "user_joined"
	EventUserLeft   = "user_left"
	EventError      = "error"
)

// Event is the outbound wire payload. Constructed fresh for each delivery;
// the timestamp is generated at send time.
type Event struct {
	Type      string `json:"type"`
	Username  string `json:"username,omitempty"`
	Room      string `json:"room,omitempty"`
	Content   string `json:"content,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func newEvent(typ, username string, room domain.RoomName) Event {
	return Event{
		Type:      typ,
		Username:  username,
		Room:      string(room),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func messageEvent(username string, room domain.RoomName, content string) Event {
	ev := newEvent(EventMessage, username, room)
	ev.Content = content
	return ev
}

func errorEvent(content string) Event {
	return Event{Type: EventError, Content: content}
}
