package relay

import (
	"encoding/json"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/checkpoint-chat/relay/internal/domain"
)

// MessageStore durably persists chat content. Called fire-and-forget after a
// successful broadcast; implementations must never block the caller.
type MessageStore interface {
	SaveMessage(room, username, content string)
}

// RoomDirectory validates that a named room exists.
type RoomDirectory interface {
	RoomExists(name string) (bool, error)
}

// Router classifies inbound frames by their declared type and dispatches to
// the matching handler. Frames on one connection are handled to completion
// in arrival order; the join-before-chat precondition and the single-room
// membership rule are enforced through the hub.
type Router struct {
	Hub       *Hub
	Broadcast *Broadcaster

	// Optional collaborators; nil disables them.
	Store     MessageStore
	Directory RoomDirectory

	DefaultRoom domain.RoomName
	StrictRooms bool
}

// HandleFrame processes one inbound frame from c. Malformed input and
// precondition violations produce an error event to the sender only; nothing
// here is fatal to the connection.
func (r *Router) HandleFrame(c *Client, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Warn().Err(err).Str("module", "relay.router").Str("cid", c.ID).Msg("bad json")
		r.sendEvent(c, errorEvent("Invalid message format"))
		return
	}

	switch env.Type {
	case FrameJoin:
		r.handleJoin(c, data)
	case FrameMessage:
		r.handleMessage(c, data)
	case FrameLeave:
		r.handleLeave(c)
	default:
		log.Warn().Str("module", "relay.router").Str("cid", c.ID).Str("type", env.Type).Msg("unknown frame type")
		r.sendEvent(c, errorEvent("Unknown message type"))
	}
}

// HandleDisconnect is the implicit leave on transport close: no confirmation
// to the now-closed sender, a user_left to the remaining members if the
// connection had joined. Idempotent.
func (r *Router) HandleDisconnect(c *Client) {
	id, remaining, joined := r.Hub.Disconnect(c)
	if !joined {
		return
	}
	r.Broadcast.Deliver(id.Room, remaining, newEvent(EventUserLeft, id.Username, id.Room), nil)
}

func (r *Router) handleJoin(c *Client, data []byte) {
	var p struct {
		Type     string `json:"type"`
		Username string `json:"username"`
		Room     any    `json:"room"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "relay.router").Str("cid", c.ID).Msg("bad join payload")
		r.sendEvent(c, errorEvent("Invalid message format"))
		return
	}

	if p.Username == "" {
		r.sendEvent(c, errorEvent("Username is required"))
		return
	}

	room := r.DefaultRoom
	if name, ok := p.Room.(string); ok && name != "" {
		room = domain.RoomName(name).Truncate()
	}

	if r.StrictRooms && r.Directory != nil {
		exists, err := r.Directory.RoomExists(string(room))
		if err != nil {
			// Directory trouble must not take the relay down; let the join
			// through and leave the record to the logs.
			log.Error().Err(err).Str("module", "relay.router").Str("room", string(room)).Msg("room directory lookup failed")
		} else if !exists {
			r.sendEvent(c, errorEvent("Room does not exist"))
			return
		}
	}

	others := r.Hub.Join(c, p.Username, room)

	r.sendEvent(c, newEvent(EventJoin, p.Username, room))
	r.Broadcast.Deliver(room, others, newEvent(EventUserJoined, p.Username, room), c)
}

func (r *Router) handleMessage(c *Client, data []byte) {
	var p struct {
		Type    string `json:"type"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warn().Err(err).Str("module", "relay.router").Str("cid", c.ID).Msg("bad message payload")
		r.sendEvent(c, errorEvent("Invalid message format"))
		return
	}

	// The room is read at send time, not captured at join time.
	id, members, ok := r.Hub.RoomPeers(c)
	if !ok {
		r.sendEvent(c, errorEvent("You must join a room first"))
		return
	}

	content := strings.TrimSpace(p.Content)
	if content == "" {
		r.sendEvent(c, errorEvent("Message content cannot be empty"))
		return
	}

	// Sender included: exclude is nil.
	r.Broadcast.Deliver(id.Room, members, messageEvent(id.Username, id.Room, content), nil)

	if r.Store != nil {
		r.Store.SaveMessage(string(id.Room), id.Username, content)
	}
}

func (r *Router) handleLeave(c *Client) {
	id, remaining, ok := r.Hub.Leave(c)
	if !ok {
		return
	}
	r.sendEvent(c, newEvent(EventLeave, id.Username, id.Room))
	r.Broadcast.Deliver(id.Room, remaining, newEvent(EventUserLeft, id.Username, id.Room), c)
}

func (r *Router) sendEvent(c *Client, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "relay.router").Str("type", ev.Type).Msg("marshal event")
		return
	}
	if err := c.Send(data); err != nil {
		log.Warn().Err(err).Str("module", "relay.router").Str("cid", c.ID).Msg("send to client")
	}
}
