package relay

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/checkpoint-chat/relay/internal/domain"
)

// Hub is the single exclusive owner of the combined {Registry, RoomIndex}
// state. Every per-frame mutation (join, leave, disconnect) is applied as one
// indivisible step under the hub mutex and returns the membership snapshots
// the caller needs for the subsequent fan-out, so broadcasting itself runs
// outside the critical section.
type Hub struct {
	mu       sync.Mutex
	registry *Registry
	rooms    *RoomIndex
}

func NewHub() *Hub {
	return &Hub{
		registry: NewRegistry(),
		rooms:    NewRoomIndex(),
	}
}

// Register adds a freshly accepted connection in the unjoined state.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.registry.Register(c)
	log.Info().Str("module", "relay.hub").Str("cid", c.ID).Msg("client registered")
}

// Join moves c into room under the given username, removing it from any
// previous room first so that no intermediate state is observable. Returns a
// snapshot of the other members already in the new room.
func (h *Hub) Join(c *Client, username string, room domain.RoomName) []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.registry.Register(c)
	if prev, ok := h.registry.IdentityOf(c); ok {
		h.rooms.Remove(prev.Room, c)
	}

	others := h.rooms.MembersOf(room)
	h.rooms.Add(room, c)
	h.registry.SetIdentity(c, username, room)

	log.Info().Str("module", "relay.hub").Str("cid", c.ID).Str("username", username).Str("room", string(room)).Msg("client joined room")
	return others
}

// RoomPeers reads c's identity and a snapshot of its current room in one
// step. ok is false for unjoined connections.
func (h *Hub) RoomPeers(c *Client) (Identity, []*Client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.registry.IdentityOf(c)
	if !ok {
		return Identity{}, nil, false
	}
	return id, h.rooms.MembersOf(id.Room), true
}

// Leave returns c to the unjoined state, pruning its room if emptied.
// Returns the identity it held and a snapshot of the remaining members.
func (h *Hub) Leave(c *Client) (Identity, []*Client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.registry.IdentityOf(c)
	if !ok {
		return Identity{}, nil, false
	}
	h.rooms.Remove(id.Room, c)
	h.registry.ClearIdentity(c)

	log.Info().Str("module", "relay.hub").Str("cid", c.ID).Str("room", string(id.Room)).Msg("client left room")
	return id, h.rooms.MembersOf(id.Room), true
}

// Disconnect removes the connection entirely. Idempotent: transport close may
// fire more than once for the same connection without side effects beyond the
// first. joined reports whether the connection held an identity to announce.
func (h *Hub) Disconnect(c *Client) (Identity, []*Client, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, wasJoined := h.registry.Remove(c)
	if !wasJoined {
		return Identity{}, nil, false
	}
	h.rooms.Remove(id.Room, c)

	log.Info().Str("module", "relay.hub").Str("cid", c.ID).Str("room", string(id.Room)).Msg("client disconnected")
	return id, h.rooms.MembersOf(id.Room), true
}

// MembersSnapshot returns the room's current members for fan-out.
func (h *Hub) MembersSnapshot(room domain.RoomName) []*Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms.MembersOf(room)
}

// RoomMembers lists the usernames currently in a room.
func (h *Hub) RoomMembers(room domain.RoomName) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	members := h.rooms.MembersOf(room)
	out := make([]string, 0, len(members))
	for _, c := range members {
		if id, ok := h.registry.IdentityOf(c); ok {
			out = append(out, id.Username)
		}
	}
	return out
}

// ActiveRooms lists rooms with at least one member.
func (h *Hub) ActiveRooms() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	names := h.rooms.Rooms()
	out := make([]string, 0, len(names))
	for _, n := range names {
		out = append(out, string(n))
	}
	return out
}

// UserCount reports how many connections currently hold an identity.
func (h *Hub) UserCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.registry.JoinedCount()
}

// RoomExists reports whether a room currently has members.
func (h *Hub) RoomExists(room domain.RoomName) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rooms.RoomExists(room)
}
