package relay

import "github.com/checkpoint-chat/relay/internal/domain"

// Identity is the ephemeral username/room pair a connection acquires on its
// first successful join.
type Identity struct {
	Username string
	Room     domain.RoomName
}

// Registry owns the set of live connections and the identity associated with
// each. It is not safe for concurrent use on its own; the hub serializes all
// access (see Hub).
type Registry struct {
	clients map[*Client]Identity
	joined  map[*Client]bool
}

func NewRegistry() *Registry {
	return &Registry{
		clients: make(map[*Client]Identity),
		joined:  make(map[*Client]bool),
	}
}

// Register adds a connection with no identity. No-op if already registered.
func (r *Registry) Register(c *Client) {
	if _, ok := r.clients[c]; ok {
		return
	}
	r.clients[c] = Identity{}
}

// SetIdentity overwrites the identity record. The caller is responsible for
// having already moved the connection out of any previous room.
func (r *Registry) SetIdentity(c *Client, username string, room domain.RoomName) {
	r.clients[c] = Identity{Username: username, Room: room}
	r.joined[c] = true
}

// ClearIdentity returns a joined connection to the unjoined state without
// unregistering it.
func (r *Registry) ClearIdentity(c *Client) {
	if _, ok := r.clients[c]; !ok {
		return
	}
	r.clients[c] = Identity{}
	delete(r.joined, c)
}

// IdentityOf reports the identity of c; ok is false before the first
// successful join.
func (r *Registry) IdentityOf(c *Client) (Identity, bool) {
	if !r.joined[c] {
		return Identity{}, false
	}
	return r.clients[c], true
}

// Remove deletes the record entirely and returns the last known identity for
// departure notification. Safe to call twice; the second call reports absent.
func (r *Registry) Remove(c *Client) (Identity, bool) {
	id, wasJoined := r.clients[c], r.joined[c]
	delete(r.clients, c)
	delete(r.joined, c)
	return id, wasJoined
}

// JoinedCount counts connections that currently hold an identity.
func (r *Registry) JoinedCount() int {
	return len(r.joined)
}
