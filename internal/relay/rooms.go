package relay

import "github.com/checkpoint-chat/relay/internal/domain"

// RoomIndex maps room names to their member sets. It knows nothing about
// identity; members are opaque connection handles. A room name exists as a
// key iff its member set is non-empty. Not safe for concurrent use on its
// own; the hub serializes all access.
type RoomIndex struct {
	rooms map[domain.RoomName]map[*Client]struct{}
}

func NewRoomIndex() *RoomIndex {
	return &RoomIndex{rooms: make(map[domain.RoomName]map[*Client]struct{})}
}

func (i *RoomIndex) Add(room domain.RoomName, c *Client) {
	members, ok := i.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		i.rooms[room] = members
	}
	members[c] = struct{}{}
}

// Remove deletes c from the room; an emptied room is pruned immediately.
func (i *RoomIndex) Remove(room domain.RoomName, c *Client) {
	members, ok := i.rooms[room]
	if !ok {
		return
	}
	delete(members, c)
	if len(members) == 0 {
		delete(i.rooms, room)
	}
}

// MembersOf returns a snapshot of the room's member set; empty if absent.
func (i *RoomIndex) MembersOf(room domain.RoomName) []*Client {
	members := i.rooms[room]
	out := make([]*Client, 0, len(members))
	for c := range members {
		out = append(out, c)
	}
	return out
}

func (i *RoomIndex) RoomExists(room domain.RoomName) bool {
	_, ok := i.rooms[room]
	return ok
}

func (i *RoomIndex) Rooms() []domain.RoomName {
	out := make([]domain.RoomName, 0, len(i.rooms))
	for name := range i.rooms {
		out = append(out, name)
	}
	return out
}
