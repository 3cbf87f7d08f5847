package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoomIndexAddRemove(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newTestClient("a")
	b, _ := newTestClient("b")

	idx.Add("general", a)
	idx.Add("general", b)
	assert.True(t, idx.RoomExists("general"))
	assert.Len(t, idx.MembersOf("general"), 2)

	idx.Remove("general", a)
	assert.Len(t, idx.MembersOf("general"), 1)
	assert.True(t, idx.RoomExists("general"))
}

func TestRoomIndexPrunesEmptyRooms(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newTestClient("a")

	idx.Add("general", a)
	idx.Remove("general", a)

	assert.False(t, idx.RoomExists("general"))
	assert.Empty(t, idx.Rooms())
	assert.Empty(t, idx.MembersOf("general"))
}

func TestRoomIndexRemoveUnknownRoom(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newTestClient("a")

	// Must not panic or create the room.
	idx.Remove("nowhere", a)
	assert.False(t, idx.RoomExists("nowhere"))
}

func TestRoomIndexAddIsSetLike(t *testing.T) {
	idx := NewRoomIndex()
	a, _ := newTestClient("a")

	idx.Add("general", a)
	idx.Add("general", a)
	assert.Len(t, idx.MembersOf("general"), 1)
}
