package domain

type RoomName string

const MaxRoomNameLen = 36

// Truncate keeps room names bounded no matter what a client sends.
func (n RoomName) Truncate() RoomName {
	if len(n) > MaxRoomNameLen {
		return n[:MaxRoomNameLen]
	}
	return n
}
