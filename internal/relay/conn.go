// Package relay implements the in-process connection and room broadcast
// manager: which live connections belong to which rooms, how inbound frames
// are routed, and how outbound events fan out to room members.
package relay

// Conn abstracts the system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type Conn interface {
	TrySend(data []byte) error
	Close()
}

// Client is one live socket session. Identity (username, room) lives in the
// hub registry, not here; the client itself is just an opaque handle plus
// its transport endpoint.
type Client struct {
	ID   string
	conn Conn
}

func NewClient(id string, conn Conn) *Client {
	return &Client{ID: id, conn: conn}
}

func (c *Client) Send(data []byte) error {
	return c.conn.TrySend(data)
}
