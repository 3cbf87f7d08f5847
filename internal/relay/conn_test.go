package relay

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
)

// fakeConn records everything sent through it. Setting fail makes every
// send error, standing in for a transport mid-close.
type fakeConn struct {
	mu     sync.Mutex
	frames [][]byte
	fail   bool
	closed bool
}

func (f *fakeConn) TrySend(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("transport closed")
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	f.frames = append(f.frames, buf)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

// events decodes every frame the conn received.
func (f *fakeConn) events(t *testing.T) []Event {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Event, 0, len(f.frames))
	for _, raw := range f.frames {
		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			t.Fatalf("undecodable frame %q: %v", raw, err)
		}
		out = append(out, ev)
	}
	return out
}

// eventsOfType filters received events by type.
func (f *fakeConn) eventsOfType(t *testing.T, typ string) []Event {
	t.Helper()
	var out []Event
	for _, ev := range f.events(t) {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

func newTestClient(id string) (*Client, *fakeConn) {
	conn := &fakeConn{}
	return NewClient(id, conn), conn
}
