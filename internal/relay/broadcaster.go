package relay

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/checkpoint-chat/relay/internal/domain"
)

// Broadcaster fans an event out to room members. It never mutates hub state;
// a delivery failure on one member is logged and skipped, not propagated.
type Broadcaster struct {
	Hub *Hub
}

// Broadcast snapshots the room's current members and delivers ev to each of
// them, skipping exclude if given. Returns the number of successful sends.
func (b *Broadcaster) Broadcast(room domain.RoomName, ev Event, exclude *Client) int {
	return b.Deliver(room, b.Hub.MembersSnapshot(room), ev, exclude)
}

// Deliver fans ev out to an already-taken membership snapshot. Used when the
// snapshot was captured atomically with the hub mutation that produced it.
func (b *Broadcaster) Deliver(room domain.RoomName, members []*Client, ev Event, exclude *Client) int {
	if len(members) == 0 {
		log.Debug().Str("module", "relay.broadcast").Str("room", string(room)).Msg("no members to broadcast to")
		return 0
	}

	data, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(err).Str("module", "relay.broadcast").Str("type", ev.Type).Msg("marshal event")
		return 0
	}

	sent := 0
	for _, c := range members {
		if c == exclude {
			continue
		}
		if err := c.Send(data); err != nil {
			log.Warn().Err(err).Str("module", "relay.broadcast").Str("cid", c.ID).Str("room", string(room)).Msg("dropping member send")
			continue
		}
		sent++
	}

	log.Debug().Str("module", "relay.broadcast").Str("room", string(room)).Str("type", ev.Type).Int("sent_to", sent).Msg("broadcast result")
	return sent
}
