package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

const persistQueueSize = 256

type pendingMessage struct {
	room     string
	username string
	content  string
}

// Persister writes chat messages to the store in the background. SaveMessage
// never blocks the relay: if the queue is full the message is dropped with a
// warning. This is the fire-and-forget message store collaborator.
type Persister struct {
	messages *MessageRepository
	queue    chan pendingMessage
	wg       sync.WaitGroup
}

func NewPersister(messages *MessageRepository) *Persister {
	return &Persister{
		messages: messages,
		queue:    make(chan pendingMessage, persistQueueSize),
	}
}

// Start launches the background writer. It drains the queue until ctx is
// cancelled.
func (p *Persister) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-ctx.Done():
				log.Info().Str("module", "store.persister").Msg("persister stopped")
				return
			case m := <-p.queue:
				if err := p.messages.Save(m.room, m.username, m.content); err != nil {
					log.Error().Err(err).Str("module", "store.persister").Str("room", m.room).Msg("persist message")
				}
			}
		}
	}()
}

// Wait blocks until the background writer has exited.
func (p *Persister) Wait() {
	p.wg.Wait()
}

// SaveMessage enqueues a message for persistence. Never blocks.
func (p *Persister) SaveMessage(room, username, content string) {
	select {
	case p.queue <- pendingMessage{room: room, username: username, content: content}:
	default:
		log.Warn().Str("module", "store.persister").Str("room", room).Msg("persist queue full, dropping message")
	}
}
