package adapters

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/checkpoint-chat/relay/internal/config"
	"github.com/checkpoint-chat/relay/internal/relay"
)

var ErrBackpressure = errors.New("backpressure")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsConn adapts a gorilla connection to the relay's transport contract.
// TrySend never blocks: a slow reader overflows its buffer and loses the
// frame rather than stalling a broadcast.
type wsConn struct {
	conn         *websocket.Conn
	send         chan []byte
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

func (c *wsConn) TrySend(data []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- data:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// WSController upgrades chat websocket connections and runs their pumps.
type WSController struct {
	Router *relay.Router
	Hub    *relay.Hub
	Cfg    *config.Config
}

func (ctl *WSController) HandleWS(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "adapters.ws").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.Cfg.ReadLimit)

	conn := &wsConn{
		conn:         ws,
		send:         make(chan []byte, ctl.Cfg.SendBuffer),
		writeTimeout: ctl.Cfg.WriteTimeout,
	}
	client := relay.NewClient(uuid.NewString(), conn)
	ctl.Hub.Register(client)

	log.Info().Str("module", "adapters.ws").Str("cid", client.ID).Str("remote", c.ClientIP()).Msg("new WS connection")

	go ctl.writePump(ctx, client.ID, conn)
	go ctl.readPump(ctx, client, conn)
}

func (ctl *WSController) writePump(ctx context.Context, cid string, c *wsConn) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "adapters.ws").Str("cid", cid).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Info().Str("module", "adapters.ws").Str("cid", cid).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Str("cid", cid).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "adapters.ws").Str("cid", cid).Msg("writePump write error")
				return
			}
		}
	}
}

// readPump handles each frame to completion before reading the next, so
// per-connection ordering is preserved all the way through the fan-out.
func (ctl *WSController) readPump(ctx context.Context, client *relay.Client, c *wsConn) {
	defer func() {
		log.Info().Str("module", "adapters.ws").Str("cid", client.ID).Msg("readPump closing")
		ctl.Router.HandleDisconnect(client)
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn().Err(err).Str("module", "adapters.ws").Str("cid", client.ID).Msg("readPump read error")
				}
				return
			}
			ctl.Router.HandleFrame(client, data)
		}
	}
}
