// Package signal carries the six space requests and town event push over
// a websocket connection.
package signal

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/app"
	"github.com/sckohen/covey.town-projectTofu/internal/config"
	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type SignalWSController struct {
	Towns *app.TownManager
	Cfg   *config.Config
}

func NewSignalWSController(towns *app.TownManager, cfg *config.Config) *SignalWSController {
	return &SignalWSController{Towns: towns, Cfg: cfg}
}

type WsSignalConn struct {
	conn *websocket.Conn
	send chan []byte

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(data []byte) error {
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

func (c *WsSignalConn) Close() {
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

// wsSession is the per-connection state: which town the client subscribed
// to, the player identity it was assigned, and the watch cancel.
type wsSession struct {
	sid         string
	conn        *WsSignalConn
	town        *app.Town
	player      domain.PlayerID
	cancelWatch func()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	sid := c.GetString("client_token")
	log.Info().Str("module", "signal").Str("sid", sid).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Msg("ws upgrade")
		return
	}
	if ctl.Cfg.ReadLimit > 0 {
		ws.SetReadLimit(ctl.Cfg.ReadLimit)
	}

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan []byte, 32),
	}
	sess := &wsSession{sid: sid, conn: conn}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		ctl.readPump(ctx, sess)
	}()
}

func (ctl *SignalWSController) handleMessage(sess *wsSession, data []byte) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad json")
		sendError(sess.conn, "bad_payload")
		return
	}

	switch env.Type {
	case "subscribe":
		ctl.handleSubscribe(sess, data)
	case "ping":
		ctl.handlePing(sess.conn)
	case "space_create":
		ctl.handleSpaceCreate(sess, data)
	case "space_join":
		ctl.handleSpaceJoin(sess, data)
	case "space_list":
		ctl.handleSpaceList(sess, data)
	case "space_claim":
		ctl.handleSpaceClaim(sess, data)
	case "space_update":
		ctl.handleSpaceUpdate(sess, data)
	case "space_disband":
		ctl.handleSpaceDisband(sess, data)
	default:
		log.Warn().Str("module", "signal").Str("type", env.Type).Msg("unknown signal")
		sendError(sess.conn, "unknown_type")
	}
}

func sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	_ = c.TrySend(b)
}

func sendError(c *WsSignalConn, msg string) {
	sendJSON(c, map[string]any{"type": "error", "error": msg})
}

// wsEnvelope wraps a handler envelope with the reply type discriminator.
type wsEnvelope[T any] struct {
	Type string `json:"type"`
	app.ResponseEnvelope[T]
}

func sendEnvelope[T any](c *WsSignalConn, typ string, env app.ResponseEnvelope[T]) {
	sendJSON(c, wsEnvelope[T]{Type: typ, ResponseEnvelope: env})
}
