package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/app"
	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

func (ctl *SignalWSController) handlePing(c *WsSignalConn) {
	sendJSON(c, map[string]any{"type": "pong"})
}

// wsWatcher forwards town space events onto the connection. Slow
// connections just drop events; the send channel never blocks the town.
type wsWatcher struct {
	conn *WsSignalConn
}

func (w wsWatcher) OnSpaceEvent(evt app.SpaceEvent) {
	sendJSON(w.conn, evt)
}

// handleSubscribe binds the connection to a town: the client gets a player
// identity in the town's directory and starts receiving space events.
func (ctl *SignalWSController) handleSubscribe(sess *wsSession, data []byte) {
	type payload struct {
		Type        string `json:"type"`
		CoveyTownID string `json:"coveyTownID"`
		UserName    string `json:"userName"`
	}
	var p payload
	if err := json.Unmarshal(data, &p); err != nil || p.CoveyTownID == "" {
		log.Error().Str("module", "signal").Str("sid", sess.sid).Msg("bad subscribe payload")
		sendError(sess.conn, "bad_payload")
		return
	}
	if sess.town != nil {
		sendError(sess.conn, "already subscribed")
		return
	}
	userName := p.UserName
	if userName == "" {
		userName = "guest"
	}

	town := ctl.Towns.GetOrCreate(domain.TownID(p.CoveyTownID))
	player, err := town.AddPlayer(userName)
	if err != nil {
		sendError(sess.conn, err.Error())
		return
	}

	sess.town = town
	sess.player = player.ID
	sess.cancelWatch = town.Watch(wsWatcher{conn: sess.conn})

	log.Info().Str("module", "signal").Str("sid", sess.sid).Str("town", p.CoveyTownID).Str("player", string(player.ID)).Msg("subscribed")
	sendJSON(sess.conn, struct {
		Type        string         `json:"type"`
		CoveyTownID domain.TownID  `json:"coveyTownID"`
		Player      *domain.Player `json:"player"`
	}{
		Type:        "subscribed",
		CoveyTownID: town.ID(),
		Player:      player,
	})
}
