package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/app"
)

// The six space requests over WS. Payloads are the handler request
// structs plus the message type; the town defaults to the subscribed one,
// the player to the session's identity.

func decode[T any](sess *wsSession, data []byte, out *T) bool {
	if err := json.Unmarshal(data, out); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", sess.sid).Msg("bad space payload")
		sendError(sess.conn, "bad_payload")
		return false
	}
	return true
}

func (sess *wsSession) defaultTown(townID *string) {
	if *townID == "" && sess.town != nil {
		*townID = string(sess.town.ID())
	}
}

func (ctl *SignalWSController) handleSpaceCreate(sess *wsSession, data []byte) {
	var req app.SpaceCreateRequest
	if !decode(sess, data, &req) {
		return
	}
	sess.defaultTown(&req.CoveyTownID)
	sendEnvelope(sess.conn, "space_create_response", app.SpaceCreateHandler(ctl.Towns, req))
}

func (ctl *SignalWSController) handleSpaceJoin(sess *wsSession, data []byte) {
	var req app.SpaceJoinRequest
	if !decode(sess, data, &req) {
		return
	}
	sess.defaultTown(&req.CoveyTownID)
	if req.PlayerID == "" {
		req.PlayerID = string(sess.player)
	}
	sendEnvelope(sess.conn, "space_join_response", app.SpaceJoinHandler(ctl.Towns, req))
}

func (ctl *SignalWSController) handleSpaceList(sess *wsSession, data []byte) {
	var req app.SpaceListRequest
	if !decode(sess, data, &req) {
		return
	}
	sess.defaultTown(&req.CoveyTownID)
	sendEnvelope(sess.conn, "space_list_response", app.SpaceListHandler(ctl.Towns, req))
}

func (ctl *SignalWSController) handleSpaceClaim(sess *wsSession, data []byte) {
	var req app.SpaceClaimRequest
	if !decode(sess, data, &req) {
		return
	}
	sess.defaultTown(&req.CoveyTownID)
	if req.HostID == "" {
		req.HostID = string(sess.player)
	}
	sendEnvelope(sess.conn, "space_claim_response", app.SpaceClaimHandler(ctl.Towns, req))
}

func (ctl *SignalWSController) handleSpaceUpdate(sess *wsSession, data []byte) {
	var req app.SpaceUpdateRequest
	if !decode(sess, data, &req) {
		return
	}
	sess.defaultTown(&req.CoveyTownID)
	sendEnvelope(sess.conn, "space_update_response", app.SpaceUpdateHandler(ctl.Towns, req))
}

func (ctl *SignalWSController) handleSpaceDisband(sess *wsSession, data []byte) {
	var req app.SpaceDisbandRequest
	if !decode(sess, data, &req) {
		return
	}
	sess.defaultTown(&req.CoveyTownID)
	sendEnvelope(sess.conn, "space_disband_response", app.SpaceDisbandHandler(ctl.Towns, req))
}
