package app

import (
	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

// Request handlers are the translation layer between transport payloads
// and the space state machines. They validate input shape, resolve the
// target town and space, invoke the implied operations and wrap the
// outcome in a ResponseEnvelope. All failures stay local; nothing here
// panics on bad input.

func SpaceCreateHandler(towns *TownManager, req SpaceCreateRequest) ResponseEnvelope[Empty] {
	if req.CoveySpaceID == "" {
		return envFail[Empty]("space ID must not be empty")
	}
	town, ok := towns.Get(domain.TownID(req.CoveyTownID))
	if !ok {
		return envFail[Empty]("town " + req.CoveyTownID + " not found")
	}
	town.Spaces().Create(domain.SpaceID(req.CoveySpaceID))
	return envOKMsg(Empty{}, "space "+req.CoveySpaceID+" created")
}

func SpaceJoinHandler(towns *TownManager, req SpaceJoinRequest) ResponseEnvelope[SpaceJoinResponse] {
	town, ok := towns.Get(domain.TownID(req.CoveyTownID))
	if !ok {
		return envFail[SpaceJoinResponse]("town " + req.CoveyTownID + " not found")
	}
	playerID := domain.PlayerID(req.PlayerID)
	if _, ok := town.ResolvePlayer(playerID); !ok {
		return envFail[SpaceJoinResponse]("player " + req.PlayerID + " not found in town")
	}
	space, ok := town.Spaces().Get(domain.SpaceID(req.CoveySpaceID))
	if !ok {
		return envFail[SpaceJoinResponse]("space " + req.CoveySpaceID + " not found")
	}
	if !space.Admit(playerID) {
		return envFail[SpaceJoinResponse]("space " + req.CoveySpaceID + " is private")
	}
	town.Publish(SpaceEvent{Type: EventPlayerJoined, SpaceID: space.Space().ID, PlayerID: playerID})

	host, _ := space.Host()
	presenter, _ := space.Presenter()
	return envOK(SpaceJoinResponse{
		Members:     space.MembersSnapshot(),
		HostID:      string(host),
		PresenterID: string(presenter),
	})
}

func SpaceListHandler(towns *TownManager, req SpaceListRequest) ResponseEnvelope[SpaceListResponse] {
	town, ok := towns.Get(domain.TownID(req.CoveyTownID))
	if !ok {
		return envFail[SpaceListResponse]("town " + req.CoveyTownID + " not found")
	}
	return envOK(SpaceListResponse{Spaces: town.Spaces().List()})
}

func SpaceClaimHandler(towns *TownManager, req SpaceClaimRequest) ResponseEnvelope[Empty] {
	town, ok := towns.Get(domain.TownID(req.CoveyTownID))
	if !ok {
		return envFail[Empty]("town " + req.CoveyTownID + " not found")
	}
	space, ok := town.Spaces().Get(domain.SpaceID(req.CoveySpaceID))
	if !ok {
		return envFail[Empty]("space " + req.CoveySpaceID + " not found")
	}
	if !space.ClaimHost(domain.PlayerID(req.HostID)) {
		return envFail[Empty]("unable to claim space " + req.CoveySpaceID)
	}
	return envOKMsg(Empty{}, "space "+req.CoveySpaceID+" claimed")
}

// SpaceDisbandHandler removes the space unconditionally. A missing town or
// space is already the requested outcome, not an error.
func SpaceDisbandHandler(towns *TownManager, req SpaceDisbandRequest) ResponseEnvelope[Empty] {
	if town, ok := towns.Get(domain.TownID(req.CoveyTownID)); ok {
		spaceID := domain.SpaceID(req.CoveySpaceID)
		if _, ok := town.Spaces().Get(spaceID); ok {
			town.Spaces().Disband(spaceID)
			town.Publish(SpaceEvent{Type: EventSpaceDisbanded, SpaceID: spaceID})
		}
	}
	return envOK(Empty{})
}

// SpaceUpdateHandler applies host, whitelist and presenter changes in that
// order. Host first means a freshly claimed host never needs to appear in
// the whitelist shipped with the same update; Admit has an explicit host
// clause.
func SpaceUpdateHandler(towns *TownManager, req SpaceUpdateRequest) ResponseEnvelope[Empty] {
	town, ok := towns.Get(domain.TownID(req.CoveyTownID))
	if !ok {
		return envFail[Empty]("town " + req.CoveyTownID + " not found")
	}
	space, ok := town.Spaces().Get(domain.SpaceID(req.CoveySpaceID))
	if !ok {
		return envFail[Empty]("space " + req.CoveySpaceID + " not found")
	}

	if req.HostID == "" {
		space.ReleaseHost()
	} else if host, has := space.Host(); !has || host != domain.PlayerID(req.HostID) {
		if !space.ClaimHost(domain.PlayerID(req.HostID)) {
			return envFail[Empty]("unable to claim space " + req.CoveySpaceID + " for host " + req.HostID)
		}
	}

	ids := make([]domain.PlayerID, 0, len(req.Whitelist))
	for _, raw := range req.Whitelist {
		ids = append(ids, domain.PlayerID(raw))
	}
	space.WhitelistReplace(ids)

	if !space.SetPresenter(domain.PlayerID(req.PresenterID)) {
		return envFail[Empty]("presenter " + req.PresenterID + " not found")
	}

	log.Debug().Str("module", "app.handlers").Str("space", req.CoveySpaceID).Msg("space updated")
	town.Publish(SpaceEvent{Type: EventSpaceUpdated, SpaceID: space.Space().ID})
	return envOK(Empty{})
}
