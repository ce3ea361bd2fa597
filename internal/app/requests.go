package app

import (
	"github.com/sckohen/covey.town-projectTofu/internal/core"
)

// Request payloads for the six space operations. Field names follow the
// wire contract: space identifiers travel as coveySpaceID, whitelists as
// plain ID sequences on write and full player summaries on read.

type SpaceCreateRequest struct {
	CoveyTownID  string `json:"coveyTownID"`
	CoveySpaceID string `json:"coveySpaceID"`
}

type SpaceJoinRequest struct {
	CoveyTownID  string `json:"coveyTownID"`
	CoveySpaceID string `json:"coveySpaceID"`
	PlayerID     string `json:"playerID"`
}

type SpaceJoinResponse struct {
	Members     []core.PlayerDTO `json:"members"`
	HostID      string           `json:"hostID,omitempty"`
	PresenterID string           `json:"presenterID,omitempty"`
}

type SpaceListRequest struct {
	CoveyTownID string `json:"coveyTownID"`
}

type SpaceListResponse struct {
	Spaces []core.SpaceInfo `json:"spaces"`
}

type SpaceClaimRequest struct {
	CoveyTownID  string `json:"coveyTownID"`
	CoveySpaceID string `json:"coveySpaceID"`
	HostID       string `json:"hostID"`
}

type SpaceDisbandRequest struct {
	CoveyTownID  string `json:"coveyTownID"`
	CoveySpaceID string `json:"coveySpaceID"`
}

// SpaceUpdateRequest bundles host, presenter and whitelist changes.
// An empty HostID releases the host; an empty PresenterID clears the
// presenter. The whitelist is replaced wholesale.
type SpaceUpdateRequest struct {
	CoveyTownID  string   `json:"coveyTownID"`
	CoveySpaceID string   `json:"coveySpaceID"`
	HostID       string   `json:"hostID"`
	PresenterID  string   `json:"presenterID"`
	Whitelist    []string `json:"whitelist"`
}

// Empty is the body of responses that carry no payload.
type Empty struct{}
