package core

import "github.com/sckohen/covey.town-projectTofu/internal/domain"

// PlayerResolver answers whether an identifier still maps to a connected
// player. Owned by the town; spaces never create or destroy players.
type PlayerResolver interface {
	ResolvePlayer(id domain.PlayerID) (*domain.Player, bool)
}

// ClaimNotifier receives the fire-and-forget side effect of a successful
// host claim.
type ClaimNotifier interface {
	NotifySpaceClaimed(id domain.SpaceID)
}

// PlayerDTO is a read-only view for APIs (no transport fields).
type PlayerDTO struct {
	ID       domain.PlayerID `json:"id"`
	UserName string          `json:"userName"`
}

// SpaceService is the core-facing API of a space. It owns the access-control
// state and serializes every mutation; all calls complete in bounded local
// time with no I/O.
type SpaceService interface {
	Space() *domain.Space
	IsPrivate() bool
	Host() (domain.PlayerID, bool)
	Presenter() (domain.PlayerID, bool)
	MemberCount() int
	MembersSnapshot() []PlayerDTO
	WhitelistSnapshot() []PlayerDTO

	// ClaimHost moves the space from public to private. Fails if the space
	// is already private or the claimer does not resolve. On success every
	// member except the claimer is evicted and the claim notifier fires.
	ClaimHost(id domain.PlayerID) bool

	// ReleaseHost publicizes the space: host, presenter and whitelist are
	// cleared. Idempotent; a public space stays public.
	ReleaseHost()

	// SetPresenter stores the presenter verbatim, no membership check.
	// An empty id clears it. Fails only if a non-empty id does not resolve.
	SetPresenter(id domain.PlayerID) bool

	// Admit adds the player to the member set. Always succeeds on a public
	// space or for an existing member. On a private space the player must
	// be the host or whitelisted. If the host itself no longer resolves,
	// the space is publicized first and the player admitted.
	Admit(id domain.PlayerID) bool

	// Evict removes the player from the member set if present. The current
	// presenter loses presentation rights when evicted; the host keeps
	// control regardless of presence.
	Evict(id domain.PlayerID)

	WhitelistAdd(id domain.PlayerID) bool
	WhitelistRemove(id domain.PlayerID)
	WhitelistReplace(ids []domain.PlayerID)
}

// SpaceInfo is the list/summary view of a space.
type SpaceInfo struct {
	ID          domain.SpaceID  `json:"coveySpaceID"`
	MemberCount int             `json:"memberCount"`
	IsPrivate   bool            `json:"isPrivate"`
	HostID      domain.PlayerID `json:"hostID,omitempty"`
	PresenterID domain.PlayerID `json:"presenterID,omitempty"`
}

// SpaceManager is the townwide spaceID -> space registry. Create, Get and
// Disband are atomic with respect to each other.
type SpaceManager interface {
	Create(id domain.SpaceID) SpaceService
	Get(id domain.SpaceID) (SpaceService, bool)
	List() []SpaceInfo
	Disband(id domain.SpaceID)
}
