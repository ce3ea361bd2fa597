package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

func setupTown(t *testing.T, names ...string) (*TownManager, *Town, map[string]*domain.Player) {
	t.Helper()
	towns := NewTownManager()
	town := towns.GetOrCreate("t1")
	players := make(map[string]*domain.Player, len(names))
	for _, name := range names {
		p, err := town.AddPlayer(name)
		require.NoError(t, err)
		players[name] = p
	}
	return towns, town, players
}

func TestSpaceCreateHandler(t *testing.T) {
	towns, town, _ := setupTown(t)

	env := SpaceCreateHandler(towns, SpaceCreateRequest{CoveyTownID: "t1", CoveySpaceID: ""})
	assert.False(t, env.IsOK)
	assert.NotEmpty(t, env.Message)

	env = SpaceCreateHandler(towns, SpaceCreateRequest{CoveyTownID: "nowhere", CoveySpaceID: "lobby"})
	assert.False(t, env.IsOK)

	env = SpaceCreateHandler(towns, SpaceCreateRequest{CoveyTownID: "t1", CoveySpaceID: "lobby"})
	require.True(t, env.IsOK)
	_, ok := town.Spaces().Get("lobby")
	assert.True(t, ok)

	// Idempotent by identifier.
	env = SpaceCreateHandler(towns, SpaceCreateRequest{CoveyTownID: "t1", CoveySpaceID: "lobby"})
	assert.True(t, env.IsOK)
	assert.Len(t, town.Spaces().List(), 1)
}

func TestSpaceJoinHandler(t *testing.T) {
	towns, town, players := setupTown(t, "ada", "bob")
	town.Spaces().Create("lobby")

	env := SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "nowhere", CoveySpaceID: "lobby", PlayerID: string(players["ada"].ID)})
	assert.False(t, env.IsOK)

	env = SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", PlayerID: "ghost"})
	assert.False(t, env.IsOK)

	env = SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "void", PlayerID: string(players["ada"].ID)})
	assert.False(t, env.IsOK)

	env = SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", PlayerID: string(players["ada"].ID)})
	require.True(t, env.IsOK)
	require.NotNil(t, env.Response)
	require.Len(t, env.Response.Members, 1)
	assert.Equal(t, players["ada"].ID, env.Response.Members[0].ID)
	assert.Equal(t, "ada", env.Response.Members[0].UserName)
	assert.Empty(t, env.Response.HostID)

	// Join a claimed space as a non-whitelisted player.
	space, _ := town.Spaces().Get("lobby")
	require.True(t, space.ClaimHost(players["ada"].ID))
	env = SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", PlayerID: string(players["bob"].ID)})
	assert.False(t, env.IsOK)
	// Claiming kept ada (the claimer); bob's failed join changed nothing.
	assert.Equal(t, 1, space.MemberCount())
}

func TestSpaceListHandler(t *testing.T) {
	towns, town, players := setupTown(t, "host")
	town.Spaces().Create("open")
	closed := town.Spaces().Create("closed")
	require.True(t, closed.ClaimHost(players["host"].ID))

	env := SpaceListHandler(towns, SpaceListRequest{CoveyTownID: "nowhere"})
	assert.False(t, env.IsOK)

	env = SpaceListHandler(towns, SpaceListRequest{CoveyTownID: "t1"})
	require.True(t, env.IsOK)
	require.NotNil(t, env.Response)
	assert.Len(t, env.Response.Spaces, 2)
}

func TestSpaceClaimHandler(t *testing.T) {
	towns, town, players := setupTown(t, "host", "rival")
	town.Spaces().Create("lobby")

	env := SpaceClaimHandler(towns, SpaceClaimRequest{CoveyTownID: "t1", CoveySpaceID: "void", HostID: string(players["host"].ID)})
	assert.False(t, env.IsOK)

	env = SpaceClaimHandler(towns, SpaceClaimRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", HostID: string(players["host"].ID)})
	assert.True(t, env.IsOK)

	// Claiming is exclusive; no forced takeover.
	env = SpaceClaimHandler(towns, SpaceClaimRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", HostID: string(players["rival"].ID)})
	assert.False(t, env.IsOK)

	space, _ := town.Spaces().Get("lobby")
	host, _ := space.Host()
	assert.Equal(t, players["host"].ID, host)
}

func TestSpaceDisbandHandler(t *testing.T) {
	towns, town, players := setupTown(t, "ada")
	town.Spaces().Create("lobby")

	env := SpaceDisbandHandler(towns, SpaceDisbandRequest{CoveyTownID: "t1", CoveySpaceID: "lobby"})
	assert.True(t, env.IsOK)
	_, ok := town.Spaces().Get("lobby")
	assert.False(t, ok)

	// A handler call against the disbanded space reports NotFound.
	join := SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", PlayerID: string(players["ada"].ID)})
	assert.False(t, join.IsOK)

	// Disbanding the absent space again is still the requested outcome.
	env = SpaceDisbandHandler(towns, SpaceDisbandRequest{CoveyTownID: "t1", CoveySpaceID: "lobby"})
	assert.True(t, env.IsOK)
	env = SpaceDisbandHandler(towns, SpaceDisbandRequest{CoveyTownID: "nowhere", CoveySpaceID: "lobby"})
	assert.True(t, env.IsOK)
}

func TestSpaceUpdateHandler(t *testing.T) {
	towns, town, players := setupTown(t, "host", "friend", "viewer")
	town.Spaces().Create("lobby")
	space, _ := town.Spaces().Get("lobby")

	// Claim, whitelist and presenter in one bundle. The new host is not in
	// the whitelist; host changes apply first so it does not need to be.
	env := SpaceUpdateHandler(towns, SpaceUpdateRequest{
		CoveyTownID:  "t1",
		CoveySpaceID: "lobby",
		HostID:       string(players["host"].ID),
		PresenterID:  string(players["friend"].ID),
		Whitelist:    []string{string(players["friend"].ID), "ghost"},
	})
	require.True(t, env.IsOK)

	assert.True(t, space.IsPrivate())
	assert.True(t, space.Admit(players["host"].ID))
	assert.True(t, space.Admit(players["friend"].ID))
	assert.False(t, space.Admit(players["viewer"].ID))
	presenter, _ := space.Presenter()
	assert.Equal(t, players["friend"].ID, presenter)
	assert.Len(t, space.WhitelistSnapshot(), 1)

	// Same host again is a no-op, not a failed re-claim.
	env = SpaceUpdateHandler(towns, SpaceUpdateRequest{
		CoveyTownID:  "t1",
		CoveySpaceID: "lobby",
		HostID:       string(players["host"].ID),
		Whitelist:    []string{string(players["friend"].ID)},
	})
	assert.True(t, env.IsOK)

	// A different host while private fails.
	env = SpaceUpdateHandler(towns, SpaceUpdateRequest{
		CoveyTownID:  "t1",
		CoveySpaceID: "lobby",
		HostID:       string(players["friend"].ID),
	})
	assert.False(t, env.IsOK)

	// Empty host releases: presenter and whitelist are gone.
	env = SpaceUpdateHandler(towns, SpaceUpdateRequest{CoveyTownID: "t1", CoveySpaceID: "lobby"})
	require.True(t, env.IsOK)
	assert.False(t, space.IsPrivate())
	_, ok := space.Presenter()
	assert.False(t, ok)
	assert.Empty(t, space.WhitelistSnapshot())
}

func TestSpaceUpdateHandlerUnknownPresenter(t *testing.T) {
	towns, town, players := setupTown(t, "host")
	town.Spaces().Create("lobby")

	env := SpaceUpdateHandler(towns, SpaceUpdateRequest{
		CoveyTownID:  "t1",
		CoveySpaceID: "lobby",
		HostID:       string(players["host"].ID),
		PresenterID:  "ghost",
	})
	assert.False(t, env.IsOK)
}

// TestSpaceLifecycleScenario walks the full create/claim/whitelist/join/
// release sequence end to end through the handlers.
func TestSpaceLifecycleScenario(t *testing.T) {
	towns, town, players := setupTown(t, "H", "X", "Y")
	h, x, y := players["H"], players["X"], players["Y"]

	env := SpaceCreateHandler(towns, SpaceCreateRequest{CoveyTownID: "t1", CoveySpaceID: "S1"})
	require.True(t, env.IsOK)

	claim := SpaceClaimHandler(towns, SpaceClaimRequest{CoveyTownID: "t1", CoveySpaceID: "S1", HostID: string(h.ID)})
	require.True(t, claim.IsOK)

	join := SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "S1", PlayerID: string(h.ID)})
	require.True(t, join.IsOK)
	require.Len(t, join.Response.Members, 1)

	join = SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "S1", PlayerID: string(x.ID)})
	require.False(t, join.IsOK)

	space, _ := town.Spaces().Get("S1")
	require.True(t, space.WhitelistAdd(x.ID))

	join = SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "S1", PlayerID: string(x.ID)})
	require.True(t, join.IsOK)
	require.Len(t, join.Response.Members, 2)
	assert.Equal(t, string(h.ID), join.Response.HostID)

	space.ReleaseHost()
	assert.Empty(t, space.WhitelistSnapshot())

	join = SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "S1", PlayerID: string(y.ID)})
	require.True(t, join.IsOK)
	assert.Len(t, join.Response.Members, 3)
	assert.Empty(t, join.Response.HostID)
}

func TestHandlersPublishEvents(t *testing.T) {
	towns, town, players := setupTown(t, "host", "ada")
	w := &recordingWatcher{}
	town.Watch(w)

	require.True(t, SpaceCreateHandler(towns, SpaceCreateRequest{CoveyTownID: "t1", CoveySpaceID: "lobby"}).IsOK)
	require.True(t, SpaceJoinHandler(towns, SpaceJoinRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", PlayerID: string(players["ada"].ID)}).IsOK)
	require.True(t, SpaceUpdateHandler(towns, SpaceUpdateRequest{CoveyTownID: "t1", CoveySpaceID: "lobby", HostID: string(players["host"].ID)}).IsOK)
	require.True(t, SpaceDisbandHandler(towns, SpaceDisbandRequest{CoveyTownID: "t1", CoveySpaceID: "lobby"}).IsOK)

	types := []string{}
	for _, evt := range w.snapshot() {
		types = append(types, evt.Type)
	}
	assert.Equal(t, []string{EventPlayerJoined, EventSpaceClaimed, EventSpaceUpdated, EventSpaceDisbanded}, types)
}
