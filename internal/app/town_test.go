package app

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

// recordingWatcher collects published events.
type recordingWatcher struct {
	mu     sync.Mutex
	events []SpaceEvent
}

func (w *recordingWatcher) OnSpaceEvent(evt SpaceEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, evt)
}

func (w *recordingWatcher) snapshot() []SpaceEvent {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]SpaceEvent(nil), w.events...)
}

func TestAddAndResolvePlayer(t *testing.T) {
	town := NewTown("t1")

	p, err := town.AddPlayer("ada")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, ok := town.ResolvePlayer(p.ID)
	require.True(t, ok)
	assert.Equal(t, "ada", got.UserName)

	_, ok = town.ResolvePlayer("ghost")
	assert.False(t, ok)
}

func TestAddPlayerValidation(t *testing.T) {
	town := NewTown("t1")

	_, err := town.AddPlayer("")
	assert.ErrorIs(t, err, domain.ErrUserNameEmpty)

	_, err = town.AddPlayer("this user name is far too long to be accepted here")
	assert.ErrorIs(t, err, domain.ErrUserNameTooLong)
}

func TestRemovePlayerEvictsFromSpaces(t *testing.T) {
	town := NewTown("t1")
	p, err := town.AddPlayer("ada")
	require.NoError(t, err)

	space := town.Spaces().Create("lobby")
	require.True(t, space.Admit(p.ID))
	require.Equal(t, 1, space.MemberCount())

	town.RemovePlayer(p.ID)

	assert.Zero(t, space.MemberCount())
	_, ok := town.ResolvePlayer(p.ID)
	assert.False(t, ok)
}

func TestClaimNotificationReachesWatchers(t *testing.T) {
	town := NewTown("t1")
	host, err := town.AddPlayer("host")
	require.NoError(t, err)

	w := &recordingWatcher{}
	cancel := town.Watch(w)

	space := town.Spaces().Create("lobby")
	require.True(t, space.ClaimHost(host.ID))

	events := w.snapshot()
	require.Len(t, events, 1)
	assert.Equal(t, EventSpaceClaimed, events[0].Type)
	assert.Equal(t, domain.SpaceID("lobby"), events[0].SpaceID)

	// After cancel the watcher is silent.
	cancel()
	town.Publish(SpaceEvent{Type: EventSpaceUpdated, SpaceID: "lobby"})
	assert.Len(t, w.snapshot(), 1)
}
