package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/core"
	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

// SpaceEvent is a push notification about a space, fanned out to town
// subscribers (the WS signal adapter, mainly).
type SpaceEvent struct {
	Type     string          `json:"type"`
	SpaceID  domain.SpaceID  `json:"coveySpaceID"`
	PlayerID domain.PlayerID `json:"playerID,omitempty"`
}

const (
	EventSpaceClaimed   = "space_claimed"
	EventSpaceUpdated   = "space_updated"
	EventSpaceDisbanded = "space_disbanded"
	EventPlayerJoined   = "player_joined_space"
	EventPlayerLeft     = "player_left_space"
)

// SpaceWatcher receives town space events. Implementations must not block.
type SpaceWatcher interface {
	OnSpaceEvent(evt SpaceEvent)
}

// Town is the parent environment of its spaces: it owns the directory of
// connected players and the space manager, and fans out space events.
// It implements core.PlayerResolver and core.ClaimNotifier.
type Town struct {
	id domain.TownID

	mu       sync.RWMutex
	players  map[domain.PlayerID]*domain.Player
	watchers map[int]SpaceWatcher
	nextWID  int

	spaces core.SpaceManager
}

func NewTown(id domain.TownID) *Town {
	t := &Town{
		id:       id,
		players:  make(map[domain.PlayerID]*domain.Player),
		watchers: make(map[int]SpaceWatcher),
	}
	t.spaces = core.NewSpaceManager(id, t, t)
	return t
}

func (t *Town) ID() domain.TownID         { return t.id }
func (t *Town) Spaces() core.SpaceManager { return t.spaces }

// AddPlayer registers a new connected identity with a generated ID.
func (t *Town) AddPlayer(userName string) (*domain.Player, error) {
	p, err := domain.NewPlayer(userName)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.players[p.ID] = p
	t.mu.Unlock()
	log.Info().Str("module", "app.town").Str("town", string(t.id)).Str("player", string(p.ID)).Str("name", userName).Msg("player joined town")
	return p, nil
}

func (t *Town) ResolvePlayer(id domain.PlayerID) (*domain.Player, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.players[id]
	return p, ok
}

// RemovePlayer disconnects the identity and evicts it from every space.
// Spaces whose host vanished are repaired lazily by the next Admit.
func (t *Town) RemovePlayer(id domain.PlayerID) {
	t.mu.Lock()
	_, ok := t.players[id]
	delete(t.players, id)
	t.mu.Unlock()
	if !ok {
		return
	}
	for _, info := range t.spaces.List() {
		if space, ok := t.spaces.Get(info.ID); ok {
			space.Evict(id)
		}
	}
	log.Info().Str("module", "app.town").Str("town", string(t.id)).Str("player", string(id)).Msg("player left town")
}

// PlayersSnapshot lists connected players for the town roster view.
func (t *Town) PlayersSnapshot() []core.PlayerDTO {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]core.PlayerDTO, 0, len(t.players))
	for _, p := range t.players {
		out = append(out, core.PlayerDTO{ID: p.ID, UserName: p.UserName})
	}
	return out
}

// Watch subscribes a watcher and returns its cancel func.
func (t *Town) Watch(w SpaceWatcher) func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	wid := t.nextWID
	t.nextWID++
	t.watchers[wid] = w
	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.watchers, wid)
	}
}

// Publish fans an event out to all current watchers.
func (t *Town) Publish(evt SpaceEvent) {
	t.mu.RLock()
	ws := make([]SpaceWatcher, 0, len(t.watchers))
	for _, w := range t.watchers {
		ws = append(ws, w)
	}
	t.mu.RUnlock()
	for _, w := range ws {
		w.OnSpaceEvent(evt)
	}
}

// NotifySpaceClaimed is the claim side effect required by the space state
// machine. Fire-and-forget from the space's point of view.
func (t *Town) NotifySpaceClaimed(id domain.SpaceID) {
	t.Publish(SpaceEvent{Type: EventSpaceClaimed, SpaceID: id})
}
