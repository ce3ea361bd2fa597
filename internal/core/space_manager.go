package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

type spaceManagerImpl struct {
	town     domain.TownID
	resolver PlayerResolver
	notifier ClaimNotifier

	mu     sync.RWMutex
	spaces map[domain.SpaceID]SpaceService
}

func NewSpaceManager(town domain.TownID, resolver PlayerResolver, notifier ClaimNotifier) SpaceManager {
	return &spaceManagerImpl{
		town:     town,
		resolver: resolver,
		notifier: notifier,
		spaces:   make(map[domain.SpaceID]SpaceService),
	}
}

// Create is idempotent by identifier: a second create for the same ID
// returns the existing instance, never a competing one.
func (m *spaceManagerImpl) Create(id domain.SpaceID) SpaceService {
	m.mu.RLock()
	space, ok := m.spaces[id]
	m.mu.RUnlock()
	if ok {
		return space
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if space, ok = m.spaces[id]; ok {
		return space
	}
	space = NewSpace(&domain.Space{ID: id, Town: m.town}, m.resolver, m.notifier)
	m.spaces[id] = space
	log.Info().Str("module", "core.spaces").Str("town", string(m.town)).Str("space", string(id)).Msg("space created")
	return space
}

func (m *spaceManagerImpl) Get(id domain.SpaceID) (SpaceService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	space, ok := m.spaces[id]
	return space, ok
}

func (m *spaceManagerImpl) List() []SpaceInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]SpaceInfo, 0, len(m.spaces))
	for id, s := range m.spaces {
		host, _ := s.Host()
		presenter, _ := s.Presenter()
		out = append(out, SpaceInfo{
			ID:          id,
			MemberCount: s.MemberCount(),
			IsPrivate:   s.IsPrivate(),
			HostID:      host,
			PresenterID: presenter,
		})
	}
	return out
}

// Disband removes the space unconditionally; callers enforce policy.
func (m *spaceManagerImpl) Disband(id domain.SpaceID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.spaces[id]; !ok {
		return
	}
	delete(m.spaces, id)
	log.Info().Str("module", "core.spaces").Str("town", string(m.town)).Str("space", string(id)).Msg("space disbanded")
}
