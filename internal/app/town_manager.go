package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

// TownManager is the process-wide townID -> Town registry.
type TownManager struct {
	mu    sync.RWMutex
	towns map[domain.TownID]*Town
}

func NewTownManager() *TownManager {
	return &TownManager{towns: make(map[domain.TownID]*Town)}
}

func (m *TownManager) GetOrCreate(id domain.TownID) *Town {
	m.mu.RLock()
	town, ok := m.towns[id]
	m.mu.RUnlock()
	if ok {
		return town
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if town, ok = m.towns[id]; ok {
		return town
	}
	town = NewTown(id)
	m.towns[id] = town
	log.Info().Str("module", "app.towns").Str("town", string(id)).Msg("town created")
	return town
}

func (m *TownManager) Get(id domain.TownID) (*Town, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	town, ok := m.towns[id]
	return town, ok
}

type TownInfo struct {
	ID          domain.TownID `json:"coveyTownID"`
	PlayerCount int           `json:"playerCount"`
}

func (m *TownManager) List() []TownInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TownInfo, 0, len(m.towns))
	for id, t := range m.towns {
		out = append(out, TownInfo{ID: id, PlayerCount: len(t.PlayersSnapshot())})
	}
	return out
}

func (m *TownManager) Remove(id domain.TownID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.towns, id)
	log.Info().Str("module", "app.towns").Str("town", string(id)).Msg("town removed")
}
