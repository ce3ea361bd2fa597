package core

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/sckohen/covey.town-projectTofu/internal/domain"
)

// spaceImpl is a threadsafe in-memory space. Privacy is derived, not
// stored: the space is private exactly while host is non-empty.
type spaceImpl struct {
	space    *domain.Space
	resolver PlayerResolver
	notifier ClaimNotifier

	mu        sync.RWMutex
	members   map[domain.PlayerID]struct{}
	order     []domain.PlayerID // member insertion order, kept for display
	host      domain.PlayerID
	presenter domain.PlayerID
	whitelist map[domain.PlayerID]struct{}
}

func NewSpace(space *domain.Space, resolver PlayerResolver, notifier ClaimNotifier) SpaceService {
	return &spaceImpl{
		space:     space,
		resolver:  resolver,
		notifier:  notifier,
		members:   make(map[domain.PlayerID]struct{}),
		whitelist: make(map[domain.PlayerID]struct{}),
	}
}

func (s *spaceImpl) Space() *domain.Space { return s.space }

func (s *spaceImpl) IsPrivate() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.host != ""
}

func (s *spaceImpl) Host() (domain.PlayerID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.host, s.host != ""
}

func (s *spaceImpl) Presenter() (domain.PlayerID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.presenter, s.presenter != ""
}

func (s *spaceImpl) MemberCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.members)
}

func (s *spaceImpl) MembersSnapshot() []PlayerDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PlayerDTO, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.playerDTO(id))
	}
	return out
}

func (s *spaceImpl) WhitelistSnapshot() []PlayerDTO {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PlayerDTO, 0, len(s.whitelist))
	for id := range s.whitelist {
		out = append(out, s.playerDTO(id))
	}
	return out
}

// playerDTO resolves the display name best-effort; a player that vanished
// since being stored still appears with its bare ID.
func (s *spaceImpl) playerDTO(id domain.PlayerID) PlayerDTO {
	if p, ok := s.resolver.ResolvePlayer(id); ok {
		return PlayerDTO{ID: p.ID, UserName: p.UserName}
	}
	return PlayerDTO{ID: id}
}

func (s *spaceImpl) ClaimHost(id domain.PlayerID) bool {
	if _, ok := s.resolver.ResolvePlayer(id); !ok {
		return false
	}
	s.mu.Lock()
	if s.host != "" {
		s.mu.Unlock()
		log.Debug().Str("module", "core.space").Str("space", string(s.space.ID)).Str("player", string(id)).Msg("claim rejected, already private")
		return false
	}
	s.host = id
	// Everyone but the claimer must rejoin through the new admission policy.
	if _, ok := s.members[id]; ok {
		s.members = map[domain.PlayerID]struct{}{id: {}}
		s.order = []domain.PlayerID{id}
	} else {
		s.members = make(map[domain.PlayerID]struct{})
		s.order = nil
	}
	s.mu.Unlock()

	log.Info().Str("module", "core.space").Str("space", string(s.space.ID)).Str("host", string(id)).Msg("space claimed")
	if s.notifier != nil {
		s.notifier.NotifySpaceClaimed(s.space.ID)
	}
	return true
}

func (s *spaceImpl) ReleaseHost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publicizeLocked()
}

// publicizeLocked clears host, presenter and whitelist. Members already
// inside stay inside. Caller holds the write lock.
func (s *spaceImpl) publicizeLocked() {
	if s.host == "" {
		return
	}
	log.Info().Str("module", "core.space").Str("space", string(s.space.ID)).Str("host", string(s.host)).Msg("space publicized")
	s.host = ""
	s.presenter = ""
	s.whitelist = make(map[domain.PlayerID]struct{})
}

func (s *spaceImpl) SetPresenter(id domain.PlayerID) bool {
	if id != "" {
		if _, ok := s.resolver.ResolvePlayer(id); !ok {
			return false
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presenter = id
	return true
}

func (s *spaceImpl) Admit(id domain.PlayerID) bool {
	if _, ok := s.resolver.ResolvePlayer(id); !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; ok {
		return true
	}

	if s.host != "" {
		// Host abandonment recovery: a private space whose host vanished
		// must not lock everyone out, so repair before evaluating policy.
		if _, ok := s.resolver.ResolvePlayer(s.host); !ok {
			s.publicizeLocked()
		} else if id != s.host {
			if _, ok := s.whitelist[id]; !ok {
				log.Debug().Str("module", "core.space").Str("space", string(s.space.ID)).Str("player", string(id)).Msg("admission rejected")
				return false
			}
		}
	}

	s.members[id] = struct{}{}
	s.order = append(s.order, id)
	log.Info().Str("module", "core.space").Str("space", string(s.space.ID)).Str("player", string(id)).Msg("player admitted")
	return true
}

func (s *spaceImpl) Evict(id domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.members[id]; !ok {
		return
	}
	delete(s.members, id)
	for i, mid := range s.order {
		if mid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	// Presentation rights are tied to presence; control is not.
	if s.presenter == id {
		s.presenter = ""
	}
	log.Info().Str("module", "core.space").Str("space", string(s.space.ID)).Str("player", string(id)).Msg("player evicted")
}

func (s *spaceImpl) WhitelistAdd(id domain.PlayerID) bool {
	if _, ok := s.resolver.ResolvePlayer(id); !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelist[id] = struct{}{}
	return true
}

func (s *spaceImpl) WhitelistRemove(id domain.PlayerID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.whitelist, id)
}

func (s *spaceImpl) WhitelistReplace(ids []domain.PlayerID) {
	next := make(map[domain.PlayerID]struct{}, len(ids))
	for _, id := range ids {
		// Unresolvable entries are dropped, not an error for the call.
		if _, ok := s.resolver.ResolvePlayer(id); ok {
			next[id] = struct{}{}
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelist = next
}
