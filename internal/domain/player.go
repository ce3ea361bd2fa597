// Package domain contains entity types without logic, just meta-data.
package domain

import (
	"errors"

	"github.com/google/uuid"
)

const MaxUserNameLen = 36

var (
	ErrUserNameTooLong = errors.New("user name too long")
	ErrUserNameEmpty   = errors.New("user name empty")
)

type PlayerID string

// Player is a connected identity inside a town. The town owns the set of
// players; spaces only ever reference them by ID.
type Player struct {
	ID       PlayerID `json:"id"`
	UserName string   `json:"userName"`
}

// NewPlayer is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewPlayer(userName string) (*Player, error) {
	if len(userName) == 0 {
		return nil, ErrUserNameEmpty
	}
	if len(userName) > MaxUserNameLen {
		return nil, ErrUserNameTooLong
	}
	return &Player{ID: PlayerID(uuid.NewString()), UserName: userName}, nil
}

func (p *Player) SetUserName(userName string) error {
	if len(userName) == 0 {
		return ErrUserNameEmpty
	}
	if len(userName) > MaxUserNameLen {
		return ErrUserNameTooLong
	}
	p.UserName = userName
	return nil
}
