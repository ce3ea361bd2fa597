package domain

type (
	TownID  string
	SpaceID string
)

// Space is the immutable meta of a sub-area. Mutable access-control state
// (members, host, presenter, whitelist) lives in core, never here.
type Space struct {
	ID   SpaceID
	Town TownID
}
