package domain

import (
	"context"
)

// Entity is an opaque handle to something living in the host world.
type Entity interface {
	Name() string
	IsPlayer() bool
}

// Identity names the owner of an account. Handle is the live host entity
// when the identity was resolved from one, nil for raw usernames.
type Identity struct {
	Username string
	Handle   Entity
}

func NewIdentity(username string) Identity {
	return Identity{Username: username}
}

// IdentityOf builds the identity of a resolved player entity.
func IdentityOf(e Entity) Identity {
	return Identity{Username: e.Name(), Handle: e}
}

func (i Identity) IsZero() bool {
	return i.Username == ""
}

func (i Identity) String() string {
	return i.Username
}

// Permission levels of command origins.
const (
	PermissionMember   = 0
	PermissionOperator = 1
	PermissionConsole  = 4
)

// Origin is whoever invoked a command: a player or the console.
type Origin interface {
	// Player returns the acting player's identity, false for non-players.
	Player() (Identity, bool)
	PermissionLevel() int
}

// Resolver turns a target selector into the ordered entities it matches.
type Resolver interface {
	Resolve(ctx context.Context, origin Origin, selector string) ([]Entity, error)
}

// Messenger delivers out-of-band chat messages to players.
type Messenger interface {
	SendMessage(ctx context.Context, to Identity, message string) error
}

// PlayerJoinedHandler is invoked once for every player joining the world.
type PlayerJoinedHandler func(ctx context.Context, player Entity)

// JoinEvents is the host's join-event notification source.
type JoinEvents interface {
	OnPlayerJoin(handler PlayerJoinedHandler) (unsubscribe func())
}
