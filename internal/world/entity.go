package world

import "player-economy/internal/domain"

// Player is a connected player.
type Player struct {
	username string
	operator bool
}

func (p *Player) Name() string     { return p.username }
func (p *Player) IsPlayer() bool   { return true }
func (p *Player) IsOperator() bool { return p.operator }

// Mob is any non-player entity.
type Mob struct {
	name string
}

func (m *Mob) Name() string   { return m.name }
func (m *Mob) IsPlayer() bool { return false }

var (
	_ domain.Entity = (*Player)(nil)
	_ domain.Entity = (*Mob)(nil)
)

type playerOrigin struct {
	player *Player
}

func (o playerOrigin) Player() (domain.Identity, bool) {
	return domain.IdentityOf(o.player), true
}

func (o playerOrigin) PermissionLevel() int {
	if o.player.operator {
		return domain.PermissionOperator
	}
	return domain.PermissionMember
}

type consoleOrigin struct{}

func (consoleOrigin) Player() (domain.Identity, bool) { return domain.Identity{}, false }
func (consoleOrigin) PermissionLevel() int            { return domain.PermissionConsole }

// Console is the server console: not a player, highest permission.
var Console domain.Origin = consoleOrigin{}
