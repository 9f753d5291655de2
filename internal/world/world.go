// Package world is a minimal in-process game host: it tracks who is online,
// resolves target selectors, delivers chat messages and announces joins.
package world

import (
	"context"
	"log/slog"
	"math/rand"
	"slices"
	"sync"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

type World struct {
	mu       sync.RWMutex
	entities []domain.Entity
	players  map[string]*Player
	mailbox  map[string][]string

	subMu       sync.RWMutex
	subscribers map[int]domain.PlayerJoinedHandler
	nextSubID   int

	logger *slog.Logger
}

func New(logger *slog.Logger) *World {
	return &World{
		players:     make(map[string]*Player),
		mailbox:     make(map[string][]string),
		subscribers: make(map[int]domain.PlayerJoinedHandler),
		logger:      logger,
	}
}

// Join brings a player online and announces it to join subscribers.
func (w *World) Join(ctx context.Context, username string, operator bool) (*Player, error) {
	if username == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "username is required")
	}

	w.mu.Lock()
	if _, online := w.players[username]; online {
		w.mu.Unlock()
		return nil, errors.ErrPlayerAlreadyOnline
	}
	p := &Player{username: username, operator: operator}
	w.players[username] = p
	w.entities = append(w.entities, p)
	w.mu.Unlock()

	w.logger.Info("Player joined", "username", username, "operator", operator)

	w.subMu.RLock()
	handlers := make([]domain.PlayerJoinedHandler, 0, len(w.subscribers))
	for _, h := range w.subscribers {
		handlers = append(handlers, h)
	}
	w.subMu.RUnlock()

	for _, h := range handlers {
		h(ctx, p)
	}

	return p, nil
}

func (w *World) Leave(username string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	p, online := w.players[username]
	if !online {
		return errors.ErrPlayerNotOnline
	}
	delete(w.players, username)
	w.entities = slices.DeleteFunc(w.entities, func(e domain.Entity) bool { return e == domain.Entity(p) })

	w.logger.Info("Player left", "username", username)
	return nil
}

// Spawn adds a named non-player entity.
func (w *World) Spawn(name string) *Mob {
	m := &Mob{name: name}

	w.mu.Lock()
	w.entities = append(w.entities, m)
	w.mu.Unlock()

	return m
}

func (w *World) Player(username string) (*Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[username]
	return p, ok
}

// Origin returns the command origin of an online player.
func (w *World) Origin(username string) (domain.Origin, error) {
	p, ok := w.Player(username)
	if !ok {
		return nil, errors.ErrPlayerNotOnline
	}
	return playerOrigin{player: p}, nil
}

func (w *World) OnPlayerJoin(handler domain.PlayerJoinedHandler) (unsubscribe func()) {
	w.subMu.Lock()
	id := w.nextSubID
	w.nextSubID++
	w.subscribers[id] = handler
	w.subMu.Unlock()

	return func() {
		w.subMu.Lock()
		delete(w.subscribers, id)
		w.subMu.Unlock()
	}
}

// SendMessage queues a chat message for the player.
func (w *World) SendMessage(_ context.Context, to domain.Identity, message string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, online := w.players[to.Username]; !online {
		return errors.ErrPlayerNotOnline
	}
	w.mailbox[to.Username] = append(w.mailbox[to.Username], message)
	return nil
}

// Messages drains the player's queued messages.
func (w *World) Messages(username string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	msgs := w.mailbox[username]
	delete(w.mailbox, username)
	return msgs
}

// Resolve implements selector resolution:
//
//	@a  all players        @e  all entities
//	@s  the origin         @p  the first player
//	@r  one random player  otherwise an exact name match
func (w *World) Resolve(_ context.Context, origin domain.Origin, selector string) ([]domain.Entity, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	switch selector {
	case "@a":
		return w.playersLocked(), nil
	case "@e":
		return slices.Clone(w.entities), nil
	case "@s":
		id, ok := origin.Player()
		if !ok {
			return nil, nil
		}
		if p, online := w.players[id.Username]; online {
			return []domain.Entity{p}, nil
		}
		return nil, nil
	case "@p":
		players := w.playersLocked()
		if len(players) == 0 {
			return nil, nil
		}
		return players[:1], nil
	case "@r":
		players := w.playersLocked()
		if len(players) == 0 {
			return nil, nil
		}
		return []domain.Entity{players[rand.Intn(len(players))]}, nil
	}

	var matched []domain.Entity
	for _, e := range w.entities {
		if e.Name() == selector {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (w *World) playersLocked() []domain.Entity {
	var out []domain.Entity
	for _, e := range w.entities {
		if e.IsPlayer() {
			out = append(out, e)
		}
	}
	return out
}

var (
	_ domain.Resolver   = (*World)(nil)
	_ domain.Messenger  = (*World)(nil)
	_ domain.JoinEvents = (*World)(nil)
)
