package service

import (
	"context"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
	"player-economy/internal/ledger"
	"player-economy/internal/lock"
)

// Ledger is the balance store the services operate on.
type Ledger interface {
	Get(ctx context.Context, id domain.Identity) (int64, error)
	Set(ctx context.Context, id domain.Identity, balance int64) error
	SetBalances(ctx context.Context, entries ...ledger.Entry) error
	Lock(ctx context.Context, ids ...domain.Identity) (lock.Unlock, error)
}

var _ Ledger = (*ledger.Ledger)(nil)

// singlePlayer enforces that a selector matched exactly one player.
func singlePlayer(targets []domain.Entity, tooMany error) (domain.Identity, error) {
	switch {
	case len(targets) == 0:
		return domain.Identity{}, errors.ErrNoTargetMatched
	case len(targets) != 1:
		return domain.Identity{}, tooMany
	case !targets[0].IsPlayer():
		return domain.Identity{}, errors.ErrTargetNotPlayer
	}
	return domain.IdentityOf(targets[0]), nil
}
