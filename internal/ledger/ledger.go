// Package ledger owns every read and write of player balances.
//
// The ledger tolerates a missing database: until Open succeeds, and after
// Close, it is detached and every operation degrades to a safe default (0
// for balances, false for membership, no-op for writes). Storage failures
// are logged where they happen and never take the process down.
package ledger

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"
	"sync"

	"player-economy/internal/config"
	"player-economy/internal/domain"
	"player-economy/internal/errors"
	"player-economy/internal/lock"
	"player-economy/internal/repository"
)

// Entry is one balance write in a SetBalances batch.
type Entry struct {
	Identity domain.Identity
	Balance  int64
}

type Ledger struct {
	mu    sync.RWMutex
	db    *sql.DB
	store *repository.Store

	locker lock.Locker
	logger *slog.Logger
}

func New(locker lock.Locker, logger *slog.Logger) *Ledger {
	if locker == nil {
		locker = lock.NewKeyedMutex()
	}
	return &Ledger{
		locker: locker,
		logger: logger,
	}
}

// Open connects to the configured database and attaches the ledger. On
// failure the ledger stays detached.
func (l *Ledger) Open(ctx context.Context, cfg config.DatabaseConfig) error {
	db, dialect, err := repository.Open(ctx, cfg, l.logger)
	if err != nil {
		l.logger.Error("Failed to open database connection", "driver", cfg.Driver, "error", err)
		return err
	}

	l.Attach(db, dialect)
	return nil
}

// Attach takes ownership of an already migrated database handle.
func (l *Ledger) Attach(db *sql.DB, dialect repository.Dialect) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.db = db
	l.store = repository.NewStore(db, dialect, l.logger)
}

// Close releases the database handle. The ledger is detached afterwards
// even when closing fails.
func (l *Ledger) Close() error {
	l.mu.Lock()
	db := l.db
	l.db = nil
	l.store = nil
	l.mu.Unlock()

	if db == nil {
		return nil
	}
	if err := db.Close(); err != nil {
		l.logger.Error("Failed to close database connection", "error", err)
		return err
	}
	return nil
}

// Attached reports whether a database is currently usable.
func (l *Ledger) Attached() bool {
	_, ok := l.attached()
	return ok
}

func (l *Ledger) attached() (*repository.Store, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.store, l.store != nil
}

// Get returns the stored balance of id, or 0 when no row exists or the
// ledger is detached. It never creates a row. On storage failure the
// balance is 0 and the error is returned for callers that report it.
func (l *Ledger) Get(ctx context.Context, id domain.Identity) (int64, error) {
	store, ok := l.attached()
	if !ok {
		return 0, nil
	}

	balance, err := store.Account().GetBalance(ctx, id.Username)
	if err != nil {
		if stderrors.Is(err, errors.ErrAccountNotFound) {
			return 0, nil
		}
		l.logger.Error("Failed to get player balance", "username", id.Username, "error", err)
		return 0, err
	}

	return balance, nil
}

// Set writes balance for id, creating the row when it is missing. It is a
// no-op while detached.
func (l *Ledger) Set(ctx context.Context, id domain.Identity, balance int64) error {
	store, ok := l.attached()
	if !ok {
		return nil
	}

	if err := store.Account().UpsertBalance(ctx, id.Username, balance); err != nil {
		l.logger.Error("Failed to set player balance", "username", id.Username, "balance", balance, "error", err)
		return err
	}
	return nil
}

// SetBalances writes every entry in a single database transaction: either
// all balances change or none do.
func (l *Ledger) SetBalances(ctx context.Context, entries ...Entry) error {
	store, ok := l.attached()
	if !ok || len(entries) == 0 {
		return nil
	}

	err := store.WithTransaction(ctx, func(tx *repository.Store) error {
		repo := tx.Account()
		for _, e := range entries {
			if err := repo.UpsertBalance(ctx, e.Identity.Username, e.Balance); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		l.logger.Error("Failed to set player balances", "accounts", len(entries), "error", err)
		return err
	}
	return nil
}

// EnsureAccount creates the account of id with defaultBalance unless one
// already exists.
func (l *Ledger) EnsureAccount(ctx context.Context, id domain.Identity, defaultBalance int64) error {
	store, ok := l.attached()
	if !ok {
		return nil
	}

	created, err := store.Account().CreateAccount(ctx, &domain.Account{
		Username: id.Username,
		Balance:  defaultBalance,
	})
	if err != nil {
		l.logger.Error("Failed to add player to database", "username", id.Username, "error", err)
		return err
	}
	if created {
		l.logger.Debug("Player was added to database", "username", id.Username)
	}
	return nil
}

// Has reports whether id has an account row. It is false while detached.
func (l *Ledger) Has(ctx context.Context, id domain.Identity) (bool, error) {
	store, ok := l.attached()
	if !ok {
		return false, nil
	}

	exists, err := store.Account().Exists(ctx, id.Username)
	if err != nil {
		l.logger.Error("Failed to check if player exists", "username", id.Username, "error", err)
		return false, err
	}
	return exists, nil
}

// Accounts lists every account, richest first. It is empty while detached.
func (l *Ledger) Accounts(ctx context.Context) ([]domain.Account, error) {
	store, ok := l.attached()
	if !ok {
		return nil, nil
	}

	accounts, err := store.Account().ListAccounts(ctx)
	if err != nil {
		l.logger.Error("Failed to list accounts", "error", err)
		return nil, err
	}
	return accounts, nil
}

// Lock serializes mutations of the given accounts until the returned
// function is called.
func (l *Ledger) Lock(ctx context.Context, ids ...domain.Identity) (lock.Unlock, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.Username
	}

	unlock, err := l.locker.Lock(ctx, keys...)
	if err != nil {
		l.logger.Warn("Failed to acquire account lock", "accounts", keys, "error", err)
		return nil, errors.ErrLockUnavailable.WithDetails(err.Error())
	}
	return unlock, nil
}
