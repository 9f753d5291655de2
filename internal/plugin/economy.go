// Package plugin wires the economy into a host: it owns the ledger's
// lifecycle, registers the chat commands and opens accounts for joining
// players.
package plugin

import (
	"context"
	"log/slog"

	"player-economy/internal/command"
	"player-economy/internal/config"
	"player-economy/internal/domain"
	"player-economy/internal/ledger"
	"player-economy/internal/service"
)

const (
	Name    = "EconomyAPI"
	Version = "1.0.0"
)

// Host is everything the economy consumes from the game server.
type Host interface {
	domain.Messenger
	domain.JoinEvents
}

type Options struct {
	Database       config.DatabaseConfig
	DefaultBalance int64
}

type Economy struct {
	ledger     *ledger.Ledger
	dispatcher *command.Dispatcher
	host       Host
	opts       Options

	balances    *service.BalanceService
	transfers   *service.TransferService
	adjustments *service.AdjustmentService

	shutdown shutdownQueue
	logger   *slog.Logger
}

func New(l *ledger.Ledger, dispatcher *command.Dispatcher, host Host, opts Options, logger *slog.Logger) *Economy {
	logger = logger.With("plugin", Name)
	return &Economy{
		ledger:      l,
		dispatcher:  dispatcher,
		host:        host,
		opts:        opts,
		balances:    service.NewBalanceService(l),
		transfers:   service.NewTransferService(l, host, logger),
		adjustments: service.NewAdjustmentService(l, logger),
		logger:      logger,
	}
}

// OnInitialize attaches the database, registers the commands and starts
// listening for joins. A database that cannot be opened is logged and the
// plugin keeps running detached.
func (e *Economy) OnInitialize(ctx context.Context) error {
	e.shutdown.reopen()

	if err := e.ledger.Open(ctx, e.opts.Database); err == nil {
		e.shutdown.add(func(context.Context) error {
			return e.ledger.Close()
		})
	}

	for _, cmd := range e.commands() {
		if err := e.dispatcher.Register(cmd); err != nil {
			return err
		}
		name := cmd.Name
		e.shutdown.add(func(context.Context) error {
			e.dispatcher.Unregister(name)
			return nil
		})
	}

	unsubscribe := e.host.OnPlayerJoin(e.onPlayerJoined)
	e.shutdown.add(func(context.Context) error {
		unsubscribe()
		return nil
	})

	return nil
}

func (e *Economy) OnStartUp() {
	e.logger.Info("Plugin has started successfully", "version", Version, "attached", e.ledger.Attached())
}

// OnShutDown releases everything OnInitialize acquired, newest first.
func (e *Economy) OnShutDown(ctx context.Context) error {
	err := e.shutdown.drain(ctx)
	if err != nil {
		e.logger.Error("Plugin shutdown incomplete", "error", err)
	}
	e.logger.Info("Plugin has stopped successfully")
	return err
}

func (e *Economy) onPlayerJoined(ctx context.Context, player domain.Entity) {
	// Errors are already logged by the ledger.
	_ = e.ledger.EnsureAccount(ctx, domain.IdentityOf(player), e.opts.DefaultBalance)
}

// Get returns the balance of a player. It is 0 when the player has no
// account or the store cannot answer; the ledger logs storage failures.
func (e *Economy) Get(ctx context.Context, id domain.Identity) int64 {
	balance, _ := e.ledger.Get(ctx, id)
	return balance
}

// Set overwrites the balance of a player, serialized with running commands.
func (e *Economy) Set(ctx context.Context, id domain.Identity, balance int64) error {
	unlock, err := e.ledger.Lock(ctx, id)
	if err != nil {
		return err
	}
	defer unlock()

	return e.ledger.Set(ctx, id, balance)
}

// Has reports whether the player has an account, false when the store
// cannot answer.
func (e *Economy) Has(ctx context.Context, id domain.Identity) bool {
	exists, _ := e.ledger.Has(ctx, id)
	return exists
}

// Accounts lists all accounts, richest first.
func (e *Economy) Accounts(ctx context.Context) ([]domain.Account, error) {
	return e.ledger.Accounts(ctx)
}

func (e *Economy) Attached() bool {
	return e.ledger.Attached()
}

func (e *Economy) DefaultBalance() int64 {
	return e.opts.DefaultBalance
}
