package domain

import (
	"context"
)

// Account is the persisted balance record of a single player.
type Account struct {
	Username string `json:"username"`
	Balance  int64  `json:"balance"`
}

type AccountRepository interface {
	// GetBalance returns errors.ErrAccountNotFound when no row exists.
	GetBalance(ctx context.Context, username string) (int64, error)
	Exists(ctx context.Context, username string) (bool, error)
	// CreateAccount inserts the account unless a row already exists and
	// reports whether a row was created.
	CreateAccount(ctx context.Context, account *Account) (bool, error)
	UpsertBalance(ctx context.Context, username string, balance int64) error
	ListAccounts(ctx context.Context) ([]Account, error)
}
