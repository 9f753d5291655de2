package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"log/slog"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

type accountRepository struct {
	db      SQLExecutor
	dialect Dialect
	logger  *slog.Logger
}

func NewAccountRepository(db SQLExecutor, dialect Dialect, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:      db,
		dialect: dialect,
		logger:  logger,
	}
}

func (r *accountRepository) GetBalance(ctx context.Context, username string) (int64, error) {
	query := r.dialect.Rebind(`SELECT balance FROM economy WHERE username = ?`)

	var balance int64
	err := r.db.QueryRowContext(ctx, query, username).Scan(&balance)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return 0, errors.ErrAccountNotFound
		}
		return 0, errors.NewAppError(errors.InternalError, "failed to get player balance").WithDetails(err.Error())
	}

	return balance, nil
}

func (r *accountRepository) Exists(ctx context.Context, username string) (bool, error) {
	query := r.dialect.Rebind(`SELECT 1 FROM economy WHERE username = ?`)

	var one int
	err := r.db.QueryRowContext(ctx, query, username).Scan(&one)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, errors.NewAppError(errors.InternalError, "failed to check if player exists").WithDetails(err.Error())
	}

	return true, nil
}

func (r *accountRepository) CreateAccount(ctx context.Context, account *domain.Account) (bool, error) {
	query := r.dialect.Rebind(`
		INSERT INTO economy (username, balance)
		VALUES (?, ?)
		ON CONFLICT (username) DO NOTHING
	`)

	result, err := r.db.ExecContext(ctx, query, account.Username, account.Balance)
	if err != nil {
		return false, errors.NewAppError(errors.InternalError, "failed to add player to database").WithDetails(err.Error())
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, errors.NewAppError(errors.InternalError, "failed to get rows affected").WithDetails(err.Error())
	}

	if rowsAffected == 0 {
		return false, nil
	}

	r.logger.Debug("Player was added to database", "username", account.Username, "balance", account.Balance)
	return true, nil
}

func (r *accountRepository) UpsertBalance(ctx context.Context, username string, balance int64) error {
	query := r.dialect.Rebind(`
		INSERT INTO economy (username, balance)
		VALUES (?, ?)
		ON CONFLICT (username) DO UPDATE SET balance = excluded.balance
	`)

	if _, err := r.db.ExecContext(ctx, query, username, balance); err != nil {
		return errors.NewAppError(errors.InternalError, "failed to set player balance").WithDetails(err.Error())
	}

	r.logger.Debug("Player balance updated", "username", username, "balance", balance)
	return nil
}

func (r *accountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT username, balance FROM economy ORDER BY balance DESC, username ASC`)
	if err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.Username, &account.Balance); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan account").WithDetails(err.Error())
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}

	return accounts, nil
}
