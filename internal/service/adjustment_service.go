package service

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

type AdjustmentService struct {
	ledger Ledger
	logger *slog.Logger
}

func NewAdjustmentService(ledger Ledger, logger *slog.Logger) *AdjustmentService {
	return &AdjustmentService{
		ledger: ledger,
		logger: logger,
	}
}

type AdjustRequest struct {
	Operation domain.Operation
	Targets   []domain.Entity
	Amount    decimal.Decimal
}

// AdjustFailure records a player whose balance could not be updated.
type AdjustFailure struct {
	Username string `json:"username"`
	Reason   string `json:"reason"`
}

type AdjustResult struct {
	Operation domain.Operation `json:"operation"`
	Amount    int64            `json:"amount"`
	// Players is the number of resolved player targets.
	Players  int             `json:"players"`
	Adjusted int             `json:"adjusted"`
	Failures []AdjustFailure `json:"failures,omitempty"`
}

// Update applies the operation to every player among the targets. Non-player
// targets are ignored. A failure on one player does not stop the others.
func (s *AdjustmentService) Update(ctx context.Context, req *AdjustRequest) (*AdjustResult, error) {
	if _, err := domain.ParseOperation(string(req.Operation)); err != nil {
		return nil, err
	}

	if len(req.Targets) == 0 {
		return nil, errors.ErrNoTargetMatched
	}

	amount, ok := domain.FloorAmount(req.Amount)
	if !ok {
		return nil, errors.ErrAmountOutOfRange
	}

	var players []domain.Identity
	for _, target := range req.Targets {
		if target.IsPlayer() {
			players = append(players, domain.IdentityOf(target))
		}
	}

	result := &AdjustResult{
		Operation: req.Operation,
		Amount:    amount,
		Players:   len(players),
	}

	for _, player := range players {
		if err := s.adjust(ctx, player, req.Operation, amount); err != nil {
			s.logger.Warn("Failed to update player balance", "username", player.Username, "error", err)
			result.Failures = append(result.Failures, AdjustFailure{Username: player.Username, Reason: err.Error()})
			continue
		}
		result.Adjusted++
	}

	s.logger.Info("Balances updated",
		"operation", req.Operation,
		"amount", amount,
		"players", result.Players,
		"adjusted", result.Adjusted)

	return result, nil
}

func (s *AdjustmentService) adjust(ctx context.Context, player domain.Identity, op domain.Operation, amount int64) error {
	unlock, err := s.ledger.Lock(ctx, player)
	if err != nil {
		return err
	}
	defer unlock()

	balance, err := s.ledger.Get(ctx, player)
	if err != nil {
		return err
	}

	updated, ok := op.Apply(balance, amount)
	if !ok {
		s.logger.Warn("Balance update would overflow", "username", player.Username, "balance", balance, "operation", op, "amount", amount)
		return errors.ErrBalanceOutOfRange
	}

	return s.ledger.Set(ctx, player, updated)
}
