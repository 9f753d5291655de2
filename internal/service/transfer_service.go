package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
	"player-economy/internal/ledger"
)

type TransferService struct {
	ledger    Ledger
	messenger domain.Messenger
	logger    *slog.Logger
}

func NewTransferService(ledger Ledger, messenger domain.Messenger, logger *slog.Logger) *TransferService {
	return &TransferService{
		ledger:    ledger,
		messenger: messenger,
		logger:    logger,
	}
}

type PayRequest struct {
	Source  domain.Identity
	Targets []domain.Entity
	// Amount may be fractional; it is floored before validation.
	Amount decimal.Decimal
}

type PayResult struct {
	Source        string `json:"source"`
	SourceBalance int64  `json:"sourceBalance"`
	Target        string `json:"target"`
	TargetBalance int64  `json:"targetBalance"`
	Amount        int64  `json:"amount"`
}

// Pay moves amount from the source player to the single resolved target.
func (s *TransferService) Pay(ctx context.Context, req *PayRequest) (*PayResult, error) {
	amount, ok := domain.FloorAmount(req.Amount)
	if !ok {
		return nil, errors.ErrAmountOutOfRange
	}

	target, err := singlePlayer(req.Targets, errors.ErrTooManyPayTargets)
	if err != nil {
		return nil, err
	}

	if err := s.validateTransfer(req.Source, target, amount); err != nil {
		return nil, err
	}

	s.logger.Info("Processing payment",
		"source", req.Source.Username,
		"target", target.Username,
		"amount", amount)

	unlock, err := s.ledger.Lock(ctx, req.Source, target)
	if err != nil {
		return nil, err
	}
	defer unlock()

	sourceBalance, err := s.ledger.Get(ctx, req.Source)
	if err != nil {
		return nil, errors.ErrPaymentFailed.WithDetails(err.Error())
	}

	if sourceBalance < amount {
		return nil, errors.ErrInsufficientFunds
	}

	// A failed read must not be mistaken for an empty account: writing
	// 0+amount would wipe the target's real balance.
	targetBalance, err := s.ledger.Get(ctx, target)
	if err != nil {
		return nil, errors.ErrPaymentFailed.WithDetails(err.Error())
	}

	newTargetBalance, ok := domain.AddBalance(targetBalance, amount)
	if !ok {
		return nil, errors.ErrBalanceOutOfRange
	}
	// amount <= sourceBalance, so this cannot overflow.
	newSourceBalance := sourceBalance - amount

	err = s.ledger.SetBalances(ctx,
		ledger.Entry{Identity: req.Source, Balance: newSourceBalance},
		ledger.Entry{Identity: target, Balance: newTargetBalance},
	)
	if err != nil {
		return nil, errors.ErrPaymentFailed.WithDetails(err.Error())
	}

	notice := fmt.Sprintf("§u%s §7has paid you §a$%d.§r", req.Source.Username, amount)
	if err := s.messenger.SendMessage(ctx, target, notice); err != nil {
		s.logger.Warn("Failed to notify payment target", "target", target.Username, "error", err)
	}

	s.logger.Info("Payment completed",
		"source", req.Source.Username,
		"source_balance", newSourceBalance,
		"target", target.Username,
		"target_balance", newTargetBalance)

	return &PayResult{
		Source:        req.Source.Username,
		SourceBalance: newSourceBalance,
		Target:        target.Username,
		TargetBalance: newTargetBalance,
		Amount:        amount,
	}, nil
}

func (s *TransferService) validateTransfer(source, target domain.Identity, amount int64) error {
	if source.Username == target.Username {
		return errors.ErrSelfPayment
	}

	if amount <= 0 {
		return errors.ErrInvalidAmount
	}

	return nil
}
