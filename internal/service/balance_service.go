package service

import (
	"context"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

type BalanceService struct {
	ledger Ledger
}

func NewBalanceService(ledger Ledger) *BalanceService {
	return &BalanceService{ledger: ledger}
}

type BalanceRequest struct {
	Origin domain.Origin
	// Targets is nil when no selector was given, which queries the origin.
	Targets     []domain.Entity
	HasSelector bool
}

type BalanceResult struct {
	Target  string `json:"target"`
	Balance int64  `json:"balance"`
	Self    bool   `json:"-"`
}

func (s *BalanceService) Query(ctx context.Context, req *BalanceRequest) (*BalanceResult, error) {
	if !req.HasSelector {
		self, ok := req.Origin.Player()
		if !ok {
			return nil, errors.ErrBalanceOriginNotPlayer
		}

		balance, _ := s.ledger.Get(ctx, self)
		return &BalanceResult{Target: self.Username, Balance: balance, Self: true}, nil
	}

	target, err := singlePlayer(req.Targets, errors.ErrTooManyBalanceTargets)
	if err != nil {
		return nil, err
	}

	balance, _ := s.ledger.Get(ctx, target)
	return &BalanceResult{Target: target.Username, Balance: balance}, nil
}
