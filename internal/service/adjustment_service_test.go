package service

import (
	"context"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

func TestAdjustmentService_Operations(t *testing.T) {
	tests := []struct {
		op   domain.Operation
		want int64
	}{
		{domain.OperationAdd, 130},
		{domain.OperationSubtract, 70},
		{domain.OperationSet, 30},
	}

	for _, tt := range tests {
		t.Run(string(tt.op), func(t *testing.T) {
			l := newTestLedger(t)
			seed(t, l, map[string]int64{"alice": 100})
			svc := NewAdjustmentService(l, discardLogger())

			result, err := svc.Update(context.Background(), &AdjustRequest{
				Operation: tt.op,
				Targets:   []domain.Entity{player("alice")},
				Amount:    decimal.RequireFromString("30.7"),
			})
			require.NoError(t, err)

			assert.Equal(t, int64(30), result.Amount)
			assert.Equal(t, 1, result.Adjusted)
			assert.Equal(t, tt.want, balanceOf(t, l, "alice"))
		})
	}
}

func TestAdjustmentService_SubtractMayGoNegative(t *testing.T) {
	l := newTestLedger(t)
	seed(t, l, map[string]int64{"alice": 10})
	svc := NewAdjustmentService(l, discardLogger())

	_, err := svc.Update(context.Background(), &AdjustRequest{
		Operation: domain.OperationSubtract,
		Targets:   []domain.Entity{player("alice")},
		Amount:    decimal.NewFromInt(25),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-15), balanceOf(t, l, "alice"))
}

func TestAdjustmentService_SetMultiplePlayersSkipsNonPlayers(t *testing.T) {
	l := newTestLedger(t)
	seed(t, l, map[string]int64{"alice": 100, "bob": 10, "carol": -3})
	svc := NewAdjustmentService(l, discardLogger())

	result, err := svc.Update(context.Background(), &AdjustRequest{
		Operation: domain.OperationSet,
		Targets:   []domain.Entity{player("alice"), mob("zombie"), player("bob"), player("carol"), mob("cow")},
		Amount:    decimal.NewFromInt(50),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Players)
	assert.Equal(t, 3, result.Adjusted)
	assert.Empty(t, result.Failures)
	for _, name := range []string{"alice", "bob", "carol"} {
		assert.Equal(t, int64(50), balanceOf(t, l, name), name)
	}
	balance, err := l.Get(context.Background(), domain.NewIdentity("zombie"))
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestAdjustmentService_OnlyNonPlayersAdjustsNobody(t *testing.T) {
	l := newTestLedger(t)
	svc := NewAdjustmentService(l, discardLogger())

	result, err := svc.Update(context.Background(), &AdjustRequest{
		Operation: domain.OperationAdd,
		Targets:   []domain.Entity{mob("zombie")},
		Amount:    decimal.NewFromInt(50),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Players)
	assert.Equal(t, 0, result.Adjusted)
}

func TestAdjustmentService_Rejections(t *testing.T) {
	l := newTestLedger(t)
	svc := NewAdjustmentService(l, discardLogger())

	_, err := svc.Update(context.Background(), &AdjustRequest{
		Operation: domain.OperationAdd,
		Amount:    decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, errors.ErrNoTargetMatched)

	_, err = svc.Update(context.Background(), &AdjustRequest{
		Operation: "multiply",
		Targets:   []domain.Entity{player("alice")},
		Amount:    decimal.NewFromInt(50),
	})
	assert.ErrorIs(t, err, errors.ErrInvalidOperation)
}

// flakyLedger fails every write for one username.
type flakyLedger struct {
	Ledger
	broken string
}

func (f flakyLedger) Set(ctx context.Context, id domain.Identity, balance int64) error {
	if id.Username == f.broken {
		return errors.NewAppError(errors.InternalError, "failed to set player balance")
	}
	return f.Ledger.Set(ctx, id, balance)
}

func TestAdjustmentService_FailureDoesNotAbortOthers(t *testing.T) {
	l := newTestLedger(t)
	seed(t, l, map[string]int64{"alice": 1, "bob": 2, "carol": 3})
	svc := NewAdjustmentService(flakyLedger{Ledger: l, broken: "bob"}, discardLogger())

	result, err := svc.Update(context.Background(), &AdjustRequest{
		Operation: domain.OperationAdd,
		Targets:   []domain.Entity{player("alice"), player("bob"), player("carol")},
		Amount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, result.Players)
	assert.Equal(t, 2, result.Adjusted)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bob", result.Failures[0].Username)

	assert.Equal(t, int64(11), balanceOf(t, l, "alice"))
	assert.Equal(t, int64(2), balanceOf(t, l, "bob"))
	assert.Equal(t, int64(13), balanceOf(t, l, "carol"))
}

func TestAdjustmentService_AmountOutOfRange(t *testing.T) {
	l := newTestLedger(t)
	seed(t, l, map[string]int64{"bob": 100})
	svc := NewAdjustmentService(l, discardLogger())

	_, err := svc.Update(context.Background(), &AdjustRequest{
		Operation: domain.OperationAdd,
		Targets:   []domain.Entity{player("bob")},
		Amount:    decimal.RequireFromString("9223372036854775808"),
	})
	assert.ErrorIs(t, err, errors.ErrAmountOutOfRange)
	assert.Equal(t, int64(100), balanceOf(t, l, "bob"))
}

func TestAdjustmentService_OverflowLeavesBalance(t *testing.T) {
	l := newTestLedger(t)
	seed(t, l, map[string]int64{"alice": 1, "bob": math.MaxInt64 - 5})
	svc := NewAdjustmentService(l, discardLogger())

	result, err := svc.Update(context.Background(), &AdjustRequest{
		Operation: domain.OperationAdd,
		Targets:   []domain.Entity{player("alice"), player("bob")},
		Amount:    decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Players)
	assert.Equal(t, 1, result.Adjusted)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bob", result.Failures[0].Username)

	assert.Equal(t, int64(11), balanceOf(t, l, "alice"))
	assert.Equal(t, int64(math.MaxInt64-5), balanceOf(t, l, "bob"))
}
