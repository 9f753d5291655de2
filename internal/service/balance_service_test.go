package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

func TestBalanceService_Self(t *testing.T) {
	l := newTestLedger(t)
	seed(t, l, map[string]int64{"alice": 100})
	svc := NewBalanceService(l)

	result, err := svc.Query(context.Background(), &BalanceRequest{
		Origin: fakeOrigin{id: domain.NewIdentity("alice"), player: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", result.Target)
	assert.Equal(t, int64(100), result.Balance)
	assert.True(t, result.Self)
}

func TestBalanceService_SelfRequiresPlayer(t *testing.T) {
	svc := NewBalanceService(newTestLedger(t))

	_, err := svc.Query(context.Background(), &BalanceRequest{Origin: fakeOrigin{}})
	assert.ErrorIs(t, err, errors.ErrBalanceOriginNotPlayer)
}

func TestBalanceService_Target(t *testing.T) {
	l := newTestLedger(t)
	seed(t, l, map[string]int64{"bob": 10})
	svc := NewBalanceService(l)

	// The console may query players.
	result, err := svc.Query(context.Background(), &BalanceRequest{
		Origin:      fakeOrigin{},
		Targets:     []domain.Entity{player("bob")},
		HasSelector: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "bob", result.Target)
	assert.Equal(t, int64(10), result.Balance)
	assert.False(t, result.Self)

	// Unknown accounts read as zero.
	result, err = svc.Query(context.Background(), &BalanceRequest{
		Origin:      fakeOrigin{},
		Targets:     []domain.Entity{player("newcomer")},
		HasSelector: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Balance)
}

func TestBalanceService_TargetRejections(t *testing.T) {
	svc := NewBalanceService(newTestLedger(t))

	tests := []struct {
		name    string
		targets []domain.Entity
		wantErr error
	}{
		{name: "none", targets: nil, wantErr: errors.ErrNoTargetMatched},
		{name: "many", targets: []domain.Entity{player("a"), player("b")}, wantErr: errors.ErrTooManyBalanceTargets},
		{name: "non-player", targets: []domain.Entity{mob("pig")}, wantErr: errors.ErrTargetNotPlayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Query(context.Background(), &BalanceRequest{
				Origin:      fakeOrigin{id: domain.NewIdentity("alice"), player: true},
				Targets:     tt.targets,
				HasSelector: true,
			})
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
