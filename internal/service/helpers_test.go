package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"player-economy/internal/config"
	"player-economy/internal/domain"
	"player-economy/internal/ledger"
)

type fakeEntity struct {
	name   string
	player bool
}

func (e fakeEntity) Name() string   { return e.name }
func (e fakeEntity) IsPlayer() bool { return e.player }

func player(name string) domain.Entity { return fakeEntity{name: name, player: true} }
func mob(name string) domain.Entity    { return fakeEntity{name: name} }

type fakeOrigin struct {
	id     domain.Identity
	player bool
}

func (o fakeOrigin) Player() (domain.Identity, bool) { return o.id, o.player }
func (o fakeOrigin) PermissionLevel() int            { return 0 }

type recordingMessenger struct {
	mu       sync.Mutex
	messages map[string][]string
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{messages: make(map[string][]string)}
}

func (m *recordingMessenger) SendMessage(_ context.Context, to domain.Identity, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[to.Username] = append(m.messages[to.Username], message)
	return nil
}

func (m *recordingMessenger) inbox(username string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.messages[username]...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestLedger(t *testing.T) *ledger.Ledger {
	t.Helper()

	l := ledger.New(nil, discardLogger())
	require.NoError(t, l.Open(context.Background(), config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "economy.db"),
	}))
	t.Cleanup(func() { l.Close() })

	return l
}

func seed(t *testing.T, l *ledger.Ledger, balances map[string]int64) {
	t.Helper()
	for username, balance := range balances {
		require.NoError(t, l.EnsureAccount(context.Background(), domain.NewIdentity(username), balance))
	}
}

func balanceOf(t *testing.T, l *ledger.Ledger, username string) int64 {
	t.Helper()
	balance, err := l.Get(context.Background(), domain.NewIdentity(username))
	require.NoError(t, err)
	return balance
}
