package command

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

type stubEntity struct {
	name   string
	player bool
}

func (e stubEntity) Name() string   { return e.name }
func (e stubEntity) IsPlayer() bool { return e.player }

type stubOrigin struct{ level int }

func (o stubOrigin) Player() (domain.Identity, bool) { return domain.NewIdentity("steve"), true }
func (o stubOrigin) PermissionLevel() int            { return o.level }

// stubResolver matches selectors by name; "@none" matches nothing.
type stubResolver struct{ calls []string }

func (r *stubResolver) Resolve(_ context.Context, _ domain.Origin, selector string) ([]domain.Entity, error) {
	r.calls = append(r.calls, selector)
	if selector == "@none" {
		return nil, nil
	}
	return []domain.Entity{stubEntity{name: selector, player: true}}, nil
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *stubResolver) {
	t.Helper()
	resolver := &stubResolver{}
	return NewDispatcher(resolver, slog.New(slog.NewTextHandler(io.Discard, nil))), resolver
}

func echo(ctx context.Context, inv *Invocation) (*Result, error) {
	targets, ok := inv.Args.Targets("player")
	names := []string{}
	for _, t := range targets {
		names = append(names, t.Name())
	}
	return &Result{
		Message: fmt.Sprintf("%v %v %s %s", ok, names, inv.Args.Number("amount"), inv.Args.String("operation")),
	}, nil
}

func TestDispatcher_BindsOverload(t *testing.T) {
	d, resolver := newTestDispatcher(t)
	require.NoError(t, d.Register(Command{
		Name: "give",
		Overloads: []Overload{{
			Params:  []Param{Enum("operation", "add", "set"), Target("player"), Integer("amount")},
			Handler: echo,
		}},
	}))

	result, err := d.Execute(context.Background(), stubOrigin{}, "/give add alex 12.5")
	require.NoError(t, err)
	assert.Equal(t, "true [alex] 12.5 add", result.Message)
	assert.Equal(t, []string{"alex"}, resolver.calls)
}

func TestDispatcher_OptionalTarget(t *testing.T) {
	d, _ := newTestDispatcher(t)
	require.NoError(t, d.Register(Command{
		Name:      "look",
		Overloads: []Overload{{Params: []Param{OptionalTarget("player")}, Handler: echo}},
	}))

	result, err := d.Execute(context.Background(), stubOrigin{}, "look")
	require.NoError(t, err)
	assert.Equal(t, "false [] 0 ", result.Message)

	result, err = d.Execute(context.Background(), stubOrigin{}, "look @none")
	require.NoError(t, err)
	assert.Equal(t, "true [] 0 ", result.Message)
}

func TestDispatcher_NoOverloadMatched(t *testing.T) {
	d, resolver := newTestDispatcher(t)
	require.NoError(t, d.Register(Command{
		Name:      "pay",
		Overloads: []Overload{{Params: []Param{Target("player"), Integer("amount")}, Handler: echo}},
	}))

	for _, line := range []string{"pay", "pay alex", "pay alex lots", "pay alex 5 extra"} {
		_, err := d.Execute(context.Background(), stubOrigin{}, line)
		assert.ErrorIs(t, err, errors.ErrNoOverloadMatched, line)
	}
	assert.Empty(t, resolver.calls, "selectors are not resolved for rejected shapes")
}

func TestDispatcher_TriesOverloadsInOrder(t *testing.T) {
	d, _ := newTestDispatcher(t)
	first := func(context.Context, *Invocation) (*Result, error) { return &Result{Message: "numeric"}, nil }
	second := func(context.Context, *Invocation) (*Result, error) { return &Result{Message: "target"}, nil }
	require.NoError(t, d.Register(Command{
		Name: "x",
		Overloads: []Overload{
			{Params: []Param{Integer("amount")}, Handler: first},
			{Params: []Param{Target("player")}, Handler: second},
		},
	}))

	result, err := d.Execute(context.Background(), stubOrigin{}, "x 3")
	require.NoError(t, err)
	assert.Equal(t, "numeric", result.Message)

	result, err = d.Execute(context.Background(), stubOrigin{}, "x alex")
	require.NoError(t, err)
	assert.Equal(t, "target", result.Message)
}

func TestDispatcher_PermissionGate(t *testing.T) {
	d, _ := newTestDispatcher(t)
	require.NoError(t, d.Register(Command{
		Name:            "admin",
		PermissionLevel: 1,
		Overloads:       []Overload{{Handler: echo}},
	}))

	_, err := d.Execute(context.Background(), stubOrigin{level: 0}, "admin")
	assert.ErrorIs(t, err, errors.ErrPermissionDenied)

	_, err = d.Execute(context.Background(), stubOrigin{level: 1}, "admin")
	assert.NoError(t, err)
}

func TestDispatcher_UnknownAndEmpty(t *testing.T) {
	d, _ := newTestDispatcher(t)

	_, err := d.Execute(context.Background(), stubOrigin{}, "fly")
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.UnknownCommand, appErr.Code)
	assert.Equal(t, "Unknown command: fly.", appErr.Message)

	_, err = d.Execute(context.Background(), stubOrigin{}, "   ")
	assert.Error(t, err)
}

func TestDispatcher_Register(t *testing.T) {
	d, _ := newTestDispatcher(t)
	cmd := Command{Name: "pay", Overloads: []Overload{{Handler: echo}}}

	require.NoError(t, d.Register(cmd))
	assert.Error(t, d.Register(cmd), "duplicate")
	assert.Error(t, d.Register(Command{Name: "two words", Overloads: cmd.Overloads}))
	assert.Error(t, d.Register(Command{Name: "empty"}))

	require.NoError(t, d.Register(Command{Name: "balance", Overloads: cmd.Overloads}))
	names := []string{}
	for _, c := range d.Commands() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"balance", "pay"}, names)

	d.Unregister("pay")
	_, err := d.Execute(context.Background(), stubOrigin{}, "pay")
	assert.Error(t, err)
}
