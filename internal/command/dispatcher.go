package command

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"player-economy/internal/domain"
	"player-economy/internal/errors"
)

type Dispatcher struct {
	mu       sync.RWMutex
	commands map[string]Command
	resolver domain.Resolver
	logger   *slog.Logger
}

func NewDispatcher(resolver domain.Resolver, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		commands: make(map[string]Command),
		resolver: resolver,
		logger:   logger,
	}
}

func (d *Dispatcher) Register(cmd Command) error {
	if cmd.Name == "" || strings.ContainsAny(cmd.Name, " \t") {
		return fmt.Errorf("invalid command name %q", cmd.Name)
	}
	if len(cmd.Overloads) == 0 {
		return fmt.Errorf("command %q has no overloads", cmd.Name)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.commands[cmd.Name]; exists {
		return fmt.Errorf("command %q is already registered", cmd.Name)
	}
	d.commands[cmd.Name] = cmd

	d.logger.Debug("Command registered", "command", cmd.Name)
	return nil
}

func (d *Dispatcher) Unregister(name string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.commands, name)
}

// Commands lists registered commands sorted by name.
func (d *Dispatcher) Commands() []Command {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Command, 0, len(d.commands))
	for _, cmd := range d.commands {
		out = append(out, cmd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Execute runs a command line such as "/pay alice 30" on behalf of origin.
func (d *Dispatcher) Execute(ctx context.Context, origin domain.Origin, line string) (*Result, error) {
	tokens := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "/"))
	if len(tokens) == 0 {
		return nil, errors.NewAppError(errors.InvalidInput, "empty command")
	}
	name, args := tokens[0], tokens[1:]

	d.mu.RLock()
	cmd, ok := d.commands[name]
	d.mu.RUnlock()
	if !ok {
		return nil, errors.NewAppErrorf(errors.UnknownCommand, "Unknown command: %s.", name)
	}

	if origin.PermissionLevel() < cmd.PermissionLevel {
		return nil, errors.ErrPermissionDenied
	}

	for _, overload := range cmd.Overloads {
		if !matches(overload.Params, args) {
			continue
		}

		bound, err := d.bind(ctx, origin, overload.Params, args)
		if err != nil {
			return nil, err
		}

		result, err := overload.Handler(ctx, &Invocation{Origin: origin, Args: bound})
		if err != nil {
			d.logger.Debug("Command rejected", "command", name, "error", err)
			return nil, err
		}
		return result, nil
	}

	return nil, errors.ErrNoOverloadMatched
}

// matches reports whether args fit params positionally. Optional params may
// only be omitted from the tail.
func matches(params []Param, args []string) bool {
	if len(args) > len(params) {
		return false
	}
	for i, p := range params {
		if i >= len(args) {
			if !p.Optional {
				return false
			}
			continue
		}
		if !p.accepts(args[i]) {
			return false
		}
	}
	return true
}

func (d *Dispatcher) bind(ctx context.Context, origin domain.Origin, params []Param, args []string) (Args, error) {
	bound := newArgs()
	for i, p := range params {
		if i >= len(args) {
			break
		}
		switch p.Kind {
		case KindTarget:
			entities, err := d.resolver.Resolve(ctx, origin, args[i])
			if err != nil {
				return Args{}, err
			}
			bound.targets[p.Name] = entities
		case KindInteger:
			bound.numbers[p.Name] = decimal.RequireFromString(args[i])
		case KindEnum:
			bound.strings[p.Name] = args[i]
		}
	}
	return bound, nil
}
