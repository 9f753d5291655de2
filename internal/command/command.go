// Package command dispatches chat command lines to registered handlers.
package command

import (
	"context"

	"player-economy/internal/domain"
)

// Result is what a successful command reports back to its invoker. Fields
// are exposed to whatever executed the command.
type Result struct {
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// Invocation is a bound overload call.
type Invocation struct {
	Origin domain.Origin
	Args   Args
}

type Handler func(ctx context.Context, inv *Invocation) (*Result, error)

// Overload is one accepted argument shape of a command.
type Overload struct {
	Params  []Param
	Handler Handler
}

type Command struct {
	Name        string
	Description string
	// PermissionLevel is the minimum origin level allowed to run the command.
	PermissionLevel int
	Overloads       []Overload
}
