package plugin

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShutdownQueue_LIFOAndErrors(t *testing.T) {
	var q shutdownQueue
	var order []int

	q.add(func(context.Context) error { order = append(order, 1); return nil })
	q.add(func(context.Context) error { order = append(order, 2); return errors.New("two failed") })
	q.add(func(context.Context) error { order = append(order, 3); panic("three") })
	q.add(nil)

	err := q.drain(context.Background())
	assert.Equal(t, []int{3, 2, 1}, order)
	assert.ErrorContains(t, err, "two failed")
	assert.ErrorContains(t, err, "panic in shutdown task: three")

	// Closed queues ignore new tasks and drain to nothing.
	q.add(func(context.Context) error { order = append(order, 4); return nil })
	assert.NoError(t, q.drain(context.Background()))
	assert.Equal(t, []int{3, 2, 1}, order)
}

func TestShutdownQueue_CanceledContext(t *testing.T) {
	var q shutdownQueue
	ran := false
	q.add(func(context.Context) error { ran = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := q.drain(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}
