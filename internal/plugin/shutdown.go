package plugin

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// shutdownTask releases one resource acquired during initialization.
type shutdownTask func(ctx context.Context) error

// shutdownQueue runs cleanup tasks once, in reverse order of registration.
// Panics are recovered and reported as errors.
type shutdownQueue struct {
	mu     sync.Mutex
	tasks  []shutdownTask
	closed bool
}

func (q *shutdownQueue) add(t shutdownTask) {
	if t == nil {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.tasks = append(q.tasks, t)
}

// drain runs every task in LIFO order. If ctx ends mid-drain the remaining
// tasks are skipped and the context error is joined to the result.
func (q *shutdownQueue) drain(ctx context.Context) error {
	q.mu.Lock()
	q.closed = true
	tasks := q.tasks
	q.tasks = nil
	q.mu.Unlock()

	var errs []error
	for i := len(tasks) - 1; i >= 0; i-- {
		select {
		case <-ctx.Done():
			errs = append(errs, fmt.Errorf("shutdown canceled: %w", ctx.Err()))
			return errors.Join(errs...)
		default:
		}

		func(t shutdownTask) {
			defer func() {
				if r := recover(); r != nil {
					errs = append(errs, fmt.Errorf("panic in shutdown task: %v", r))
				}
			}()

			if err := t(ctx); err != nil {
				errs = append(errs, err)
			}
		}(tasks[i])
	}

	return errors.Join(errs...)
}

// reopen allows tasks to be registered again after a drain.
func (q *shutdownQueue) reopen() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = false
}
