package lookup

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned by Runner.Submit while another lookup is running.
var ErrBusy = errors.New("a lookup is already in progress")

// Looker is the part of Service a Runner drives.
type Looker interface {
	Lookup(ctx context.Context, symbol string) (*Result, error)
}

// Runner allows a single lookup in flight at a time and rejects the rest.
type Runner struct {
	looker Looker
	sem    *semaphore.Weighted
}

func NewRunner(l Looker) *Runner {
	return &Runner{looker: l, sem: semaphore.NewWeighted(1)}
}

// Submit runs the lookup, or fails immediately with ErrBusy.
func (r *Runner) Submit(ctx context.Context, symbol string) (*Result, error) {
	if !r.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	defer r.sem.Release(1)
	return r.looker.Lookup(ctx, symbol)
}

// Busy reports whether a lookup is currently running.
func (r *Runner) Busy() bool {
	if !r.sem.TryAcquire(1) {
		return true
	}
	r.sem.Release(1)
	return false
}
