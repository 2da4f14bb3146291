package quiz

import (
	"context"
	"time"
)

// Runner drives a Session's countdown from a ticker until the quiz leaves the
// in-progress state, the context is done, or focus is lost.
type Runner struct {
	Session *Session

	// FocusLost delivers focus-loss events; nil disables the lockout.
	FocusLost <-chan struct{}

	// Interval defaults to one second.
	Interval time.Duration

	// OnTick, when set, is called after each tick with the new state.
	OnTick func(State)
}

// Run blocks until the quiz stops running. It returns ErrIntegrityViolation
// after focus loss and ctx.Err() on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}

	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.FocusLost:
			r.Session.FocusLost()
			if r.Session.Snapshot().Status == StatusLocked {
				return ErrIntegrityViolation
			}
		case <-t.C:
			if _, err := r.Session.Tick(); err != nil {
				return err
			}
			st := r.Session.Snapshot()
			if r.OnTick != nil {
				r.OnTick(st)
			}
			if st.Status != StatusInProgress {
				return nil
			}
		}
	}
}
