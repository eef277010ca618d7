package layoutstore

import (
	"errors"
	"sync"
)

// ErrAlreadyAcquired is returned by Acquire when the guard is already held.
var ErrAlreadyAcquired = errors.New("changes-in-progress guard already acquired")

// ChangesGuard is the scoped "changes in progress" acquisition spec.md §4.7
// and §9 describe: the processor acquires it on entry and is guaranteed to
// release it on every exit path. This re-architects the original's
// exception-based start_changes()/end_changes() pair (spec.md §9's
// "Non-goal mapping") as a Go acquire/release-closure pair, grounded on
// the teacher's guarded-resource idiom in pkg/checkpoint.Manager and the
// defer-release pattern in pkg/framework's watchdog lifecycle.
type ChangesGuard struct {
	mu     sync.Mutex
	active bool
}

// NewChangesGuard returns an unacquired guard.
func NewChangesGuard() *ChangesGuard {
	return &ChangesGuard{}
}

// Acquire marks the guard as held and returns a release function that must
// be called exactly once, typically via defer, regardless of whether the
// caller's work succeeds or fails:
//
//	release, err := guard.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer release()
func (g *ChangesGuard) Acquire() (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.active {
		return nil, ErrAlreadyAcquired
	}

	g.active = true

	return g.release, nil
}

func (g *ChangesGuard) release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.active = false
}

// Active reports whether the guard is currently held (test/diagnostic use).
func (g *ChangesGuard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.active
}
