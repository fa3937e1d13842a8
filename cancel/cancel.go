// Package cancel provides a thread-safe cancellation signal shared by the
// ALM outer loop and the inner solvers (§4.10): a single atomic stop flag,
// checked cheaply on every iteration, settable from any goroutine.
package cancel

import "sync/atomic"

// Signal is a process-wide cancellation flag. The zero value is ready to
// use (not yet requested).
type Signal struct {
	requested atomic.Bool
	attached  atomic.Bool
}

// Request marks the signal as triggered. Safe to call from any goroutine,
// any number of times; idempotent.
func (s *Signal) Request() {
	s.requested.Store(true)
}

// Requested reports whether cancellation has been requested. Safe to call
// from any goroutine, including the solver's own iteration loop — this is
// the check inner solvers and ALM make once per iteration.
func (s *Signal) Requested() bool {
	return s.requested.Load()
}

// Reset clears the signal so the same Signal value can be reused for a
// subsequent solve.
func (s *Signal) Reset() {
	s.requested.Store(false)
}

// Token is a single-attach guard handed out by Attach: exactly one caller
// per Signal may hold the attachment at a time, mirroring §4.10's
// "single-attach guard" requirement (a solver in progress owns the only
// outstanding Token; a second concurrent Attach fails rather than racing).
type Token struct {
	sig *Signal
}

// Attach claims the signal for the duration of a solve, returning ok=false
// if another Token already holds it. Release must be called exactly once
// by the holder when the solve finishes.
func (s *Signal) Attach() (tok *Token, ok bool) {
	if !s.attached.CompareAndSwap(false, true) {
		return nil, false
	}
	return &Token{sig: s}, true
}

// Release frees the attachment so a later solve can Attach again.
func (t *Token) Release() {
	t.sig.attached.Store(false)
}
