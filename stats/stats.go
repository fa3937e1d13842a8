// Package stats holds the per-iteration snapshot type every inner solver
// hands to a progress callback, plus the running accumulator of
// per-iteration outcome counters behind a solver's final Stats (§4.4's progress-callback
// design note, §2's "Stats / progress / cancellation" component).
package stats

import "github.com/dicksontsai/nlpcore/la"

// Snapshot describes the solver's state at one iteration. It is valid only
// for the duration of the progress callback that receives it — the solver
// reuses the buffers it points to on the very next iteration, so a callback
// that needs to keep data past its own return must copy it out (the
// "snapshot is a borrow" design note referenced by §4.4).
type Snapshot struct {
	K       int // iteration index
	X       la.Vector
	P       la.Vector
	GradPsi la.Vector
	Gamma   float64
	LHat    float64
	Tau     float64 // line-search step fraction accepted this iteration (PANOC/ZeroFPR); 0 for FISTA
	Psi     float64
	FBE     float64
	Residual float64
}

// Accumulator sums the per-iteration counters an inner solver reports in
// its final Stats: iteration count, backtrack count, and the tallies of
// line-search failures and direction-provider Update/Apply failures (§4.3's "Both are recorded in
// statistics").
type Accumulator struct {
	Iterations             int
	LineSearchFailures     int
	DirectionUpdateRejects int
	DirectionApplyFailures int
	Backtracks             int
}

// Add folds one iteration's outcome into the accumulator.
func (a *Accumulator) Add(lineSearchFailed, directionRejected, applyFailed bool, backtracks int) {
	a.Iterations++
	a.Backtracks += backtracks
	if lineSearchFailed {
		a.LineSearchFailures++
	}
	if directionRejected {
		a.DirectionUpdateRejects++
	}
	if applyFailed {
		a.DirectionApplyFailures++
	}
}
