package opt

import (
	"github.com/dicksontsai/nlpcore/alm"
	"github.com/dicksontsai/nlpcore/fista"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/panoc"
	"github.com/dicksontsai/nlpcore/pantr"
	"github.com/dicksontsai/nlpcore/zerofpr"
)

// Recorder builds up a History by attaching as a progress callback to any
// of the four inner solvers or to alm.Solver (§4.11). Buffers handed to the
// callbacks are borrows (see stats.Snapshot's doc comment); Record copies
// them into the History immediately.
type Recorder struct {
	Hist *History
}

// NewRecorder returns a Recorder backed by a fresh History seeded at x0.
func NewRecorder(nMaxIt int, f0 float64, x0 la.Vector) *Recorder {
	return &Recorder{Hist: NewHistory(nMaxIt, f0, x0)}
}

// Record appends one (x, u, f) triple. u may be nil.
func (o *Recorder) Record(fx float64, x, u la.Vector) {
	if u == nil {
		u = la.NewVector(len(x))
	}
	o.Hist.Append(fx, x, u)
}

// PanocCallback returns a panoc.ProgressCallback that records x and the
// forward-backward envelope value at x each iteration — the quantity the
// Armijo line search guarantees is non-increasing, unlike ψ(x) itself.
func (o *Recorder) PanocCallback() panoc.ProgressCallback {
	return func(info panoc.ProgressInfo) {
		o.Record(info.FBE, info.X, info.P)
	}
}

// ZeroFPRCallback returns a zerofpr.ProgressCallback that records x and the
// forward-backward envelope value at x each iteration.
func (o *Recorder) ZeroFPRCallback() zerofpr.ProgressCallback {
	return func(info zerofpr.ProgressInfo) {
		o.Record(info.FBE, info.X, info.P)
	}
}

// FistaCallback returns a fista.ProgressCallback that records the momentum
// point z and its forward-backward envelope value each iteration.
func (o *Recorder) FistaCallback() fista.ProgressCallback {
	return func(info fista.ProgressInfo) {
		o.Record(info.FBE, info.X, info.P)
	}
}

// PantrCallback returns a pantr.ProgressCallback that records x and its
// forward-backward envelope value each iteration.
func (o *Recorder) PantrCallback() pantr.ProgressCallback {
	return func(info pantr.ProgressInfo) {
		o.Record(info.FBE, info.X, info.P)
	}
}

// ALMCallback returns an alm.ProgressCallback that records x and the
// constraint-violation measure δ (in place of f, since the outer loop's
// ProgressInfo carries no objective value of its own) each outer iteration.
func (o *Recorder) ALMCallback() alm.ProgressCallback {
	return func(info alm.ProgressInfo) {
		o.Record(info.Delta, info.X, nil)
	}
}
