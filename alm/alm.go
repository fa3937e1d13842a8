// Package alm implements the Augmented Lagrangian Method outer loop of
// §4.8: a multiplier/penalty update driving an inner proximal-gradient
// solver to convergence on a sequence of augmented-Lagrangian
// sub-problems.
package alm

import (
	"math"
	"time"

	"github.com/dicksontsai/nlpcore/cancel"
	"github.com/dicksontsai/nlpcore/innercore"
	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

// InnerSolver is the capability any of panoc.Solver, zerofpr.Solver,
// fista.Solver or pantr.Solver provides once wrapped by the matching
// adapter in this package (PanocInner, ZeroFPRInner, FistaInner,
// PantrInner): solve the current sub-problem to the given inner
// tolerance, returning the accepted iterate plus just enough of the
// concrete solver's Stats (status, iteration count) for the outer loop's
// own bookkeeping. The adapters exist because each concrete solver
// package exports its own richer Stats type (§4.4–§4.7); InnerSolver is
// the common denominator ALMSolver needs.
type InnerSolver interface {
	Solve(alm *problem.AugmentedLagrangian, x0, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, innercore.SolverStatus, int)
}

// Params holds the ALM outer-loop tunables, representative defaults per
// §4.8.
type Params struct {
	EpsilonFinal          float64
	DeltaFinal            float64
	PenaltyFactorIncrease float64
	SigmaMax              float64
	SigmaMin              float64
	Epsilon0              float64
	EpsilonUpdateFactor   float64
	ThetaViolationRatio   float64
	MaxIter               int
	MaxTime               time.Duration
	MBound                float64
	SinglePenaltyFactor   bool

	// InitialPenaltyFactor scales the constraint violation at x₀ when
	// deriving the initial Σ (ignored when Σ is warm-started, i.e. Solve is
	// called with warmStart true and the caller's Sigma is used as given).
	InitialPenaltyFactor float64

	// InitialPenaltyZeroUsesFactor resolves §4.8's Open Question for
	// initial_penalty == 0: when true, a zero InitialPenaltyFactor is
	// treated as "derive Σ from the constraint violation at x₀ anyway,
	// using a factor of 1" instead of leaving Σ at Σ_min for every
	// constraint whose violation is nonzero. See DESIGN.md.
	InitialPenaltyZeroUsesFactor bool
}

// DefaultParams mirrors the representative defaults of §4.8.
func DefaultParams() Params {
	return Params{
		EpsilonFinal:          1e-8,
		DeltaFinal:            1e-8,
		PenaltyFactorIncrease: 10,
		SigmaMax:              1e9,
		SigmaMin:              1e-9,
		Epsilon0:              1,
		EpsilonUpdateFactor:   0.1,
		ThetaViolationRatio:   0.1,
		MaxIter:               100,
		MaxTime:               5 * time.Minute,
		MBound:                1e9,
		SinglePenaltyFactor:   false,
		InitialPenaltyFactor:  1,
	}
}

// Stats summarizes a completed Solve call.
type Stats struct {
	Status      innercore.SolverStatus
	OuterIter   int
	InnerIter   int
	Epsilon     float64
	Delta       float64
	ElapsedTime time.Duration
}

// ProgressInfo is the per-outer-iteration snapshot handed to a
// ProgressCallback: valid only for the duration of the call, same borrow
// rule as stats.Snapshot.
type ProgressInfo struct {
	K       int
	X       la.Vector
	Delta   float64
	Epsilon float64
}

// ProgressCallback observes one completed outer iteration.
type ProgressCallback func(info ProgressInfo)

// Solver runs the ALM outer loop against an inner solver.
type Solver struct {
	prm   Params
	inner InnerSolver

	m int

	gBuf      la.Vector
	diff      la.Vector
	deltaPrev la.Vector
	yHat      la.Vector

	onProgress ProgressCallback
}

// NewSolver builds an ALM outer loop around inner for an m-constraint
// problem.
func NewSolver(m int, prm Params, inner InnerSolver) *Solver {
	return &Solver{
		prm:       prm,
		inner:     inner,
		m:         m,
		gBuf:      la.NewVector(m),
		diff:      la.NewVector(m),
		deltaPrev: la.NewVector(m),
		yHat:      la.NewVector(m),
	}
}

// SetProgressCallback registers cb to be invoked once per completed outer
// iteration. Pass nil to disable.
func (o *Solver) SetProgressCallback(cb ProgressCallback) {
	o.onProgress = cb
}

func (o *Solver) penaltySplit(prob problem.RequiredProblem) int {
	if sp, ok := prob.(problem.PenaltySplitProvider); ok {
		return sp.GetPenaltyALMSplit()
	}
	return 0
}

// initSigma derives the initial penalty vector from the constraint
// violation at x0 (§4.8 step 1), unless warmStart is true, in which case
// sigma is assumed already populated by the caller.
func (o *Solver) initSigma(prob problem.RequiredProblem, x0 la.Vector, sigma la.Vector, warmStart bool) {
	if warmStart {
		return
	}
	factor := o.prm.InitialPenaltyFactor
	if factor == 0 && o.prm.InitialPenaltyZeroUsesFactor {
		factor = 1
	}
	prob.EvalG(x0, o.gBuf)
	prob.EvalProjDiffG(o.gBuf, o.diff)
	for i := 0; i < o.m; i++ {
		sigma[i] = clamp(math.Max(o.prm.SigmaMin, factor*math.Abs(o.diff[i])), o.prm.SigmaMin, o.prm.SigmaMax)
	}
	if o.prm.SinglePenaltyFactor && o.m > 0 {
		common := 0.0
		for i := 0; i < o.m; i++ {
			if sigma[i] > common {
				common = sigma[i]
			}
		}
		for i := 0; i < o.m; i++ {
			sigma[i] = common
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Solve runs the ALM outer loop (§4.8) on prob, starting from x, with
// multiplier estimate y and penalty vector sigma (both length
// prob.GetM(), caller-owned). warmStart skips step 1's Σ initialization,
// assuming sigma already holds a usable warm-started value. The final
// iterate is written back into x in place; y receives the accepted
// multiplier estimate.
func (o *Solver) Solve(prob problem.RequiredProblem, x, y, sigma la.Vector, warmStart bool, sig *cancel.Signal) Stats {
	start := time.Now()
	chk.PanicIf(len(y) != o.m || len(sigma) != o.m, "alm.Solve: y/sigma must have length m=%d", o.m)

	o.initSigma(prob, x, sigma, warmStart)
	kSplit := o.penaltySplit(prob)

	alm := &problem.AugmentedLagrangian{Problem: prob, Y: y, Sigma: sigma}

	epsilonInner := o.prm.Epsilon0
	status := innercore.MaxIter
	outerIter := 0
	innerIterTotal := 0
	delta := math.Inf(1)

	for k := 0; k < o.prm.MaxIter; k++ {
		if sig != nil && sig.Requested() {
			status = innercore.Interrupted
			break
		}
		if time.Since(start) > o.prm.MaxTime {
			status = innercore.MaxTime
			break
		}

		xNew, innerStatus, innerIter := o.inner.Solve(alm, x, o.yHat, epsilonInner, sig)
		outerIter++
		innerIterTotal += innerIter
		if innerStatus == innercore.NotFinite || innerStatus == innercore.Interrupted {
			status = innerStatus
			copy(x, xNew)
			break
		}

		delta = 0
		for i := 0; i < o.m; i++ {
			o.diff[i] = o.yHat[i] / sigma[i]
			if a := math.Abs(o.diff[i]); a > delta {
				delta = a
			}
		}

		if delta <= o.prm.DeltaFinal && epsilonInner <= o.prm.EpsilonFinal {
			status = innercore.Converged
			copy(x, xNew)
			copy(y, o.yHat)
			outerIter = k + 1
			break
		}

		if o.prm.SinglePenaltyFactor {
			prevMax := 0.0
			for i := 0; i < o.m; i++ {
				if a := math.Abs(o.deltaPrev[i]); a > prevMax {
					prevMax = a
				}
			}
			if prevMax == 0 || delta > o.prm.ThetaViolationRatio*prevMax {
				for i := 0; i < o.m; i++ {
					sigma[i] = clamp(sigma[i]*o.prm.PenaltyFactorIncrease, o.prm.SigmaMin, o.prm.SigmaMax)
				}
			}
		} else {
			for i := kSplit; i < o.m; i++ {
				prev := math.Abs(o.deltaPrev[i])
				if prev == 0 || math.Abs(o.diff[i]) > o.prm.ThetaViolationRatio*prev {
					sigma[i] = clamp(sigma[i]*o.prm.PenaltyFactorIncrease, o.prm.SigmaMin, o.prm.SigmaMax)
				}
			}
		}

		copy(y, o.yHat)
		prob.EvalProjMultipliers(y, o.prm.MBound)

		epsilonInner = math.Max(o.prm.EpsilonFinal, epsilonInner*o.prm.EpsilonUpdateFactor)

		copy(x, xNew)
		copy(o.deltaPrev, o.diff)

		if o.onProgress != nil {
			o.onProgress(ProgressInfo{K: k, X: x, Delta: delta, Epsilon: epsilonInner})
		}
	}

	return Stats{
		Status:      status,
		OuterIter:   outerIter,
		InnerIter:   innerIterTotal,
		Epsilon:     epsilonInner,
		Delta:       delta,
		ElapsedTime: time.Since(start),
	}
}
