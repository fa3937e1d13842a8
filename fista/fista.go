// Package fista implements the FISTA inner solver (§4.6): accelerated
// proximal gradient with Nesterov momentum, no direction provider.
package fista

import (
	"math"
	"time"

	"github.com/dicksontsai/nlpcore/cancel"
	"github.com/dicksontsai/nlpcore/innercore"
	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/lipschitz"
	"github.com/dicksontsai/nlpcore/problem"
	"github.com/dicksontsai/nlpcore/stats"
)

// Params holds the tunables of the FISTA iteration.
type Params struct {
	MaxIter  int
	MaxTime  time.Duration
	StopCrit innercore.StopCrit

	// DisableAcceleration reduces the iteration to plain proximal gradient
	// (t_k ≡ 1, z_k ≡ x_k) for comparison against the accelerated variant
	// (§4.6).
	DisableAcceleration bool

	Lipschitz lipschitz.Params
}

// DefaultParams mirrors the representative defaults of §4.2/§4.6.
func DefaultParams() Params {
	return Params{
		MaxIter:             1000,
		MaxTime:             5 * time.Minute,
		StopCrit:            innercore.ApproxKKT,
		DisableAcceleration: false,
		Lipschitz:           lipschitz.DefaultParams(),
	}
}

// ProgressInfo is the per-iteration snapshot handed to a ProgressCallback
// (§4.10): valid only for the duration of the call.
type ProgressInfo struct {
	stats.Snapshot
	Problem *problem.AugmentedLagrangian
}

// ProgressCallback observes one iteration.
type ProgressCallback func(info ProgressInfo)

// Stats summarizes a completed Solve call.
type Stats struct {
	Status      innercore.SolverStatus
	Iterations  int
	Epsilon     float64
	ElapsedTime time.Duration
}

// Solver runs FISTA against an augmented-Lagrangian sub-problem.
type Solver struct {
	prm Params
	est *lipschitz.Estimator

	n int

	z, zNext, xCur, gradPsi       la.Vector
	xHat, p                       la.Vector
	rho                           la.Vector
	gBuf, zBuf, yHatBuf, gradFBuf la.Vector

	progress ProgressCallback
}

// NewSolver builds a Solver for an n-dimensional, m-constraint problem.
func NewSolver(n, m int, prm Params, est *lipschitz.Estimator) *Solver {
	chk.PanicIf(n <= 0, "fista.NewSolver: n must be positive, got %d", n)
	return &Solver{
		prm:      prm,
		est:      est,
		n:        n,
		z:        la.NewVector(n),
		zNext:    la.NewVector(n),
		xCur:     la.NewVector(n),
		gradPsi:  la.NewVector(n),
		xHat:     la.NewVector(n),
		p:        la.NewVector(n),
		rho:      la.NewVector(n),
		gBuf:     la.NewVector(m),
		zBuf:     la.NewVector(m),
		yHatBuf:  la.NewVector(m),
		gradFBuf: la.NewVector(n),
	}
}

// SetProgressCallback attaches cb, invoked once per iteration. Pass nil to
// detach.
func (o *Solver) SetProgressCallback(cb ProgressCallback) { o.progress = cb }

func (o *Solver) boxC(alm *problem.AugmentedLagrangian) problem.Box {
	if bp, ok := alm.Problem.(problem.BoxProvider); ok {
		return bp.GetBoxC()
	}
	return problem.NewBox(o.n)
}

// Solve runs FISTA on the sub-problem alm, starting from x0. Gradient and
// prox evaluations happen at the momentum point z_k (z_0 = x0); xCur holds
// the previous prox output x_k, used to form the next momentum point
// (§4.6).
func (o *Solver) Solve(alm *problem.AugmentedLagrangian, x0 la.Vector, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, Stats) {
	start := time.Now()
	box := o.boxC(alm)

	copy(o.z, x0)
	copy(o.xCur, x0)

	status := innercore.MaxIter
	iterations := 0
	t := 1.0

	for k := 0; k < o.prm.MaxIter; k++ {
		if sig != nil && sig.Requested() {
			status = innercore.Interrupted
			break
		}
		if time.Since(start) > o.prm.MaxTime {
			status = innercore.MaxTime
			break
		}

		psiZ := alm.EvalPsiGradPsi(o.z, o.gradPsi, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
		if !la.AllFinite(o.gradPsi) {
			status = innercore.NotFinite
			break
		}
		innercore.ProxStep(alm.Problem, o.est.Gamma(), o.z, o.gradPsi, o.xHat, o.p)

		residual := innercore.Residual(o.prm.StopCrit, box, o.z, o.gradPsi, o.p, o.est.Gamma(), o.rho)
		if residual <= epsilon {
			status = innercore.Converged
			break
		}

		recompute := func(gamma float64) (float64, la.Vector) {
			innercore.ProxStep(alm.Problem, gamma, o.z, o.gradPsi, o.xHat, o.p)
			psiXHat := alm.EvalPsiGradPsi(o.xHat, o.gradFBuf, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
			return psiXHat, o.p
		}
		if o.est.Backtrack(o.z, o.gradPsi, psiZ, recompute) == lipschitz.BacktrackExceededCap {
			status = innercore.NotFinite
			break
		}
		gamma := o.est.Gamma()
		hXHat := innercore.ProxStep(alm.Problem, gamma, o.z, o.gradPsi, o.xHat, o.p)

		var tNext float64
		if o.prm.DisableAcceleration {
			tNext = 1
		} else {
			tNext = (1 + math.Sqrt(1+4*t*t)) / 2
		}
		beta := 0.0
		if !o.prm.DisableAcceleration {
			beta = (t - 1) / tNext
		}
		for i := 0; i < o.n; i++ {
			o.zNext[i] = o.xHat[i] + beta*(o.xHat[i]-o.xCur[i])
		}

		iterations++
		if o.progress != nil {
			o.progress(ProgressInfo{
				Snapshot: stats.Snapshot{K: k, X: o.z, P: o.p, GradPsi: o.gradPsi, Gamma: gamma, LHat: o.est.LHat(), Psi: psiZ, FBE: innercore.FBE(psiZ, o.gradPsi, o.p, gamma, hXHat), Residual: residual},
				Problem:  alm,
			})
		}

		copy(o.xCur, o.xHat)
		copy(o.z, o.zNext)
		t = tNext
	}

	copy(x0, o.xHat)
	alm.EvalYHat(x0, yHat, o.gBuf, o.zBuf)

	return x0, Stats{
		Status:      status,
		Iterations:  iterations,
		Epsilon:     epsilon,
		ElapsedTime: time.Since(start),
	}
}
