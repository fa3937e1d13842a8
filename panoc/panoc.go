// Package panoc implements the PANOC inner solver (§4.4): a
// forward-backward step accelerated by a pluggable direction provider
// (package direction), accepted via an FBE-based Armijo line search.
package panoc

import (
	"math"
	"time"

	"github.com/dicksontsai/nlpcore/cancel"
	"github.com/dicksontsai/nlpcore/direction"
	"github.com/dicksontsai/nlpcore/innercore"
	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/lipschitz"
	"github.com/dicksontsai/nlpcore/problem"
	"github.com/dicksontsai/nlpcore/stats"
)

// Params holds the tunables of the PANOC iteration.
type Params struct {
	MaxIter       int
	MaxTime       time.Duration
	StopCrit      innercore.StopCrit
	MaxNoProgress int // abort with NoProgress once the no-progress counter exceeds this

	// LineSearchStrictnessFactor is σ in the sufficient-descent test
	// φ_γ(x_trial) ≤ φ_γ(x) − σ‖p‖²/γ. Zero selects the default
	// ½·(1 − L_γ_factor) (§4.4).
	LineSearchStrictnessFactor float64
	LineSearchBeta             float64 // τ ← τ·β on rejection; default 0.5
	LineSearchMinStep          float64 // abort the line search below this τ; default 1e-12

	Lipschitz lipschitz.Params
}

// DefaultParams mirrors the representative defaults of §4.2/§4.4.
func DefaultParams() Params {
	return Params{
		MaxIter:                    1000,
		MaxTime:                    5 * time.Minute,
		StopCrit:                   innercore.ApproxKKT,
		MaxNoProgress:              10,
		LineSearchStrictnessFactor: 0,
		LineSearchBeta:             0.5,
		LineSearchMinStep:          1e-12,
		Lipschitz:                  lipschitz.DefaultParams(),
	}
}

func (p Params) sigma() float64 {
	if p.LineSearchStrictnessFactor > 0 {
		return p.LineSearchStrictnessFactor
	}
	return 0.5 * (1 - p.Lipschitz.LGammaFactor)
}

// ProgressInfo is the per-iteration snapshot handed to a ProgressCallback
// (§4.10): valid only for the duration of the call.
type ProgressInfo struct {
	stats.Snapshot
	Problem *problem.AugmentedLagrangian
}

// ProgressCallback observes one iteration. info's buffers are a borrow,
// see ProgressInfo.
type ProgressCallback func(info ProgressInfo)

// Stats summarizes a completed Solve call.
type Stats struct {
	Status             innercore.SolverStatus
	Iterations         int
	Epsilon            float64
	ElapsedTime        time.Duration
	LineSearchFailures int
	DirectionRejects   int
	DirectionFailures  int
}

// Solver runs PANOC against an augmented-Lagrangian sub-problem. A Solver
// owns all of its workspace; it is reusable across calls to Solve as long
// as the problem dimension n does not change.
type Solver struct {
	prm Params
	dir direction.Provider
	est *lipschitz.Estimator

	n int

	x, xHat, p, gradPsi           la.Vector
	xTrial, xHatTrial, pTrial     la.Vector
	gradPsiTrial                  la.Vector
	q, rho                        la.Vector
	gBuf, zBuf, yHatBuf, gradFBuf la.Vector

	progress ProgressCallback
}

// NewSolver builds a Solver for an n-dimensional, m-constraint problem.
// est is the Lipschitz estimator the solver will drive; it is registered
// as dir's γ-change listener.
func NewSolver(n, m int, prm Params, dir direction.Provider, est *lipschitz.Estimator) *Solver {
	chk.PanicIf(n <= 0, "panoc.NewSolver: n must be positive, got %d", n)
	o := &Solver{
		prm:          prm,
		dir:          dir,
		est:          est,
		n:            n,
		x:            la.NewVector(n),
		xHat:         la.NewVector(n),
		p:            la.NewVector(n),
		gradPsi:      la.NewVector(n),
		xTrial:       la.NewVector(n),
		xHatTrial:    la.NewVector(n),
		pTrial:       la.NewVector(n),
		gradPsiTrial: la.NewVector(n),
		q:            la.NewVector(n),
		rho:          la.NewVector(n),
		gBuf:         la.NewVector(m),
		zBuf:         la.NewVector(m),
		yHatBuf:      la.NewVector(m),
		gradFBuf:     la.NewVector(n),
	}
	o.est.NotifyGammaChanged(dir)
	return o
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

// Solve runs PANOC on the sub-problem alm (ψ, ∇ψ defined by its current
// y, Σ), starting from x0, until the selected stop criterion falls below
// epsilon or a termination condition triggers. The accepted iterate is
// written back into x0 in place; yHat receives ŷ(x) at the returned point
// (length alm.Problem.GetM(), caller-supplied).
func (o *Solver) Solve(alm *problem.AugmentedLagrangian, x0 la.Vector, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, Stats) {
	start := time.Now()
	var acc stats.Accumulator
	box := o.boxC(alm)
	sigma := o.prm.sigma()

	copy(o.x, x0)
	alm.EvalPsiGradPsi(o.x, o.gradPsi, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
	innercore.ProxStep(alm.Problem, o.est.Gamma(), o.x, o.gradPsi, o.xHat, o.p)
	o.dir.Initialize(alm.Problem, alm.Y, alm.Sigma, o.est.Gamma(), o.x, o.xHat, o.p, o.gradPsi)

	status := innercore.MaxIter
	noProgress := 0

	for k := 0; k < o.prm.MaxIter; k++ {
		if sig != nil && sig.Requested() {
			status = innercore.Interrupted
			break
		}
		if time.Since(start) > o.prm.MaxTime {
			status = innercore.MaxTime
			break
		}

		psiX := alm.EvalPsiGradPsi(o.x, o.gradPsi, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
		if !la.AllFinite(o.gradPsi) {
			status = innercore.NotFinite
			break
		}
		hXHat := innercore.ProxStep(alm.Problem, o.est.Gamma(), o.x, o.gradPsi, o.xHat, o.p)
		phiX := innercore.FBE(psiX, o.gradPsi, o.p, o.est.Gamma(), hXHat)

		residual := innercore.Residual(o.prm.StopCrit, box, o.x, o.gradPsi, o.p, o.est.Gamma(), o.rho)
		if residual <= epsilon {
			status = innercore.Converged
			break
		}

		// Backtrack γ until the prox step at x satisfies the quadratic
		// upper bound (§4.2); recompute re-derives x̂, p, h(x̂), ψ(x̂) at
		// each trial γ.
		recompute := func(gamma float64) (float64, la.Vector) {
			innercore.ProxStep(alm.Problem, gamma, o.x, o.gradPsi, o.xHat, o.p)
			psiXHat := alm.EvalPsiGradPsi(o.xHat, o.gradPsiTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
			return psiXHat, o.p
		}
		if o.est.Backtrack(o.x, o.gradPsi, psiX, recompute) == lipschitz.BacktrackExceededCap {
			status = innercore.NotFinite
			break
		}
		gamma := o.est.Gamma()
		hXHat = innercore.ProxStep(alm.Problem, gamma, o.x, o.gradPsi, o.xHat, o.p)
		phiX = innercore.FBE(psiX, o.gradPsi, o.p, gamma, hXHat)

		// Direction: fall back to the plain prox step on the first
		// iteration or whenever Apply fails.
		applyFailed := false
		if k == 0 || !o.dir.HasInitialDirection() {
			copy(o.q, o.p)
		} else if !o.dir.Apply(gamma, o.x, o.xHat, o.p, o.gradPsi, o.q) {
			copy(o.q, o.p)
			applyFailed = true
		}

		pNormSq := o.p.Dot(o.p)
		tau := 1.0
		lsFailed := false
		for {
			for i := 0; i < o.n; i++ {
				o.xTrial[i] = o.x[i] + (1-tau)*o.p[i] + tau*o.q[i]
			}
			psiTrial := alm.EvalPsiGradPsi(o.xTrial, o.gradPsiTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
			hTrial := innercore.ProxStep(alm.Problem, gamma, o.xTrial, o.gradPsiTrial, o.xHatTrial, o.pTrial)
			phiTrial := innercore.FBE(psiTrial, o.gradPsiTrial, o.pTrial, gamma, hTrial)
			if phiTrial <= phiX-sigma*pNormSq/gamma {
				break
			}
			tau *= o.prm.LineSearchBeta
			if tau < o.prm.LineSearchMinStep {
				// Fall back to the plain prox step (τ=0 equivalent).
				copy(o.xTrial, o.xHat)
				psiTrial := alm.EvalPsiGradPsi(o.xTrial, o.gradPsiTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
				innercore.ProxStep(alm.Problem, gamma, o.xTrial, o.gradPsiTrial, o.xHatTrial, o.pTrial)
				_ = psiTrial
				lsFailed = true
				break
			}
		}

		accepted := o.dir.Update(gamma, gamma, o.x, o.xTrial, o.p, o.pTrial, o.gradPsi, o.gradPsiTrial)
		acc.Add(lsFailed, !accepted, applyFailed, 0)

		if o.progress != nil {
			o.progress(ProgressInfo{
				Snapshot: stats.Snapshot{K: k, X: o.x, P: o.p, GradPsi: o.gradPsi, Gamma: gamma, LHat: o.est.LHat(), Tau: tau, Psi: psiX, FBE: phiX, Residual: residual},
				Problem:  alm,
			})
		}

		step := 0.0
		for i := 0; i < o.n; i++ {
			d := o.xTrial[i] - o.x[i]
			step += d * d
		}
		if math.Sqrt(step) < 1e-14 {
			noProgress++
			if noProgress > o.prm.MaxNoProgress {
				status = innercore.NoProgress
				copy(o.x, o.xTrial)
				break
			}
		} else {
			noProgress = 0
		}

		copy(o.x, o.xTrial)
		copy(o.p, o.pTrial)
		copy(o.gradPsi, o.gradPsiTrial)
		copy(o.xHat, o.xHatTrial)
	}

	copy(x0, o.xHat)
	alm.EvalYHat(x0, yHat, o.gBuf, o.zBuf)

	elapsed := time.Since(start)
	return x0, Stats{
		Status:             status,
		Iterations:         acc.Iterations,
		Epsilon:            epsilon,
		ElapsedTime:        elapsed,
		LineSearchFailures: acc.LineSearchFailures,
		DirectionRejects:   acc.DirectionUpdateRejects,
		DirectionFailures:  acc.DirectionApplyFailures,
	}
}
