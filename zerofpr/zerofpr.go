// Package zerofpr implements the ZeroFPR inner solver (§4.5): the same
// scaffolding as panoc, but the line search is referenced at the prox
// image x̂_k rather than x_k, and the direction provider is fed the pair
// (x̂_k, x̂_{k+1}).
package zerofpr

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

// Params holds the tunables of the ZeroFPR iteration.
type Params struct {
	MaxIter       int
	MaxTime       time.Duration
	StopCrit      innercore.StopCrit
	MaxNoProgress int

	// LineSearchStrictnessFactor is σ in the fixed-point-residual
	// sufficient-descent test φ_γ(x_trial) ≤ φ_γ(x) − σ‖p‖²/γ (§4.5).
	// Zero selects the default ½·(1 − L_γ_factor).
	LineSearchStrictnessFactor float64
	LineSearchBeta             float64
	LineSearchMinStep          float64

	Lipschitz lipschitz.Params
}

// DefaultParams mirrors panoc's representative defaults (§4.2/§4.5).
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

// ProgressCallback observes one iteration.
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

// Solver runs ZeroFPR against an augmented-Lagrangian sub-problem.
type Solver struct {
	prm Params
	dir direction.Provider
	est *lipschitz.Estimator

	n int

	x, xHat, p, gradPsi           la.Vector
	xHatTrial, pTrial             la.Vector
	gradPsiHatTrial               la.Vector
	q, rho                        la.Vector
	gBuf, zBuf, yHatBuf, gradFBuf la.Vector

	progress ProgressCallback
}

// NewSolver builds a Solver for an n-dimensional, m-constraint problem.
// est is the Lipschitz estimator the solver will drive; it is registered
// as dir's γ-change listener.
func NewSolver(n, m int, prm Params, dir direction.Provider, est *lipschitz.Estimator) *Solver {
	chk.PanicIf(n <= 0, "zerofpr.NewSolver: n must be positive, got %d", n)
	o := &Solver{
		prm:             prm,
		dir:             dir,
		est:             est,
		n:               n,
		x:               la.NewVector(n),
		xHat:            la.NewVector(n),
		p:               la.NewVector(n),
		gradPsi:         la.NewVector(n),
		xHatTrial:       la.NewVector(n),
		pTrial:          la.NewVector(n),
		gradPsiHatTrial: la.NewVector(n),
		q:               la.NewVector(n),
		rho:             la.NewVector(n),
		gBuf:            la.NewVector(m),
		zBuf:            la.NewVector(m),
		yHatBuf:         la.NewVector(m),
		gradFBuf:        la.NewVector(n),
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

// Solve runs ZeroFPR on the sub-problem alm, starting from x0, exactly as
// panoc.Solver.Solve except the line search is referenced at x̂_k: the
// trial point is x̂_k + τ(q_k − p_k), and the accepted direction-provider
// pair is (x̂_k, x̂_{k+1}) rather than (x_k, x_{k+1}).
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

		recompute := func(gamma float64) (float64, la.Vector) {
			innercore.ProxStep(alm.Problem, gamma, o.x, o.gradPsi, o.xHat, o.p)
			psiXHat := alm.EvalPsiGradPsi(o.xHat, o.gradPsiHatTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
			return psiXHat, o.p
		}
		if o.est.Backtrack(o.x, o.gradPsi, psiX, recompute) == lipschitz.BacktrackExceededCap {
			status = innercore.NotFinite
			break
		}
		gamma := o.est.Gamma()
		hXHat = innercore.ProxStep(alm.Problem, gamma, o.x, o.gradPsi, o.xHat, o.p)
		phiX = innercore.FBE(psiX, o.gradPsi, o.p, gamma, hXHat)

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
				o.xHatTrial[i] = o.xHat[i] + tau*(o.q[i]-o.p[i])
			}
			psiHatTrial := alm.EvalPsiGradPsi(o.xHatTrial, o.gradPsiHatTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
			// xHatTrial doubles as both the prox step's input and output:
			// EvalProxGradStep only ever reads/writes a given index once,
			// so overwriting in place is safe.
			hHatTrial := innercore.ProxStep(alm.Problem, gamma, o.xHatTrial, o.gradPsiHatTrial, o.xHatTrial, o.pTrial)
			phiHatTrial := innercore.FBE(psiHatTrial, o.gradPsiHatTrial, o.pTrial, gamma, hHatTrial)
			if phiHatTrial <= phiX-sigma*pNormSq/gamma {
				break
			}
			tau *= o.prm.LineSearchBeta
			if tau < o.prm.LineSearchMinStep {
				copy(o.xHatTrial, o.xHat)
				alm.EvalPsiGradPsi(o.xHatTrial, o.gradPsiHatTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
				innercore.ProxStep(alm.Problem, gamma, o.xHatTrial, o.gradPsiHatTrial, o.xHatTrial, o.pTrial)
				lsFailed = true
				break
			}
		}

		accepted := o.dir.Update(gamma, gamma, o.xHat, o.xHatTrial, o.p, o.pTrial, o.gradPsi, o.gradPsiHatTrial)
		acc.Add(lsFailed, !accepted, applyFailed, 0)

		if o.progress != nil {
			o.progress(ProgressInfo{
				Snapshot: stats.Snapshot{K: k, X: o.x, P: o.p, GradPsi: o.gradPsi, Gamma: gamma, LHat: o.est.LHat(), Tau: tau, Psi: psiX, FBE: phiX, Residual: residual},
				Problem:  alm,
			})
		}

		step := 0.0
		for i := 0; i < o.n; i++ {
			d := o.xHatTrial[i] - o.x[i]
			step += d * d
		}
		if math.Sqrt(step) < 1e-14 {
			noProgress++
			if noProgress > o.prm.MaxNoProgress {
				status = innercore.NoProgress
				copy(o.x, o.xHatTrial)
				break
			}
		} else {
			noProgress = 0
		}

		copy(o.x, o.xHatTrial)
		copy(o.xHat, o.xHatTrial)
		copy(o.p, o.pTrial)
		copy(o.gradPsi, o.gradPsiHatTrial)
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
