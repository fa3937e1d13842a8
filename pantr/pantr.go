// Package pantr implements the PANTR inner solver (§4.7): a trust-region
// variant of PANOC that replaces the scalar line search with a Steihaug-CG
// trust-region solve and an accept/reject/grow/shrink decision driven by
// the model-reduction ratio ρ.
package pantr

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

// TrustRegionDirection is the capability direction.NewtonTR provides:
// Provider plus the radius bookkeeping and predicted-decrease reporting
// pantr's accept/reject step needs.
type TrustRegionDirection interface {
	direction.Provider
	Radius() float64
	GrowRadius(factor float64)
	ShrinkRadius(factor float64)
	ModelReduction() float64
}

// Params holds the tunables of the PANTR iteration.
type Params struct {
	MaxIter       int
	MaxTime       time.Duration
	StopCrit      innercore.StopCrit
	MaxNoProgress int

	// EtaAccept is the minimum model-reduction ratio ρ for a step to be
	// accepted. EtaGood is the threshold above which the radius is grown
	// (§4.7's ρ-driven accept/grow/shrink decision).
	EtaAccept float64
	EtaGood   float64

	RadiusFactorGood       float64
	RadiusFactorAcceptable float64
	RadiusFactorRejected   float64

	Lipschitz lipschitz.Params
}

// DefaultParams mirrors the classical trust-region thresholds (Conn,
// Gould & Toint) adapted to §4.7's representative defaults.
func DefaultParams() Params {
	return Params{
		MaxIter:                1000,
		MaxTime:                5 * time.Minute,
		StopCrit:               innercore.ApproxKKT,
		MaxNoProgress:          10,
		EtaAccept:              1e-4,
		EtaGood:                0.75,
		RadiusFactorGood:       2.0,
		RadiusFactorAcceptable: 1.0,
		RadiusFactorRejected:   0.5,
		Lipschitz:              lipschitz.DefaultParams(),
	}
}

// ProgressInfo is the per-iteration snapshot handed to a ProgressCallback
// (§4.10): valid only for the duration of the call. Tau carries the
// trust-region radius Δ rather than a line-search step fraction.
type ProgressInfo struct {
	stats.Snapshot
	Problem *problem.AugmentedLagrangian
}

// ProgressCallback observes one iteration.
type ProgressCallback func(info ProgressInfo)

// Stats summarizes a completed Solve call.
type Stats struct {
	Status            innercore.SolverStatus
	Iterations        int
	Epsilon           float64
	ElapsedTime       time.Duration
	StepsRejected     int
	DirectionFailures int
}

// Solver runs PANTR against an augmented-Lagrangian sub-problem.
type Solver struct {
	prm Params
	dir TrustRegionDirection
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
func NewSolver(n, m int, prm Params, dir TrustRegionDirection, est *lipschitz.Estimator) *Solver {
	chk.PanicIf(n <= 0, "pantr.NewSolver: n must be positive, got %d", n)
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

// Solve runs PANTR on the sub-problem alm, starting from x0. Every
// iteration computes a Steihaug-CG trust-region direction q_k, tries the
// step x_trial = x_k + q_k once (no scalar line search), and accepts or
// rejects it based on the model-reduction ratio ρ, growing or shrinking
// the trust-region radius accordingly (§4.7).
func (o *Solver) Solve(alm *problem.AugmentedLagrangian, x0 la.Vector, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, Stats) {
	start := time.Now()
	var acc stats.Accumulator
	box := o.boxC(alm)

	copy(o.x, x0)
	alm.EvalPsiGradPsi(o.x, o.gradPsi, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
	innercore.ProxStep(alm.Problem, o.est.Gamma(), o.x, o.gradPsi, o.xHat, o.p)
	o.dir.Initialize(alm.Problem, alm.Y, alm.Sigma, o.est.Gamma(), o.x, o.xHat, o.p, o.gradPsi)

	status := innercore.MaxIter
	noProgress := 0
	stepsRejected := 0

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
			return alm.EvalPsiGradPsi(o.xHat, o.gradPsiTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf), o.p
		}
		if o.est.Backtrack(o.x, o.gradPsi, psiX, recompute) == lipschitz.BacktrackExceededCap {
			status = innercore.NotFinite
			break
		}
		gamma := o.est.Gamma()
		hXHat = innercore.ProxStep(alm.Problem, gamma, o.x, o.gradPsi, o.xHat, o.p)
		phiX = innercore.FBE(psiX, o.gradPsi, o.p, gamma, hXHat)

		applyFailed := false
		if !o.dir.Apply(gamma, o.x, o.xHat, o.p, o.gradPsi, o.q) {
			copy(o.q, o.p)
			applyFailed = true
		}

		for i := 0; i < o.n; i++ {
			o.xTrial[i] = o.x[i] + o.q[i]
		}
		psiTrial := alm.EvalPsiGradPsi(o.xTrial, o.gradPsiTrial, o.gBuf, o.zBuf, o.yHatBuf, o.gradFBuf)
		hTrial := innercore.ProxStep(alm.Problem, gamma, o.xTrial, o.gradPsiTrial, o.xHatTrial, o.pTrial)
		phiTrial := innercore.FBE(psiTrial, o.gradPsiTrial, o.pTrial, gamma, hTrial)

		actualReduction := phiX - phiTrial
		modelReduction := o.dir.ModelReduction()

		accept := false
		if modelReduction > 0 {
			rho := actualReduction / modelReduction
			switch {
			case rho >= o.prm.EtaGood:
				o.dir.GrowRadius(o.prm.RadiusFactorGood)
				accept = true
			case rho >= o.prm.EtaAccept:
				o.dir.GrowRadius(o.prm.RadiusFactorAcceptable)
				accept = true
			default:
				o.dir.ShrinkRadius(o.prm.RadiusFactorRejected)
			}
		} else {
			o.dir.ShrinkRadius(o.prm.RadiusFactorRejected)
		}

		directionAccepted := true
		if accept {
			directionAccepted = o.dir.Update(gamma, gamma, o.x, o.xTrial, o.p, o.pTrial, o.gradPsi, o.gradPsiTrial)
		} else {
			stepsRejected++
		}
		acc.Add(!accept, !directionAccepted, applyFailed, 0)

		if o.progress != nil {
			o.progress(ProgressInfo{
				Snapshot: stats.Snapshot{K: k, X: o.x, P: o.p, GradPsi: o.gradPsi, Gamma: gamma, LHat: o.est.LHat(), Tau: o.dir.Radius(), Psi: psiX, FBE: phiX, Residual: residual},
				Problem:  alm,
			})
		}

		if !accept {
			continue
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

	return x0, Stats{
		Status:            status,
		Iterations:        acc.Iterations,
		Epsilon:           epsilon,
		ElapsedTime:       time.Since(start),
		StepsRejected:     stepsRejected,
		DirectionFailures: acc.DirectionApplyFailures,
	}
}
