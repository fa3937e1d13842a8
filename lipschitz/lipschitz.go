// Package lipschitz estimates an upper bound L̂ on the Lipschitz constant
// of ∇ψ near the current iterate and derives the prox-gradient step size
// γ = L_γ_factor / L̂ from it (§4.2).
package lipschitz

import (
	"math"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
)

// Params holds the tunables of the estimator.
type Params struct {
	LGammaFactor float64 // γ = LGammaFactor / L̂; default 0.95
	LMin         float64 // lower clamp for L̂
	LMax         float64 // upper clamp for L̂; exceeding it is NotFinite/NoProgress
	Rel          float64 // relative perturbation magnitude ε for the finite-difference probe
	Delta        float64 // fallback absolute perturbation δ when ‖x‖ is tiny
	EpsQU        float64 // slack εqu in the quadratic-upper-bound test
	GrowAfter    int     // attempt γ growth after this many iterations without backtracking; 0 disables
}

// DefaultParams mirrors the representative defaults of §4.2.
func DefaultParams() Params {
	return Params{
		LGammaFactor: 0.95,
		LMin:         1e-10,
		LMax:         1e10,
		Rel:          1e-6,
		Delta:        1e-12,
		EpsQU:        1e-10,
		GrowAfter:    0,
	}
}

// GammaListener is notified whenever γ changes, so it can rescale or reset
// whatever history it keeps consistent with γ (§4.2, §4.3's changed_γ).
type GammaListener interface {
	ChangedGamma(gammaNew, gammaOld float64)
}

// Estimator owns L̂ and γ and performs the finite-difference initial
// estimate plus backtracking described in §4.2. Perturbation buffers are
// preallocated at NewEstimator: nothing in Backtrack or InitialEstimate
// allocates.
type Estimator struct {
	prm Params

	lhat  float64 // L̂
	gamma float64 // γ = LGammaFactor / L̂

	rng *rand64 // deterministic unit-perturbation source, owned by the caller's solver

	n           int
	xPerturb    la.Vector // x + h, scratch
	gradPerturb la.Vector // ∇ψ(x+h), scratch
	diff        la.Vector // ∇ψ(x+h) - ∇ψ(x), scratch

	sinceBacktrack int // iterations since the last backtrack, for the γ-growth probe

	listener GammaListener
}

// rand64 is the minimal uniform-unit-vector source the estimator needs; it
// is supplied by the caller so repeated solves with the same seed are
// reproducible (never the package-level math/rand global).
type rand64 struct {
	state uint64
}

// NewRandSource builds a deterministic perturbation source from a seed.
func NewRandSource(seed uint64) *rand64 {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &rand64{state: seed}
}

// next returns a float64 in [-1, 1), advancing the generator (splitmix64).
func (r *rand64) next() float64 {
	r.state += 0x9e3779b97f4a7c15
	z := r.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z = z ^ (z >> 31)
	u := float64(z>>11) / float64(1<<53) // in [0,1)
	return 2*u - 1
}

// NewEstimator builds an Estimator for an n-dimensional problem.
func NewEstimator(n int, prm Params, rng *rand64) *Estimator {
	chk.PanicIf(n <= 0, "lipschitz.NewEstimator: n must be positive, got %d", n)
	return &Estimator{
		prm:         prm,
		n:           n,
		rng:         rng,
		xPerturb:    la.NewVector(n),
		gradPerturb: la.NewVector(n),
		diff:        la.NewVector(n),
	}
}

// NotifyGammaChanged registers a listener to be informed whenever γ
// changes, so callers don't have to remember the wiring (§4.2).
func (o *Estimator) NotifyGammaChanged(l GammaListener) { o.listener = l }

// LHat returns the current L̂ estimate.
func (o *Estimator) LHat() float64 { return o.lhat }

// Gamma returns the current γ.
func (o *Estimator) Gamma() float64 { return o.gamma }

// EvalGradPsi evaluates ∇ψ at a point; supplied by the caller (a closure
// over problem.EvalPsiGradPsi or equivalent) so this package stays
// independent of the problem contract.
type EvalGradPsi func(x la.Vector, gradPsi la.Vector)

// InitialEstimate computes L̂₀ via a finite-difference probe along a
// deterministic unit perturbation h: L̂₀ = ‖∇ψ(x+h) − ∇ψ(x)‖ / ‖h‖, clamped
// into [L_min, L_max], then derives γ = L_γ_factor / L̂₀ (§4.2).
func (o *Estimator) InitialEstimate(x, gradPsi la.Vector, evalGradPsi EvalGradPsi) {
	norm := x.Norm()
	magnitude := o.prm.Rel * math.Max(norm, 1)
	if norm < 1e-9 {
		magnitude = o.prm.Delta
	}

	for i := 0; i < o.n; i++ {
		o.xPerturb[i] = x[i] + magnitude*o.rng.next()
	}
	hNorm := 0.0
	for i := 0; i < o.n; i++ {
		d := o.xPerturb[i] - x[i]
		hNorm += d * d
	}
	hNorm = math.Sqrt(hNorm)
	if hNorm < 1e-300 {
		hNorm = o.prm.Delta
	}

	evalGradPsi(o.xPerturb, o.gradPerturb)
	la.Sub(o.diff, o.gradPerturb, gradPsi)

	lhat := o.diff.Norm() / hNorm
	o.setLHat(clamp(lhat, o.prm.LMin, o.prm.LMax))
	o.sinceBacktrack = 0
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

// setLHat updates L̂ and derives γ, notifying the listener when γ changes.
func (o *Estimator) setLHat(lhat float64) {
	o.lhat = lhat
	gammaOld := o.gamma
	o.gamma = o.prm.LGammaFactor / o.lhat
	if o.listener != nil && gammaOld != 0 && gammaOld != o.gamma {
		o.listener.ChangedGamma(o.gamma, gammaOld)
	}
}

// QuadUpperBoundOK reports whether ψ(x̂) satisfies the quadratic upper
// bound ψ(x) + ⟨∇ψ,p⟩ + ‖p‖²/(2γ)·(1+εqu), the backtracking test of §4.2.
func (o *Estimator) QuadUpperBoundOK(psiX, psiXHat float64, gradPsi, p la.Vector) bool {
	pNormSq := 0.0
	dot := 0.0
	for i := range p {
		pNormSq += p[i] * p[i]
		dot += gradPsi[i] * p[i]
	}
	bound := psiX + dot + pNormSq/(2*o.gamma)*(1+o.prm.EpsQU)
	return psiXHat <= bound
}

// BacktrackStatus reports what Backtrack decided.
type BacktrackStatus int

const (
	// BacktrackOK means the candidate satisfied the quadratic upper bound,
	// possibly after doubling L̂ one or more times.
	BacktrackOK BacktrackStatus = iota
	// BacktrackExceededCap means L̂ hit LMax without satisfying the bound.
	BacktrackExceededCap
)

// Backtrack doubles L̂ (halving γ) until recompute, which the caller
// supplies as a closure producing (x̂, p, ψ(x̂)) for the current γ, satisfies
// the quadratic upper bound, or L̂ exceeds LMax (§4.2). recompute is called
// once per doubling, including the very first check at the caller's
// current γ.
func (o *Estimator) Backtrack(x, gradPsi la.Vector, psiX float64, recompute func(gamma float64) (psiXHat float64, p la.Vector)) BacktrackStatus {
	for {
		psiXHat, p := recompute(o.gamma)
		if o.QuadUpperBoundOK(psiX, psiXHat, gradPsi, p) {
			o.sinceBacktrack = 0
			return BacktrackOK
		}
		if o.lhat >= o.prm.LMax {
			return BacktrackExceededCap
		}
		o.setLHat(math.Min(2*o.lhat, o.prm.LMax))
	}
}

// MaybeGrowGamma attempts γ ← min(2γ, 1/L_min) once GrowAfter iterations
// have passed without a backtrack, verifying via recompute and reverting on
// failure (§4.2, optional). Returns true if growth was accepted.
func (o *Estimator) MaybeGrowGamma(x, gradPsi la.Vector, psiX float64, recompute func(gamma float64) (psiXHat float64, p la.Vector)) bool {
	o.sinceBacktrack++
	if o.prm.GrowAfter <= 0 || o.sinceBacktrack < o.prm.GrowAfter {
		return false
	}
	candidateGamma := math.Min(2*o.gamma, 1/o.prm.LMin)
	if candidateGamma <= o.gamma {
		return false
	}
	candidateLHat := o.prm.LGammaFactor / candidateGamma
	psiXHat, p := recompute(candidateGamma)
	if !o.QuadUpperBoundOK(psiX, psiXHat, gradPsi, p) {
		return false
	}
	o.setLHat(candidateLHat)
	o.sinceBacktrack = 0
	return true
}
