package direction

import (
	"math"

	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

// H0Policy selects the initial Hessian approximation used by the two-loop
// recursion's middle step (§4.3: "H₀ = γ·I or s·z / z·z based on
// configuration").
type H0Policy int

const (
	// GammaScaling uses H₀ = γ·I.
	GammaScaling H0Policy = iota
	// RayleighQuotient uses H₀ = (s·z / z·z)·I from the most recent pair.
	RayleighQuotient
)

// CBFGSParams holds the cautious-update guard's tunables: accept a pair
// only if z·s > 0 and z·s/s·s ≥ ε·‖p‖^α.
type CBFGSParams struct {
	Alpha   float64
	Epsilon float64
}

// LBFGSParams holds LBFGS's tunables.
type LBFGSParams struct {
	Memory int
	CBFGS  CBFGSParams
	H0     H0Policy
}

// DefaultLBFGSParams mirrors alpaqa's defaults (α=1, ε small).
func DefaultLBFGSParams(memory int) LBFGSParams {
	return LBFGSParams{
		Memory: memory,
		CBFGS:  CBFGSParams{Alpha: 1, Epsilon: 1e-10},
		H0:     GammaScaling,
	}
}

// LBFGS is a circular buffer of m past (s, z) pairs with the cautious
// update rule of §4.3, ported from
// original_source/.../inner/directions/lbfgs.hpp's LBFGS::update /
// LBFGS::apply.
type LBFGS struct {
	prm LBFGSParams
	n   int

	s   []la.Vector // s_i = x_next - x
	z   []la.Vector // z_i = ∇ψ_next - ∇ψ
	rho []float64   // ρ_i = 1 / (z_i·s_i)

	idx  int // next slot to write, circular
	full bool

	// scratch for apply's two-loop recursion
	alpha []float64
}

// NewLBFGS builds an LBFGS provider with the given history length.
func NewLBFGS(n int, prm LBFGSParams) *LBFGS {
	l := &LBFGS{
		prm:   prm,
		n:     n,
		s:     make([]la.Vector, prm.Memory),
		z:     make([]la.Vector, prm.Memory),
		rho:   make([]float64, prm.Memory),
		alpha: make([]float64, prm.Memory),
	}
	for i := range l.s {
		l.s[i] = la.NewVector(n)
		l.z[i] = la.NewVector(n)
	}
	return l
}

func (o *LBFGS) Initialize(prob problem.RequiredProblem, y, sigma la.Vector, gamma0 float64, x0, xHat0, p0, gradPsi0 la.Vector) {
	o.Reset()
}

func (o *LBFGS) Reset() {
	o.idx = 0
	o.full = false
}

func (o *LBFGS) HasInitialDirection() bool { return o.idx > 0 || o.full }

func (o *LBFGS) history() int {
	if o.full {
		return o.prm.Memory
	}
	return o.idx
}

// succ advances a circular index by one.
func (o *LBFGS) succ(i int) int {
	i++
	if i == o.prm.Memory {
		return 0
	}
	return i
}

// Update pushes the pair (s, z) = (x_next - x, ∇ψ_next - ∇ψ) through the
// cautious-BFGS guard; rejects (keeping history unchanged) when the guard
// fails.
func (o *LBFGS) Update(gamma, gammaNext float64, x, xNext, p, pNext, gradPsi, gradPsiNext la.Vector) bool {
	yTs, sTs := 0.0, 0.0
	for i := range x {
		si := xNext[i] - x[i]
		yTs += (gradPsiNext[i] - gradPsi[i]) * si
		sTs += si * si
	}
	pNormSq := pNext.Dot(pNext)

	if !cbfgsAccept(o.prm.CBFGS, yTs, sTs, pNormSq) {
		return false
	}

	la.Sub(o.s[o.idx], xNext, x)
	la.Sub(o.z[o.idx], gradPsiNext, gradPsi)
	o.rho[o.idx] = 1 / yTs
	o.idx = o.succ(o.idx)
	if o.idx == 0 {
		o.full = true
	}
	return true
}

const minDivisor = 1.4916681462400413e-154 // sqrt(smallest normal float64)

func cbfgsAccept(prm CBFGSParams, yTs, sTs, pNormSq float64) bool {
	if math.IsNaN(yTs) || math.IsInf(yTs, 0) {
		return false
	}
	if sTs < minDivisor || yTs < minDivisor {
		return false
	}
	return yTs/sTs >= prm.Epsilon*math.Pow(pNormSq, prm.Alpha/2)
}

// Apply copies p into q and runs the two-loop recursion on it in place,
// producing q ← H·p.
func (o *LBFGS) Apply(gamma float64, x, xHat, p, gradPsi la.Vector, q la.Vector) bool {
	if o.idx == 0 && !o.full {
		return false
	}
	copy(q, p)

	if o.idx > 0 {
		for i := o.idx - 1; i >= 0; i-- {
			o.update1(i, q)
		}
	}
	if o.full {
		for i := o.history() - 1; i >= o.idx; i-- {
			o.update1(i, q)
		}
	}

	h0 := o.initialHessianScale(gamma)
	la.Scale(q, h0, q)

	if o.full {
		for i := o.idx; i < o.history(); i++ {
			o.update2(i, q)
		}
	}
	for i := 0; i < o.idx; i++ {
		o.update2(i, q)
	}
	return true
}

func (o *LBFGS) update1(i int, q la.Vector) {
	o.alpha[i] = o.rho[i] * o.s[i].Dot(q)
	la.AddScaled(q, q, -o.alpha[i], o.z[i])
}

func (o *LBFGS) update2(i int, q la.Vector) {
	beta := o.rho[i] * o.z[i].Dot(q)
	la.AddScaled(q, q, o.alpha[i]-beta, o.s[i])
}

// initialHessianScale picks H₀'s scalar multiple per the configured policy.
func (o *LBFGS) initialHessianScale(gamma float64) float64 {
	if o.prm.H0 == GammaScaling {
		return gamma
	}
	newestIdx := o.idx - 1
	if newestIdx < 0 {
		newestIdx = o.history() - 1
	}
	yTy := o.z[newestIdx].Dot(o.z[newestIdx])
	if yTy < minDivisor {
		return gamma
	}
	return 1 / (o.rho[newestIdx] * yTy)
}

// ChangedGamma rescales the stored z vectors by γ_new/γ_old, per §4.3's "on
// γ change, either rescale stored z by γ_new/γ_old or reset"; this provider
// rescales rather than resets.
func (o *LBFGS) ChangedGamma(gammaNew, gammaOld float64) {
	if gammaOld == 0 {
		return
	}
	factor := gammaNew / gammaOld
	n := o.history()
	for i := 0; i < n; i++ {
		la.Scale(o.z[i], factor, o.z[i])
		o.rho[i] /= factor
	}
}
