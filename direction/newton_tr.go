package direction

import (
	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

// NewtonTRParams controls the Steihaug-CG trust-region solve shared with
// pantr (§4.3, §4.7).
type NewtonTRParams struct {
	Delta0  float64
	CGTol   float64
	CGMaxIt int
}

// DefaultNewtonTRParams are reasonable starting values for the trust-region
// radius and CG tolerance.
func DefaultNewtonTRParams() NewtonTRParams {
	return NewtonTRParams{Delta0: 1, CGTol: 1e-8, CGMaxIt: 50}
}

// NewtonTR replaces Newton's dense H_JJ assembly and Cholesky solve with
// matrix-free Hessian-vector products (problem.HessianVectorProvider) inside
// a Steihaug-CG trust-region solve constrained to ‖q‖ ≤ Δ (§4.3).
type NewtonTR struct {
	prm NewtonTRParams

	prob  problem.HessianVectorProvider
	inact problem.InactiveIndexProvider

	n     int
	delta float64

	J                     []int
	inJ                   []bool
	g, d, r, p, hp, dNext la.Vector

	modelReduction float64 // -(gᵀq + ½qᵀHq) for the last Apply's accepted q
}

// NewNewtonTR builds a trust-region Newton direction provider.
func NewNewtonTR(n int, prm NewtonTRParams) *NewtonTR {
	return &NewtonTR{
		prm:   prm,
		n:     n,
		delta: prm.Delta0,
		J:     make([]int, n),
		inJ:   make([]bool, n),
		g:     la.NewVector(n),
		d:     la.NewVector(n),
		r:     la.NewVector(n),
		p:     la.NewVector(n),
		hp:    la.NewVector(n),
		dNext: la.NewVector(n),
	}
}

func (o *NewtonTR) Initialize(prob problem.RequiredProblem, y, sigma la.Vector, gamma0 float64, x0, xHat0, p0, gradPsi0 la.Vector) {
	chk.PanicIf(prob.GetM() != 0, "direction.NewtonTR: does not support general constraints (m=%d)", prob.GetM())
	hv, ok := prob.(problem.HessianVectorProvider)
	chk.PanicIf(!ok, "direction.NewtonTR: problem does not implement HessianVectorProvider")
	inact, ok := prob.(problem.InactiveIndexProvider)
	chk.PanicIf(!ok, "direction.NewtonTR: problem does not implement InactiveIndexProvider")
	o.prob = hv
	o.inact = inact
	o.delta = o.prm.Delta0
}

func (o *NewtonTR) Reset() { o.delta = o.prm.Delta0 }

func (o *NewtonTR) HasInitialDirection() bool { return true }

func (o *NewtonTR) Update(gamma, gammaNext float64, x, xNext, p, pNext, gradPsi, gradPsiNext la.Vector) bool {
	return true
}

func (o *NewtonTR) ChangedGamma(gammaNew, gammaOld float64) {}

// Radius returns the current trust-region radius (pantr adjusts it via
// GrowRadius/ShrinkRadius based on the model-reduction ratio, §4.7).
func (o *NewtonTR) Radius() float64 { return o.delta }

// GrowRadius scales the radius up by factor.
func (o *NewtonTR) GrowRadius(factor float64) { o.delta *= factor }

// ShrinkRadius scales the radius down by factor.
func (o *NewtonTR) ShrinkRadius(factor float64) { o.delta *= factor }

// Apply solves the trust-region subproblem min qᵀ(-p/γ) + ½qᵀ∇²ψ(x)q s.t.
// ‖q‖ ≤ Δ via Steihaug-CG, restricted to the inactive set J the same way
// Newton restricts its dense solve — the Hessian-vector product is called
// on the full space but both its input and output are zeroed on the
// complement K, which keeps every CG iterate supported on J without the
// cost of Newton's dense H_JJ assembly.
func (o *NewtonTR) Apply(gamma float64, x, xHat, p, gradPsi la.Vector, q la.Vector) bool {
	nJ := o.inact.EvalInactiveIndicesResLNA(gamma, x, gradPsi, o.J)
	for k := range o.inJ {
		o.inJ[k] = false
	}
	for _, j := range o.J[:nJ] {
		o.inJ[j] = true
	}

	la.Scale(o.g, -1/gamma, p)
	for k := 0; k < o.n; k++ {
		if !o.inJ[k] {
			o.g[k] = 0
		}
	}

	hvp := func(v, out la.Vector) {
		o.prob.EvalHessPsiProd(x, nil, v, out)
		for k := 0; k < o.n; k++ {
			if !o.inJ[k] {
				out[k] = 0
			}
		}
	}
	SteihaugCG(hvp, o.g, o.delta, o.prm.CGTol, o.prm.CGMaxIt, o.d, o.r, o.p, o.hp, o.dNext)
	copy(q, o.d)

	hvp(o.d, o.hp)
	o.modelReduction = -(o.g.Dot(o.d) + 0.5*o.d.Dot(o.hp))
	return true
}

// ModelReduction returns −(gᵀq + ½qᵀHq) for the q computed by the most
// recent Apply call — the predicted decrease pantr compares against the
// actual FBE decrease to form the model-reduction ratio ρ (§4.7).
func (o *NewtonTR) ModelReduction() float64 { return o.modelReduction }
