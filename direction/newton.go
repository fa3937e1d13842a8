package direction

import (
	"math"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

// NewtonRegularizationParams holds the adaptive Tikhonov regularization
// ζ·‖p/γ‖^ν added to H_JJ before solving (§4.3).
type NewtonRegularizationParams struct {
	Zeta float64
	Nu   float64
	LDLT bool // not read by Newton.Apply: H_JJ is always factorized by Cholesky (LLᵀ)
}

// DefaultNewtonRegularizationParams mirrors
// ConvexNewtonRegularizationParams's defaults (ζ=1e-8, ν=1).
func DefaultNewtonRegularizationParams() NewtonRegularizationParams {
	return NewtonRegularizationParams{Zeta: 1e-8, Nu: 1}
}

// NewtonParams additionally controls the optional Hessian-vector
// correction on the complement K (§4.3).
type NewtonParams struct {
	Reg              NewtonRegularizationParams
	HessianVecFactor float64 // 0 disables the K-correction term
}

// Newton forms H_JJ (the Hessian of ψ restricted to the inactive set J)
// once per sub-problem, regularizes it, and solves H_JJ q_J = p_J/γ via
// Cholesky (la.SolveSPD); there is no LDLᵀ path, and when the Cholesky
// factorization fails Apply returns false. Ported from
// original_source/.../inner/directions/panoc/convex-newton.hpp's
// ConvexNewtonDirection. Requires problem.HessianProvider and
// problem.InactiveIndexProvider.
type Newton struct {
	prm NewtonParams
	n   int

	prob  problem.HessianProvider
	inact problem.InactiveIndexProvider

	H        *la.Matrix // full dense Hessian, evaluated once
	haveHess bool

	J []int
	w la.Vector
}

// NewNewton builds a Newton direction provider.
func NewNewton(n int, prm NewtonParams) *Newton {
	return &Newton{
		prm: prm,
		n:   n,
		H:   la.NewMatrix(n, n),
		J:   make([]int, n),
		w:   la.NewVector(n),
	}
}

func (o *Newton) Initialize(prob problem.RequiredProblem, y, sigma la.Vector, gamma0 float64, x0, xHat0, p0, gradPsi0 la.Vector) {
	chk.PanicIf(prob.GetM() != 0, "direction.Newton: does not support general constraints (m=%d)", prob.GetM())
	hp, ok := prob.(problem.HessianProvider)
	chk.PanicIf(!ok, "direction.Newton: problem does not implement HessianProvider")
	inact, ok := prob.(problem.InactiveIndexProvider)
	chk.PanicIf(!ok, "direction.Newton: problem does not implement InactiveIndexProvider")
	o.prob = hp
	o.inact = inact
	o.haveHess = false
}

func (o *Newton) Reset() { o.haveHess = false }

func (o *Newton) HasInitialDirection() bool { return true }

func (o *Newton) Update(gamma, gammaNext float64, x, xNext, p, pNext, gradPsi, gradPsiNext la.Vector) bool {
	return true
}

func (o *Newton) ChangedGamma(gammaNew, gammaOld float64) {}

// Apply evaluates the Hessian once (cached across calls within the same
// sub-problem instance, reset by Initialize), restricts it to J, adds the
// Tikhonov regularization, and solves for q_J (§4.3).
func (o *Newton) Apply(gamma float64, x, xHat, p, gradPsi la.Vector, q la.Vector) bool {
	if !o.haveHess {
		o.prob.EvalHessLDense(x, nil, 1, o.H)
		o.haveHess = true
	}

	nJ := o.inact.EvalInactiveIndicesResLNA(gamma, x, gradPsi, o.J)
	J := o.J[:nJ]

	HJ := la.NewMatrix(nJ, nJ)
	for a, ja := range J {
		for b, jb := range J {
			HJ.Set(a, b, o.H.Get(ja, jb))
		}
	}

	resSq := p.Dot(p) / (gamma * gamma)
	reg := o.prm.Reg.Zeta * math.Pow(resSq, o.prm.Reg.Nu/2)
	for a := range J {
		HJ.Set(a, a, HJ.Get(a, a)+reg)
	}

	w := o.w[:nJ]
	for a, ja := range J {
		w[a] = p[ja] / gamma
	}
	if o.prm.HessianVecFactor != 0 {
		o.applyComplementCorrection(J, q, w)
	}

	qJ := la.NewVector(nJ)
	ok := la.SolveSPD(qJ, HJ, w)
	if !ok {
		return false
	}

	q.Fill(0)
	for a, ja := range J {
		q[ja] = qJ[a]
	}
	return true
}

// applyComplementCorrection subtracts hessian_vec_factor·H_JK·q_K from w,
// per §4.3's "q_K = complement of J" Hessian-vector correction. q holds the
// fallback direction (typically p) on K's coordinates, matching the C++
// source's use of qₖ(K) before the solve overwrites qₖ(J).
func (o *Newton) applyComplementCorrection(J []int, q, w la.Vector) {
	inJ := make([]bool, o.n)
	for _, j := range J {
		inJ[j] = true
	}
	for a, ja := range J {
		sum := 0.0
		for k := 0; k < o.n; k++ {
			if !inJ[k] {
				sum += o.H.Get(ja, k) * q[k]
			}
		}
		w[a] -= o.prm.HessianVecFactor * sum
	}
}
