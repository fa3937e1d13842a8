package problem

import "github.com/dicksontsai/nlpcore/la"

// RequiredProblem is the capability set every inner solver may assume is
// present (§4.1). Buffers passed as "out" are caller-owned and must be
// filled in place; evaluation routines never allocate.
type RequiredProblem interface {
	// GetN returns the number of decision variables.
	GetN() int
	// GetM returns the number of general constraints.
	GetM() int

	// EvalF returns f(x).
	EvalF(x la.Vector) float64
	// EvalGradF fills gradF with ∇f(x).
	EvalGradF(x la.Vector, gradF la.Vector)

	// EvalG fills g with g(x).
	EvalG(x la.Vector, g la.Vector)
	// EvalGradGProd fills out with Jg(x)ᵀy.
	EvalGradGProd(x la.Vector, y la.Vector, out la.Vector)

	// EvalProjDiffG fills out with z - Π_D(z).
	EvalProjDiffG(z la.Vector, out la.Vector)
	// EvalProjMultipliers projects y into the admissible dual set in place,
	// clamping each component to [-M, 0], [0, M] or [-M, M] depending on
	// which bound of D is finite, and forcing components below the
	// penalty split to zero.
	EvalProjMultipliers(y la.Vector, M float64)

	// EvalProxGradStep computes x̂ = prox_{γh}(x - γ∇ψ), p = x̂ - x, and
	// returns h(x̂).
	EvalProxGradStep(gamma float64, x, gradPsi la.Vector, xHat, p la.Vector) float64
}

// HessianVectorProvider is an optional capability: α·∇²L(x,y)·v products,
// needed by structured L-BFGS and the Newton-TR direction.
type HessianVectorProvider interface {
	EvalHessLProd(x, y la.Vector, alpha float64, v la.Vector, out la.Vector)
	EvalHessPsiProd(x la.Vector, yHat la.Vector, v la.Vector, out la.Vector)
}

// HessianProvider is an optional capability: the full Hessian of the
// Lagrangian in dense form, needed by the (non-trust-region) Newton
// direction, which restricts it to the inactive set J reported by
// InactiveIndexProvider itself.
type HessianProvider interface {
	EvalHessLDense(x, y la.Vector, alpha float64, H *la.Matrix)
}

// JacobianProvider is an optional capability: the dense Jacobian of g.
type JacobianProvider interface {
	EvalJacGDense(x la.Vector, J *la.Matrix)
}

// InactiveIndexProvider is an optional capability: the index set J of
// coordinates strictly inside the interior of the prox image, used by the
// structured direction providers. Returns the number of indices written
// into J (J must be sized to at least GetN()).
type InactiveIndexProvider interface {
	EvalInactiveIndicesResLNA(gamma float64, x, gradPsi la.Vector, J []int) int
}

// FusedEvaluator is an optional fast-path capability for the composite
// evaluations (ψ, ∇ψ together). Nothing in this module probes for it:
// AugmentedLagrangian.EvalPsiGradPsi always evaluates ψ and ∇ψ from the
// required primitives, whether or not the problem implements it.
type FusedEvaluator interface {
	EvalPsiGradPsi(x la.Vector, gradPsi la.Vector) float64
}

// BoxProvider is an optional capability: the box C constraining the
// decision variable, needed by the ApproxKKT stop-criterion variants
// (§4.4), which project x - ∇ψ(x) onto C.
type BoxProvider interface {
	GetBoxC() Box
}

// PenaltySplitProvider is an optional capability: the index k_split below
// which constraints are handled by a plain quadratic penalty rather than
// full ALM (§4.8's "For each constraint i ∈ [k_split, m)"). Problems that
// don't implement it are treated as k_split = 0 (every constraint under
// full ALM).
type PenaltySplitProvider interface {
	GetPenaltyALMSplit() int
}
