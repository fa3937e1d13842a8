package problem

import (
	"math"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
)

// BoxConstrProblem implements the common, problem-independent machinery for
// minimization problems with box constraints C, D and optional ℓ1
// regularization — ported from alpaqa's BoxConstrProblem<Conf>. Concrete
// problems embed it and supply EvalF/EvalGradF/EvalG/EvalGradGProd
// themselves.
type BoxConstrProblem struct {
	N int
	M int

	// C is the box constraining the decision variable, x ∈ C.
	C Box
	// D is the box constraining the general constraints, g(x) ∈ D.
	D Box
	// L1Reg is the ℓ1-regularization weight vector: length 0 (no
	// regularization), 1 (a single scalar factor) or N (per-variable).
	L1Reg la.Vector
	// PenaltyALMSplit is k_split: constraints with index below this are
	// handled by a plain quadratic penalty (their multiplier is kept at
	// zero); the remainder by full ALM.
	PenaltyALMSplit int
}

// NewBoxConstrProblem returns a problem with unconstrained boxes, no
// ℓ1-regularization, and all constraints handled by full ALM.
func NewBoxConstrProblem(n, m int) BoxConstrProblem {
	return BoxConstrProblem{N: n, M: m, C: NewBox(n), D: NewBox(m)}
}

// GetN returns the number of decision variables.
func (o *BoxConstrProblem) GetN() int { return o.N }

// GetM returns the number of constraints.
func (o *BoxConstrProblem) GetM() int { return o.M }

// GetBoxC returns the box constraining the decision variable (problem.BoxProvider).
func (o *BoxConstrProblem) GetBoxC() Box { return o.C }

// GetPenaltyALMSplit returns k_split (problem.PenaltySplitProvider).
func (o *BoxConstrProblem) GetPenaltyALMSplit() int { return o.PenaltyALMSplit }

// lambdaAt returns the ℓ1 weight of coordinate i given the configured
// L1Reg dimension (0, 1 or N).
func (o *BoxConstrProblem) lambdaAt(i int) float64 {
	switch len(o.L1Reg) {
	case 0:
		return 0
	case 1:
		return o.L1Reg[0]
	default:
		return o.L1Reg[i]
	}
}

// EvalProxGradStep implements the default box+ℓ1 proximal-gradient step
// (§4.1): when λ ≡ 0 it reduces to a projection onto C; otherwise it
// applies per-coordinate soft-thresholding before the projection.
//
//	p = −max(x − C.upper, min(x − C.lower, min(γ(∇ψ+λ), max(γ(∇ψ−λ), x))))
//	x̂ = x + p
func (o *BoxConstrProblem) EvalProxGradStep(gamma float64, x, gradPsi la.Vector, xHat, p la.Vector) float64 {
	if len(o.L1Reg) == 0 {
		for i := 0; i < o.N; i++ {
			pi := -gamma * gradPsi[i]
			lo := o.C.Lower[i] - x[i]
			hi := o.C.Upper[i] - x[i]
			if pi < lo {
				pi = lo
			}
			if pi > hi {
				pi = hi
			}
			p[i] = pi
			xHat[i] = x[i] + pi
		}
		return 0
	}
	h := 0.0
	for i := 0; i < o.N; i++ {
		lam := o.lambdaAt(i)
		inner := gamma * (gradPsi[i] - lam)
		if v := x[i]; inner < v {
			inner = v
		}
		v := gamma * (gradPsi[i] + lam)
		if v < inner {
			inner = v
		}
		v = x[i] - o.C.Lower[i]
		if v < inner {
			inner = v
		}
		v = o.C.Upper[i] - x[i]
		pi := -inner
		if pi > v {
			pi = v
		}
		p[i] = pi
		xHat[i] = x[i] + pi
		h += lam * math.Abs(xHat[i])
	}
	return h
}

// EvalProjDiffG fills out with z - Π_D(z).
func (o *BoxConstrProblem) EvalProjDiffG(z la.Vector, out la.Vector) {
	o.D.ProjectingDifference(out, z)
}

// EvalProjMultipliers projects y into the admissible dual set in place:
// component i is clamped to [-M, 0] when D has only an upper bound, [0, M]
// when D has only a lower bound, [-M, M] when both are finite; components
// below PenaltyALMSplit are forced to zero.
func (o *BoxConstrProblem) EvalProjMultipliers(y la.Vector, M float64) {
	for i := 0; i < o.PenaltyALMSplit; i++ {
		y[i] = 0
	}
	for i := o.PenaltyALMSplit; i < o.M; i++ {
		lo, hi := -M, M
		if !o.D.HasLower(i) {
			hi = 0
		}
		if !o.D.HasUpper(i) {
			lo = 0
		}
		if y[i] < lo {
			y[i] = lo
		}
		if y[i] > hi {
			y[i] = hi
		}
	}
}

// EvalInactiveIndicesResLNA implements the default box+ℓ1 inactive-set
// computation: component i is "inactive" iff the forward-backward
// candidate x_i − γ∇ψ_i (after soft-thresholding by γλ_i) lies strictly
// inside (C.lower_i, C.upper_i).
func (o *BoxConstrProblem) EvalInactiveIndicesResLNA(gamma float64, x, gradPsi la.Vector, J []int) int {
	nJ := 0
	addIfInterior := func(xfw float64, i int) {
		if o.C.Lower[i] < xfw && xfw < o.C.Upper[i] {
			J[nJ] = i
			nJ++
		}
	}
	for i := 0; i < o.N; i++ {
		lam := o.lambdaAt(i)
		xfw := x[i] - gamma*gradPsi[i]
		if lam == 0 {
			addIfInterior(xfw, i)
			continue
		}
		if xfw > gamma*lam {
			addIfInterior(xfw-gamma*lam, i)
		} else if xfw < -gamma*lam {
			addIfInterior(xfw+gamma*lam, i)
		}
	}
	return nJ
}

// Check validates the dimensions of C, D, L1Reg and PenaltyALMSplit,
// panicking (contract violation) on mismatch.
func (o *BoxConstrProblem) Check() {
	chk.PanicIf(len(o.C.Lower) != o.N || len(o.C.Upper) != o.N, "box C does not match problem size n=%d", o.N)
	chk.PanicIf(len(o.D.Lower) != o.M || len(o.D.Upper) != o.M, "box D does not match problem size m=%d", o.M)
	chk.PanicIf(len(o.L1Reg) > 1 && len(o.L1Reg) != o.N, "l1_reg length %d does not match n=%d, 1 or 0", len(o.L1Reg), o.N)
	chk.PanicIf(o.PenaltyALMSplit < 0 || o.PenaltyALMSplit > o.M, "invalid penalty_alm_split=%d for m=%d", o.PenaltyALMSplit, o.M)
}
