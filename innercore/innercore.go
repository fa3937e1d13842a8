// Package innercore hosts the forward-backward envelope, prox-step and
// stop-criterion primitives shared by the PANOC, ZeroFPR and FISTA inner
// solvers (§4.4–§4.6), plus the SolverStatus enum they and PANTR all use
// (§4.4's termination statuses).
package innercore

import (
	"math"

	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

// ProxStep computes x̂ = prox_{γh}(x − γ∇ψ(x)), p = x̂ − x via the wrapped
// problem's EvalProxGradStep, returning h(x̂) (§3's "proximal step
// primitive").
func ProxStep(prob problem.RequiredProblem, gamma float64, x, gradPsi la.Vector, xHat, p la.Vector) float64 {
	return prob.EvalProxGradStep(gamma, x, gradPsi, xHat, p)
}

// FBE evaluates the forward-backward envelope
//
//	φ_γ(x) = ψ(x) + ⟨∇ψ(x), p⟩ + ‖p‖²/(2γ) + h(x̂)
//
// per §3.
func FBE(psiX float64, gradPsi, p la.Vector, gamma, hXHat float64) float64 {
	dot := gradPsi.Dot(p)
	pNormSq := p.Dot(p)
	return psiX + dot + pNormSq/(2*gamma) + hXHat
}

// SolverStatus is the termination status common to every inner solver and
// to ALM (§4.4, §4.8).
type SolverStatus int

const (
	Busy SolverStatus = iota
	Converged
	MaxIter
	MaxTime
	NotFinite
	NoProgress
	Interrupted
)

func (s SolverStatus) String() string {
	switch s {
	case Busy:
		return "Busy"
	case Converged:
		return "Converged"
	case MaxIter:
		return "MaxIter"
	case MaxTime:
		return "MaxTime"
	case NotFinite:
		return "NotFinite"
	case NoProgress:
		return "NoProgress"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown"
	}
}

// StopCrit selects which residual measure the inner solvers compare against
// the tolerance ε passed in from ALM (§4.4's enumerated PANOCStopCrit
// variants, ported by name from alpaqa's panoc-stop-crit enum).
type StopCrit int

const (
	ApproxKKT StopCrit = iota
	ApproxKKT2
	ProjGradNorm
	ProjGradNorm2
	ProjGradUnitNorm
	ProjGradUnitNorm2
	FPRNorm
	FPRNorm2
	Ipopt
	LBFGSBpp
)

// Residual computes the stop-criterion measure selected by crit.
//
//   - ApproxKKT(2): ‖ρ‖ with ρ_i = x_i − Π_C(x_i − ∇ψ_i), ∞-norm or 2-norm.
//   - ProjGradNorm(2): ‖p/γ‖, ∞-norm or 2-norm.
//   - ProjGradUnitNorm(2): ‖p‖, ∞-norm or 2-norm (the "unit-step" variant:
//     no γ-scaling, used to compare magnitudes across γ changes).
//   - FPRNorm(2): ‖p‖/γ, ∞-norm or 2-norm.
//
// p is the current prox-step residual and is only read. rho must be
// caller-supplied scratch of length C.N(); it is only touched (and only
// needs computing) for the ApproxKKT variants.
func Residual(crit StopCrit, C problem.Box, x, gradPsi, p la.Vector, gamma float64, rho la.Vector) float64 {
	switch crit {
	case ApproxKKT, ApproxKKT2:
		for i := range x {
			rho[i] = x[i] - gradPsi[i]
		}
		C.Project(rho, rho)
		for i := range x {
			rho[i] = x[i] - rho[i]
		}
		if crit == ApproxKKT {
			return normInf(rho)
		}
		return norm2(rho)
	case ProjGradNorm, ProjGradNorm2:
		if crit == ProjGradNorm {
			return normInfScaled(p, 1/gamma)
		}
		return norm2Scaled(p, 1/gamma)
	case ProjGradUnitNorm, ProjGradUnitNorm2:
		if crit == ProjGradUnitNorm {
			return normInf(p)
		}
		return norm2(p)
	case FPRNorm, FPRNorm2:
		if crit == FPRNorm {
			return normInfScaled(p, 1/gamma)
		}
		return norm2Scaled(p, 1/gamma)
	default:
		// Ipopt and LBFGSBpp are accepted for enum-compatibility with
		// alpaqa's solver-specific stop criteria (§4.4); this core does not
		// implement their solver-specific residuals, so they fall back to
		// the fixed-point residual, the most broadly applicable measure.
		return normInfScaled(p, 1/gamma)
	}
}

func normInf(v la.Vector) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x); a > m {
			m = a
		}
	}
	return m
}

func norm2(v la.Vector) float64 { return v.Norm() }

func normInfScaled(v la.Vector, scale float64) float64 {
	m := 0.0
	for _, x := range v {
		if a := math.Abs(x * scale); a > m {
			m = a
		}
	}
	return m
}

func norm2Scaled(v la.Vector, scale float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x * x * scale * scale
	}
	return math.Sqrt(s)
}
