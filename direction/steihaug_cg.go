package direction

import (
	"math"

	"github.com/dicksontsai/nlpcore/la"
)

// HessVecProd computes out = H*v for whatever Hessian (or Hessian
// approximation) the caller is modeling; it never allocates.
type HessVecProd func(v, out la.Vector)

// SteihaugCGResult reports how the trust-region CG solve terminated.
type SteihaugCGResult int

const (
	// SteihaugConverged means the CG residual reached the requested
	// tolerance before hitting the boundary or a negative-curvature
	// direction.
	SteihaugConverged SteihaugCGResult = iota
	// SteihaugBoundary means the iterate was truncated to the trust-region
	// boundary ‖d‖ = Δ.
	SteihaugBoundary
	// SteihaugNegativeCurvature means a direction of non-positive curvature
	// was found and the step was truncated to the boundary along it.
	SteihaugNegativeCurvature
	// SteihaugMaxIter means the iteration budget was exhausted.
	SteihaugMaxIter
)

// SteihaugCG runs the Steihaug-Toint truncated conjugate-gradient method,
// approximately solving min_d gᵀd + ½dᵀHd subject to ‖d‖ ≤ Δ, the shared
// trust-region solver direction.Newton's NewtonTR variant and pantr both
// use (§4.3, §4.7). d must be preallocated to the problem dimension and is
// filled in place; the scratch vectors r, p, hp, dNext must also be
// preallocated to the same dimension (never allocated inside the loop).
func SteihaugCG(hvp HessVecProd, g la.Vector, delta, tol float64, maxIter int, d, r, p, hp, dNext la.Vector) SteihaugCGResult {
	n := len(g)
	d.Fill(0)
	copy(r, g)
	la.Scale(r, -1, r)
	copy(p, r)

	rr := r.Dot(r)
	if math.Sqrt(rr) <= tol {
		return SteihaugConverged
	}

	for iter := 0; iter < maxIter; iter++ {
		hvp(p, hp)
		pHp := p.Dot(hp)

		if pHp <= 0 {
			tau := boundaryStep(d, p, delta)
			la.AddScaled(d, d, tau, p)
			return SteihaugNegativeCurvature
		}

		alpha := rr / pHp
		la.AddScaled(dNext, d, alpha, p)
		if dNext.Norm() >= delta {
			tau := boundaryStep(d, p, delta)
			la.AddScaled(d, d, tau, p)
			return SteihaugBoundary
		}
		copy(d, dNext)

		la.AddScaled(r, r, -alpha, hp)
		rrNext := r.Dot(r)
		if math.Sqrt(rrNext) <= tol {
			return SteihaugConverged
		}

		beta := rrNext / rr
		for i := 0; i < n; i++ {
			p[i] = r[i] + beta*p[i]
		}
		rr = rrNext
	}
	return SteihaugMaxIter
}

// boundaryStep solves ‖d + τp‖ = Δ for the positive root τ.
func boundaryStep(d, p la.Vector, delta float64) float64 {
	pp := p.Dot(p)
	dp := d.Dot(p)
	dd := d.Dot(d)
	a := pp
	b := 2 * dp
	c := dd - delta*delta
	disc := b*b - 4*a*c
	if disc < 0 {
		disc = 0
	}
	return (-b + math.Sqrt(disc)) / (2 * a)
}
