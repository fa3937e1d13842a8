// Package problem declares the problem contract: the required and optional
// evaluation capabilities a concrete nonlinear program must supply, plus a
// BoxConstrProblem base implementation for box constraints with optional
// ℓ1-regularization, ported from alpaqa's BoxConstrProblem.
package problem

import (
	"math"

	"github.com/dicksontsai/nlpcore/la"
)

// Box is a rectangular region [Lower, Upper] ⊆ (ℝ ∪ {±∞})^n. Infinite
// bounds are admissible and denote the absence of a bound.
type Box struct {
	Lower la.Vector
	Upper la.Vector
}

// NewBox returns an unconstrained box of dimension n: (-∞, +∞)^n.
func NewBox(n int) Box {
	lo := la.NewVector(n)
	hi := la.NewVector(n)
	for i := 0; i < n; i++ {
		lo[i] = math.Inf(-1)
		hi[i] = math.Inf(1)
	}
	return Box{Lower: lo, Upper: hi}
}

// N returns the dimension of the box.
func (b Box) N() int { return len(b.Lower) }

// Project writes Π_C(x) into out.
func (b Box) Project(out, x la.Vector) {
	la.ClampBox(out, x, b.Lower, b.Upper)
}

// ProjectingDifference writes z - Π_C(z) into out — the bound-projection
// residual used by the augmented Lagrangian (eval_proj_diff_g).
func (b Box) ProjectingDifference(out, z la.Vector) {
	for i := range z {
		p := z[i]
		if p < b.Lower[i] {
			p = b.Lower[i]
		}
		if p > b.Upper[i] {
			p = b.Upper[i]
		}
		out[i] = z[i] - p
	}
}

// HasLower reports whether component i has a finite lower bound.
func (b Box) HasLower(i int) bool { return !math.IsInf(b.Lower[i], -1) }

// HasUpper reports whether component i has a finite upper bound.
func (b Box) HasUpper(i int) bool { return !math.IsInf(b.Upper[i], 1) }
