package direction

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
)

func TestSteihaugCGConvergesWithinTrustRegionForSPDHessian(tst *testing.T) {
	chk.PrintTitle("SteihaugCGConvergesWithinTrustRegionForSPDHessian")
	// H = diag(2, 4), g = (-2, -4); unconstrained minimizer is d = (1, 1),
	// which lies inside a trust region of radius 5.
	hvp := func(v, out la.Vector) {
		out[0] = 2 * v[0]
		out[1] = 4 * v[1]
	}
	g := la.NewVectorFrom([]float64{-2, -4})
	d := la.NewVector(2)
	r := la.NewVector(2)
	p := la.NewVector(2)
	hp := la.NewVector(2)
	dNext := la.NewVector(2)

	status := SteihaugCG(hvp, g, 5, 1e-10, 50, d, r, p, hp, dNext)
	chk.True(tst, "converged", status == SteihaugConverged)
	chk.Array(tst, "d matches unconstrained minimizer", 1e-6, d, []float64{1, 1})
}

func TestSteihaugCGTruncatesAtBoundary(tst *testing.T) {
	chk.PrintTitle("SteihaugCGTruncatesAtBoundary")
	hvp := func(v, out la.Vector) {
		out[0] = 2 * v[0]
		out[1] = 4 * v[1]
	}
	g := la.NewVectorFrom([]float64{-2, -4})
	d := la.NewVector(2)
	r := la.NewVector(2)
	p := la.NewVector(2)
	hp := la.NewVector(2)
	dNext := la.NewVector(2)

	delta := 0.5
	status := SteihaugCG(hvp, g, delta, 1e-10, 50, d, r, p, hp, dNext)
	chk.True(tst, "hit boundary", status == SteihaugBoundary || status == SteihaugNegativeCurvature)
	chk.Float64(tst, "‖d‖ == Δ", 1e-8, d.Norm(), delta)
}

func TestSteihaugCGHandlesNegativeCurvature(tst *testing.T) {
	chk.PrintTitle("SteihaugCGHandlesNegativeCurvature")
	// H = diag(-1, 1): negative curvature along e_0.
	hvp := func(v, out la.Vector) {
		out[0] = -v[0]
		out[1] = v[1]
	}
	g := la.NewVectorFrom([]float64{-1, 0})
	d := la.NewVector(2)
	r := la.NewVector(2)
	p := la.NewVector(2)
	hp := la.NewVector(2)
	dNext := la.NewVector(2)

	status := SteihaugCG(hvp, g, 2, 1e-10, 50, d, r, p, hp, dNext)
	chk.True(tst, "negative curvature reported", status == SteihaugNegativeCurvature)
	chk.Float64(tst, "step truncated to the boundary", 1e-8, d.Norm(), 2)
}
