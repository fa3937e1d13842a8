package panoc

import (
	"testing"

	"github.com/dicksontsai/nlpcore/cancel"
	"github.com/dicksontsai/nlpcore/direction"
	"github.com/dicksontsai/nlpcore/innercore"
	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/lipschitz"
	"github.com/dicksontsai/nlpcore/problem"
)

// diagQuadraticProblem is f(x) = ½xᵀAx with A = diag(diag), m = 0, C = ℝⁿ,
// h ≡ 0 — the minimal RequiredProblem needed to exercise the solver loop
// without pulling in a concrete application problem.
type diagQuadraticProblem struct {
	diag []float64
}

func (p *diagQuadraticProblem) GetN() int { return len(p.diag) }
func (p *diagQuadraticProblem) GetM() int { return 0 }

func (p *diagQuadraticProblem) EvalF(x la.Vector) float64 {
	s := 0.0
	for i, d := range p.diag {
		s += 0.5 * d * x[i] * x[i]
	}
	return s
}

func (p *diagQuadraticProblem) EvalGradF(x la.Vector, gradF la.Vector) {
	for i, d := range p.diag {
		gradF[i] = d * x[i]
	}
}

func (p *diagQuadraticProblem) EvalG(x la.Vector, g la.Vector)                        {}
func (p *diagQuadraticProblem) EvalGradGProd(x la.Vector, y la.Vector, out la.Vector) {}
func (p *diagQuadraticProblem) EvalProjDiffG(z la.Vector, out la.Vector)              {}
func (p *diagQuadraticProblem) EvalProjMultipliers(y la.Vector, M float64)            {}

func (p *diagQuadraticProblem) EvalProxGradStep(gamma float64, x, gradPsi la.Vector, xHat, pOut la.Vector) float64 {
	for i := range x {
		xHat[i] = x[i] - gamma*gradPsi[i]
		pOut[i] = xHat[i] - x[i]
	}
	return 0
}

func TestPANOCConvergesOnUnconstrainedQuadratic(tst *testing.T) {
	chk.PrintTitle("PANOCConvergesOnUnconstrainedQuadratic")

	prob := &diagQuadraticProblem{diag: []float64{4, 1}}
	alm := &problem.AugmentedLagrangian{Problem: prob, Y: la.NewVector(0), Sigma: la.NewVector(0)}

	est := lipschitz.NewEstimator(2, lipschitz.DefaultParams(), lipschitz.NewRandSource(1))
	x0 := la.NewVectorFrom([]float64{3, -2})
	gradPsi0 := la.NewVector(2)
	prob.EvalGradF(x0, gradPsi0)
	est.InitialEstimate(x0, gradPsi0, func(x, g la.Vector) { prob.EvalGradF(x, g) })

	dir := direction.NewLBFGS(2, direction.DefaultLBFGSParams(5))
	solver := NewSolver(2, 0, DefaultParams(), dir, est)

	x := la.NewVectorFrom([]float64{3, -2})
	yHat := la.NewVector(0)
	xOut, st := solver.Solve(alm, x, yHat, 1e-8, nil)

	chk.True(tst, "converged", st.Status == innercore.Converged)
	chk.Float64(tst, "x[0] -> 0", 1e-4, xOut[0], 0)
	chk.Float64(tst, "x[1] -> 0", 1e-4, xOut[1], 0)
}

func TestPANOCRespectsCancellation(tst *testing.T) {
	chk.PrintTitle("PANOCRespectsCancellation")

	prob := &diagQuadraticProblem{diag: []float64{4, 1}}
	alm := &problem.AugmentedLagrangian{Problem: prob, Y: la.NewVector(0), Sigma: la.NewVector(0)}

	est := lipschitz.NewEstimator(2, lipschitz.DefaultParams(), lipschitz.NewRandSource(1))
	x0 := la.NewVectorFrom([]float64{3, -2})
	gradPsi0 := la.NewVector(2)
	prob.EvalGradF(x0, gradPsi0)
	est.InitialEstimate(x0, gradPsi0, func(x, g la.Vector) { prob.EvalGradF(x, g) })

	dir := direction.NewLBFGS(2, direction.DefaultLBFGSParams(5))
	solver := NewSolver(2, 0, DefaultParams(), dir, est)

	var sig cancel.Signal
	sig.Request()

	x := la.NewVectorFrom([]float64{3, -2})
	yHat := la.NewVector(0)
	_, st := solver.Solve(alm, x, yHat, 1e-8, &sig)

	chk.True(tst, "interrupted immediately", st.Status == innercore.Interrupted)
}
