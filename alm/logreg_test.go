package alm

import (
	"math"
	"testing"
	"time"

	"github.com/dicksontsai/nlpcore/direction"
	"github.com/dicksontsai/nlpcore/innercore"
	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/lipschitz"
	"github.com/dicksontsai/nlpcore/panoc"
	"github.com/dicksontsai/nlpcore/problem"
)

// logRegProblem is ℓ1-regularized logistic regression: minimize
// (1/m) Σ log(1+exp(-y_i·wᵀx_i)) + λ‖w‖₁, unconstrained (C = ℝⁿ, no
// general constraints). The synthetic dataset below is generated from a
// ground-truth weight vector with two informative features and two
// near-constant noise features the ℓ1 penalty is expected to zero out
// (scenario 6, spec.md §8).
type logRegProblem struct {
	problem.BoxConstrProblem
	X [][]float64 // [sample][feature]
	Y []float64   // labels in {-1, +1}
}

func newLogRegProblem(lambda float64) *logRegProblem {
	const n = 4
	trueW := []float64{2.0, -1.5, 0, 0}

	nSamples := 60
	X := make([][]float64, nSamples)
	Y := make([]float64, nSamples)
	for i := 0; i < nSamples; i++ {
		t := float64(i)
		x := []float64{
			math.Sin(t * 0.7),
			math.Cos(t * 1.3),
			0.01 * math.Sin(t*0.37),
			0.01 * math.Cos(t*2.1),
		}
		score := 0.0
		for j := 0; j < n; j++ {
			score += trueW[j] * x[j]
		}
		y := -1.0
		if score > 0 {
			y = 1.0
		}
		X[i] = x
		Y[i] = y
	}

	p := &logRegProblem{
		BoxConstrProblem: problem.NewBoxConstrProblem(n, 0),
		X:                X,
		Y:                Y,
	}
	p.L1Reg = la.NewVectorFrom([]float64{lambda})
	return p
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

func (p *logRegProblem) EvalF(w la.Vector) float64 {
	m := len(p.X)
	sum := 0.0
	for i := 0; i < m; i++ {
		score := 0.0
		for j, xj := range p.X[i] {
			score += w[j] * xj
		}
		sum += math.Log1p(math.Exp(-p.Y[i] * score))
	}
	return sum / float64(m)
}

func (p *logRegProblem) EvalGradF(w la.Vector, gradF la.Vector) {
	m := len(p.X)
	for j := range gradF {
		gradF[j] = 0
	}
	for i := 0; i < m; i++ {
		score := 0.0
		for j, xj := range p.X[i] {
			score += w[j] * xj
		}
		coeff := -p.Y[i] * sigmoid(-p.Y[i]*score) / float64(m)
		for j, xj := range p.X[i] {
			gradF[j] += coeff * xj
		}
	}
}

func (p *logRegProblem) EvalG(w la.Vector, g la.Vector)                        {}
func (p *logRegProblem) EvalGradGProd(w la.Vector, y la.Vector, out la.Vector) {}

func TestALML1LogisticRegressionRecoversSparsity(tst *testing.T) {
	chk.PrintTitle("ALML1LogisticRegressionRecoversSparsity")

	const n = 4
	prob := newLogRegProblem(0.05)

	est := lipschitz.NewEstimator(n, lipschitz.DefaultParams(), lipschitz.NewRandSource(1))
	w0 := la.NewVector(n)
	gradF0 := la.NewVector(n)
	prob.EvalGradF(w0, gradF0)
	est.InitialEstimate(w0, gradF0, func(x, g la.Vector) { prob.EvalGradF(x, g) })

	dir := direction.NewLBFGS(n, direction.DefaultLBFGSParams(10))
	inner := panoc.NewSolver(n, 0, panoc.DefaultParams(), dir, est)

	prm := DefaultParams()
	prm.MaxIter = 200
	prm.MaxTime = time.Minute
	solver := NewSolver(0, prm, PanocInner{inner})

	w := la.NewVector(n)
	y := la.NewVector(0)
	sigma := la.NewVector(0)
	st := solver.Solve(prob, w, y, sigma, false, nil)

	chk.True(tst, "converged", st.Status == innercore.Converged)

	nnz := 0
	for j := 0; j < n; j++ {
		if math.Abs(w[j]) > 1e-3 {
			nnz++
		}
	}
	// ground truth has 2 nonzero weights; allow ±1 per scenario 6.
	chk.True(tst, "nnz(w) within 1 of ground-truth sparsity (2)", nnz >= 1 && nnz <= 3)
	chk.True(tst, "informative feature 0 recovered", math.Abs(w[0]) > 1e-3)
	chk.True(tst, "informative feature 1 recovered", math.Abs(w[1]) > 1e-3)
}
