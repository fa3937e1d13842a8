package direction

import (
	"github.com/dicksontsai/nlpcore/la"
)

// diagQuadraticProblem is f(x) = ½xᵀAx with A = diag(diag), m = 0, C = ℝⁿ,
// h ≡ 0 — just enough of problem.RequiredProblem plus the optional Hessian
// capabilities for exercising Newton, NewtonTR and StructuredLBFGS without
// pulling in the full problem package's box/ALM machinery.
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

func (p *diagQuadraticProblem) EvalG(x la.Vector, g la.Vector)                    {}
func (p *diagQuadraticProblem) EvalGradGProd(x la.Vector, y la.Vector, out la.Vector) {}
func (p *diagQuadraticProblem) EvalProjDiffG(z la.Vector, out la.Vector)          {}
func (p *diagQuadraticProblem) EvalProjMultipliers(y la.Vector, M float64)        {}

func (p *diagQuadraticProblem) EvalProxGradStep(gamma float64, x, gradPsi la.Vector, xHat, pOut la.Vector) float64 {
	for i := range x {
		xHat[i] = x[i] - gamma*gradPsi[i]
		pOut[i] = xHat[i] - x[i]
	}
	return 0
}

func (p *diagQuadraticProblem) EvalHessLDense(x, y la.Vector, alpha float64, H *la.Matrix) {
	H.SetZero()
	for i := range p.diag {
		H.Set(i, i, alpha*p.diag[i])
	}
}

func (p *diagQuadraticProblem) EvalHessLProd(x, y la.Vector, alpha float64, v la.Vector, out la.Vector) {
	for i, d := range p.diag {
		out[i] = alpha * d * v[i]
	}
}

func (p *diagQuadraticProblem) EvalHessPsiProd(x la.Vector, yHat la.Vector, v la.Vector, out la.Vector) {
	for i, d := range p.diag {
		out[i] = d * v[i]
	}
}

func (p *diagQuadraticProblem) EvalInactiveIndicesResLNA(gamma float64, x, gradPsi la.Vector, J []int) int {
	for i := range p.diag {
		J[i] = i
	}
	return len(p.diag)
}
