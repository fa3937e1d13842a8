package direction

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
)

func TestNewtonSolvesExactlyForQuadraticProblem(tst *testing.T) {
	chk.PrintTitle("NewtonSolvesExactlyForQuadraticProblem")
	prob := &diagQuadraticProblem{diag: []float64{2, 4}}
	n := NewNewton(2, NewtonParams{Reg: NewtonRegularizationParams{Zeta: 0, Nu: 1}})
	n.Initialize(prob, nil, nil, 1, nil, nil, nil, nil)

	x := la.NewVectorFrom([]float64{1, 1})
	gradPsi := la.NewVector(2)
	prob.EvalGradF(x, gradPsi)
	gamma := 1.0
	p := la.NewVectorFrom([]float64{-gradPsi[0] * gamma, -gradPsi[1] * gamma})

	q := la.NewVector(2)
	ok := n.Apply(gamma, x, nil, p, gradPsi, q)
	chk.True(tst, "apply succeeds", ok)
	// q_J solves H_JJ q = p/γ exactly for a quadratic with no regularization:
	// q_i = p_i / (γ * diag_i)
	chk.Array(tst, "exact Newton step", 1e-10, q, []float64{p[0] / (gamma * 2), p[1] / (gamma * 4)})
}

func TestNewtonTRStaysWithinTrustRegion(tst *testing.T) {
	chk.PrintTitle("NewtonTRStaysWithinTrustRegion")
	prob := &diagQuadraticProblem{diag: []float64{2, 4}}
	prm := DefaultNewtonTRParams()
	prm.Delta0 = 0.1
	n := NewNewtonTR(2, prm)
	n.Initialize(prob, nil, nil, 1, nil, nil, nil, nil)

	x := la.NewVectorFrom([]float64{1, 1})
	gradPsi := la.NewVector(2)
	prob.EvalGradF(x, gradPsi)
	gamma := 1.0
	p := la.NewVectorFrom([]float64{-gradPsi[0] * gamma, -gradPsi[1] * gamma})

	q := la.NewVector(2)
	ok := n.Apply(gamma, x, nil, p, gradPsi, q)
	chk.True(tst, "apply succeeds", ok)
	chk.True(tst, "step respects the trust region", q.Norm() <= n.Radius()+1e-8)
}

func TestStructuredLBFGSRejectsUntilFirstAcceptedPair(tst *testing.T) {
	chk.PrintTitle("StructuredLBFGSRejectsUntilFirstAcceptedPair")
	prob := &diagQuadraticProblem{diag: []float64{2, 4}}
	sl := NewStructuredLBFGS(2, DefaultLBFGSParams(3))
	sl.Initialize(prob, nil, nil, 1, nil, nil, nil, nil)
	chk.True(tst, "no history yet", !sl.HasInitialDirection())

	x := la.NewVectorFrom([]float64{1, 1})
	xNext := la.NewVectorFrom([]float64{0.5, 0.5})
	gradPsi := la.NewVector(2)
	gradPsiNext := la.NewVector(2)
	prob.EvalGradF(x, gradPsi)
	prob.EvalGradF(xNext, gradPsiNext)

	accepted := sl.Update(1, 1, x, xNext, nil, nil, gradPsi, gradPsiNext)
	chk.True(tst, "descent pair accepted", accepted)
}
