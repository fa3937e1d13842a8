package alm

import (
	"github.com/dicksontsai/nlpcore/cancel"
	"github.com/dicksontsai/nlpcore/fista"
	"github.com/dicksontsai/nlpcore/innercore"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/panoc"
	"github.com/dicksontsai/nlpcore/pantr"
	"github.com/dicksontsai/nlpcore/problem"
	"github.com/dicksontsai/nlpcore/zerofpr"
)

// PanocInner adapts *panoc.Solver to InnerSolver.
type PanocInner struct{ *panoc.Solver }

// Solve implements InnerSolver.
func (o PanocInner) Solve(alm *problem.AugmentedLagrangian, x0, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, innercore.SolverStatus, int) {
	x, st := o.Solver.Solve(alm, x0, yHat, epsilon, sig)
	return x, st.Status, st.Iterations
}

// ZeroFPRInner adapts *zerofpr.Solver to InnerSolver.
type ZeroFPRInner struct{ *zerofpr.Solver }

// Solve implements InnerSolver.
func (o ZeroFPRInner) Solve(alm *problem.AugmentedLagrangian, x0, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, innercore.SolverStatus, int) {
	x, st := o.Solver.Solve(alm, x0, yHat, epsilon, sig)
	return x, st.Status, st.Iterations
}

// FistaInner adapts *fista.Solver to InnerSolver.
type FistaInner struct{ *fista.Solver }

// Solve implements InnerSolver.
func (o FistaInner) Solve(alm *problem.AugmentedLagrangian, x0, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, innercore.SolverStatus, int) {
	x, st := o.Solver.Solve(alm, x0, yHat, epsilon, sig)
	return x, st.Status, st.Iterations
}

// PantrInner adapts *pantr.Solver to InnerSolver.
type PantrInner struct{ *pantr.Solver }

// Solve implements InnerSolver.
func (o PantrInner) Solve(alm *problem.AugmentedLagrangian, x0, yHat la.Vector, epsilon float64, sig *cancel.Signal) (la.Vector, innercore.SolverStatus, int) {
	x, st := o.Solver.Solve(alm, x0, yHat, epsilon, sig)
	return x, st.Status, st.Iterations
}
