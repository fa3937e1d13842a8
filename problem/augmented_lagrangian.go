package problem

import "github.com/dicksontsai/nlpcore/la"

// AugmentedLagrangian wraps a RequiredProblem with the current multiplier
// estimate y and penalty vector Σ to form the penalized sub-problem
//
//	ψ(x; y, Σ) = f(x) + ½·dist²_Σ(g(x) + y⊘Σ, D) − ½·‖y⊘√Σ‖²
//
// that the ALM outer loop hands to an inner solver (§3). It owns no
// workspace beyond what is passed in by the caller: all buffers are
// provided by the caller (the inner solver), per §3's workspace-ownership
// invariant ("workspace vectors owned by the inner solver and reused across
// all iterations").
type AugmentedLagrangian struct {
	Problem RequiredProblem
	Y       la.Vector // current multiplier estimate
	Sigma   la.Vector // current penalty vector
}

// EvalPsiGradPsi evaluates ψ(x) and ∇ψ(x) = ∇f(x) + Jg(x)ᵀŷ(x), writing the
// gradient into gradPsi. Scratch buffers g, zBuf, yHat, gradF of length
// GetM()/GetM()/GetM()/GetN() must be supplied by the caller (no allocation
// inside the evaluation, per the workspace-ownership design note).
func (o *AugmentedLagrangian) EvalPsiGradPsi(x la.Vector, gradPsi la.Vector, gBuf, zBuf, yHat, gradFBuf la.Vector) float64 {
	m := o.Problem.GetM()
	psi := o.Problem.EvalF(x)
	o.Problem.EvalGradF(x, gradFBuf)
	if m == 0 {
		copy(gradPsi, gradFBuf)
		return psi
	}
	o.Problem.EvalG(x, gBuf)
	for i := 0; i < m; i++ {
		zBuf[i] = gBuf[i] + o.Y[i]/o.Sigma[i]
	}
	// yHat reused as the projection residual buffer: diff = z - Π_D(z)
	o.Problem.EvalProjDiffG(zBuf, yHat)
	for i := 0; i < m; i++ {
		yHat[i] = o.Sigma[i] * yHat[i]
	}
	dist2 := 0.0
	normYSigma := 0.0
	for i := 0; i < m; i++ {
		diff := yHat[i] / o.Sigma[i] // recover z_i - Π_D_i(z_i)
		dist2 += o.Sigma[i] * diff * diff
		normYSigma += o.Y[i] * o.Y[i] / o.Sigma[i]
	}
	psi += 0.5*dist2 - 0.5*normYSigma
	o.Problem.EvalGradGProd(x, yHat, gradPsi)
	for i := range gradPsi {
		gradPsi[i] += gradFBuf[i]
	}
	return psi
}

// EvalYHat computes the candidate multiplier ŷ(x) = Σ·(g(x) + y⊘Σ −
// Π_D(g(x) + y⊘Σ)) into out, using gBuf and zBuf as m-length scratch.
func (o *AugmentedLagrangian) EvalYHat(x la.Vector, out, gBuf, zBuf la.Vector) {
	m := o.Problem.GetM()
	if m == 0 {
		return
	}
	o.Problem.EvalG(x, gBuf)
	for i := 0; i < m; i++ {
		zBuf[i] = gBuf[i] + o.Y[i]/o.Sigma[i]
	}
	o.Problem.EvalProjDiffG(zBuf, out)
	for i := 0; i < m; i++ {
		out[i] *= o.Sigma[i]
	}
}
