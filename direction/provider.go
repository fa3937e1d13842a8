// Package direction implements the pluggable accelerated-direction
// providers of §4.3: L-BFGS, Anderson acceleration, structured L-BFGS and
// Newton/Convex-Newton. Every provider satisfies Provider, the Go rendition
// of alpaqa's PANOCDirection concept.
package direction

import (
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

// Provider computes an accelerated search direction q that, mixed with the
// prox-step residual p, proposes the next inner-solver iterate (§4.3).
type Provider interface {
	// Initialize prepares workspaces for a new sub-problem instance.
	Initialize(prob problem.RequiredProblem, y, sigma la.Vector, gamma0 float64, x0, xHat0, p0, gradPsi0 la.Vector)

	// Update feeds a new iterate pair into the provider's history. accepted
	// is false when the pair was rejected (e.g. the cautious-BFGS guard
	// failed); history is left unchanged in that case.
	Update(gamma, gammaNext float64, x, xNext, p, pNext, gradPsi, gradPsiNext la.Vector) (accepted bool)

	// Apply fills q with the provider's proposed direction. On failure the
	// caller falls back to q = p; Apply never panics for this reason.
	Apply(gamma float64, x, xHat, p, gradPsi la.Vector, q la.Vector) (succeeded bool)

	// ChangedGamma is called whenever γ changes so the provider can rescale
	// or reset whatever history depends on it.
	ChangedGamma(gammaNew, gammaOld float64)

	// Reset discards all history.
	Reset()

	// HasInitialDirection reports whether Apply can be expected to succeed
	// on the very first iteration (false for history-based providers before
	// their first accepted Update).
	HasInitialDirection() bool
}
