package direction

import (
	"math"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

// StructuredLBFGS is L-BFGS restricted to the problem-reported inactive
// coordinate set J, with an explicit Hessian-vector correction
// α·∇²ψ(x)·q_K on the complement K = {0,...,n-1} \ J (§4.3). Requires the
// problem to implement problem.HessianVectorProvider and
// problem.InactiveIndexProvider; Initialize panics if either is absent,
// since a caller that selected this provider made a contract error, not a
// recoverable runtime condition.
type StructuredLBFGS struct {
	prm LBFGSParams
	n   int

	s   []la.Vector
	z   []la.Vector
	rho []float64

	idx  int
	full bool

	alpha []float64

	prob    problem.HessianVectorProvider
	inact   problem.InactiveIndexProvider
	J       []int
	nJ      int
	scratch la.Vector
}

// NewStructuredLBFGS builds a structured L-BFGS provider.
func NewStructuredLBFGS(n int, prm LBFGSParams) *StructuredLBFGS {
	l := &StructuredLBFGS{
		prm:     prm,
		n:       n,
		s:       make([]la.Vector, prm.Memory),
		z:       make([]la.Vector, prm.Memory),
		rho:     make([]float64, prm.Memory),
		alpha:   make([]float64, prm.Memory),
		J:       make([]int, n),
		scratch: la.NewVector(n),
	}
	for i := range l.s {
		l.s[i] = la.NewVector(n)
		l.z[i] = la.NewVector(n)
	}
	return l
}

func (o *StructuredLBFGS) Initialize(prob problem.RequiredProblem, y, sigma la.Vector, gamma0 float64, x0, xHat0, p0, gradPsi0 la.Vector) {
	hv, ok := prob.(problem.HessianVectorProvider)
	chk.PanicIf(!ok, "direction.StructuredLBFGS: problem does not implement HessianVectorProvider")
	inact, ok := prob.(problem.InactiveIndexProvider)
	chk.PanicIf(!ok, "direction.StructuredLBFGS: problem does not implement InactiveIndexProvider")
	o.prob = hv
	o.inact = inact
	o.Reset()
}

func (o *StructuredLBFGS) Reset() {
	o.idx = 0
	o.full = false
}

func (o *StructuredLBFGS) HasInitialDirection() bool { return o.idx > 0 || o.full }

func (o *StructuredLBFGS) history() int {
	if o.full {
		return o.prm.Memory
	}
	return o.idx
}

func (o *StructuredLBFGS) succ(i int) int {
	i++
	if i == o.prm.Memory {
		return 0
	}
	return i
}

// dotJ computes <a[J], b[J]>.
func dotJ(J []int, a, b la.Vector) float64 {
	acc := 0.0
	for _, j := range J {
		acc += a[j] * b[j]
	}
	return acc
}

// Update recomputes ρ restricted to J (it may differ in sign from the
// full-vector ρ even when the full pair was accepted) and rejects
// non-positive ρ to preserve positive definiteness, per §4.3.
func (o *StructuredLBFGS) Update(gamma, gammaNext float64, x, xNext, p, pNext, gradPsi, gradPsiNext la.Vector) bool {
	o.nJ = o.inact.EvalInactiveIndicesResLNA(gammaNext, xNext, gradPsiNext, o.J)
	J := o.J[:o.nJ]

	yTs := 0.0
	for _, j := range J {
		yTs += (gradPsiNext[j] - gradPsi[j]) * (xNext[j] - x[j])
	}

	rho := 1 / yTs
	if rho <= 0 || math.IsNaN(rho) || math.IsInf(rho, 0) {
		return false
	}
	la.Sub(o.s[o.idx], xNext, x)
	la.Sub(o.z[o.idx], gradPsiNext, gradPsi)
	o.rho[o.idx] = rho
	o.idx = o.succ(o.idx)
	if o.idx == 0 {
		o.full = true
	}
	return true
}

// Apply copies p into q, runs the two-loop recursion on J only, then
// corrects for the complement K via α·∇²ψ(x)·q_K as described in §4.3.
func (o *StructuredLBFGS) Apply(gamma float64, x, xHat, p, gradPsi la.Vector, q la.Vector) bool {
	if o.idx == 0 && !o.full {
		return false
	}
	copy(q, p)
	J := o.J[:o.nJ]

	anyValid := false
	if o.idx > 0 {
		for i := o.idx - 1; i >= 0; i-- {
			if o.update1(i, J, q) {
				anyValid = true
			}
		}
	}
	if o.full {
		for i := o.history() - 1; i >= o.idx; i-- {
			if o.update1(i, J, q) {
				anyValid = true
			}
		}
	}
	if !anyValid {
		return false
	}

	for _, j := range J {
		q[j] *= gamma
	}

	if o.full {
		for i := o.idx; i < o.history(); i++ {
			o.update2(i, J, q)
		}
	}
	for i := 0; i < o.idx; i++ {
		o.update2(i, J, q)
	}

	// Complement correction: q_K (q with its J entries zeroed) contributes
	// through the Hessian-vector product ∇²ψ(x)·q_K, which is scaled by γ
	// and subtracted from q_J (§4.3's "fixed coordinates contribute via an
	// explicit Hessian-vector correction").
	qK := q.GetCopy()
	for _, j := range J {
		qK[j] = 0
	}
	o.scratch.Fill(0)
	o.prob.EvalHessPsiProd(x, nil, qK, o.scratch)
	for _, j := range J {
		q[j] -= gamma * o.scratch[j]
	}
	return true
}

func (o *StructuredLBFGS) update1(i int, J []int, q la.Vector) bool {
	if o.rho[i] <= 0 {
		return false
	}
	o.alpha[i] = o.rho[i] * dotJ(J, o.s[i], q)
	for _, j := range J {
		q[j] -= o.alpha[i] * o.z[i][j]
	}
	return true
}

func (o *StructuredLBFGS) update2(i int, J []int, q la.Vector) {
	if o.rho[i] <= 0 {
		return
	}
	beta := o.rho[i] * dotJ(J, o.z[i], q)
	for _, j := range J {
		q[j] += (o.alpha[i] - beta) * o.s[i][j]
	}
}

func (o *StructuredLBFGS) ChangedGamma(gammaNew, gammaOld float64) {
	if gammaOld == 0 {
		return
	}
	factor := gammaOld / gammaNew
	n := o.history()
	for i := 0; i < n; i++ {
		la.Scale(o.z[i], factor, o.z[i])
		if o.rho[i] != 0 {
			o.rho[i] /= factor
		}
	}
}
