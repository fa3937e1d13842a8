package direction

import (
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
	"gonum.org/v1/gonum/mat"
)

// AndersonParams holds Anderson acceleration's tunables.
type AndersonParams struct {
	Memory int // m, the number of residual-difference columns kept
}

// DefaultAndersonParams mirrors alpaqa's defaults.
func DefaultAndersonParams(memory int) AndersonParams {
	return AndersonParams{Memory: memory}
}

// Anderson mixes the last m+1 fixed-point images g_i = x_i + p_i (the prox
// image xHat_i) via least-squares over the residual-difference matrix
// ΔR = [r_1-r_0, ..., r_m-r_{m-1}] with r_i = p_i, per §4.3 (when m ≥ n,
// only the last n+1 images are mixed, so ΔR has no more columns than
// rows). The QR
// factorization of ΔR is recomputed from the stored window on every Apply
// rather than updated incrementally column-by-column (alpaqa's
// LimitedMemoryQR does the latter); for a window of size m this is the same
// asymptotic cost and keeps the implementation a direct, unsurprising use of
// gonum/mat.QR instead of a hand-rolled Householder updater.
type Anderson struct {
	prm AndersonParams
	n   int

	g   []la.Vector // circular buffer of g_i = x_i + p_i, length m+1
	r   []la.Vector // circular buffer of r_i = p_i, length m+1
	idx int
	cnt int // number of valid slots filled so far, up to m+1
}

// NewAnderson builds an Anderson provider for an n-dimensional problem.
func NewAnderson(n int, prm AndersonParams) *Anderson {
	window := prm.Memory + 1
	a := &Anderson{
		prm: prm,
		n:   n,
		g:   make([]la.Vector, window),
		r:   make([]la.Vector, window),
	}
	for i := range a.g {
		a.g[i] = la.NewVector(n)
		a.r[i] = la.NewVector(n)
	}
	return a
}

func (o *Anderson) Initialize(prob problem.RequiredProblem, y, sigma la.Vector, gamma0 float64, x0, xHat0, p0, gradPsi0 la.Vector) {
	o.Reset()
	o.push(x0, p0)
}

func (o *Anderson) Reset() {
	o.idx = 0
	o.cnt = 0
}

func (o *Anderson) HasInitialDirection() bool { return o.cnt > 1 }

func (o *Anderson) window() int { return len(o.g) }

// push appends (g = x+p, r = p) into the circular buffer.
func (o *Anderson) push(x, p la.Vector) {
	slot := o.idx
	la.AddScaled(o.g[slot], x, 1, p)
	p.CopyInto(o.r[slot])
	o.idx = (o.idx + 1) % o.window()
	if o.cnt < o.window() {
		o.cnt++
	}
}

func (o *Anderson) Update(gamma, gammaNext float64, x, xNext, p, pNext, gradPsi, gradPsiNext la.Vector) bool {
	o.push(xNext, pNext)
	return true
}

// orderedSlots returns the buffer indices in chronological order, oldest
// first, restricted to the m+1 most recent pushes currently held.
func (o *Anderson) orderedSlots() []int {
	slots := make([]int, o.cnt)
	start := (o.idx - o.cnt + o.window()) % o.window()
	for i := 0; i < o.cnt; i++ {
		slots[i] = (start + i) % o.window()
	}
	return slots
}

// Apply solves γ = argmin ‖ΔR·γ − r_current‖ via QR, forms the mixing
// coefficients α (α₀=γ₀, α_i=γ_i−γ_{i−1}, α_m=1−γ_{m−1}), and fills q with
// x_AA − x so the caller's usual "x_next = x + q" update produces x_AA
// directly (§4.3).
func (o *Anderson) Apply(gamma float64, x, xHat, p, gradPsi la.Vector, q la.Vector) bool {
	if o.cnt < 2 {
		return false
	}
	slots := o.orderedSlots()
	if len(slots)-1 > o.n {
		// the QR least-squares solve needs ΔR to have at least as many rows
		// (n) as columns, so only the n+1 most recent points are mixed
		slots = slots[len(slots)-1-o.n:]
	}
	k := len(slots) - 1 // number of ΔR columns = min(cnt, n+1) - 1

	deltaR := mat.NewDense(o.n, k, nil)
	for j := 0; j < k; j++ {
		cur, prev := o.r[slots[j+1]], o.r[slots[j]]
		for i := 0; i < o.n; i++ {
			deltaR.Set(i, j, cur[i]-prev[i])
		}
	}
	rCurrent := mat.NewVecDense(o.n, o.r[slots[k]])

	var qr mat.QR
	qr.Factorize(deltaR)
	var gamma_ mat.VecDense
	if err := qr.SolveVecTo(&gamma_, false, rCurrent); err != nil {
		return false
	}

	alpha := make([]float64, k+1)
	alpha[0] = gamma_.AtVec(0)
	for i := 1; i < k; i++ {
		alpha[i] = gamma_.AtVec(i) - gamma_.AtVec(i-1)
	}
	alpha[k] = 1 - gamma_.AtVec(k-1)

	xAA := la.NewVector(o.n)
	for i, s := range slots {
		la.AddScaled(xAA, xAA, alpha[i], o.g[s])
	}
	la.Sub(q, xAA, x)
	return true
}

func (o *Anderson) ChangedGamma(gammaNew, gammaOld float64) {
	// Anderson mixes iterate/residual history directly; it carries no
	// γ-dependent scalars, so nothing needs rescaling (unlike LBFGS's
	// stored z vectors).
}
