package lipschitz

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
)

// quadraticGradPsi is ∇ψ for ψ(x) = ½·‖x‖² scaled by a, so ∇ψ(x) = a·x and
// the true Lipschitz constant of ∇ψ is exactly a.
func quadraticGradPsi(a float64) EvalGradPsi {
	return func(x, gradPsi la.Vector) {
		la.Scale(gradPsi, a, x)
	}
}

func TestInitialEstimateMatchesKnownLipschitzConstant(tst *testing.T) {
	chk.PrintTitle("InitialEstimateMatchesKnownLipschitzConstant")
	prm := DefaultParams()
	est := NewEstimator(3, prm, NewRandSource(42))

	x := la.NewVectorFrom([]float64{1, 2, 3})
	gradPsi := la.NewVector(3)
	a := 5.0
	grad := quadraticGradPsi(a)
	grad(x, gradPsi)

	est.InitialEstimate(x, gradPsi, grad)
	chk.Float64(tst, "L̂₀ ≈ a", 1e-6, est.LHat(), a)
	chk.Float64(tst, "γ = LGammaFactor/L̂", 1e-12, est.Gamma(), prm.LGammaFactor/est.LHat())
}

func TestInitialEstimateClampsToLMax(tst *testing.T) {
	chk.PrintTitle("InitialEstimateClampsToLMax")
	prm := DefaultParams()
	prm.LMax = 1.0
	est := NewEstimator(2, prm, NewRandSource(7))

	x := la.NewVectorFrom([]float64{1, 1})
	gradPsi := la.NewVector(2)
	grad := quadraticGradPsi(1000.0)
	grad(x, gradPsi)

	est.InitialEstimate(x, gradPsi, grad)
	chk.Float64(tst, "L̂ clamped to LMax", 1e-15, est.LHat(), prm.LMax)
}

func TestBacktrackDoublesUntilBoundSatisfied(tst *testing.T) {
	chk.PrintTitle("BacktrackDoublesUntilBoundSatisfied")
	prm := DefaultParams()
	est := NewEstimator(1, prm, NewRandSource(1))

	x := la.NewVectorFrom([]float64{1})
	gradPsi := la.NewVectorFrom([]float64{1})
	est.InitialEstimate(x, gradPsi, quadraticGradPsi(1))

	psiX := 0.5
	attempt := 0
	recompute := func(gamma float64) (float64, la.Vector) {
		attempt++
		p := la.NewVectorFrom([]float64{-gamma})
		// make the first attempt violate the bound by a wide margin; later
		// attempts return a ψ just below ψ(x), which the quadratic upper
		// bound accepts once L̂ has been doubled enough times
		if attempt == 1 {
			return psiX + 100, p
		}
		return psiX - 0.01, p
	}

	status := est.Backtrack(x, gradPsi, psiX, recompute)
	chk.True(tst, "backtrack accepted", status == BacktrackOK)
	chk.True(tst, "at least one doubling occurred", attempt >= 2)
}

func TestBacktrackExceedsCapWhenNeverSatisfied(tst *testing.T) {
	chk.PrintTitle("BacktrackExceedsCapWhenNeverSatisfied")
	prm := DefaultParams()
	prm.LMax = 8.0
	est := NewEstimator(1, prm, NewRandSource(1))

	x := la.NewVectorFrom([]float64{1})
	gradPsi := la.NewVectorFrom([]float64{1})
	est.InitialEstimate(x, gradPsi, quadraticGradPsi(1))

	recompute := func(gamma float64) (float64, la.Vector) {
		p := la.NewVectorFrom([]float64{-gamma})
		return 1e9, p // never satisfies the bound
	}

	status := est.Backtrack(x, gradPsi, 0.5, recompute)
	chk.True(tst, "cap exceeded", status == BacktrackExceededCap)
	chk.Float64(tst, "L̂ pinned at LMax", 0, est.LHat(), prm.LMax)
}

func TestNotifyGammaChangedFiresOnBacktrack(tst *testing.T) {
	chk.PrintTitle("NotifyGammaChangedFiresOnBacktrack")
	prm := DefaultParams()
	est := NewEstimator(1, prm, NewRandSource(1))

	x := la.NewVectorFrom([]float64{1})
	gradPsi := la.NewVectorFrom([]float64{1})
	est.InitialEstimate(x, gradPsi, quadraticGradPsi(1))

	l := &recordingListener{}
	est.NotifyGammaChanged(l)

	attempt := 0
	recompute := func(gamma float64) (float64, la.Vector) {
		attempt++
		p := la.NewVectorFrom([]float64{-gamma})
		if attempt == 1 {
			return 1e9, p
		}
		return -1e9, p
	}
	est.Backtrack(x, gradPsi, 0.5, recompute)
	chk.True(tst, "listener notified", l.calls > 0)
}

type recordingListener struct{ calls int }

func (l *recordingListener) ChangedGamma(gammaNew, gammaOld float64) { l.calls++ }
