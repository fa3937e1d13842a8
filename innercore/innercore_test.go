package innercore

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
	"github.com/dicksontsai/nlpcore/la"
	"github.com/dicksontsai/nlpcore/problem"
)

func TestFBEReducesToPsiWhenPIsZero(tst *testing.T) {
	chk.PrintTitle("FBEReducesToPsiWhenPIsZero")
	gradPsi := la.NewVectorFrom([]float64{1, 2})
	p := la.NewVectorFrom([]float64{0, 0})
	phi := FBE(3.0, gradPsi, p, 0.5, 0.0)
	chk.Float64(tst, "φ_γ(x) == ψ(x) when p=0, h(x̂)=0", 1e-15, phi, 3.0)
}

func TestResidualFPRNormMatchesScaledInfNorm(tst *testing.T) {
	chk.PrintTitle("ResidualFPRNormMatchesScaledInfNorm")
	p := la.NewVectorFrom([]float64{-0.4, 0.3})
	gamma := 0.5
	box := problem.NewBox(2)
	res := Residual(FPRNorm, box, nil, nil, p, gamma, nil)
	chk.Float64(tst, "‖p‖∞/γ", 1e-15, res, 0.8)
}

func TestResidualApproxKKTMatchesProjectedDifference(tst *testing.T) {
	chk.PrintTitle("ResidualApproxKKTMatchesProjectedDifference")
	box := problem.NewBox(2)
	box.Upper[0] = 1
	x := la.NewVectorFrom([]float64{2, 0})
	gradPsi := la.NewVectorFrom([]float64{0, 0})
	rho := la.NewVector(2)
	res := Residual(ApproxKKT, box, x, gradPsi, nil, 1, rho)
	// rho = x - Proj(x - gradPsi) = x - Proj(x); Proj clamps x[0]=2 to 1.
	chk.Float64(tst, "ApproxKKT residual", 1e-15, res, 1.0)
}

func TestSolverStatusString(tst *testing.T) {
	chk.PrintTitle("SolverStatusString")
	chk.True(tst, "Converged prints", Converged.String() == "Converged")
	chk.True(tst, "unknown status has a fallback string", SolverStatus(999).String() == "Unknown")
}
