package sparsity

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
)

func TestDenseToCSCRoundTrip(tst *testing.T) {
	chk.PrintTitle("DenseToCSCRoundTrip")
	// 3x3 unsymmetric matrix, row-major dense; the CSC pattern built from a
	// dense layout is structural, so it keeps all 9 positions (zeros included)
	dense := Dense{Rows: 3, Cols: 3, Symmetry: Unsymmetric}
	vals := []float64{1, 0, 2, 0, 3, 0, 4, 0, 5}
	denseLayout := Layout{Dense: &dense}

	csc := BuildCSC(denseLayout, Unsymmetric, true)
	toCSC := NewConverter(denseLayout, Layout{CSC: &csc})
	cscVals := make([]float64, csc.NNZ())
	toCSC.ConvertValues(vals, cscVals)
	chk.Int(tst, "csc nnz", csc.NNZ(), 9)

	// convert back to dense and compare
	backLayout := Layout{Dense: &dense}
	toDense := NewConverter(Layout{CSC: &csc}, backLayout)
	back := make([]float64, dense.NNZ())
	toDense.ConvertValues(cscVals, back)
	chk.Array(tst, "round trip", 1e-15, back, vals)
}

func TestSymmetricDenseExpandsToFullCSC(tst *testing.T) {
	chk.PrintTitle("SymmetricDenseExpandsToFullCSC")
	// 2x2 symmetric matrix stored as upper triangle, row-major
	// [[2, 1], [_, 3]]
	dense := Dense{Rows: 2, Cols: 2, Symmetry: Upper}
	vals := []float64{2, 1, 0 /* unused lower entry */, 3}
	denseLayout := Layout{Dense: &dense}

	csc := BuildCSC(denseLayout, Unsymmetric, true)
	conv := NewConverter(denseLayout, Layout{CSC: &csc})
	out := make([]float64, csc.NNZ())
	conv.ConvertValues(vals, out)
	chk.Int(tst, "full csc nnz", csc.NNZ(), 4) // (0,0) (0,1) (1,0) (1,1)

	// rebuild a dense matrix from the CSC result and check symmetry
	fullDense := Dense{Rows: 2, Cols: 2, Symmetry: Unsymmetric}
	toDense := NewConverter(Layout{CSC: &csc}, Layout{Dense: &fullDense})
	back := make([]float64, fullDense.NNZ())
	toDense.ConvertValues(out, back)
	// row-major: back[0]=(0,0) back[1]=(0,1) back[2]=(1,0) back[3]=(1,1)
	chk.Array(tst, "expanded symmetric", 1e-15, back, []float64{2, 1, 1, 3})
}

func TestIdentityConversionIsNoOp(tst *testing.T) {
	chk.PrintTitle("IdentityConversionIsNoOp")
	dense := Dense{Rows: 2, Cols: 2, Symmetry: Unsymmetric}
	layout := Layout{Dense: &dense}
	conv := NewConverter(layout, layout)
	vals := []float64{1, 2, 3, 4}
	out := make([]float64, 4)
	conv.ConvertValues(vals, out)
	chk.Array(tst, "identity", 0, out, vals)
}
