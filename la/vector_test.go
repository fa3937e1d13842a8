// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
)

func TestVectorDotNorm(tst *testing.T) {
	chk.PrintTitle("VectorDotNorm")
	a := NewVectorFrom([]float64{3, 4})
	chk.Float64(tst, "norm", 1e-15, a.Norm(), 5)
	b := NewVectorFrom([]float64{1, 0})
	chk.Float64(tst, "dot", 1e-15, a.Dot(b), 3)
}

func TestVectorClampBox(tst *testing.T) {
	x := NewVectorFrom([]float64{-2, 0.5, 5})
	lo := NewVectorFrom([]float64{-1, -1, -1})
	hi := NewVectorFrom([]float64{1, 1, 1})
	out := NewVector(3)
	ClampBox(out, x, lo, hi)
	chk.Array(tst, "clamped", 1e-15, out, []float64{-1, 0.5, 1})
}

func TestMatrixSolveSPD(tst *testing.T) {
	chk.PrintTitle("MatrixSolveSPD")
	A := NewMatrix(2, 2)
	A.Set(0, 0, 4)
	A.Set(0, 1, 1)
	A.Set(1, 0, 1)
	A.Set(1, 1, 3)
	b := NewVectorFrom([]float64{1, 2})
	x := NewVector(2)
	ok := SolveSPD(x, A, b)
	chk.True(tst, "solved", ok)
	out := NewVector(2)
	A.MulVec(out, x)
	chk.Array(tst, "A*x == b", 1e-12, out, b)
}
