// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package la

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Matrix is a dense row-major matrix, thinly wrapping gonum/mat.Dense with
// the Get/Set accessor style of gosl's la.Matrix (used e.g. by
// num.NlSolver's dense Jacobian J.Get(i,j)).
type Matrix struct {
	rows, cols int
	d          *mat.Dense
}

// NewMatrix allocates a new rows x cols matrix, initialized to zero.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{rows: rows, cols: cols, d: mat.NewDense(rows, cols, nil)}
}

// Rows returns the number of rows.
func (o *Matrix) Rows() int { return o.rows }

// Cols returns the number of columns.
func (o *Matrix) Cols() int { return o.cols }

// Get returns the (i,j) entry.
func (o *Matrix) Get(i, j int) float64 { return o.d.At(i, j) }

// Set assigns the (i,j) entry.
func (o *Matrix) Set(i, j int, v float64) { o.d.Set(i, j, v) }

// Add accumulates v into the (i,j) entry.
func (o *Matrix) Add(i, j int, v float64) { o.d.Set(i, j, o.d.At(i, j)+v) }

// Raw exposes the underlying gonum matrix for direct numerical routines
// (Cholesky, LU, eigendecomposition) that direction providers need.
func (o *Matrix) Raw() *mat.Dense { return o.d }

// SetZero resets all entries to zero.
func (o *Matrix) SetZero() {
	o.d.Zero()
}

// MulVec computes out = A*x.
func (o *Matrix) MulVec(out Vector, x Vector) {
	xv := mat.NewVecDense(len(x), x)
	ov := mat.NewVecDense(len(out), nil)
	ov.MulVec(o.d, xv)
	for i := range out {
		out[i] = ov.AtVec(i)
	}
}

// MulTVec computes out = A^T*x.
func (o *Matrix) MulTVec(out Vector, x Vector) {
	xv := mat.NewVecDense(len(x), x)
	ov := mat.NewVecDense(len(out), nil)
	ov.MulVec(o.d.T(), xv)
	for i := range out {
		out[i] = ov.AtVec(i)
	}
}

// MatInv inverts A into Ai; panics (contract violation) if A is singular to
// machine precision, mirroring gosl's la.MatInv used by num.NlSolver.
func MatInv(Ai, A *Matrix) {
	err := Ai.d.Inverse(A.d)
	if err != nil {
		panic("la.MatInv: singular matrix: " + err.Error())
	}
}

// MatCondNum returns the 2-norm condition number σ_max/σ_min of A, computed
// from its singular values (+Inf when the SVD fails or A is singular).
func MatCondNum(A *Matrix) float64 {
	var svd mat.SVD
	ok := svd.Factorize(A.d, mat.SVDNone)
	if !ok {
		return math.Inf(1)
	}
	vals := svd.Values(nil)
	if len(vals) == 0 {
		return math.Inf(1)
	}
	smin, smax := vals[0], vals[0]
	for _, v := range vals {
		if v < smin {
			smin = v
		}
		if v > smax {
			smax = v
		}
	}
	if smin == 0 {
		return math.Inf(1)
	}
	return smax / smin
}

// MaxDiff returns the maximum absolute component-wise difference between A
// and B.
func (o *Matrix) MaxDiff(b *Matrix) float64 {
	max := 0.0
	for i := 0; i < o.rows; i++ {
		for j := 0; j < o.cols; j++ {
			d := math.Abs(o.Get(i, j) - b.Get(i, j))
			if d > max {
				max = d
			}
		}
	}
	return max
}

// SolveSPD solves A*x = b for symmetric positive-definite A via Cholesky,
// reporting ok=false if the Cholesky factorization fails (A is not SPD to
// working precision) so the caller can fall back rather than panicking —
// this is the path direction.Newton uses.
func SolveSPD(x Vector, A *Matrix, b Vector) (ok bool) {
	var chol mat.Cholesky
	sym := mat.NewSymDense(A.rows, nil)
	for i := 0; i < A.rows; i++ {
		for j := i; j < A.cols; j++ {
			sym.SetSym(i, j, A.Get(i, j))
		}
	}
	if !chol.Factorize(sym) {
		return false
	}
	xv := mat.NewVecDense(len(x), nil)
	bv := mat.NewVecDense(len(b), b)
	err := chol.SolveVecTo(xv, bv)
	if err != nil {
		return false
	}
	for i := range x {
		x[i] = xv.AtVec(i)
	}
	return true
}

// SolveGeneral solves A*x = b for a general square matrix via LU
// decomposition, reporting ok=false if A is singular.
func SolveGeneral(x Vector, A *Matrix, b Vector) (ok bool) {
	var lu mat.LU
	lu.Factorize(A.d)
	if c := lu.Cond(); math.IsInf(c, 1) || math.IsNaN(c) {
		return false
	}
	xv := mat.NewVecDense(len(x), nil)
	bv := mat.NewVecDense(len(b), b)
	err := lu.SolveVecTo(xv, false, bv)
	if err != nil {
		return false
	}
	for i := range x {
		x[i] = xv.AtVec(i)
	}
	return true
}
