// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package opt

import (
	"math"

	"github.com/dicksontsai/nlpcore/internal/io"
	"github.com/dicksontsai/nlpcore/internal/utl"
	"github.com/dicksontsai/nlpcore/la"
)

// History holds the trajectory of an optimization run: one (x, u, f) triple
// per accepted iteration, for tests and examples to assert monotonicity on
// (§4.11).
type History struct {

	// data
	Ndim  int         // dimension of x-vector
	HistX []la.Vector // [it] history of x-values (position)
	HistU []la.Vector // [it] history of u-values (direction)
	HistF []float64   // [it] history of f-values
	HistI []float64   // [it] index of iteration
}

// NewHistory returns a new History seeded with the starting point x0 and its
// objective value f0.
func NewHistory(nMaxIt int, f0 float64, x0 la.Vector) (o *History) {
	o = new(History)
	o.Ndim = len(x0)
	o.HistX = make([]la.Vector, 0, nMaxIt+1)
	o.HistU = make([]la.Vector, 0, nMaxIt+1)
	o.HistF = make([]float64, 0, nMaxIt+1)
	o.HistI = make([]float64, 0, nMaxIt+1)
	o.HistX = append(o.HistX, x0.GetCopy())
	o.HistU = append(o.HistU, nil)
	o.HistF = append(o.HistF, f0)
	o.HistI = append(o.HistI, 0)
	return
}

// Append appends new x and u vectors, and updates F and I arrays.
func (o *History) Append(fx float64, x, u la.Vector) {
	o.HistX = append(o.HistX, x.GetCopy())
	o.HistU = append(o.HistU, u.GetCopy())
	o.HistF = append(o.HistF, fx)
	o.HistI = append(o.HistI, float64(len(o.HistI)))
}

// Limits computes the per-coordinate range of the recorded X history.
func (o *History) Limits() (Xmin []float64, Xmax []float64) {
	Xmin = make([]float64, o.Ndim)
	Xmax = make([]float64, o.Ndim)
	for j := 0; j < o.Ndim; j++ {
		Xmin[j] = math.MaxFloat64
		Xmax[j] = -math.MaxFloat64
		for _, x := range o.HistX {
			Xmin[j] = utl.Min(Xmin[j], x[j])
			Xmax[j] = utl.Max(Xmax[j], x[j])
		}
	}
	return
}

// MonotoneF reports whether HistF is non-increasing across the whole
// recorded history, within tolerance tol — a cheap check for tests that
// want to assert a solver's objective value never goes up.
func (o *History) MonotoneF(tol float64) bool {
	for k := 1; k < len(o.HistF); k++ {
		if o.HistF[k] > o.HistF[k-1]+tol {
			return false
		}
	}
	return true
}

// Summary renders a short human-readable report of the recorded run: number
// of iterations, initial and final f, and the largest single-step move in
// x, replacing gosl's plot-based inspection with something a test log or a
// CLI can print directly.
func (o *History) Summary() string {
	if len(o.HistF) == 0 {
		return "History: empty"
	}
	last := len(o.HistF) - 1
	maxStep := 0.0
	for k := 1; k < len(o.HistX); k++ {
		step := 0.0
		for j := 0; j < o.Ndim; j++ {
			d := o.HistX[k][j] - o.HistX[k-1][j]
			step += d * d
		}
		step = math.Sqrt(step)
		maxStep = utl.Max(maxStep, step)
	}
	return io.Sf("History: %d iterations, f: %.6e -> %.6e, max step %.3e",
		last, o.HistF[0], o.HistF[last], maxStep)
}
