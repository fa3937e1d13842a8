// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package la implements the linear-algebra primitives shared by every
// package in this module: a Vector type (a named []float64 with
// gonum-backed norm/dot/scale helpers, mirroring gosl's la.Vector) and a
// dense Matrix type backed by gonum/mat, used for Jacobians, Hessians and
// the small dense linear solves the direction providers need.
package la

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector is a dense real vector. It is a named slice, exactly like gosl's
// la.Vector, so that solver workspaces can be declared, preallocated once
// at construction time, and passed around without further allocation.
type Vector []float64

// NewVector allocates a new vector of length n, initialized to zero.
func NewVector(n int) Vector {
	return make(Vector, n)
}

// NewVectorFrom copies vals into a new Vector.
func NewVectorFrom(vals []float64) Vector {
	v := make(Vector, len(vals))
	copy(v, vals)
	return v
}

// GetCopy returns a deep copy of o.
func (o Vector) GetCopy() Vector {
	return NewVectorFrom(o)
}

// Fill sets every component of o to val.
func (o Vector) Fill(val float64) {
	for i := range o {
		o[i] = val
	}
}

// CopyInto copies o into dst; panics if the lengths differ (contract
// violation: workspace vectors must be sized once, at construction).
func (o Vector) CopyInto(dst Vector) {
	if len(dst) != len(o) {
		panic("la.Vector.CopyInto: length mismatch")
	}
	copy(dst, o)
}

// Dot returns the inner product <o, b>.
func (o Vector) Dot(b Vector) float64 {
	return floats.Dot(o, b)
}

// Norm returns the Euclidean (2-) norm of o.
func (o Vector) Norm() float64 {
	return floats.Norm(o, 2)
}

// NormInf returns the infinity (max-abs) norm of o.
func (o Vector) NormInf() float64 {
	return floats.Norm(o, math.Inf(1))
}

// Largest returns the largest value of max(|o_i|, den).
func (o Vector) Largest(den float64) float64 {
	largest := den
	for _, x := range o {
		if a := math.Abs(x); a > largest {
			largest = a
		}
	}
	return largest
}

// AddScaled sets o := a + alpha*b (o may alias a).
func AddScaled(o, a Vector, alpha float64, b Vector) {
	for i := range o {
		o[i] = a[i] + alpha*b[i]
	}
}

// Axpy performs o += alpha*b in place.
func Axpy(o Vector, alpha float64, b Vector) {
	floats.AddScaled(o, alpha, b)
}

// Sub sets o := a - b.
func Sub(o, a, b Vector) {
	for i := range o {
		o[i] = a[i] - b[i]
	}
}

// Scale sets o := alpha*a.
func Scale(o Vector, alpha float64, a Vector) {
	for i := range o {
		o[i] = alpha * a[i]
	}
}

// VecDot returns the inner product of a and b (free-function form, to
// mirror gosl's la.VecDot used by num.NlSolver's line-search).
func VecDot(a, b Vector) float64 { return a.Dot(b) }

// AllFinite reports whether every component of o is finite.
func AllFinite(o Vector) bool {
	for _, x := range o {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// ClampBox clamps each component of x into [lo[i], hi[i]] (±Inf bounds are
// admissible and denote the absence of a bound) and writes the result to out.
func ClampBox(out, x, lo, hi Vector) {
	for i := range x {
		v := x[i]
		if v < lo[i] {
			v = lo[i]
		}
		if v > hi[i] {
			v = hi[i]
		}
		out[i] = v
	}
}
