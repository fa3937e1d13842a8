// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package utl implements a few small numeric utility functions used
// throughout the solver packages in place of ad-hoc branching.
package utl

// Min returns the smaller of a and b.
func Min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Clip clamps x into [lo, hi].
func Clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Imin returns the smaller of a and b.
func Imin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Imax returns the larger of a and b.
func Imax(a, b int) int {
	if a > b {
		return a
	}
	return b
}
