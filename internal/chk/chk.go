// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chk implements functions for checking and testing computations.
package chk

import (
	"fmt"
	"math"
)

// Verbose turns many functions verbose, printing their intermediate results.
var Verbose = false

// Panic panics with a formatted error message; used for contract violations
// that abort the solve, e.g. a wrong buffer size or a missing required
// evaluation function.
func Panic(msg string, prm ...interface{}) {
	panic(fmt.Sprintf("nlpcore/chk.Panic: "+msg, prm...))
}

// PanicIf panics with a formatted error message if cond is true.
func PanicIf(cond bool, msg string, prm ...interface{}) {
	if cond {
		Panic(msg, prm...)
	}
}

// T holds the subset of *testing.T this package needs. It lets chk helpers
// be used from tests without importing "testing" in non-test source files.
type T interface {
	Errorf(format string, args ...interface{})
}

// PrintTitle prints a test title.
func PrintTitle(title string) {
	fmt.Printf("\n=== %s ===\n", title)
}

// Float64 compares a and b with tolerance tol and fails t if they differ.
func Float64(t T, msg string, tol, a, b float64) {
	if math.IsNaN(a) || math.IsNaN(b) || math.Abs(a-b) > tol {
		t.Errorf("%s: %v != %v (tol=%v, diff=%v)", msg, a, b, tol, math.Abs(a-b))
	}
}

// Array compares two slices component-wise with tolerance tol.
func Array(t T, msg string, tol float64, a, b []float64) {
	if len(b) == 0 {
		for _, v := range a {
			if math.IsNaN(v) || math.Abs(v) > tol {
				t.Errorf("%s: %v is not ~0 (tol=%v)", msg, a, tol)
				return
			}
		}
		return
	}
	if len(a) != len(b) {
		t.Errorf("%s: lengths differ: %d != %d", msg, len(a), len(b))
		return
	}
	for i := range a {
		if math.IsNaN(a[i]) || math.Abs(a[i]-b[i]) > tol {
			t.Errorf("%s: index %d: %v != %v (tol=%v)", msg, i, a[i], b[i], tol)
			return
		}
	}
}

// Int fails t if a != b.
func Int(t T, msg string, a, b int) {
	if a != b {
		t.Errorf("%s: %d != %d", msg, a, b)
	}
}

// True fails t if cond is false.
func True(t T, msg string, cond bool) {
	if !cond {
		t.Errorf("%s: expected true", msg)
	}
}
