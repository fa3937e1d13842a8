// Copyright 2016 The Gosl Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package io implements auxiliary (formatting) functions for printing
// progress from the inner solvers and the ALM outer loop.
package io

import "fmt"

// colors used by the Pf* family; kept minimal (no external ANSI library is
// needed, the teacher gosl rolls its own here too).
const (
	escReset  = "\033[0m"
	escRed    = "\033[31m"
	escGreen  = "\033[32m"
	escYellow = "\033[33m"
)

// Sf is a shorter version of fmt.Sprintf.
func Sf(msg string, prm ...interface{}) string {
	return fmt.Sprintf(msg, prm...)
}

// Pf prints a formatted string; shorter version of fmt.Printf.
func Pf(msg string, prm ...interface{}) {
	fmt.Printf(msg, prm...)
}

// PfYel prints a formatted string in yellow.
func PfYel(msg string, prm ...interface{}) {
	fmt.Print(escYellow)
	fmt.Printf(msg, prm...)
	fmt.Print(escReset)
}

// PfRed prints a formatted string in red.
func PfRed(msg string, prm ...interface{}) {
	fmt.Print(escRed)
	fmt.Printf(msg, prm...)
	fmt.Print(escReset)
}

// PfGreen prints a formatted string in green.
func PfGreen(msg string, prm ...interface{}) {
	fmt.Print(escGreen)
	fmt.Printf(msg, prm...)
	fmt.Print(escReset)
}
