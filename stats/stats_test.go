package stats

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
)

func TestAccumulatorCountsIterationsAndFailures(tst *testing.T) {
	chk.PrintTitle("AccumulatorCountsIterationsAndFailures")
	var a Accumulator
	a.Add(false, false, false, 0)
	a.Add(true, false, false, 2)
	a.Add(false, true, true, 1)
	chk.Int(tst, "iterations", a.Iterations, 3)
	chk.Int(tst, "line search failures", a.LineSearchFailures, 1)
	chk.Int(tst, "direction update rejects", a.DirectionUpdateRejects, 1)
	chk.Int(tst, "direction apply failures", a.DirectionApplyFailures, 1)
	chk.Int(tst, "backtracks", a.Backtracks, 3)
}
