package cancel

import (
	"testing"

	"github.com/dicksontsai/nlpcore/internal/chk"
)

func TestSignalStartsNotRequested(tst *testing.T) {
	chk.PrintTitle("SignalStartsNotRequested")
	var s Signal
	chk.True(tst, "not requested initially", !s.Requested())
}

func TestSignalRequestIsIdempotentAndVisible(tst *testing.T) {
	chk.PrintTitle("SignalRequestIsIdempotentAndVisible")
	var s Signal
	s.Request()
	s.Request()
	chk.True(tst, "requested after Request", s.Requested())
	s.Reset()
	chk.True(tst, "cleared after Reset", !s.Requested())
}

func TestSignalAttachIsSingleHolder(tst *testing.T) {
	chk.PrintTitle("SignalAttachIsSingleHolder")
	var s Signal
	tok1, ok1 := s.Attach()
	chk.True(tst, "first attach succeeds", ok1)

	_, ok2 := s.Attach()
	chk.True(tst, "second concurrent attach fails", !ok2)

	tok1.Release()
	_, ok3 := s.Attach()
	chk.True(tst, "attach succeeds again after release", ok3)
}
