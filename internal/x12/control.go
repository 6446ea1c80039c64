package x12

import (
	"fmt"
	"sync/atomic"
)

// ControlNumbers identifies one interchange. ISA is 9 digits, GS is
// numeric and ST is 4 digits.
type ControlNumbers struct {
	ISA string `json:"isa"`
	GS  string `json:"gs"`
	ST  string `json:"st"`
}

// ControlNumbersFor derives the control numbers for sequence value n.
// Values wrap within each field's width and never produce zero.
func ControlNumbersFor(n int64) ControlNumbers {
	if n < 0 {
		n = -n
	}
	isa := n % 1_000_000_000
	if isa == 0 {
		isa = 1
	}
	st := n % 10_000
	if st == 0 {
		st = 1
	}
	return ControlNumbers{
		ISA: fmt.Sprintf("%09d", isa),
		GS:  fmt.Sprintf("%d", isa),
		ST:  fmt.Sprintf("%04d", st),
	}
}

// ControlSource hands out control numbers for new interchanges.
type ControlSource interface {
	Next() ControlNumbers
}

// Sequence is a monotonic control-number source.
// Safe for concurrent use.
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence whose first value is 1.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt creates a sequence whose first value is start+1.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next advances the sequence and returns its control numbers.
func (s *Sequence) Next() ControlNumbers {
	return ControlNumbersFor(s.seq.Add(1))
}

// Current returns the last issued sequence value.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}

// FixedControls always returns the same control numbers.
type FixedControls ControlNumbers

// Next returns the fixed control numbers.
func (f FixedControls) Next() ControlNumbers {
	return ControlNumbers(f)
}
