// Package testutil provides reusable test helpers for the filtering engine:
// an independent reference model of the symmetric datapath and slice
// assertions shared across packages.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tphakala/go-fir-engine/internal/fixedpoint"
)

// Reference is a straight-line software model of the filtering semantics:
// per-channel history, symmetric pair sums, coefficient products, a linear
// sum (exact in int64, so tree order is immaterial), rounding rescale and
// saturation. It shares no code with the pipelined engine, which is the
// point: engine outputs are checked against an independent derivation.
type Reference struct {
	taps int
	half []int16
	hist [][]int16 // per channel, newest first
}

// NewReference creates a reference model with the given half-table.
func NewReference(channels, taps int, half []int16) *Reference {
	r := &Reference{
		taps: taps,
		half: make([]int16, len(half)),
		hist: make([][]int16, channels),
	}
	copy(r.half, half)
	for ch := range r.hist {
		r.hist[ch] = make([]int16, taps)
	}
	return r
}

// SetCoefficient updates the model's live table. Unlike the engine there is
// no tick latching; callers sequence updates against Next explicitly.
func (r *Reference) SetCoefficient(addr int, value int16) {
	r.half[addr] = value
}

// Next accepts one sample for a channel and returns the expected filtered
// output and whether it required clamping.
func (r *Reference) Next(channel int, value int16) (int16, bool) {
	h := r.hist[channel]
	copy(h[1:], h[:len(h)-1])
	h[0] = value

	var acc int64
	for i := 0; i < r.taps/2; i++ {
		pair := int64(h[i]) + int64(h[r.taps-1-i])
		acc += pair * int64(r.half[i])
	}

	scaled := fixedpoint.RoundingRightShift(acc, fixedpoint.ScaleShift)
	return fixedpoint.SaturateInt16(scaled)
}

// NextAll runs Next over a whole sample sequence on one channel.
func (r *Reference) NextAll(channel int, values []int16) []int16 {
	out := make([]int16, len(values))
	for i, v := range values {
		out[i], _ = r.Next(channel, v)
	}
	return out
}

// Impulse builds an impulse input sequence: magnitude followed by zeros,
// length total.
func Impulse(magnitude int16, total int) []int16 {
	seq := make([]int16, total)
	seq[0] = magnitude
	return seq
}

// AssertInt16Equal compares two int16 sequences element by element with
// index-labelled failures.
func AssertInt16Equal(t *testing.T, want, got []int16, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, got, len(want), msgAndArgs...) {
		return false
	}
	for i := range want {
		if !assert.Equal(t, want[i], got[i], "sample %d differs", i) {
			return false
		}
	}
	return true
}

// AssertAllZero verifies every element of s is zero.
func AssertAllZero(t *testing.T, s []int16, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if v != 0 {
			return assert.Fail(t, "nonzero sample", "s[%d]=%d", i, v)
		}
	}
	return true
}
