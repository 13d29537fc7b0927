// Package fixedpoint provides the Q-format integer arithmetic used by the
// filtering datapath: rounding shifts, output saturation, and the
// power-of-two multiply shortcut.
//
// All intermediate values are carried in int64, which has headroom for the
// full reduction: a W-bit sample pair sum (W+1 bits) times a CW-bit
// coefficient plus ceil(log2(N)) bits of tree growth stays below 63 bits for
// every supported configuration (16+1+16+10 = 43 bits worst case).
package fixedpoint

import "math"

// Width constants for the engine's fixed-point formats.
const (
	// SampleWidth is the width W of input and output samples in bits.
	SampleWidth = 16

	// CoefficientWidth is the width CW of filter coefficients in bits.
	CoefficientWidth = 16

	// ScaleShift is the number of fractional bits contributed by the Q15
	// coefficient format. Accumulators are rescaled by this amount before
	// saturation.
	ScaleShift = CoefficientWidth - 1

	// MaxSample and MinSample bound the representable output range.
	MaxSample = math.MaxInt16
	MinSample = math.MinInt16
)

// RoundingRightShift rescales v by shift bits using round-to-nearest
// (bias-then-shift). The bias is +2^(shift-1), so exact .5 cases round
// toward positive infinity, matching the hardware bias adder.
func RoundingRightShift(v int64, shift uint) int64 {
	if shift == 0 {
		return v
	}
	return (v + (1 << (shift - 1))) >> shift
}

// SaturateInt16 clamps v to the int16 range. The second return value
// reports whether clamping occurred.
func SaturateInt16(v int64) (int16, bool) {
	if v > MaxSample {
		return MaxSample, true
	}
	if v < MinSample {
		return MinSample, true
	}
	return int16(v), false
}

// PowerOfTwoExponent returns log2(c) when the coefficient c is a positive
// exact power of two, and ok=false otherwise. Negative coefficients and
// zero never qualify; they take the general multiply path.
func PowerOfTwoExponent(c int16) (shift uint, ok bool) {
	if c <= 0 || c&(c-1) != 0 {
		return 0, false
	}
	for c != 1 {
		c >>= 1
		shift++
	}
	return shift, true
}

// Product multiplies a pair sum by a coefficient, using an arithmetic left
// shift when the coefficient is a positive power of two. Both paths are
// bit-identical for all valid inputs.
func Product(pair int64, coefficient int16) int64 {
	if shift, ok := PowerOfTwoExponent(coefficient); ok {
		return pair << shift
	}
	return pair * int64(coefficient)
}

// ShiftProduct applies a precomputed power-of-two exponent. Callers that
// cache PowerOfTwoExponent results per coefficient (the store does this on
// every table write) use it to skip the per-sample predicate.
func ShiftProduct(pair int64, shift uint) int64 {
	return pair << shift
}
