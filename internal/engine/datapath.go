package engine

import (
	"github.com/tphakala/go-fir-engine/internal/coeff"
	"github.com/tphakala/go-fir-engine/internal/fixedpoint"
)

// products multiplies each pair sum in buf by its coefficient, in place.
// The store applies the arithmetic-shift shortcut for power-of-two
// coefficients; both paths are bit-identical.
func products(buf []int64, store *coeff.Store) {
	for i := range buf {
		buf[i] = store.Product(buf[i], i)
	}
}

// reduceStep performs one level of the binary reduction tree over the first
// n elements of buf, pairing (2i, 2i+1) left to right. An odd trailing
// element passes through unchanged. Returns the element count of the next
// level. The pairing order is fixed so results are reproducible bit for bit.
func reduceStep(buf []int64, n int) int {
	half := n / 2
	for i := 0; i < half; i++ {
		buf[i] = buf[2*i] + buf[2*i+1]
	}
	if n%2 != 0 {
		buf[half] = buf[n-1]
		return half + 1
	}
	return half
}

// treeDepth returns the number of reduction levels needed to collapse n
// partial products to a single accumulator: ceil(log2(n)), and 0 for n<=1.
func treeDepth(n int) int {
	depth := 0
	for n > 1 {
		n = (n + 1) / 2
		depth++
	}
	return depth
}

// scaleSaturate rescales a Q15 accumulator to the output width with
// round-to-nearest, then clamps. The bool reports whether clamping fired.
func scaleSaturate(acc int64) (int16, bool) {
	scaled := fixedpoint.RoundingRightShift(acc, fixedpoint.ScaleShift)
	return fixedpoint.SaturateInt16(scaled)
}
