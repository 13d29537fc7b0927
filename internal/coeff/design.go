// Package coeff holds the shared coefficient table of the filtering engine:
// the live half-length Q15 store with its write latch, and the Kaiser-window
// design routine that seeds the default coefficient set at cold start.
package coeff

import (
	"fmt"
	"math"

	"github.com/tphakala/go-fir-engine/internal/fixedpoint"
	"github.com/tphakala/go-fir-engine/internal/mathutil"
	"github.com/tphakala/simd/f64"
)

const (
	// Sinc function constants
	sincZeroThreshold = 1e-10

	// Window/sinc center calculation divisor
	centerDivisor = 2.0

	// Q15 quantization scale (1 << fixedpoint.ScaleShift)
	quantScale = 1 << fixedpoint.ScaleShift

	// Design parameter bounds
	minDesignTaps     = 4
	maxDesignTaps     = 1024
	maxCutoffRatio    = 0.5
	minAttenuationDB  = 0.0
	unityPassbandGain = 1.0
)

// DesignParams holds parameters for the default lowpass coefficient set.
type DesignParams struct {
	// Taps is the full filter length N. Must be even: the engine stores only
	// N/2 coefficients and mirrors them (linear-phase symmetry).
	Taps int

	// CutoffRatio is the normalized cutoff frequency in (0, 0.5),
	// where 0.5 is Nyquist.
	CutoffRatio float64

	// AttenuationDB is the desired stopband attenuation in dB, which sets
	// the Kaiser window β.
	AttenuationDB float64
}

// Validate checks the design parameters.
func (p *DesignParams) Validate() error {
	if p.Taps < minDesignTaps || p.Taps > maxDesignTaps {
		return fmt.Errorf("tap count %d out of range [%d, %d]", p.Taps, minDesignTaps, maxDesignTaps)
	}
	if p.Taps%2 != 0 {
		return fmt.Errorf("tap count %d must be even for symmetric pairing", p.Taps)
	}
	if p.CutoffRatio <= 0 || p.CutoffRatio >= maxCutoffRatio {
		return fmt.Errorf("cutoff ratio %f must be in (0, %v)", p.CutoffRatio, maxCutoffRatio)
	}
	if p.AttenuationDB < minAttenuationDB {
		return fmt.Errorf("attenuation %f dB must be non-negative", p.AttenuationDB)
	}
	return nil
}

// DesignLowpassHalf designs a linear-phase lowpass FIR filter and returns
// its Q15 half-table (first N/2 coefficients; the second half is the mirror
// image and is never stored).
//
// The design is a Kaiser-windowed sinc, computed in float64, normalized to
// unity DC gain, then quantized to Q15. With unity DC gain the quantized
// coefficients sum to ~2^15, so a full-scale DC input maps to a full-scale
// output after the engine's ScaleShift rescale.
func DesignLowpassHalf(params DesignParams) ([]int16, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	taps := designLowpassFloat(params)

	// Quantize to Q15. Rounding half away from zero keeps the table
	// symmetric, so the half-table fully determines the filter.
	half := make([]int16, params.Taps/2)
	for i := range half {
		half[i] = quantizeQ15(taps[i])
	}
	return half, nil
}

// designLowpassFloat produces the full-length float64 prototype.
func designLowpassFloat(params DesignParams) []float64 {
	n := params.Taps
	beta := mathutil.KaiserBeta(params.AttenuationDB)
	i0Beta := mathutil.BesselI0(beta)

	// Even-length symmetric FIR: the center sits between the two middle
	// taps, so x is never exactly zero but the sinc limit case is kept for
	// robustness against future odd-length use.
	center := float64(n-1) / centerDivisor
	taps := make([]float64, n)

	for i := range n {
		x := float64(i) - center

		var sincValue float64
		if math.Abs(x) < sincZeroThreshold {
			sincValue = centerDivisor * params.CutoffRatio
		} else {
			arg := centerDivisor * math.Pi * params.CutoffRatio * x
			sincValue = math.Sin(arg) / (math.Pi * x)
		}

		// Kaiser window term
		w := (float64(i) - center) / center
		window := mathutil.BesselI0(beta*math.Sqrt(1.0-w*w)) / i0Beta

		taps[i] = sincValue * window
	}

	// Normalize to unity DC gain (SIMD sum/scale as in the float pipeline)
	sum := f64.Sum(taps)
	if math.Abs(sum) > sincZeroThreshold {
		f64.Scale(taps, taps, unityPassbandGain/sum)
	}

	return taps
}

// quantizeQ15 converts a float64 tap in [-1, 1) to a Q15 coefficient,
// clamping at the representable bounds.
func quantizeQ15(v float64) int16 {
	scaled := math.Round(v * quantScale)
	q, _ := fixedpoint.SaturateInt16(int64(scaled))
	return q
}
