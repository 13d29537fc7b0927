// Command analyze-filter reports the frequency response of an engine
// coefficient table.
//
// Usage:
//
//	analyze-filter -taps 32 -cutoff 0.25
//	analyze-filter -taps 128 -cutoff 0.05 -attenuation 100
//
// The Q15 half-table is designed exactly as the engine designs it, expanded
// to the full symmetric impulse response, and evaluated with an FFT. The
// report shows DC gain, the realized cutoff, and the worst stopband leak,
// which is the quickest way to sanity-check a design before loading it.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	firengine "github.com/tphakala/go-fir-engine"
)

const (
	// FFT size for response evaluation. Power of two well above the
	// maximum tap count, giving fine frequency resolution.
	fftSize = 8192

	// Q15 scale for converting quantized coefficients back to gain.
	q15One = 32768.0

	// Number of response rows printed in the summary table.
	tableRows = 17

	// Floor used when a magnitude underflows to zero.
	silenceFloorDB = -200.0

	// Transition margin past the cutoff before stopband measurement
	// starts, as a fraction of the sample rate.
	transitionMargin = 0.05
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	taps := flag.Int("taps", firengine.DefaultTaps, "Filter order (even, 4-1024)")
	cutoff := flag.Float64("cutoff", firengine.DefaultCutoffRatio, "Lowpass cutoff as a fraction of the sample rate (0-0.5)")
	attenuation := flag.Float64("attenuation", firengine.DefaultStopbandAttenuationDB, "Stopband attenuation target in dB")
	flag.Parse()

	eng, err := firengine.New(&firengine.Config{
		Taps:                  *taps,
		CutoffRatio:           *cutoff,
		StopbandAttenuationDB: *attenuation,
	})
	if err != nil {
		return err
	}
	half := eng.Coefficients()

	fmt.Println("=== FIR Engine Coefficient Analysis ===")
	fmt.Printf("Taps: %d (half-table of %d Q15 entries)\n", *taps, len(half))
	fmt.Printf("Design: cutoff %.4f, attenuation %.0f dB\n\n", *cutoff, *attenuation)

	impulse := expandSymmetric(half)
	magDB := responseDB(impulse)

	dc := dcGain(half)
	fmt.Printf("DC gain: %.6f (%.3f dB)\n", dc, toDB(dc))
	fmt.Printf("Realized -6 dB point: %.4f x fs\n", crossingPoint(magDB, -6.0))

	stopStart := *cutoff + transitionMargin
	fmt.Printf("Worst stopband leak above %.3f x fs: %.1f dB\n\n", stopStart, worstAbove(magDB, stopStart))

	fmt.Println("Frequency response:")
	fmt.Printf("  %-12s %s\n", "freq/fs", "gain (dB)")
	for i := range tableRows {
		ratio := 0.5 * float64(i) / float64(tableRows-1)
		bin := int(ratio * float64(fftSize))
		if bin >= len(magDB) {
			bin = len(magDB) - 1
		}
		fmt.Printf("  %-12.4f %8.2f\n", ratio, magDB[bin])
	}
	return nil
}

// expandSymmetric mirrors a Q15 half-table into the full floating-point
// impulse response: entry i serves positions i and len-1-i.
func expandSymmetric(half []int16) []float64 {
	n := 2 * len(half)
	h := make([]float64, n)
	for i, c := range half {
		v := float64(c) / q15One
		h[i] = v
		h[n-1-i] = v
	}
	return h
}

// responseDB evaluates the magnitude response on a zero-padded FFT grid.
// Index k corresponds to frequency k/fftSize in sample-rate units.
func responseDB(impulse []float64) []float64 {
	padded := make([]float64, fftSize)
	copy(padded, impulse)

	fft := fourier.NewFFT(fftSize)
	spectrum := fft.Coefficients(nil, padded)

	out := make([]float64, len(spectrum))
	for i, c := range spectrum {
		out[i] = toDB(cmplxAbs(c))
	}
	return out
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func toDB(mag float64) float64 {
	if mag <= 0 {
		return silenceFloorDB
	}
	return 20 * math.Log10(mag)
}

// dcGain is the zero-frequency gain: twice the half-table sum over Q15 one.
func dcGain(half []int16) float64 {
	var sum int64
	for _, c := range half {
		sum += int64(c)
	}
	return 2 * float64(sum) / q15One
}

// crossingPoint returns the first frequency (in sample-rate units) where
// the response falls below thresholdDB.
func crossingPoint(magDB []float64, thresholdDB float64) float64 {
	for i, db := range magDB {
		if db < thresholdDB {
			return float64(i) / fftSize
		}
	}
	return 0.5
}

// worstAbove returns the highest response at or above the given frequency.
func worstAbove(magDB []float64, ratio float64) float64 {
	start := int(ratio * fftSize)
	worst := silenceFloorDB
	for i := start; i < len(magDB); i++ {
		worst = math.Max(worst, magDB[i])
	}
	return worst
}
