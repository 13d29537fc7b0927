package mathutil

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	besselTolerance = 1e-6
	betaTolerance   = 1e-9
)

func TestBesselI0_KnownValues(t *testing.T) {
	// Reference values from Abramowitz & Stegun tables.
	tests := []struct {
		name string
		x    float64
		want float64
	}{
		{"zero", 0.0, 1.0},
		{"one", 1.0, 1.2660658},
		{"two", 2.0, 2.2795853},
		{"small_arg_boundary", 3.75, 9.1189385},
		{"large_arg", 10.0, 2815.7167},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BesselI0(tt.x)
			assert.InEpsilon(t, tt.want, got, besselTolerance)
		})
	}
}

func TestBesselI0_Symmetry(t *testing.T) {
	for _, x := range []float64{0.5, 1.0, 3.0, 5.0, 12.0} {
		assert.InDelta(t, BesselI0(x), BesselI0(-x), besselTolerance,
			"I0 should be even in x=%v", x)
	}
}

func TestBesselI0_Monotonic(t *testing.T) {
	prev := BesselI0(0)
	for x := 0.25; x <= 20; x += 0.25 {
		cur := BesselI0(x)
		assert.Greater(t, cur, prev, "I0 not increasing at x=%v", x)
		prev = cur
	}
}

func TestKaiserBeta(t *testing.T) {
	tests := []struct {
		name        string
		attenuation float64
		want        float64
	}{
		{"below_threshold", 20.0, 0.0},
		{"at_21dB", 21.0, 0.0},
		{"medium_40dB", 40.0, 0.5842*math.Pow(19, 0.4) + 0.07886*19},
		{"high_80dB", 80.0, 0.1102 * (80 - 8.7)},
		{"high_100dB", 100.0, 0.1102 * (100 - 8.7)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, KaiserBeta(tt.attenuation), betaTolerance)
		})
	}
}
