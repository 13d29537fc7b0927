package firengine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-fir-engine/internal/testutil"
)

const (
	testImpulseMagnitude = 16384
	testImpulseLength    = 48
	testDefaultLatency   = 11
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"zero_config_gets_defaults", Config{}, false},
		{"explicit_valid", Config{Taps: 64, Channels: 8, CutoffRatio: 0.1, StopbandAttenuationDB: 60}, false},
		{"min_taps", Config{Taps: MinTaps}, false},
		{"max_taps", Config{Taps: MaxTaps}, false},
		{"odd_taps", Config{Taps: 33}, true},
		{"taps_too_small", Config{Taps: 2}, true},
		{"taps_too_large", Config{Taps: MaxTaps + 2}, true},
		{"channels_too_many", Config{Channels: MaxChannels + 1}, true},
		{"channels_negative", Config{Channels: -1}, true},
		{"coefficients_wrong_length", Config{Taps: 32, Coefficients: make([]int16, 15)}, true},
		{"coefficients_right_length", Config{Taps: 32, Coefficients: make([]int16, 16)}, false},
		{"cutoff_too_high", Config{CutoffRatio: 0.5}, true},
		{"cutoff_negative", Config{CutoffRatio: -0.1}, true},
		{"attenuation_negative", Config{StopbandAttenuationDB: -3}, true},
		{"unknown_reset_policy", Config{ResetPolicy: ResetPolicy(99)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateAppliesDefaults(t *testing.T) {
	var config Config
	require.NoError(t, config.Validate())

	assert.Equal(t, DefaultTaps, config.Taps)
	assert.Equal(t, DefaultChannels, config.Channels)
	assert.Equal(t, DefaultCutoffRatio, config.CutoffRatio)
	assert.Equal(t, DefaultStopbandAttenuationDB, config.StopbandAttenuationDB)
}

func TestNew_NilConfig(t *testing.T) {
	eng, err := New(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Nil(t, eng)
}

func TestNew_DesignsDefaultLowpass(t *testing.T) {
	eng, err := New(&Config{})
	require.NoError(t, err)

	half := eng.Coefficients()
	require.Len(t, half, DefaultTaps/2)

	// A unity-DC-gain lowpass: the doubled half-table sum lands close to
	// the Q15 one, within quantization slack.
	var sum int64
	for _, c := range half {
		sum += int64(c)
	}
	assert.InDelta(t, int64(1)<<ScaleShift, 2*sum, 64)
}

func TestNew_CopiesCoefficientSeed(t *testing.T) {
	seed := make([]int16, DefaultTaps/2)
	seed[0] = 100
	eng, err := New(&Config{Coefficients: seed})
	require.NoError(t, err)

	seed[0] = -1 // caller mutation must not reach the engine
	got, err := eng.Coefficient(0)
	require.NoError(t, err)
	assert.Equal(t, int16(100), got)
}

func TestEngine_LatencyDefault(t *testing.T) {
	eng, err := New(&Config{})
	require.NoError(t, err)
	assert.Equal(t, testDefaultLatency, eng.Latency())
	assert.Equal(t, DefaultTaps, eng.Taps())
	assert.Equal(t, DefaultChannels, eng.Channels())
}

// TestEngine_ImpulseEndToEnd runs the full public-API path: a 16384 impulse
// on one of four channels, first output after exactly Latency ticks, full
// response matched against an independent convolution.
func TestEngine_ImpulseEndToEnd(t *testing.T) {
	eng, err := New(&Config{})
	require.NoError(t, err)
	half := eng.Coefficients()

	samples := testutil.Impulse(testImpulseMagnitude, testImpulseLength)

	res := eng.Tick(Input{Valid: true, Data: samples[0], Channel: 1}, true)
	require.True(t, res.Accepted)

	next := 1
	var got []int16
	for tick := 1; len(got) < len(samples); tick++ {
		var in Input
		if next < len(samples) {
			in = Input{Valid: true, Data: samples[next], Channel: 1}
		}
		res = eng.Tick(in, true)
		if res.Accepted {
			next++
		}
		if res.OutValid {
			require.GreaterOrEqual(t, tick, eng.Latency(), "output surfaced early")
			require.Equal(t, 1, res.Out.Channel)
			got = append(got, res.Out.Data)
		}
	}

	ref := testutil.NewReference(DefaultChannels, DefaultTaps, half)
	testutil.AssertInt16Equal(t, ref.NextAll(1, samples), got)
}

func TestEngine_RejectsOutOfRangeChannel(t *testing.T) {
	eng, err := New(&Config{Channels: 2})
	require.NoError(t, err)

	res := eng.Tick(Input{Valid: true, Data: 1, Channel: 2}, true)
	assert.True(t, res.InReady)
	assert.False(t, res.Accepted)
	assert.Zero(t, eng.SampleCount())
}

func TestEngine_CoefficientAddressErrors(t *testing.T) {
	eng, err := New(&Config{Taps: 32})
	require.NoError(t, err)

	assert.ErrorIs(t, eng.WriteCoefficient(16, 1), ErrBadAddress)
	assert.ErrorIs(t, eng.WriteCoefficient(-1, 1), ErrBadAddress)

	_, err = eng.Coefficient(16)
	assert.ErrorIs(t, err, ErrBadAddress)

	require.NoError(t, eng.WriteCoefficient(3, 777))
	eng.Tick(Input{}, true) // write lands at the tick boundary
	got, err := eng.Coefficient(3)
	require.NoError(t, err)
	assert.Equal(t, int16(777), got)
}

func TestEngine_OverflowChannelErrors(t *testing.T) {
	eng, err := New(&Config{Channels: 3})
	require.NoError(t, err)

	_, err = eng.Overflow(3)
	assert.ErrorIs(t, err, ErrBadChannel)

	flag, err := eng.Overflow(0)
	require.NoError(t, err)
	assert.False(t, flag)

	assert.Len(t, eng.OverflowFlags(), 3)
}

func TestEngine_BypassRoundTrip(t *testing.T) {
	eng, err := New(&Config{})
	require.NoError(t, err)

	assert.False(t, eng.Bypass())
	eng.SetBypass(true)
	assert.True(t, eng.Bypass())

	res := eng.Tick(Input{Valid: true, Data: -1234, Channel: 2, FrameEnd: true}, true)
	require.True(t, res.Accepted)

	res = eng.Tick(Input{}, true)
	require.True(t, res.OutValid)
	assert.Equal(t, Output{Data: -1234, Channel: 2, FrameEnd: true}, res.Out)
	assert.Equal(t, uint32(1), eng.SampleCount())
}

func TestEngine_ResetPolicies(t *testing.T) {
	t.Run("retain", func(t *testing.T) {
		eng, err := New(&Config{ResetPolicy: ResetRetainsCoefficients})
		require.NoError(t, err)
		require.NoError(t, eng.WriteCoefficient(0, 4242))
		eng.Tick(Input{}, true)
		eng.Reset()
		got, err := eng.Coefficient(0)
		require.NoError(t, err)
		assert.Equal(t, int16(4242), got)
	})

	t.Run("reload", func(t *testing.T) {
		eng, err := New(&Config{ResetPolicy: ResetReloadsCoefficients})
		require.NoError(t, err)
		original, err := eng.Coefficient(0)
		require.NoError(t, err)
		require.NoError(t, eng.WriteCoefficient(0, 4242))
		eng.Tick(Input{}, true)
		eng.Reset()
		got, err := eng.Coefficient(0)
		require.NoError(t, err)
		assert.Equal(t, original, got)
	})
}

func TestEngine_ResetClearsState(t *testing.T) {
	eng, err := New(&Config{})
	require.NoError(t, err)

	for range 5 {
		eng.Tick(Input{Valid: true, Data: 1000, Channel: 0}, true)
	}
	require.NotZero(t, eng.SampleCount())

	eng.SetBypass(true)
	eng.Reset()

	assert.Zero(t, eng.SampleCount())
	assert.False(t, eng.Busy())
	assert.True(t, eng.Bypass(), "bypass is caller-owned and survives reset")
}

func TestErrorsAreDistinguishable(t *testing.T) {
	assert.False(t, errors.Is(ErrBadAddress, ErrInvalidConfig))
	assert.False(t, errors.Is(ErrBadChannel, ErrBadAddress))
}
