package firengine

// Default configuration values applied by Config.Validate when fields are
// left zero.
const (
	// DefaultTaps is the default filter order.
	DefaultTaps = 32

	// DefaultChannels is the default number of multiplexed channels.
	DefaultChannels = 4

	// DefaultCutoffRatio is the default lowpass cutoff as a fraction of
	// the sample rate, used when no explicit coefficient table is given.
	DefaultCutoffRatio = 0.25

	// DefaultStopbandAttenuationDB is the default Kaiser design target.
	DefaultStopbandAttenuationDB = 80.0
)

// Configuration limits.
const (
	// MinTaps and MaxTaps bound the filter order. Taps must be even so the
	// symmetric half-table pairing covers every history entry.
	MinTaps = 4
	MaxTaps = 1024

	// MinChannels and MaxChannels bound the multiplexed channel count.
	MinChannels = 1
	MaxChannels = 256
)

// Sample format constants.
const (
	// SampleBits is the width of input and output samples.
	SampleBits = 16

	// CoefficientBits is the width of Q15 coefficients.
	CoefficientBits = 16

	// ScaleShift is the Q15 renormalization shift applied to each
	// accumulated result before saturation.
	ScaleShift = 15

	// MaxSampleValue and MinSampleValue are the output saturation rails.
	MaxSampleValue = 32767
	MinSampleValue = -32768
)
