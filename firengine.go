package firengine

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-fir-engine/internal/coeff"
	"github.com/tphakala/go-fir-engine/internal/engine"
)

// Common errors returned by the engine.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid engine configuration")

	// ErrBadAddress indicates a coefficient address outside the half-table.
	ErrBadAddress = errors.New("coefficient address out of range")

	// ErrBadChannel indicates a channel index outside the configured count.
	ErrBadChannel = errors.New("channel out of range")
)

// ResetPolicy selects what Reset does to the coefficient table.
type ResetPolicy int

const (
	// ResetRetainsCoefficients keeps runtime-written coefficients across
	// Reset. Only signal state (histories, in-flight samples, flags,
	// counters) is cleared.
	ResetRetainsCoefficients ResetPolicy = iota

	// ResetReloadsCoefficients restores the table the engine was
	// constructed with, discarding runtime writes.
	ResetReloadsCoefficients
)

// Config holds the engine configuration.
type Config struct {
	// Taps is the filter order. Must be even, within [MinTaps, MaxTaps].
	// Zero selects DefaultTaps.
	Taps int

	// Channels is the number of independently tagged streams sharing the
	// datapath, within [MinChannels, MaxChannels]. Zero selects
	// DefaultChannels.
	Channels int

	// Coefficients optionally seeds the Q15 half-table; it must hold
	// exactly Taps/2 entries. When nil, a Kaiser-window lowpass is
	// designed from CutoffRatio and StopbandAttenuationDB.
	Coefficients []int16

	// CutoffRatio is the lowpass cutoff as a fraction of the sample rate,
	// in (0, 0.5). Zero selects DefaultCutoffRatio. Ignored when
	// Coefficients is set.
	CutoffRatio float64

	// StopbandAttenuationDB is the Kaiser design target in decibels.
	// Zero selects DefaultStopbandAttenuationDB. Ignored when
	// Coefficients is set.
	StopbandAttenuationDB float64

	// ResetPolicy selects coefficient behavior on Reset.
	ResetPolicy ResetPolicy
}

// Validate applies defaults to zero-valued fields and checks the
// configuration.
func (c *Config) Validate() error {
	if c.Taps == 0 {
		c.Taps = DefaultTaps
	}
	if c.Channels == 0 {
		c.Channels = DefaultChannels
	}
	if c.CutoffRatio == 0 {
		c.CutoffRatio = DefaultCutoffRatio
	}
	if c.StopbandAttenuationDB == 0 {
		c.StopbandAttenuationDB = DefaultStopbandAttenuationDB
	}

	if c.Taps < MinTaps || c.Taps > MaxTaps {
		return fmt.Errorf("%w: taps must be %d-%d", ErrInvalidConfig, MinTaps, MaxTaps)
	}
	if c.Taps%2 != 0 {
		return fmt.Errorf("%w: taps must be even", ErrInvalidConfig)
	}
	if c.Channels < MinChannels || c.Channels > MaxChannels {
		return fmt.Errorf("%w: channels must be %d-%d", ErrInvalidConfig, MinChannels, MaxChannels)
	}
	if c.Coefficients != nil && len(c.Coefficients) != c.Taps/2 {
		return fmt.Errorf("%w: coefficient table must hold %d entries, got %d",
			ErrInvalidConfig, c.Taps/2, len(c.Coefficients))
	}
	if c.Coefficients == nil {
		if c.CutoffRatio <= 0 || c.CutoffRatio >= 0.5 {
			return fmt.Errorf("%w: cutoff ratio must be in (0, 0.5)", ErrInvalidConfig)
		}
		if c.StopbandAttenuationDB < 0 {
			return fmt.Errorf("%w: stopband attenuation must be non-negative", ErrInvalidConfig)
		}
	}
	if c.ResetPolicy != ResetRetainsCoefficients && c.ResetPolicy != ResetReloadsCoefficients {
		return fmt.Errorf("%w: unknown reset policy %d", ErrInvalidConfig, c.ResetPolicy)
	}
	return nil
}

// Input is the producer-side port sampled by one Tick.
type Input struct {
	// Valid asserts that Data, Channel and FrameEnd carry a sample offer.
	Valid bool

	// Data is the 16-bit input sample.
	Data int16

	// Channel tags the sample with its stream, 0 <= Channel < Channels.
	Channel int

	// FrameEnd marks the last sample of an application-level frame. It is
	// carried through unchanged and re-attached to the matching output.
	FrameEnd bool
}

// Output is one retired sample with its re-attached channel tag and frame
// marker.
type Output struct {
	Data     int16
	Channel  int
	FrameEnd bool
}

// Result reports the port state observed during one Tick.
type Result struct {
	// Out holds the output register content; meaningful when OutValid.
	Out Output

	// OutValid reports whether the output register held a sample at the
	// start of the tick.
	OutValid bool

	// InReady reports whether the engine was able to accept input this
	// tick.
	InReady bool

	// Accepted reports whether the offered input transferred.
	Accepted bool
}

// Engine is a multi-channel fixed-point FIR filtering engine. All state
// advances inside Tick; methods must be serialized by the caller.
type Engine struct {
	core     *engine.Core
	taps     int
	channels int
}

// New creates an engine from the configuration. When config.Coefficients
// is nil a Kaiser-window lowpass half-table is designed and loaded.
func New(config *Config) (*Engine, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	half := config.Coefficients
	if half == nil {
		var err error
		half, err = coeff.DesignLowpassHalf(coeff.DesignParams{
			Taps:          config.Taps,
			CutoffRatio:   config.CutoffRatio,
			AttenuationDB: config.StopbandAttenuationDB,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	} else {
		half = append([]int16(nil), half...)
	}

	return &Engine{
		core: engine.NewCore(engine.Config{
			Taps:          config.Taps,
			Channels:      config.Channels,
			Half:          half,
			ReloadOnReset: config.ResetPolicy == ResetReloadsCoefficients,
		}),
		taps:     config.Taps,
		channels: config.Channels,
	}, nil
}

// Tick advances the engine by one discrete step.
//
// in offers at most one sample; outReady is the consumer's ready flag. The
// returned Result reflects the output register as of the start of the tick,
// so a sample accepted on tick t first appears on tick t+Latency. Inputs
// with an out-of-range channel tag are refused without any state change.
func (e *Engine) Tick(in Input, outReady bool) Result {
	res := e.core.Tick(engine.Input{
		Valid:    in.Valid,
		Data:     in.Data,
		Channel:  in.Channel,
		FrameEnd: in.FrameEnd,
	}, outReady)

	return Result{
		Out: Output{
			Data:     res.Out.Data,
			Channel:  res.Out.Channel,
			FrameEnd: res.Out.FrameEnd,
		},
		OutValid: res.OutValid,
		InReady:  res.InReady,
		Accepted: res.Accepted,
	}
}

// Latency returns the fixed acceptance-to-output latency of the filtering
// path in ticks.
func (e *Engine) Latency() int {
	return e.core.Latency()
}

// Taps returns the configured filter order.
func (e *Engine) Taps() int {
	return e.taps
}

// Channels returns the configured channel count.
func (e *Engine) Channels() int {
	return e.channels
}

// WriteCoefficient latches a write to half-table entry addr. The write
// takes effect at the next tick boundary, applies to all channels, and
// never alters samples already in flight.
func (e *Engine) WriteCoefficient(addr int, value int16) error {
	if err := e.core.WriteCoefficient(addr, value); err != nil {
		return fmt.Errorf("%w: address %d, table holds %d entries",
			ErrBadAddress, addr, e.taps/2)
	}
	return nil
}

// Coefficient returns the live half-table entry at addr.
func (e *Engine) Coefficient(addr int) (int16, error) {
	if addr < 0 || addr >= e.taps/2 {
		return 0, fmt.Errorf("%w: address %d, table holds %d entries",
			ErrBadAddress, addr, e.taps/2)
	}
	return e.core.Coefficient(addr), nil
}

// Coefficients returns a copy of the live half-table.
func (e *Engine) Coefficients() []int16 {
	return e.core.Coefficients()
}

// SetBypass switches the pass-through path. Enabling bypass lets samples
// already in the datapath drain first; new input is refused until they
// retire.
func (e *Engine) SetBypass(enabled bool) {
	e.core.SetBypass(enabled)
}

// Bypass reports whether the pass-through path is active.
func (e *Engine) Bypass() bool {
	return e.core.Bypass()
}

// Busy reports whether the output register holds an unconsumed sample.
func (e *Engine) Busy() bool {
	return e.core.Busy()
}

// Overflow reports the saturation flag for a channel. The flag is set when
// a result for the channel clamps and clears when the next result does not.
func (e *Engine) Overflow(channel int) (bool, error) {
	if channel < 0 || channel >= e.channels {
		return false, fmt.Errorf("%w: channel %d of %d", ErrBadChannel, channel, e.channels)
	}
	return e.core.Overflow(channel), nil
}

// OverflowFlags returns a copy of all per-channel saturation flags.
func (e *Engine) OverflowFlags() []bool {
	return e.core.OverflowFlags()
}

// SampleCount returns the number of accepted input samples since the last
// reset, wrapping at 32 bits. Bypassed samples count too.
func (e *Engine) SampleCount() uint32 {
	return e.core.SampleCount()
}

// Reset clears histories, in-flight samples, overflow flags, the sample
// counter and the handshake state. Coefficient behavior follows the
// configured ResetPolicy. The bypass switch is caller-owned state and is
// not reset.
func (e *Engine) Reset() {
	e.core.Reset()
}
