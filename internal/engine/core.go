package engine

import (
	"github.com/tphakala/go-fir-engine/internal/coeff"
)

// Config carries the validated engine parameters. Validation happens in the
// public package; the core trusts its inputs.
type Config struct {
	// Taps is the filter order N (even).
	Taps int

	// Channels is the number of independently tagged streams C.
	Channels int

	// Half is the initial coefficient half-table, length Taps/2.
	Half []int16

	// ReloadOnReset selects whether Reset restores Half or retains
	// runtime-written coefficients.
	ReloadOnReset bool
}

// Input is the producer-side port sampled each tick.
type Input struct {
	Valid    bool
	Data     int16
	Channel  int
	FrameEnd bool
}

// Output is one retired filtered (or bypassed) sample with its re-attached
// channel tag and frame marker.
type Output struct {
	Data     int16
	Channel  int
	FrameEnd bool
}

// Result reports the port state observed during one tick: the output
// register content as of the start of the tick, whether the engine asserted
// input-ready, and whether the offered input transferred.
type Result struct {
	Out      Output
	OutValid bool
	InReady  bool
	Accepted bool
}

// outputRegister is the handshake holding register. It keeps its value
// stable until the consumer asserts ready.
type outputRegister struct {
	valid bool
	out   Output
}

// Core is the tick-driven filtering engine. All state advances atomically
// inside Tick; there is no internal concurrency, which is what guarantees
// FIFO retirement across arbitrary channel interleavings.
type Core struct {
	taps     int
	channels int

	store *coeff.Store
	bank  *historyBank
	pipe  *slotPipeline

	outReg   outputRegister
	bypass   bool
	overflow []bool
	samples  uint32
}

// NewCore builds the engine core.
func NewCore(cfg Config) *Core {
	pairCount := cfg.Taps / 2
	return &Core{
		taps:     cfg.Taps,
		channels: cfg.Channels,
		store:    coeff.NewStore(cfg.Half, cfg.ReloadOnReset),
		bank:     newHistoryBank(cfg.Channels, cfg.Taps),
		pipe:     newSlotPipeline(pairCount, treeDepth(pairCount)),
		overflow: make([]bool, cfg.Channels),
	}
}

// Latency returns the fixed acceptance-to-output latency L in ticks for the
// filtering path: the pipeline slots plus the output holding register.
func (c *Core) Latency() int {
	return c.pipe.depth() + 1
}

// Tick advances the engine by one discrete step.
//
// The returned Result reflects the registered output as observable during
// this tick; a transfer occurs on either side exactly when valid and ready
// coincide. Input-ready is asserted only when the output register is empty
// or the consumer is draining it this tick, so a stalled consumer
// backpressures acceptance without ever dropping an in-flight record.
func (c *Core) Tick(in Input, outReady bool) Result {
	// Latched coefficient writes land atomically at the tick boundary,
	// before any sample can be accepted on this tick.
	c.store.Apply()

	outTransfer := c.outReg.valid && outReady
	advance := !c.outReg.valid || outTransfer

	inReady := advance
	if c.bypass {
		// The bypass path may not overtake filtered records still in
		// flight; acceptance resumes once the datapath has drained.
		inReady = advance && c.pipe.empty()
	}

	accepted := inReady && in.Valid && in.Channel >= 0 && in.Channel < c.channels

	res := Result{
		Out:      c.outReg.out,
		OutValid: c.outReg.valid,
		InReady:  inReady,
		Accepted: accepted,
	}

	if outTransfer {
		c.outReg.valid = false
	}
	if accepted {
		c.samples++
	}

	if c.bypass {
		if advance && !c.pipe.empty() {
			c.advanceDatapath(Input{})
		}
		if accepted {
			c.outReg = outputRegister{
				valid: true,
				out:   Output{Data: in.Data, Channel: in.Channel, FrameEnd: in.FrameEnd},
			}
		}
		return res
	}

	if advance {
		if accepted {
			c.advanceDatapath(in)
		} else {
			c.advanceDatapath(Input{})
		}
	}
	return res
}

// advanceDatapath shifts the pipeline one position, retiring the final slot
// into the output register and, when in carries an accepted sample, pushing
// it into its channel history and launching its partial products.
func (c *Core) advanceDatapath(in Input) {
	retired, buf := c.pipe.shift()
	if retired.valid {
		c.outReg = outputRegister{
			valid: true,
			out:   Output{Data: retired.result, Channel: retired.channel, FrameEnd: retired.frameEnd},
		}
		c.overflow[retired.channel] = retired.clamped
	}

	if in.Valid {
		c.bank.push(in.Channel, in.Data)
		pairCount := c.taps / 2
		c.bank.pairSums(in.Channel, buf[:pairCount])
		products(buf[:pairCount], c.store)
		c.pipe.insert(in.Channel, in.FrameEnd, buf, pairCount)
	} else {
		c.pipe.bubble(buf)
	}

	c.pipe.step()
}

// WriteCoefficient latches a configuration write; it takes effect at the
// next tick and applies uniformly to all channels from that point on.
func (c *Core) WriteCoefficient(addr int, value int16) error {
	return c.store.Queue(addr, value)
}

// Coefficient returns the live coefficient at pair index addr.
func (c *Core) Coefficient(addr int) int16 {
	return c.store.At(addr)
}

// Coefficients returns a copy of the live half-table.
func (c *Core) Coefficients() []int16 {
	return c.store.Snapshot()
}

// SetBypass switches the pass-through path. The flag is honored on the
// following ticks; samples already in the datapath drain normally first.
func (c *Core) SetBypass(enabled bool) {
	c.bypass = enabled
}

// Bypass reports whether the pass-through path is active.
func (c *Core) Bypass() bool {
	return c.bypass
}

// Busy reports whether the output register holds unconsumed data.
func (c *Core) Busy() bool {
	return c.outReg.valid
}

// Overflow reports the set-until-next-result saturation flag for a channel.
func (c *Core) Overflow(channel int) bool {
	return c.overflow[channel]
}

// OverflowFlags returns a copy of all per-channel overflow flags.
func (c *Core) OverflowFlags() []bool {
	out := make([]bool, len(c.overflow))
	copy(out, c.overflow)
	return out
}

// SampleCount returns the number of accepted input transfers since reset,
// wrapping at 32 bits.
func (c *Core) SampleCount() uint32 {
	return c.samples
}

// History returns history entry k (0 = newest) for a channel. Exposed for
// verification; the datapath reads histories only through pairSums.
func (c *Core) History(channel, k int) int16 {
	return c.bank.at(channel, k)
}

// Reset zeroes histories, in-flight records, overflow flags, the sample
// counter and the handshake state. Coefficient behavior follows the
// configured reset policy; the bypass control input is external state and
// is left as set.
func (c *Core) Reset() {
	c.bank.reset()
	c.pipe.reset()
	c.outReg = outputRegister{}
	clear(c.overflow)
	c.samples = 0
	c.store.Reset()
}
