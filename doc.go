// Package firengine provides a fixed-point, multi-channel FIR filtering
// engine in pure Go.
//
// The engine models a time-multiplexed streaming filter core: many
// independent channels share one arithmetic datapath, each input sample
// carries a channel tag, and filtered samples emerge in exactly the order
// their inputs were accepted with the original tag and frame marker
// re-attached. Samples are 16-bit signed integers and coefficients are Q15
// fixed point, so results are bit-exact and reproducible across platforms.
//
// # Features
//
//   - Symmetric (linear-phase) FIR filtering with a half-size coefficient
//     table; symmetric history pairs are summed before multiplication
//   - Time multiplexing of up to 256 channels over one datapath, with fully
//     isolated per-channel sample histories
//   - Fixed per-sample latency derived from the tap count, with a binary
//     reduction tree collapsing partial products level by level
//   - Q15 scaling with round-half-up and saturation to the 16-bit range,
//     with a per-channel sticky-until-next-result overflow flag
//   - Valid/ready handshake on both ports: a stalled consumer freezes the
//     engine without dropping or reordering in-flight samples
//   - Live coefficient reconfiguration: writes latch at tick boundaries and
//     never disturb samples already in flight
//   - A bypass path that passes tagged samples through unfiltered after the
//     datapath drains
//   - Kaiser-window lowpass design for default coefficient tables
//
// # Quick Start
//
// For one-shot block filtering of a single channel:
//
//	out, err := firengine.FilterChannel(samples, &firengine.Config{Taps: 32})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For tick-level streaming with explicit handshake control:
//
//	eng, err := firengine.New(&firengine.Config{
//	    Taps:     32,
//	    Channels: 4,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, s := range samples {
//	    res := eng.Tick(firengine.Input{Valid: true, Data: s, Channel: 0}, true)
//	    if res.OutValid {
//	        consume(res.Out)
//	    }
//	}
//
// # Tick Semantics
//
// [Engine.Tick] advances the engine by one discrete step, the software
// equivalent of one clock cycle. Each call offers at most one input sample
// and one consumer ready flag; the returned [Result] reports the output
// port as observable during that tick and whether the offered input was
// accepted. A transfer happens on a port exactly when valid and ready
// coincide on the same tick. When the consumer withholds ready the pending
// output is held stable, input-ready deasserts, and nothing in flight is
// lost.
//
// The acceptance-to-output latency is fixed and exposed via
// [Engine.Latency]; for the default 32 taps it is 11 ticks. The bypass
// path has a latency of one tick.
//
// # Coefficients
//
// Coefficient tables hold Taps/2 entries; entry i multiplies the sum of
// history samples i and Taps-1-i, which realizes a symmetric impulse
// response at half the multiply count. Tables may be seeded explicitly via
// [Config.Coefficients] or designed automatically as a Kaiser-window
// lowpass from [Config.CutoffRatio] and [Config.StopbandAttenuationDB].
// Runtime writes via [Engine.WriteCoefficient] apply to all channels and
// take effect on the next accepted sample.
//
// # Thread Safety
//
// An [Engine] is a single sequential state machine: all methods must be
// serialized by the caller. Independent Engine instances are unrelated and
// may be used concurrently.
package firengine
