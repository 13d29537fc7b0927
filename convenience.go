package firengine

// NewLowpass creates an engine with a Kaiser-window lowpass response.
// cutoffRatio is the cutoff as a fraction of the sample rate, in (0, 0.5).
func NewLowpass(taps, channels int, cutoffRatio float64) (*Engine, error) {
	return New(&Config{
		Taps:        taps,
		Channels:    channels,
		CutoffRatio: cutoffRatio,
	})
}

// FilterChannel filters a single block of samples through a fresh engine,
// driving the stream ports internally with an always-ready consumer. The
// output has the same length as the input; the fixed engine latency is
// absorbed by flushing with zero-valued ticks.
func FilterChannel(samples []int16, config *Config) ([]int16, error) {
	if config == nil {
		config = &Config{}
	}
	eng, err := New(config)
	if err != nil {
		return nil, err
	}

	out := make([]int16, 0, len(samples))
	next := 0
	for len(out) < len(samples) {
		var in Input
		if next < len(samples) {
			in = Input{Valid: true, Data: samples[next]}
		}
		res := eng.Tick(in, true)
		if res.Accepted {
			next++
		}
		if res.OutValid {
			out = append(out, res.Out.Data)
		}
	}
	return out, nil
}

// FilterFrames filters one frame per channel through a fresh engine,
// interleaving the channels round-robin over the shared datapath. The last
// sample of each channel's frame carries the frame-end marker. Frames may
// differ in length; each output frame matches its input frame.
func FilterFrames(frames [][]int16, config *Config) ([][]int16, error) {
	if config == nil {
		config = &Config{}
	}
	cfg := *config
	cfg.Channels = len(frames)
	eng, err := New(&cfg)
	if err != nil {
		return nil, err
	}

	out := make([][]int16, len(frames))
	total, emitted := 0, 0
	pos := make([]int, len(frames))
	for ch, f := range frames {
		out[ch] = make([]int16, 0, len(f))
		total += len(f)
	}

	feed := 0
	for emitted < total {
		// Round-robin over channels that still have samples to offer.
		var in Input
		for range len(frames) {
			ch := feed
			feed = (feed + 1) % len(frames)
			if pos[ch] < len(frames[ch]) {
				in = Input{
					Valid:    true,
					Data:     frames[ch][pos[ch]],
					Channel:  ch,
					FrameEnd: pos[ch] == len(frames[ch])-1,
				}
				break
			}
		}

		res := eng.Tick(in, true)
		if res.Accepted {
			pos[in.Channel]++
		}
		if res.OutValid {
			out[res.Out.Channel] = append(out[res.Out.Channel], res.Out.Data)
			emitted++
		}
	}
	return out, nil
}

// Interleave converts per-channel sample slices to interleaved frame order
// [c0s0, c1s0, ..., c0s1, c1s1, ...], truncating to the shortest channel.
func Interleave(channels [][]int16) []int16 {
	if len(channels) == 0 {
		return nil
	}
	frames := len(channels[0])
	for _, ch := range channels[1:] {
		frames = min(frames, len(ch))
	}

	out := make([]int16, 0, frames*len(channels))
	for i := range frames {
		for _, ch := range channels {
			out = append(out, ch[i])
		}
	}
	return out
}

// Deinterleave converts interleaved samples back to per-channel slices.
// Trailing samples of an incomplete frame are dropped.
func Deinterleave(data []int16, channels int) [][]int16 {
	if channels < 1 {
		return nil
	}
	frames := len(data) / channels

	out := make([][]int16, channels)
	for ch := range out {
		out[ch] = make([]int16, frames)
		for i := range frames {
			out[ch][i] = data[i*channels+ch]
		}
	}
	return out
}
