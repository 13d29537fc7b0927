// Package engine implements the shared time-multiplexed filtering datapath:
// per-channel history, the symmetric multiply-reduce pipeline, and the
// valid/ready handshake that gates it.
package engine

// historyBank holds one independent circular sample history per channel,
// backed by a single arena indexed by channel id. Each history stores the
// N most recently accepted samples for that channel, newest first.
type historyBank struct {
	taps     int
	channels int
	data     []int16
	pos      []int // next-newest slot per channel, counts down
}

func newHistoryBank(channels, taps int) *historyBank {
	return &historyBank{
		taps:     taps,
		channels: channels,
		data:     make([]int16, channels*taps),
		pos:      make([]int, channels),
	}
}

// push makes v the newest history entry for channel ch, discarding the
// oldest. Histories of other channels are untouched.
func (b *historyBank) push(ch int, v int16) {
	p := b.pos[ch] - 1
	if p < 0 {
		p = b.taps - 1
	}
	b.pos[ch] = p
	b.data[ch*b.taps+p] = v
}

// at returns history entry k for channel ch, where k=0 is the newest.
func (b *historyBank) at(ch, k int) int16 {
	idx := b.pos[ch] + k
	if idx >= b.taps {
		idx -= b.taps
	}
	return b.data[ch*b.taps+idx]
}

// pairSums writes the symmetric pair sums for channel ch into dst:
// dst[i] = history[i] + history[N-1-i]. Pair sums occupy W+1 bits, which
// int64 holds trivially; widths only matter again at the output rescale.
func (b *historyBank) pairSums(ch int, dst []int64) {
	half := b.taps / 2
	for i := 0; i < half; i++ {
		dst[i] = int64(b.at(ch, i)) + int64(b.at(ch, b.taps-1-i))
	}
}

// reset zeroes every channel's history.
func (b *historyBank) reset() {
	clear(b.data)
	clear(b.pos)
}
