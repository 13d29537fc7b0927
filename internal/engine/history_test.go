package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	historyTestTaps     = 8
	historyTestChannels = 3
	historyRandomPushes = 1000
	historyTestSeed     = 42
)

func TestHistoryBank_NewestFirst(t *testing.T) {
	b := newHistoryBank(1, historyTestTaps)

	for v := int16(1); v <= 3; v++ {
		b.push(0, v)
	}

	assert.Equal(t, int16(3), b.at(0, 0))
	assert.Equal(t, int16(2), b.at(0, 1))
	assert.Equal(t, int16(1), b.at(0, 2))
	assert.Equal(t, int16(0), b.at(0, 3), "unwritten history reads zero")
}

func TestHistoryBank_OldestDiscarded(t *testing.T) {
	b := newHistoryBank(1, historyTestTaps)

	for v := int16(1); v <= historyTestTaps+2; v++ {
		b.push(0, v)
	}

	for k := 0; k < historyTestTaps; k++ {
		assert.Equal(t, int16(historyTestTaps+2-k), b.at(0, k), "entry %d", k)
	}
}

// TestHistoryBank_ChannelIsolation pushes a random interleaving across all
// channels and checks each history against a per-channel shadow copy.
func TestHistoryBank_ChannelIsolation(t *testing.T) {
	b := newHistoryBank(historyTestChannels, historyTestTaps)
	rng := rand.New(rand.NewSource(historyTestSeed))

	shadow := make([][]int16, historyTestChannels)
	for ch := range shadow {
		shadow[ch] = make([]int16, historyTestTaps)
	}

	for range historyRandomPushes {
		ch := rng.Intn(historyTestChannels)
		v := int16(rng.Intn(65536) - 32768)

		b.push(ch, v)
		copy(shadow[ch][1:], shadow[ch][:historyTestTaps-1])
		shadow[ch][0] = v
	}

	for ch := range historyTestChannels {
		for k := range historyTestTaps {
			require.Equal(t, shadow[ch][k], b.at(ch, k), "channel %d entry %d", ch, k)
		}
	}
}

func TestHistoryBank_PairSums(t *testing.T) {
	b := newHistoryBank(1, historyTestTaps)
	for v := int16(10); v < 10+historyTestTaps; v++ {
		b.push(0, v)
	}

	dst := make([]int64, historyTestTaps/2)
	b.pairSums(0, dst)

	for i := range dst {
		want := int64(b.at(0, i)) + int64(b.at(0, historyTestTaps-1-i))
		assert.Equal(t, want, dst[i], "pair %d", i)
	}
}

func TestHistoryBank_PairSumWidth(t *testing.T) {
	// Two extreme samples must sum without wrapping (W+1 bit result).
	b := newHistoryBank(1, 2)
	b.push(0, -32768)
	b.push(0, -32768)

	dst := make([]int64, 1)
	b.pairSums(0, dst)
	assert.Equal(t, int64(-65536), dst[0])
}

func TestHistoryBank_Reset(t *testing.T) {
	b := newHistoryBank(historyTestChannels, historyTestTaps)
	for ch := range historyTestChannels {
		b.push(ch, 99)
	}

	b.reset()

	for ch := range historyTestChannels {
		for k := range historyTestTaps {
			require.Zero(t, b.at(ch, k), "channel %d entry %d", ch, k)
		}
	}
}
