package rx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func halfFrame(id MessageID, firstChannel int, pulses ...uint16) *HalfFrame {
	hf := &HalfFrame{ID: id}
	for n := range hf.Words {
		pulse := uint16(PulseMid)
		if n < len(pulses) {
			pulse = pulses[n]
		}
		hf.Words[n] = ChannelWord{Channel: firstChannel + n, Pulse: pulse}
	}
	return hf
}

func TestNormalize(t *testing.T) {
	require.Equal(t, 0.0, Normalize(PulseMid))
	require.InDelta(t, 1.0, Normalize(PulseMid+PulseSpan), 1e-12)
	require.InDelta(t, -1.0, Normalize(PulseMid-PulseSpan), 1e-12)
	require.InDelta(t, -991.0/819.0, Normalize(0), 1e-12)
}

func TestChannelStoreMidCycle(t *testing.T) {
	var s ChannelStore
	require.False(t, s.Apply(halfFrame(MessageFirstHalf, 0)))
	require.False(t, s.Ready())
	require.Equal(t, 7, s.Updated())

	require.True(t, s.Apply(halfFrame(MessageSecondHalf, 7)))
	require.True(t, s.Ready())
	require.Equal(t, 14, s.Updated())
	for n, v := range s.Channels() {
		require.Equalf(t, 0.0, v, "channel %d", n)
	}
}

func TestChannelStoreMissingChannels(t *testing.T) {
	var s ChannelStore
	for n, v := range s.Channels() {
		require.InDeltaf(t, -991.0/819.0, v, 1e-12, "channel %d", n)
	}

	// both halves carry channels 0..6.
	s.Apply(halfFrame(MessageFirstHalf, 0))
	require.True(t, s.Apply(halfFrame(MessageSecondHalf, 0, 1810)))
	ch := s.Channels()
	require.InDelta(t, 1.0, ch[0], 1e-12)
	for n := 1; n < 7; n++ {
		require.Equal(t, 0.0, ch[n])
	}
	for n := 7; n < NumChannels; n++ {
		require.InDelta(t, -991.0/819.0, ch[n], 1e-12)
	}
}

func TestChannelStoreInvalidHalfFrame(t *testing.T) {
	var s ChannelStore
	s.Apply(halfFrame(MessageFirstHalf, 0, 500))
	s.Apply(halfFrame(MessageSecondHalf, 7, 600))
	s.Clear()
	committed := s.Raw()

	for _, pulse := range []uint16{PulseMin - 1, PulseMax + 1} {
		require.False(t, s.Apply(halfFrame(MessageFirstHalf, 0, 1000, 1000, 1000, pulse)))
		require.Equal(t, 0, s.Updated())
		require.Equal(t, committed, s.Raw())
	}

	hf := halfFrame(MessageFirstHalf, 0)
	hf.Words[6].Channel = NumChannels
	require.False(t, s.Apply(hf))
	require.Equal(t, 0, s.Updated())
	require.Equal(t, committed, s.Raw())

	// a second half after an invalid half-frame cannot complete a cycle.
	require.False(t, s.Apply(halfFrame(MessageSecondHalf, 7)))
	require.Equal(t, 7, s.Updated())
	require.False(t, s.Ready())
}

func TestChannelStoreRepeatedHalves(t *testing.T) {
	var s ChannelStore
	s.Apply(halfFrame(MessageFirstHalf, 0))
	s.Apply(halfFrame(MessageFirstHalf, 0, 1200))
	require.Equal(t, 7, s.Updated())
	require.Equal(t, uint16(1200), s.Raw()[0])

	require.True(t, s.Apply(halfFrame(MessageSecondHalf, 7)))
	s.Clear()

	// consecutive second halves overshoot and never complete.
	require.False(t, s.Apply(halfFrame(MessageSecondHalf, 7)))
	require.Equal(t, 21, s.Updated())
	require.False(t, s.Apply(halfFrame(MessageSecondHalf, 7)))
	require.Equal(t, 28, s.Updated())
	require.False(t, s.Ready())

	require.False(t, s.Apply(halfFrame(MessageFirstHalf, 0)))
	require.True(t, s.Apply(halfFrame(MessageSecondHalf, 7)))
}

func TestChannelStoreClear(t *testing.T) {
	var s ChannelStore
	s.Apply(halfFrame(MessageFirstHalf, 0, 1810))
	s.Apply(halfFrame(MessageSecondHalf, 7, 172))
	before := s.Channels()
	s.Clear()
	require.False(t, s.Ready())
	require.Equal(t, 14, s.Updated())
	require.Equal(t, before, s.Channels())
}
