package rx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// testFrame encodes a frame carrying channels firstChannel.. with pulses,
// defaulting to 1000.
func testFrame(id MessageID, firstChannel int, pulses ...uint16) []byte {
	var words [WordsPerPayload]ChannelWord
	for n := range words {
		pulse := uint16(1000)
		if n < len(pulses) {
			pulse = pulses[n]
		}
		words[n] = ChannelWord{Channel: firstChannel + n, Pulse: pulse}
	}
	return EncodeFrame(id, words)
}

func concat(parts ...[]byte) []byte {
	var b []byte
	for _, p := range parts {
		b = append(b, p...)
	}
	return b
}

func TestDecoderFullCycle(t *testing.T) {
	d := NewDecoder()
	ch, ok := d.CheckForNewMessages(testFrame(MessageFirstHalf, 0, 172, 400, 992, 1200, 1810, 990, 1000))
	require.False(t, ok)
	require.Equal(t, Channels{}, ch)

	ch, ok = d.CheckForNewMessages(testFrame(MessageSecondHalf, 7, 1810, 1810, 1810, 1810, 1810, 1810, 172))
	require.True(t, ok)
	expected := []uint16{172, 400, 992, 1200, 1810, 990, 1000, 1810, 1810, 1810, 1810, 1810, 1810, 172}
	for n, raw := range expected {
		require.InDeltaf(t, (float64(raw)-991)/819, ch[n], 1e-12, "channel %d", n)
		require.Equal(t, raw, d.RawChannels()[n])
	}
	require.Equal(t, ch, d.Channels())
	require.Zero(t, d.Pending())
}

func TestDecoderNeutralCycle(t *testing.T) {
	d := NewDecoder()
	_, ok := d.CheckForNewMessages(testFrame(MessageFirstHalf, 0, 992, 992, 992, 992, 992, 992, 992))
	require.False(t, ok)
	ch, ok := d.CheckForNewMessages(testFrame(MessageSecondHalf, 7, 992, 992, 992, 992, 992, 992, 992))
	require.True(t, ok)
	for n, v := range ch {
		require.InDeltaf(t, 1.0/819, v, 1e-12, "channel %d", n)
	}
}

func TestDecoderFirstHalfOnly(t *testing.T) {
	d := NewDecoder()
	frame := testFrame(MessageFirstHalf, 0)
	for i := 0; i < 3; i++ {
		_, ok := d.CheckForNewMessages(frame)
		require.False(t, ok)
	}
	require.False(t, d.Ready())
}

func TestDecoderOutOfRange(t *testing.T) {
	testCases := []struct {
		name  string
		first []byte
	}{
		{"below minimum", testFrame(MessageFirstHalf, 0, 1000, 1000, 170)},
		{"above maximum", testFrame(MessageFirstHalf, 0, 1000, 1812)},
		{"channel id out of range", testFrame(MessageFirstHalf, 8)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDecoder()
			_, ok := d.CheckForNewMessages(tc.first)
			require.False(t, ok)
			require.Equal(t, RawChannels{}, d.RawChannels())
			require.Equal(t, uint64(1), d.Stats().InvalidHalfFrames)

			_, ok = d.CheckForNewMessages(testFrame(MessageSecondHalf, 7))
			require.False(t, ok)
		})
	}
}

func TestDecoderLeadingGarbage(t *testing.T) {
	d := NewDecoder()
	in := concat([]byte{0x05}, testFrame(MessageFirstHalf, 0), []byte{0x05, 0x00, 0x07}, testFrame(MessageSecondHalf, 7))
	_, ok := d.CheckForNewMessages(in)
	require.True(t, ok)
	stats := d.Stats()
	require.Equal(t, uint64(len(in)), stats.Bytes)
	require.Equal(t, uint64(1), stats.SyncLosses)
	require.Equal(t, uint64(2), stats.Payloads)
	require.Equal(t, uint64(1), stats.Cycles)
}

func TestDecoderTruncatedFrame(t *testing.T) {
	d := NewDecoder()
	// a sync marker inside a truncated frame is swallowed as payload.
	truncated := testFrame(MessageFirstHalf, 0)[:10]
	in := concat(truncated, testFrame(MessageFirstHalf, 0), testFrame(MessageSecondHalf, 7), testFrame(MessageFirstHalf, 0), testFrame(MessageSecondHalf, 7))
	_, ok := d.CheckForNewMessages(in)
	require.True(t, ok)
}

func TestDecoderClearKeepsValues(t *testing.T) {
	d := NewDecoder()
	_, ok := d.CheckForNewMessages(concat(testFrame(MessageFirstHalf, 0, 1500), testFrame(MessageSecondHalf, 7)))
	require.True(t, ok)
	committed := d.Channels()

	d.Clear()
	require.False(t, d.Ready())
	_, ok = d.CheckForNewMessages(nil)
	require.False(t, ok)
	require.Equal(t, committed, d.Channels())

	// an invalid half-frame does not touch committed values.
	_, ok = d.CheckForNewMessages(testFrame(MessageFirstHalf, 0, 1812))
	require.False(t, ok)
	require.Equal(t, committed, d.Channels())
}

func TestDecoderLatchedReady(t *testing.T) {
	d := NewDecoder()
	ch, ok := d.CheckForNewMessages(concat(testFrame(MessageFirstHalf, 0), testFrame(MessageSecondHalf, 7)))
	require.True(t, ok)

	again, ok := d.CheckForNewMessages([]byte{0x01, 0x02})
	require.True(t, ok)
	require.Equal(t, ch, again)
}

func TestDecoderCarry(t *testing.T) {
	d := NewDecoder()
	cycle1 := concat(testFrame(MessageFirstHalf, 0, 500), testFrame(MessageSecondHalf, 7))
	cycle2 := concat(testFrame(MessageFirstHalf, 0, 1500), testFrame(MessageSecondHalf, 7))

	ch, ok := d.CheckForNewMessages(concat(cycle1, cycle2, []byte{SyncByte}))
	require.True(t, ok)
	require.Equal(t, Normalize(500), ch[0])
	require.Equal(t, len(cycle2)+1, d.Pending())
	require.Equal(t, SyncStateIdle, d.SyncState())

	d.Clear()
	ch, ok = d.CheckForNewMessages(nil)
	require.True(t, ok)
	require.Equal(t, Normalize(1500), ch[0])
	require.Equal(t, 1, d.Pending())

	d.Clear()
	_, ok = d.CheckForNewMessages([]byte{SyncByte})
	require.False(t, ok)
	require.Zero(t, d.Pending())
	require.Equal(t, SyncStatePayload, d.SyncState())
}

func TestDecoderFragmented(t *testing.T) {
	d := NewDecoder()
	in := concat([]byte{0x05}, testFrame(MessageFirstHalf, 0, 1700), testFrame(MessageSecondHalf, 7))
	var got bool
	for n, b := range in {
		_, ok := d.CheckForNewMessages([]byte{b})
		if n+1 < len(in) {
			require.Falsef(t, ok, "byte %d", n)
		}
		got = ok
	}
	require.True(t, got)
	require.Equal(t, uint16(1700), d.RawChannels()[0])
}

func TestDecoderReset(t *testing.T) {
	d := NewDecoder()
	d.CheckForNewMessages(concat(testFrame(MessageFirstHalf, 0), testFrame(MessageSecondHalf, 7), []byte{0x00, 0x00, 0x01}))
	require.True(t, d.Ready())
	d.Reset()
	require.False(t, d.Ready())
	require.Zero(t, d.Pending())
	require.Equal(t, Stats{}, d.Stats())
	require.Equal(t, RawChannels{}, d.RawChannels())
	require.Equal(t, SyncStateIdle, d.SyncState())
}
