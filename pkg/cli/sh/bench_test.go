package sh

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/rcrx/pkg/rx"
)

func TestParseHex(t *testing.T) {
	testCases := []struct {
		args []string
		data []byte
	}{
		{[]string{"00", "00", "0a"}, []byte{0, 0, 0x0a}},
		{[]string{"00000a"}, []byte{0, 0, 0x0a}},
		{[]string{"0x1f,0x20"}, []byte{0x1f, 0x20}},
		{[]string{"de:ad"}, []byte{0xde, 0xad}},
		{nil, []byte{}},
	}
	for _, tc := range testCases {
		data, err := ParseHex(tc.args)
		require.NoError(t, err, tc.args)
		assert.Equal(t, tc.data, data, tc.args)
	}
	_, err := ParseHex([]string{"0g"})
	assert.Error(t, err)
	_, err = ParseHex([]string{"000"})
	assert.Error(t, err)
}

func TestParseFrame(t *testing.T) {
	data, err := ParseFrame([]string{"1", "1000", "12=1810"})
	require.NoError(t, err)
	require.Len(t, data, rx.FrameSize)

	var pl rx.Payload
	copy(pl[:], data[2:])
	hf := pl.Decode()
	assert.Equal(t, rx.MessageSecondHalf, hf.ID)
	assert.Equal(t, rx.ChannelWord{Channel: 7, Pulse: 1000}, hf.Words[0])
	assert.Equal(t, rx.ChannelWord{Channel: 12, Pulse: 1810}, hf.Words[1])
	assert.Equal(t, rx.ChannelWord{Channel: 13, Pulse: rx.PulseMid - 1}, hf.Words[2])
	assert.False(t, hf.Valid())

	for _, args := range [][]string{
		nil,
		{"2"},
		{"x"},
		{"0", "1", "2", "3", "4", "5", "6", "7"},
		{"0", "abc"},
		{"0", "40=1000"},
		{"0", "5000"},
	} {
		_, err := ParseFrame(args)
		assert.Error(t, err, args)
	}
}

func TestBenchFeedCycle(t *testing.T) {
	var out bytes.Buffer
	b := NewBench(&out)

	first, err := ParseFrame([]string{"0", "1810"})
	require.NoError(t, err)
	second, err := ParseFrame([]string{"1"})
	require.NoError(t, err)

	require.NoError(t, b.Feed(first))
	assert.Empty(t, out.String())
	require.NoError(t, b.Feed(second))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 1+rx.NumChannels)
	assert.Equal(t, "cycle 1", lines[0])
	assert.Equal(t, " 0 1810 +1.000", lines[1])
	assert.False(t, b.Decoder.Ready())

	out.Reset()
	require.NoError(t, b.PrintStats())
	assert.Contains(t, out.String(), "sync=idle pending=0 ready=false")

	b.Reset()
	assert.Equal(t, rx.Stats{}, b.Decoder.Stats())
}

func TestBenchJSON(t *testing.T) {
	var out bytes.Buffer
	b := NewBench(&out)
	b.OutputJSON = true

	first, err := ParseFrame([]string{"0", "172"})
	require.NoError(t, err)
	second, err := ParseFrame([]string{"1"})
	require.NoError(t, err)
	require.NoError(t, b.Feed(append(first, second...)))

	var res ChannelsOutput
	require.NoError(t, json.Unmarshal(out.Bytes(), &res))
	assert.Equal(t, uint64(1), res.Cycle)
	require.Len(t, res.Values, rx.NumChannels)
	require.Len(t, res.Raw, rx.NumChannels)
	assert.Equal(t, uint16(172), res.Raw[0])
	assert.Equal(t, rx.Normalize(172), res.Values[0])

	out.Reset()
	require.NoError(t, b.PrintRaw())
	var raw []uint16
	require.NoError(t, json.Unmarshal(out.Bytes(), &raw))
	assert.Equal(t, res.Raw, raw)
}
