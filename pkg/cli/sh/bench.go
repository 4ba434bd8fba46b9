package sh

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robotalks/rcrx/pkg/rx"
)

// Bench drives a decoder with bytes entered by hand.
type Bench struct {
	Decoder    *rx.Decoder
	OutputJSON bool
	Out        io.Writer

	cycles uint64
}

// ChannelsOutput is the JSON form of decoded channels.
type ChannelsOutput struct {
	Cycle  uint64    `json:"cycle,omitempty"`
	Values []float64 `json:"values"`
	Raw    []uint16  `json:"raw"`
}

// NewBench creates a Bench writing to out.
func NewBench(out io.Writer) *Bench {
	return &Bench{Decoder: rx.NewDecoder(), Out: out}
}

// ParseHex parses bytes in hex, separated or not, e.g. "00 00 0a" or "00000a".
func ParseHex(args []string) ([]byte, error) {
	s := strings.Join(args, "")
	s = strings.NewReplacer(":", "", ",", "", "0x", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// ParseFrame parses "ID RAW..." into an encoded frame.
// Each RAW is either PULSE assigned to the next channel, or CH=PULSE.
// The first channel is 0 for ID 0 and 7 for ID 1, unset words are
// filled with the mid pulse on the following channels.
func ParseFrame(args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("message ID expected")
	}
	id, err := strconv.ParseUint(args[0], 10, 8)
	if err != nil || id > 1 {
		return nil, fmt.Errorf("invalid message ID %q", args[0])
	}
	args = args[1:]
	if len(args) > rx.WordsPerPayload {
		return nil, fmt.Errorf("at most %d words", rx.WordsPerPayload)
	}
	var words [rx.WordsPerPayload]rx.ChannelWord
	ch := int(id) * rx.WordsPerPayload
	for n := range words {
		words[n] = rx.ChannelWord{Channel: ch, Pulse: rx.PulseMid}
		if n < len(args) {
			arg := args[n]
			if pos := strings.IndexByte(arg, '='); pos >= 0 {
				if ch, err = strconv.Atoi(arg[:pos]); err != nil || ch < 0 || ch > 0x1f {
					return nil, fmt.Errorf("invalid channel in %q", arg)
				}
				words[n].Channel = ch
				arg = arg[pos+1:]
			}
			pulse, err := strconv.ParseUint(arg, 10, 16)
			if err != nil || pulse > 0x3ff*2 {
				return nil, fmt.Errorf("invalid pulse %q", arg)
			}
			words[n].Pulse = uint16(pulse)
		}
		ch++
	}
	return rx.EncodeFrame(rx.MessageID(id), words), nil
}

// Feed feeds data and prints every completed cycle.
func (b *Bench) Feed(data []byte) error {
	for values, ok := b.Decoder.CheckForNewMessages(data); ok; values, ok = b.Decoder.CheckForNewMessages(nil) {
		b.Decoder.Clear()
		b.cycles++
		if err := b.print(b.cycles, values, b.Decoder.RawChannels()); err != nil {
			return err
		}
	}
	return nil
}

// PrintChannels prints current values of all channels.
func (b *Bench) PrintChannels() error {
	return b.print(0, b.Decoder.Channels(), b.Decoder.RawChannels())
}

// PrintRaw prints current raw pulses.
func (b *Bench) PrintRaw() error {
	raw := b.Decoder.RawChannels()
	if b.OutputJSON {
		return b.printJSON(raw[:])
	}
	for ch, pulse := range raw {
		fmt.Fprintf(b.Out, "%2d %4d\n", ch, pulse)
	}
	return nil
}

// PrintStats prints decoder counters and state.
func (b *Bench) PrintStats() error {
	st := b.Decoder.Stats()
	if b.OutputJSON {
		return b.printJSON(st)
	}
	fmt.Fprintln(b.Out, st.String())
	fmt.Fprintf(b.Out, "sync=%s pending=%d ready=%v\n",
		b.Decoder.SyncState(), b.Decoder.Pending(), b.Decoder.Ready())
	return nil
}

// Reset resets the decoder.
func (b *Bench) Reset() {
	b.Decoder.Reset()
	b.cycles = 0
}

func (b *Bench) print(cycle uint64, values rx.Channels, raw rx.RawChannels) error {
	if b.OutputJSON {
		return b.printJSON(&ChannelsOutput{Cycle: cycle, Values: values[:], Raw: raw[:]})
	}
	if cycle > 0 {
		fmt.Fprintf(b.Out, "cycle %d\n", cycle)
	}
	for ch, val := range values {
		fmt.Fprintf(b.Out, "%2d %4d %+.3f\n", ch, raw[ch], val)
	}
	return nil
}

func (b *Bench) printJSON(v interface{}) error {
	out, err := json.Marshal(v)
	if err != nil {
		return err
	}
	fmt.Fprintln(b.Out, string(out))
	return nil
}
