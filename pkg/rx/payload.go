package rx

// Channel word constants.
const (
	// WordsPerPayload is the number of 16-bit channel words in a payload.
	WordsPerPayload = PayloadSize / 2
	// NumChannels is the number of channel slots in a full cycle.
	NumChannels = 2 * WordsPerPayload

	// PulseMin is the smallest accepted pulse width.
	PulseMin = 172
	// PulseMax is the largest accepted pulse width.
	PulseMax = 1810
	// PulseMid is the neutral pulse width.
	PulseMid = 991
	// PulseSpan is the distance from PulseMid to a full deflection.
	PulseSpan = 819

	channelIDShift = 10
	channelIDMask  = 0x1f
	channelValMask = 0x03ff
)

// MessageID identifies which half of a channel cycle a payload carries.
type MessageID byte

const (
	// MessageFirstHalf starts a channel cycle.
	MessageFirstHalf MessageID = 0
	// MessageSecondHalf completes a channel cycle.
	MessageSecondHalf MessageID = 1
)

// Payload is the 14-byte body of a frame in reception order.
type Payload [PayloadSize]byte

// MessageID returns the top bit of the first payload byte.
func (p *Payload) MessageID() MessageID {
	return MessageID(p[0] >> 7)
}

// Word returns the n-th big-endian word.
func (p *Payload) Word(n int) uint16 {
	return uint16(p[2*n])<<8 | uint16(p[2*n+1])
}

// Decode interprets the payload as a half-frame.
func (p *Payload) Decode() (hf HalfFrame) {
	hf.ID = p.MessageID()
	for n := range hf.Words {
		hf.Words[n] = DecodeWord(p.Word(n))
	}
	return
}

// ChannelWord is a decoded channel id/pulse width pair.
type ChannelWord struct {
	Channel int
	Pulse   uint16
}

// DecodeWord extracts channel id and pulse width from a raw word.
func DecodeWord(w uint16) ChannelWord {
	return ChannelWord{
		Channel: int((w >> channelIDShift) & channelIDMask),
		Pulse:   (w & channelValMask) * 2,
	}
}

// EncodeWord is the inverse of DecodeWord. Odd pulse widths lose the
// lowest bit.
func EncodeWord(cw ChannelWord) uint16 {
	return uint16(cw.Channel&channelIDMask)<<channelIDShift | (cw.Pulse/2)&channelValMask
}

// IsValid checks the channel id and pulse width ranges.
func (w ChannelWord) IsValid() bool {
	return w.Channel >= 0 && w.Channel < NumChannels &&
		w.Pulse >= PulseMin && w.Pulse <= PulseMax
}

// HalfFrame is a decoded payload.
type HalfFrame struct {
	ID    MessageID
	Words [WordsPerPayload]ChannelWord
}

// Valid reports whether every word passed validation.
func (hf *HalfFrame) Valid() bool {
	for _, w := range hf.Words {
		if !w.IsValid() {
			return false
		}
	}
	return true
}

// EncodeFrame builds a complete frame including the sync marker.
// It is mostly useful for tests and bench tools.
func EncodeFrame(id MessageID, words [WordsPerPayload]ChannelWord) []byte {
	b := make([]byte, FrameSize)
	b[0], b[1] = SyncByte, SyncByte
	for n, cw := range words {
		w := EncodeWord(cw)
		b[2+2*n], b[3+2*n] = byte(w>>8), byte(w)
	}
	b[2] = b[2]&0x7f | byte(id&1)<<7
	return b
}
