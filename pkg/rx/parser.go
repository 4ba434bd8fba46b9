package rx

// Frame layout constants.
const (
	// SyncByte is repeated twice to mark the start of a frame.
	SyncByte byte = 0x00
	// PayloadSize is the number of bytes following the sync marker.
	PayloadSize = 14
	// FrameSize is the total size of a frame on the wire.
	FrameSize = 2 + PayloadSize
)

// SyncState indicates where the parser is within a frame.
type SyncState int

const (
	// SyncStateIdle means the parser is scanning for the first sync byte.
	SyncStateIdle SyncState = iota
	// SyncStateGotSync means the first sync byte was seen.
	SyncStateGotSync
	// SyncStatePayload means the parser is collecting payload bytes.
	SyncStatePayload
)

// String implements fmt.Stringer.
func (s SyncState) String() string {
	switch s {
	case SyncStateIdle:
		return "idle"
	case SyncStateGotSync:
		return "got-sync"
	case SyncStatePayload:
		return "payload"
	}
	return "unknown"
}

// ParseResult indicates the result after one parsing step.
type ParseResult struct {
	State SyncState
	// Payload is set when the byte completed a payload.
	Payload *Payload
	// SyncLost is set when the second sync byte was rejected.
	SyncLost bool
}

// Parser locates frames in a byte stream.
// The zero value is ready to use.
type Parser struct {
	state   SyncState
	payload Payload
	recvLen int
}

// State gets the current sync state.
func (p *Parser) State() SyncState {
	return p.state
}

// Reset drops any partial frame and returns to idle.
func (p *Parser) Reset() {
	p.state, p.recvLen = SyncStateIdle, 0
}

// Parse consumes one byte.
func (p *Parser) Parse(b byte) (pr ParseResult) {
	pr.Payload, pr.SyncLost = p.parseByte(b)
	pr.State = p.state
	return
}

func (p *Parser) parseByte(b byte) (pl *Payload, syncLost bool) {
	switch p.state {
	case SyncStateIdle:
		if b == SyncByte {
			p.state, p.recvLen = SyncStateGotSync, 0
		}
	case SyncStateGotSync:
		if b != SyncByte {
			p.resync()
			return nil, true
		}
		p.payload, p.recvLen = Payload{}, 0
		p.state = SyncStatePayload
	case SyncStatePayload:
		if p.recvLen >= PayloadSize {
			p.resync()
			return
		}
		p.payload[p.recvLen] = b
		p.recvLen++
		if p.recvLen == PayloadSize {
			return p.payloadReady(), false
		}
	default:
		p.resync()
	}
	return
}

func (p *Parser) resync() {
	p.state = SyncStateIdle
}

func (p *Parser) payloadReady() *Payload {
	p.resync()
	pl := p.payload
	return &pl
}
