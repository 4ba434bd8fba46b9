package rx

// Decoder turns byte chunks into channel cycles.
//
// A Decoder must not be used concurrently. Bytes must be fed in the order
// they were received.
type Decoder struct {
	parser Parser
	store  ChannelStore
	carry  []byte
	stats  Stats
}

// NewDecoder creates a Decoder with fresh state.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// CheckForNewMessages feeds data, preceded by bytes carried over from the
// previous call, through the parser. It stops right after the byte which
// completes a cycle and keeps the remaining bytes for the next call.
//
// Channels are returned with true if a cycle is ready, whether it just
// completed or is still latched from an earlier call without Clear.
func (d *Decoder) CheckForNewMessages(data []byte) (Channels, bool) {
	in := data
	if len(d.carry) > 0 {
		in = append(d.carry, data...)
		d.carry = nil
	}
	for n, b := range in {
		if d.feed(b) {
			if rest := in[n+1:]; len(rest) > 0 {
				d.carry = append([]byte(nil), rest...)
			}
			break
		}
	}
	if !d.store.Ready() {
		return Channels{}, false
	}
	return d.store.Channels(), true
}

// Clear resets the ready flag. Channel values are kept.
func (d *Decoder) Clear() {
	d.store.Clear()
}

// Ready indicates a cycle completed and has not been cleared.
func (d *Decoder) Ready() bool {
	return d.store.Ready()
}

// Channels returns the normalized values of the last accepted half-frames.
func (d *Decoder) Channels() Channels {
	return d.store.Channels()
}

// RawChannels returns the pulse widths of the last accepted half-frames.
func (d *Decoder) RawChannels() RawChannels {
	return d.store.Raw()
}

// SyncState gets the parser state.
func (d *Decoder) SyncState() SyncState {
	return d.parser.State()
}

// Pending returns the number of carried-over bytes.
func (d *Decoder) Pending() int {
	return len(d.carry)
}

// Stats returns a snapshot of decoding counters.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Reset returns the decoder to its initial state.
func (d *Decoder) Reset() {
	*d = Decoder{}
}

// feed consumes one byte and reports whether it completed a cycle.
func (d *Decoder) feed(b byte) bool {
	d.stats.Bytes++
	pr := d.parser.Parse(b)
	if pr.SyncLost {
		d.stats.SyncLosses++
	}
	if pr.Payload == nil {
		return false
	}
	d.stats.Payloads++
	hf := pr.Payload.Decode()
	if !hf.Valid() {
		d.stats.InvalidHalfFrames++
	}
	if d.store.Apply(&hf) {
		d.stats.Cycles++
		return true
	}
	return false
}
