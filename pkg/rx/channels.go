package rx

// Channels holds normalized channel values indexed by channel id.
type Channels [NumChannels]float64

// RawChannels holds pulse widths indexed by channel id.
// Slots never populated are 0.
type RawChannels [NumChannels]uint16

// Normalize maps a pulse width onto the nominal [-1, 1] range.
func Normalize(pulse uint16) float64 {
	return (float64(pulse) - PulseMid) / PulseSpan
}

// ChannelStore accumulates channel values across half-frames.
// The zero value is ready to use.
type ChannelStore struct {
	raw     RawChannels
	updated int
	ready   bool
}

// Apply merges a half-frame into the store and returns true if it
// completed a cycle.
//
// A half-frame with any invalid word leaves the stored values untouched
// and restarts the cycle. A first half always restarts the cycle while a
// second half extends it. Only an update count of exactly NumChannels
// completes a cycle, so two second halves in a row never do.
func (s *ChannelStore) Apply(hf *HalfFrame) bool {
	if !hf.Valid() {
		s.updated = 0
		return false
	}
	for _, w := range hf.Words {
		s.raw[w.Channel] = w.Pulse
	}
	if hf.ID == MessageFirstHalf {
		s.updated = WordsPerPayload
	} else {
		s.updated += WordsPerPayload
	}
	if s.updated == NumChannels {
		s.ready = true
		return true
	}
	return false
}

// Ready indicates a cycle completed and has not been cleared.
func (s *ChannelStore) Ready() bool {
	return s.ready
}

// Clear resets the ready flag. Channel values are kept.
func (s *ChannelStore) Clear() {
	s.ready = false
}

// Updated returns the number of channels written in the current cycle.
func (s *ChannelStore) Updated() int {
	return s.updated
}

// Raw returns the stored pulse widths.
func (s *ChannelStore) Raw() RawChannels {
	return s.raw
}

// Channels returns normalized values. Missing channels normalize as if
// the pulse width were 0.
func (s *ChannelStore) Channels() (ch Channels) {
	for n, pulse := range s.raw {
		ch[n] = Normalize(pulse)
	}
	return
}
