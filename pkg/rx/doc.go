// Package rx decodes the serial stream of a radio-control receiver.
package rx

// The receiver emits 16-byte frames over a serial port:
//
//   0x00 0x00 | w0 w1 w2 w3 w4 w5 w6
//
// where each wN is a big-endian 16-bit word. The top bit of the first
// payload byte is the message id: 0 for the first half of a channel cycle
// and 1 for the second half. In every word, bits 14..10 hold the channel id
// and bits 9..0 hold half of the pulse width.
//
// Two valid half-frames (id 0 then id 1) make up a cycle of 14 channels.
// There is no checksum, so validation relies on the channel id and pulse
// width ranges. Any half-frame containing an invalid word is discarded
// entirely and restarts the cycle.
//
// Decoder is the entry point. It is fed byte chunks of arbitrary size and
// returns normalized channels once per completed cycle. Receiver wraps a
// Decoder around an io.Reader and delivers Frames to a FrameHandler.
//
// Producer: receiver (serial)
// Consumer: flight/drive controller
