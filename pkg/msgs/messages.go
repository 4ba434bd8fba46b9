package msgs

import (
	"time"

	"github.com/golang/protobuf/proto"

	"github.com/robotalks/rcrx/pkg/rx"
)

// ChannelFrame is an event carrying a completed channel cycle.
type ChannelFrame struct {
	Seq         uint64    `protobuf:"varint,1,opt,name=seq,proto3" json:"seq,omitempty"`
	TimestampUs int64     `protobuf:"varint,2,opt,name=timestamp_us,proto3" json:"timestamp_us,omitempty"`
	Values      []float64 `protobuf:"fixed64,3,rep,packed,name=values,proto3" json:"values,omitempty"`
	Raw         []uint32  `protobuf:"varint,4,rep,packed,name=raw,proto3" json:"raw,omitempty"`
}

// NewChannelFrame converts a decoded frame.
func NewChannelFrame(f *rx.Frame) *ChannelFrame {
	m := &ChannelFrame{
		Seq:         f.Seq,
		TimestampUs: timestampUs(f.Time),
		Values:      make([]float64, rx.NumChannels),
		Raw:         make([]uint32, rx.NumChannels),
	}
	copy(m.Values, f.Values[:])
	for n, pulse := range f.Raw {
		m.Raw[n] = uint32(pulse)
	}
	return m
}

// Channels returns the normalized values as a fixed array. Missing values
// are left at 0.
func (m *ChannelFrame) Channels() (ch rx.Channels) {
	copy(ch[:], m.Values)
	return
}

// NewMessage implements SerializableMessage.
func (m *ChannelFrame) NewMessage() SerializableMessage { return &ChannelFrame{} }

// TypeID implements SerializableMessage.
func (m *ChannelFrame) TypeID() uint32 { return ChannelFrameTypeID }

// ProtoMessage implements proto.Message.
func (m *ChannelFrame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ChannelFrame) Reset() { *m = ChannelFrame{} }

// String implements proto.Message.
func (m *ChannelFrame) String() string { return proto.CompactTextString(m) }

// ReceiverStats is an event carrying decoder counters.
type ReceiverStats struct {
	Bytes             uint64 `protobuf:"varint,1,opt,name=bytes,proto3" json:"bytes,omitempty"`
	SyncLosses        uint64 `protobuf:"varint,2,opt,name=sync_losses,proto3" json:"sync_losses,omitempty"`
	Payloads          uint64 `protobuf:"varint,3,opt,name=payloads,proto3" json:"payloads,omitempty"`
	InvalidHalfFrames uint64 `protobuf:"varint,4,opt,name=invalid_half_frames,proto3" json:"invalid_half_frames,omitempty"`
	Cycles            uint64 `protobuf:"varint,5,opt,name=cycles,proto3" json:"cycles,omitempty"`
}

// NewReceiverStats converts decoder stats.
func NewReceiverStats(s rx.Stats) *ReceiverStats {
	return &ReceiverStats{
		Bytes:             s.Bytes,
		SyncLosses:        s.SyncLosses,
		Payloads:          s.Payloads,
		InvalidHalfFrames: s.InvalidHalfFrames,
		Cycles:            s.Cycles,
	}
}

// NewMessage implements SerializableMessage.
func (m *ReceiverStats) NewMessage() SerializableMessage { return &ReceiverStats{} }

// TypeID implements SerializableMessage.
func (m *ReceiverStats) TypeID() uint32 { return ReceiverStatsTypeID }

// ProtoMessage implements proto.Message.
func (m *ReceiverStats) ProtoMessage() {}

// Reset implements proto.Message.
func (m *ReceiverStats) Reset() { *m = ReceiverStats{} }

// String implements proto.Message.
func (m *ReceiverStats) String() string { return proto.CompactTextString(m) }

// LinkStatus is an event reflecting whether cycles are arriving.
type LinkStatus struct {
	Up      bool  `protobuf:"varint,1,opt,name=up,proto3" json:"up,omitempty"`
	SinceUs int64 `protobuf:"varint,2,opt,name=since_us,proto3" json:"since_us,omitempty"`
}

// NewLinkStatus creates a LinkStatus.
func NewLinkStatus(state rx.LinkState, since time.Time) *LinkStatus {
	return &LinkStatus{Up: state == rx.LinkUp, SinceUs: timestampUs(since)}
}

// NewMessage implements SerializableMessage.
func (m *LinkStatus) NewMessage() SerializableMessage { return &LinkStatus{} }

// TypeID implements SerializableMessage.
func (m *LinkStatus) TypeID() uint32 { return LinkStatusTypeID }

// ProtoMessage implements proto.Message.
func (m *LinkStatus) ProtoMessage() {}

// Reset implements proto.Message.
func (m *LinkStatus) Reset() { *m = LinkStatus{} }

// String implements proto.Message.
func (m *LinkStatus) String() string { return proto.CompactTextString(m) }

func timestampUs(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano() / int64(time.Microsecond)
}

// GroupReceiver is the type id group of receiver messages.
const GroupReceiver uint32 = 0x00100000

// TypeIDs
const (
	ChannelFrameTypeID  uint32 = GroupReceiver | TypeIDKindEvent | 0x0000
	ReceiverStatsTypeID uint32 = GroupReceiver | TypeIDKindEvent | 0x0001
	LinkStatusTypeID    uint32 = GroupReceiver | TypeIDKindEvent | 0x0002
)
