package rx

import "fmt"

// Stats counts decoding events since the decoder was created or reset.
type Stats struct {
	Bytes             uint64 `json:"bytes"`
	SyncLosses        uint64 `json:"sync_losses"`
	Payloads          uint64 `json:"payloads"`
	InvalidHalfFrames uint64 `json:"invalid_half_frames"`
	Cycles            uint64 `json:"cycles"`
}

// String implements fmt.Stringer.
func (s Stats) String() string {
	return fmt.Sprintf("bytes=%d, sync-losses=%d, payloads=%d, invalid=%d, cycles=%d",
		s.Bytes, s.SyncLosses, s.Payloads, s.InvalidHalfFrames, s.Cycles)
}

// Sub returns the difference between two snapshots.
func (s Stats) Sub(prev Stats) Stats {
	return Stats{
		Bytes:             s.Bytes - prev.Bytes,
		SyncLosses:        s.SyncLosses - prev.SyncLosses,
		Payloads:          s.Payloads - prev.Payloads,
		InvalidHalfFrames: s.InvalidHalfFrames - prev.InvalidHalfFrames,
		Cycles:            s.Cycles - prev.Cycles,
	}
}
