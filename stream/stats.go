package stream

import "sync/atomic"

// Stats is a read-only snapshot of an endpoint's counters: atomic
// counters plus a snapshot copy method.
type Stats struct {
	BytesSent         uint64
	SegmentsSent      uint64
	Retransmissions   uint64
	RequestsSent      uint64
	BytesReceived     uint64
	DuplicatesDropped uint64
	MalformedDropped  uint64
}

// counters holds the live, atomically-updated values backing Stats.
type counters struct {
	bytesSent         atomic.Uint64
	segmentsSent      atomic.Uint64
	retransmissions   atomic.Uint64
	requestsSent      atomic.Uint64
	bytesReceived     atomic.Uint64
	duplicatesDropped atomic.Uint64
	malformedDropped  atomic.Uint64
}

func (c *counters) snapshot() Stats {
	return Stats{
		BytesSent:         c.bytesSent.Load(),
		SegmentsSent:      c.segmentsSent.Load(),
		Retransmissions:   c.retransmissions.Load(),
		RequestsSent:      c.requestsSent.Load(),
		BytesReceived:     c.bytesReceived.Load(),
		DuplicatesDropped: c.duplicatesDropped.Load(),
		MalformedDropped:  c.malformedDropped.Load(),
	}
}
