package stream

import "github.com/YaoZengzeng/relstream/segment"

// Send appends b to the outbound stream and eagerly transmits one data
// datagram per segment of the newly-appended range. It always accepts the
// whole slice; Send is infallible except through Close.
//
// Grounded on the teacher's sender.sendData, which walks the write list
// assigning sequence numbers and calling sendSegment for each queued
// segment; this sender has no window or queue to walk, since every
// appended byte is transmitted immediately, but the "chop the newly
// available range into segment-sized pieces and send each" shape is the
// same.
func (e *Endpoint) Send(b []byte) int {
	e.negotiateSegmentSize(len(b))
	s := e.segmentSize()

	e.mu.Lock()
	begin := e.sendStart
	e.sendBuf = append(e.sendBuf, b...)
	e.sendStart += len(b)
	end := e.sendStart
	e.mu.Unlock()

	e.ensureListenerStarted()

	for off := begin; off < end; off += s {
		segEnd := off + s
		if segEnd > end {
			segEnd = end
		}
		e.transmitData(off, segEnd)
	}
	return len(b)
}

// transmitData sends one data datagram for the already-published range
// [begin,end) of the outbound buffer.
func (e *Endpoint) transmitData(begin, end int) {
	e.mu.Lock()
	payload := append([]byte(nil), e.sendBuf[begin:end]...)
	s := e.segSize
	e.mu.Unlock()

	raw := segment.Encode(s, int32(begin), int32(end), false, payload)
	if err := e.port.SendTo(raw); err != nil {
		e.log.WithError(err).Debug("stream: send data datagram failed")
	}
	e.counters.bytesSent.Add(uint64(len(raw)))
	e.counters.segmentsSent.Add(1)
}

// retransmit is invoked by the listener when it decodes a request
// datagram for [begin,end). Only honored if the range is already fully in
// the outbound buffer, and only if begin hasn't back-tracked behind a
// previously honored request -- this is what keeps reordered or
// duplicated requests from driving the sender backwards.
func (e *Endpoint) retransmit(begin, end int) {
	e.mu.Lock()
	if e.sendStart < end || begin < e.highestRequestedBegin {
		e.mu.Unlock()
		e.log.WithField("begin", begin).Debug("stream: ignored retransmit request")
		return
	}
	e.highestRequestedBegin = begin
	payload := append([]byte(nil), e.sendBuf[begin:end]...)
	s := e.segSize
	e.mu.Unlock()

	raw := segment.Encode(s, int32(begin), int32(end), false, payload)
	if err := e.port.SendTo(raw); err != nil {
		e.log.WithError(err).Debug("stream: retransmit failed")
	}
	e.counters.bytesSent.Add(uint64(len(raw)))
	e.counters.retransmissions.Add(1)
}
