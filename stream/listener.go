package stream

import (
	"github.com/YaoZengzeng/relstream/dgram"
	"github.com/YaoZengzeng/relstream/segment"
)

// runListener polls the datagram port with a short timeout, dispatches
// data into the receive buffer and retransmission requests to the send
// side, and on idle (socket timeout) re-emits the currently outstanding
// pending request.
//
// Grounded on the teacher's stack/nic.go dispatch loop (read a packet off
// the link, decode it, hand it to the right protocol handler, repeat) --
// the same read-decode-dispatch shape, stripped of the network/transport
// demultiplexing this protocol doesn't need since there is exactly one
// peer and one segment kind per datagram.
func (e *Endpoint) runListener() {
	defer close(e.stopped)
	for {
		select {
		case <-e.stopCh:
			return
		default:
		}

		s := e.segmentSize()
		raw, err := e.port.RecvFrom(s + segment.HeaderSize)
		if err == dgram.ErrTimeout {
			e.beacon()
			continue
		}
		if err != nil {
			// Port closure or another hard failure terminates the
			// listener silently; not surfaced to the application.
			return
		}

		hdr, payload, ok := segment.Decode(raw, s)
		if !ok {
			e.counters.malformedDropped.Add(1)
			e.log.Debug("stream: discarded malformed datagram")
			continue
		}

		if hdr.IsRequest {
			e.retransmit(int(hdr.Begin), int(hdr.End))
			continue
		}
		e.deposit(hdr, payload)
	}
}

// deposit copies a data segment's payload into the inbound buffer and
// marks it present, waking the application thread if it is waiting on
// exactly this segment. Duplicate deliveries for an already-present offset
// are dropped without altering the buffer.
func (e *Endpoint) deposit(hdr segment.Header, payload []byte) {
	begin := int(hdr.Begin)
	end := int(hdr.End)

	e.mu.Lock()
	idx := begin / e.segSize
	if idx < len(e.present) && e.present[idx] {
		e.mu.Unlock()
		e.counters.duplicatesDropped.Add(1)
		e.log.WithField("begin", begin).Debug("stream: dropped duplicate data datagram")
		return
	}
	e.growRecvLocked(end)
	copy(e.recvBuf[begin:end], payload)
	e.growPresentLocked(idx)
	e.present[idx] = true

	wake := e.pending != nil && e.pending.begin == begin
	if wake {
		e.beaconsSinceProgress = 0
	}
	e.mu.Unlock()

	e.counters.bytesReceived.Add(uint64(len(payload)))

	if wake {
		e.wake.Raise()
	}
}

// beacon re-emits the currently outstanding pending request, if any, on
// socket idle: the periodic "please retransmit" nudge that keeps a stalled
// receive moving without a sender-side retransmission timer.
func (e *Endpoint) beacon() {
	e.mu.Lock()
	p := e.pending
	s := e.segSize
	if p != nil {
		e.beaconsSinceProgress++
	}
	e.mu.Unlock()
	if p == nil {
		return
	}

	raw := segment.Encode(s, int32(p.begin), int32(p.end), true, nil)
	if err := e.port.SendTo(raw); err != nil {
		e.log.WithError(err).Debug("stream: beacon send failed")
		return
	}
	e.counters.requestsSent.Add(1)
	// wake waitFor's loop so it can observe a budget that just expired
	// without waiting for another arrival.
	e.wake.Raise()
}
