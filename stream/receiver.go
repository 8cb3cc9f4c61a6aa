package stream

import "fmt"

// ErrBeaconBudgetExceeded is returned by Recv when
// config.Transport.MaxBeaconRetries is positive and more than that many
// beacons for the same pending segment went unanswered. Unused when MaxBeaconRetries
// is 0, the default unbounded-wait behavior.
var ErrBeaconBudgetExceeded = fmt.Errorf("stream: exceeded beacon retry budget waiting for a segment")

// Recv blocks until n bytes starting at the read cursor are present, in
// order, copies them out, advances the cursor by n, and returns them.
// Segments are awaited in strictly increasing begin order.
//
// Grounded on the teacher's receiver type (rcvNxt/rcvAcc bookkeeping in
// transport/tcp/rcv.go); this receiver has no sliding window to
// advertise, only a single pending-request slot.
func (e *Endpoint) Recv(n int) ([]byte, error) {
	e.negotiateSegmentSize(n)
	e.ensureListenerStarted()
	s := e.segmentSize()

	e.mu.Lock()
	start := e.recvStart
	e.mu.Unlock()

	for off := 0; off < n; {
		segBegin := start + off
		segEnd := start + n
		if segBegin+s < segEnd {
			segEnd = segBegin + s
		}
		if err := e.waitFor(segBegin, segEnd); err != nil {
			return nil, err
		}
		off = segEnd - start
	}

	e.mu.Lock()
	out := make([]byte, n)
	copy(out, e.recvBuf[e.recvStart:e.recvStart+n])
	e.recvStart += n
	e.mu.Unlock()
	return out, nil
}

// waitFor blocks until the segment starting at begin is present in the
// inbound buffer. It installs (begin,end) into the single pending-request
// slot and blocks on the wakeup Signal, which the listener raises on
// arrival of a matching segment (see listener.go's deposit) and after each
// beacon. Each wakeup rechecks presence and the beacon budget. The slot
// goes EMPTY -> RECEIVING -> EMPTY, and both moves are made here by the
// application thread: it installs the request, and clears it again when
// waitFor returns; the listener only reads the slot.
func (e *Endpoint) waitFor(begin, end int) error {
	e.mu.Lock()
	if e.segmentPresentLocked(begin) {
		e.mu.Unlock()
		return nil
	}
	e.wake.Drain()
	e.pending = &pendingRequest{begin: begin, end: end}
	e.beaconsSinceProgress = 0
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.pending = nil
		e.mu.Unlock()
	}()

	for {
		e.mu.Lock()
		present := e.segmentPresentLocked(begin)
		budget := e.cfg.MaxBeaconRetries
		tries := e.beaconsSinceProgress
		e.mu.Unlock()

		if present {
			return nil
		}
		if budget > 0 && tries > budget {
			return ErrBeaconBudgetExceeded
		}
		<-e.wake.C()
	}
}
