// Package stream implements a reliable, ordered byte-stream transport:
// two endpoints, each bound to a local address and fixed to a peer,
// exchanging bytes over a dgram.Port despite loss, reordering, and
// duplication on the wire.
//
// Framing lives in package segment; the send side, receive side, and
// listener loop live in sender.go, receiver.go, and listener.go; this
// file holds the Endpoint type that owns their shared state and the
// construction/lifecycle operations.
//
// Grounded on the teacher's transport/tcp/endpoint.go (an endpoint struct
// serving as "the interface between users of the endpoint and the protocol
// implementation... it is legal to have concurrent goroutines make calls
// into the endpoint, they are properly synchronized. The protocol
// implementation, however, runs in a single goroutine") -- the same split
// applies here: the application goroutine calls Send/Recv/Close, and the
// listener goroutine is the sole writer of inbound state.
package stream

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/YaoZengzeng/relstream/buffer"
	"github.com/YaoZengzeng/relstream/config"
	"github.com/YaoZengzeng/relstream/dgram"
	"github.com/YaoZengzeng/relstream/logging"
	"github.com/YaoZengzeng/relstream/waiter"
)

// defaultMaxSegment caps a negotiated segment size at
// min(first-call-size, 1000).
const defaultMaxSegment = 1000

// pendingRequest is the single outstanding "need this segment" request the
// application thread may have in flight. At most one exists at a time,
// per endpoint.
type pendingRequest struct {
	begin int
	end   int
}

// Endpoint is one side of the reliable byte-stream transport. The zero
// value is not usable; construct one with New or Dial.
type Endpoint struct {
	port dgram.Port
	cfg  *config.Transport
	log  *logrus.Entry

	localAddr, peerAddr string

	// mu guards every field below it except the atomic counters and the
	// start/stop bookkeeping. Both goroutines write fields of both
	// directions (the listener writes highestRequestedBegin as well as the
	// inbound buffer; Recv writes recvStart and pending), so one lock
	// covers them all rather than finer-grained per-direction locking.
	mu sync.Mutex

	segSize int // 0 until negotiated, then fixed forever

	sendBuf               buffer.View
	sendStart             int
	highestRequestedBegin int

	recvBuf   buffer.View
	recvStart int
	present   []bool // present[i]: segment i*segSize.. fully received

	pending *pendingRequest
	wake    *waiter.Signal

	beaconsSinceProgress int

	startOnce sync.Once
	started   atomic.Bool
	stopCh    chan struct{}
	stopped   chan struct{}

	closeOnce sync.Once
	closeErr  error

	counters counters
}

// New builds a stream endpoint around an already-constructed datagram
// port. The listener is not started until the first Send or Recv call.
func New(port dgram.Port, localAddr, peerAddr string, cfg *config.Transport) *Endpoint {
	if cfg == nil {
		cfg = config.DefaultTransport()
	}
	e := &Endpoint{
		port:      port,
		cfg:       cfg,
		localAddr: localAddr,
		peerAddr:  peerAddr,
		segSize:   cfg.SegmentSize,
		wake:      waiter.NewSignal(),
		stopCh:    make(chan struct{}),
		stopped:   make(chan struct{}),
		log:       logging.WithEndpoint(localAddr, peerAddr),
	}
	return e
}

// Dial opens a real UDP-backed endpoint bound to localAddr and targeting
// peerAddr.
func Dial(localAddr, peerAddr string, cfg *config.Transport) (*Endpoint, error) {
	if cfg == nil {
		cfg = config.DefaultTransport()
	}
	port, err := dgram.DialUDP(localAddr, peerAddr, cfg.PollTimeout)
	if err != nil {
		return nil, fmt.Errorf("stream: dial: %w", err)
	}
	return New(port, localAddr, peerAddr, cfg), nil
}

// Stats returns a snapshot of the endpoint's counters.
func (e *Endpoint) Stats() Stats {
	return e.counters.snapshot()
}

// Close stops the listener and releases the datagram port. Idempotent:
// safe to call more than once, and from either side of the connection.
func (e *Endpoint) Close() error {
	e.closeOnce.Do(func() {
		close(e.stopCh)
		if e.started.Load() {
			<-e.stopped
		}
		e.closeErr = e.port.Close()
	})
	return e.closeErr
}

// ensureListenerStarted starts the background listener the first time
// either Send or Recv is called. startOnce runs its function exactly once
// across the endpoint's lifetime, so this is safe to call from both.
func (e *Endpoint) ensureListenerStarted() {
	e.startOnce.Do(func() {
		e.started.Store(true)
		go e.runListener()
	})
}

// negotiateSegmentSize fixes the segment size the first time it is
// needed, from either an explicit config.Transport.SegmentSize or
// min(first-call-size, 1000). It never changes afterward.
func (e *Endpoint) negotiateSegmentSize(callSize int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.segSize != 0 {
		return
	}
	s := callSize
	if s <= 0 || s > defaultMaxSegment {
		s = defaultMaxSegment
	}
	e.segSize = s
	e.log.WithField("segment_size", s).Info("negotiated segment size")
}

func (e *Endpoint) segmentSize() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.segSize
}

func (e *Endpoint) growRecvLocked(end int) {
	e.recvBuf.GrowTo(end)
}

func (e *Endpoint) growPresentLocked(idx int) {
	if len(e.present) <= idx {
		grown := make([]bool, idx+1)
		copy(grown, e.present)
		e.present = grown
	}
}

func (e *Endpoint) segmentPresentLocked(begin int) bool {
	idx := begin / e.segSize
	return idx < len(e.present) && e.present[idx]
}
