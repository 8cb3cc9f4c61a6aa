package dgram

import (
	"math/rand"
	"time"
)

// Impairment configures the lossy/reordering/duplicating behavior of a
// SimPort pair, letting tests drive scenarios like a lossy channel that
// drops a fraction of datagrams, or one that reorders within a bounded
// window, without a real socket.
type Impairment struct {
	// DropProb is the probability, in [0,1), that an outbound datagram is
	// silently discarded instead of delivered.
	DropProb float64
	// DupProb is the probability, in [0,1), that an outbound datagram is
	// additionally delivered a second time.
	DupProb float64
	// ReorderWindow, if > 1, holds up to that many in-flight datagrams
	// before releasing one chosen at random, so deliveries are not
	// strictly FIFO.
	ReorderWindow int
	// Rand is the source of randomness driving DropProb/DupProb/reorder
	// choice. Tests should pass a seeded *rand.Rand for reproducibility.
	Rand *rand.Rand
}

// SimPort is an in-memory Port, modeled on the teacher's
// link/channel.Endpoint -- a channel-backed packet queue used there to
// inject and observe packets in stack tests -- extended with Impairment so
// a pair of SimPorts can stand in for the unreliable network between two
// endpoints in property tests.
type SimPort struct {
	out     chan<- []byte
	in      <-chan []byte
	impair  Impairment
	timeout time.Duration
	pending [][]byte
}

// NewSimPortPair builds two SimPorts wired to each other through buffered
// channels, simulating the datagram network between a pair of endpoints.
// Both ports share the same Impairment.
func NewSimPortPair(buf int, impair Impairment, timeout time.Duration) (a, b *SimPort) {
	ab := make(chan []byte, buf)
	ba := make(chan []byte, buf)
	a = &SimPort{out: ab, in: ba, impair: impair, timeout: timeout}
	b = &SimPort{out: ba, in: ab, impair: impair, timeout: timeout}
	return a, b
}

// SendTo implements Port, applying the configured drop/duplicate
// impairment before handing the datagram to the peer's channel.
func (p *SimPort) SendTo(b []byte) error {
	if p.drop() {
		return nil
	}
	p.deliver(b)
	if p.duplicate() {
		p.deliver(b)
	}
	return nil
}

func (p *SimPort) deliver(b []byte) {
	cp := append([]byte(nil), b...)
	select {
	case p.out <- cp:
	default:
		// peer's inbound queue is full: treat like a dropped datagram on a
		// congested link rather than blocking the sender.
	}
}

func (p *SimPort) drop() bool {
	return p.impair.Rand != nil && p.impair.DropProb > 0 && p.impair.Rand.Float64() < p.impair.DropProb
}

func (p *SimPort) duplicate() bool {
	return p.impair.Rand != nil && p.impair.DupProb > 0 && p.impair.Rand.Float64() < p.impair.DupProb
}

// RecvFrom implements Port. When ReorderWindow > 1, it buffers arrivals
// until the window fills (or the port goes idle) and then releases one at
// random, scrambling delivery order the way a real network with multiple
// paths or retry queues would.
func (p *SimPort) RecvFrom(capacity int) ([]byte, error) {
	window := p.impair.ReorderWindow
	if window < 1 {
		window = 1
	}

	for len(p.pending) < window {
		select {
		case m := <-p.in:
			p.pending = append(p.pending, m)
		case <-time.After(p.timeout):
			if len(p.pending) == 0 {
				return nil, ErrTimeout
			}
			return p.pop(), nil
		}
	}
	return p.pop(), nil
}

func (p *SimPort) pop() []byte {
	i := 0
	if p.impair.Rand != nil && len(p.pending) > 1 {
		i = p.impair.Rand.Intn(len(p.pending))
	}
	m := p.pending[i]
	p.pending = append(p.pending[:i], p.pending[i+1:]...)
	return m
}

// Close implements Port. SimPort has no underlying OS resource to release.
func (p *SimPort) Close() error {
	return nil
}
