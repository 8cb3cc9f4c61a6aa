// Package dgram defines the datagram port consumed by the stream
// transport: a thin, timeout-bounded send/receive interface to a fixed
// peer address. The stream package only ever talks to the Port interface,
// never to a concrete socket type, so tests can swap in an in-memory
// SimPort (see simport.go) without touching the stream package.
package dgram

import "errors"

// ErrTimeout is returned by RecvFrom when no datagram arrived within the
// port's configured poll timeout. The listener treats it as the cue to
// beacon its pending request, not as a failure.
var ErrTimeout = errors.New("dgram: recv timeout")

// Port is the unreliable, message-oriented carrier the stream endpoint
// runs over. Each SendTo/RecvFrom transfers one atomic datagram to/from the
// fixed peer the port was constructed with.
type Port interface {
	// SendTo sends a complete datagram to the peer.
	SendTo(b []byte) error

	// RecvFrom returns the next datagram's payload, sized up to capacity
	// bytes, or ErrTimeout after the port's idle timeout elapses.
	RecvFrom(capacity int) ([]byte, error)

	// Close releases the underlying port. Safe to call from a different
	// goroutine than the one blocked in RecvFrom; that call is expected to
	// return promptly with an error.
	Close() error
}
