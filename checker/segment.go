// Package checker provides composable assertions over decoded wire
// segments, for use in tests.
//
// Adapted from the teacher's checker package (NetworkChecker/
// TransportChecker: functional options of the shape func(*testing.T, ...)
// run against a decoded IPv4/TCP packet, e.g. checker.IPv4(t, b,
// checker.SrcAddr(x), checker.DstAddr(y))). The IP/TCP-specific checks
// (address, checksum, protocol number) have no analogue in this protocol's
// 6-byte header, so they're replaced with checks over segment.Header and
// its payload; the functional-option shape is what's kept.
package checker

import (
	"bytes"
	"testing"

	"github.com/YaoZengzeng/relstream/segment"
)

// Option checks a property of a decoded wire segment, failing t if it
// doesn't hold.
type Option func(*testing.T, segment.Header, []byte)

// Segment decodes raw as a segment of size s and runs every check against
// the result.
func Segment(t *testing.T, raw []byte, s int, checks ...Option) {
	t.Helper()
	hdr, payload, ok := segment.Decode(raw, s)
	if !ok {
		t.Fatalf("checker: %v is not a valid segment of size %d", raw, s)
	}
	for _, c := range checks {
		c(t, hdr, payload)
	}
}

// Begin checks the segment's begin offset.
func Begin(want int32) Option {
	return func(t *testing.T, h segment.Header, _ []byte) {
		t.Helper()
		if h.Begin != want {
			t.Fatalf("bad begin, got %d, want %d", h.Begin, want)
		}
	}
}

// End checks the segment's end offset.
func End(want int32) Option {
	return func(t *testing.T, h segment.Header, _ []byte) {
		t.Helper()
		if h.End != want {
			t.Fatalf("bad end, got %d, want %d", h.End, want)
		}
	}
}

// IsRequest checks the segment's request flag.
func IsRequest(want bool) Option {
	return func(t *testing.T, h segment.Header, _ []byte) {
		t.Helper()
		if h.IsRequest != want {
			t.Fatalf("bad request flag, got %v, want %v", h.IsRequest, want)
		}
	}
}

// PayloadLen checks the decoded payload's length.
func PayloadLen(want int) Option {
	return func(t *testing.T, _ segment.Header, p []byte) {
		t.Helper()
		if len(p) != want {
			t.Fatalf("bad payload length, got %v, want %v", len(p), want)
		}
	}
}

// Payload checks the decoded payload's content.
func Payload(want []byte) Option {
	return func(t *testing.T, _ segment.Header, p []byte) {
		t.Helper()
		if !bytes.Equal(p, want) {
			t.Fatalf("bad payload, got %x, want %x", p, want)
		}
	}
}
