package segment_test

import (
	"testing"

	"github.com/YaoZengzeng/relstream/checker"
	"github.com/YaoZengzeng/relstream/segment"
)

func TestEncodeDecodeDataRoundTrip(t *testing.T) {
	payload := []byte("hello")
	s := 1000
	raw := segment.Encode(s, 10, 15, false, payload)

	if len(raw) != s+segment.HeaderSize {
		t.Fatalf("bad datagram length, got %d, want %d", len(raw), s+segment.HeaderSize)
	}

	checker.Segment(t, raw, s,
		checker.Begin(10),
		checker.End(15),
		checker.IsRequest(false),
		checker.Payload(payload),
	)
}

func TestEncodeDecodeRequest(t *testing.T) {
	s := 1000
	raw := segment.Encode(s, 2000, 3000, true, nil)

	checker.Segment(t, raw, s,
		checker.Begin(2000),
		checker.End(3000),
		checker.IsRequest(true),
		checker.PayloadLen(0),
	)
}

func TestDecodeZeroLengthDataIsNoop(t *testing.T) {
	s := 1000
	raw := segment.Encode(s, 42, 42, false, nil)

	checker.Segment(t, raw, s,
		checker.Begin(42),
		checker.End(42),
		checker.IsRequest(false),
		checker.PayloadLen(0),
	)
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	s := 1000
	raw := segment.Encode(s, 0, 5, false, []byte("abcde"))

	if _, _, ok := segment.Decode(raw[:len(raw)-1], s); ok {
		t.Fatalf("Decode accepted a truncated datagram")
	}
	if _, _, ok := segment.Decode(append(raw, 0), s); ok {
		t.Fatalf("Decode accepted an overlong datagram")
	}
}

func TestDecodeRejectsOverlongDeclaredPayload(t *testing.T) {
	s := 10
	raw := make([]byte, s+segment.HeaderSize)
	// declare a payload length (20) that exceeds s (10), despite the
	// datagram itself being correctly sized.
	raw[4] = 20

	if _, _, ok := segment.Decode(raw, s); ok {
		t.Fatalf("Decode accepted a datagram whose declared length exceeds s")
	}
}

func TestEncodePanicsOnOversizeRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected Encode to panic on an out-of-range segment")
		}
	}()
	segment.Encode(10, 0, 11, false, make([]byte, 11))
}
