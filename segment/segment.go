// Package segment implements encoding and decoding of the fixed S+6 byte
// control-and-data datagrams that carry a stream offset and a size+flag
// word.
//
// Grounded on the teacher's transport/tcp/segment.go, which parses a TCP
// header's sequence/ack/flags/window fields out of a raw datagram's first
// bytes; this package does the equivalent job for the much smaller 6-byte
// header this protocol actually uses. The header is little-endian, via
// encoding/binary, so the wire format doesn't depend on host byte order.
package segment

import "encoding/binary"

// HeaderSize is the width in bytes of the begin+sizeflag header that
// precedes every segment's payload.
const HeaderSize = 6

const (
	lenMask     = 0x03ff // low 10 bits: payload length, 0..1023
	requestFlag = 1 << 10
	// MaxPayload is the largest payload length the 10-bit length field can
	// represent, and therefore the largest legal segment size S.
	MaxPayload = lenMask
)

// Header is the decoded control word of a wire segment.
type Header struct {
	Begin     int32
	End       int32
	IsRequest bool
}

// Encode produces a zero-padded datagram of exactly s+HeaderSize bytes for
// the range [begin,end). payload is ignored (and may be nil) when
// isRequest is true. Panics if end-begin doesn't fit in the range
// [0,min(s,MaxPayload)]; callers are internal to the stream package and
// never violate this.
func Encode(s int, begin, end int32, isRequest bool, payload []byte) []byte {
	length := int(end - begin)
	if length < 0 || length > s || length > MaxPayload {
		panic("segment: payload length out of range")
	}
	if !isRequest && len(payload) != length {
		panic("segment: payload does not match begin/end range")
	}

	dgram := make([]byte, s+HeaderSize)
	binary.LittleEndian.PutUint32(dgram[0:4], uint32(begin))

	sizeflag := uint16(length) & lenMask
	if isRequest {
		sizeflag |= requestFlag
	}
	binary.LittleEndian.PutUint16(dgram[4:6], sizeflag)

	if !isRequest {
		copy(dgram[HeaderSize:HeaderSize+length], payload)
	}
	// the rest of dgram is already zero from make([]byte, ...): trailing
	// padding up to s+HeaderSize total.
	return dgram
}

// Decode parses a raw datagram received for a segment size of s bytes of
// payload. ok is false when the datagram is malformed or truncated (length
// != s+HeaderSize, or a declared payload length that doesn't fit); the
// listener discards such datagrams silently rather than surfacing an
// error. A zero-length, non-request datagram (end == begin) decodes
// successfully as a no-op payload. A request datagram always decodes with
// an empty payload: its length field names the requested range, not bytes
// carried.
func Decode(raw []byte, s int) (hdr Header, payload []byte, ok bool) {
	if len(raw) != s+HeaderSize {
		return Header{}, nil, false
	}

	begin := int32(binary.LittleEndian.Uint32(raw[0:4]))
	sizeflag := binary.LittleEndian.Uint16(raw[4:6])
	length := int(sizeflag & lenMask)
	isRequest := sizeflag&requestFlag != 0

	if length > s {
		return Header{}, nil, false
	}

	hdr = Header{Begin: begin, End: begin + int32(length), IsRequest: isRequest}
	if isRequest {
		payload = raw[HeaderSize:HeaderSize]
	} else {
		payload = raw[HeaderSize : HeaderSize+length]
	}
	return hdr, payload, true
}
