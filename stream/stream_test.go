package stream_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/YaoZengzeng/relstream/config"
	"github.com/YaoZengzeng/relstream/dgram"
	"github.com/YaoZengzeng/relstream/stream"
)

// newPair wires two stream.Endpoints over a SimPort pair sharing impair and
// cfg, standing up a pair of connected endpoints directly in a test
// rather than going through a real socket.
func newPair(t *testing.T, impair dgram.Impairment, cfg *config.Transport) (a, b *stream.Endpoint) {
	t.Helper()
	portA, portB := dgram.NewSimPortPair(64, impair, 2*time.Millisecond)
	a = stream.New(portA, "a", "b", cfg)
	b = stream.New(portB, "b", "a", cfg)
	t.Cleanup(func() {
		a.Close()
		b.Close()
	})
	return a, b
}

func randBytes(n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

// recvAll drives n bytes out of e.Recv in one blocking call and fails the
// test if it errors.
func recvAll(t *testing.T, e *stream.Endpoint, n int) []byte {
	t.Helper()
	got, err := e.Recv(n)
	require.NoError(t, err)
	require.Len(t, got, n)
	return got
}

// TestHappyPathSmallMessage covers a single short append, fully drained by
// a single consume, over a clean channel.
func TestHappyPathSmallMessage(t *testing.T) {
	a, b := newPair(t, dgram.Impairment{}, config.DefaultTransport())

	want := []byte("hello")
	a.Send(want)
	got := recvAll(t, b, len(want))

	require.Equal(t, want, got)
}

// TestExactlyOneSegment covers the case where an append is exactly one
// segment wide, requiring no segmentation at all.
func TestExactlyOneSegment(t *testing.T) {
	cfg := config.DefaultTransport()
	cfg.SegmentSize = 1000
	a, b := newPair(t, dgram.Impairment{}, cfg)

	want := make([]byte, 1000)
	for i := range want {
		want[i] = 0x41
	}
	a.Send(want)
	got := recvAll(t, b, len(want))

	require.Equal(t, want, got)
	require.EqualValues(t, 1, a.Stats().SegmentsSent)
}

// TestMultiSegmentAppend covers an append larger than S, requiring the
// sender to chop it into multiple segments and the receiver to reassemble
// them in order.
func TestMultiSegmentAppend(t *testing.T) {
	a, b := newPair(t, dgram.Impairment{}, config.DefaultTransport())

	want := randBytes(2500, 1)
	a.Send(want)
	got := recvAll(t, b, len(want))

	require.Equal(t, want, got)
	require.Greater(t, a.Stats().SegmentsSent, uint64(1))
}

// TestLossyChannelRetransmits covers a channel dropping roughly 30% of
// datagrams: every byte is still delivered, exactly once and in order,
// via the receiver's retransmit requests.
func TestLossyChannelRetransmits(t *testing.T) {
	cfg := config.DefaultTransport()
	cfg.SegmentSize = 200
	impair := dgram.Impairment{DropProb: 0.3, Rand: rand.New(rand.NewSource(2))}
	a, b := newPair(t, impair, cfg)

	want := randBytes(10000, 3)
	go a.Send(want)
	got := recvAll(t, b, len(want))

	require.Equal(t, want, got)
	require.Greater(t, b.Stats().RequestsSent, uint64(0))
	require.Greater(t, a.Stats().Retransmissions, uint64(0))
}

// TestReorderingChannel covers datagrams arriving out of send order: they
// are still reassembled correctly, since the receiver only ever stores by
// absolute offset.
func TestReorderingChannel(t *testing.T) {
	cfg := config.DefaultTransport()
	cfg.SegmentSize = 250
	impair := dgram.Impairment{ReorderWindow: 5, Rand: rand.New(rand.NewSource(4))}
	a, b := newPair(t, impair, cfg)

	want := randBytes(4000, 5)
	go a.Send(want)
	got := recvAll(t, b, len(want))

	require.Equal(t, want, got)
}

// TestInterleavedDirections covers both endpoints sending and receiving
// concurrently, each direction independent of the other despite sharing a
// negotiated segment size.
func TestInterleavedDirections(t *testing.T) {
	cfg := config.DefaultTransport()
	cfg.SegmentSize = 800
	a, b := newPair(t, dgram.Impairment{}, cfg)

	wantAB := randBytes(800, 6)
	wantBA := randBytes(1200, 7)

	go a.Send(wantAB)
	go b.Send(wantBA)

	gotAB := recvAll(t, b, len(wantAB))
	gotBA := recvAll(t, a, len(wantBA))

	require.Equal(t, wantAB, gotAB)
	require.Equal(t, wantBA, gotBA)
}

// TestDuplicateDeliveryIsIdempotent covers a duplicated datagram: it must
// not corrupt or double-count received bytes.
func TestDuplicateDeliveryIsIdempotent(t *testing.T) {
	cfg := config.DefaultTransport()
	cfg.SegmentSize = 500
	impair := dgram.Impairment{DupProb: 1, Rand: rand.New(rand.NewSource(8))}
	a, b := newPair(t, impair, cfg)

	want := randBytes(500, 9)
	a.Send(want)
	got := recvAll(t, b, len(want))

	require.Equal(t, want, got)
	require.Greater(t, b.Stats().DuplicatesDropped, uint64(0))
}

// TestCloseIsIdempotent covers Close being called more than once and from
// either side without blocking or erroring twice.
func TestCloseIsIdempotent(t *testing.T) {
	a, b := newPair(t, dgram.Impairment{}, config.DefaultTransport())

	a.Send([]byte("x"))
	recvAll(t, b, 1)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close())
}

// TestBeaconBudgetExceeded covers the optional bounded-retry behavior:
// when the peer never answers a request, Recv gives up instead of
// blocking forever.
func TestBeaconBudgetExceeded(t *testing.T) {
	cfg := config.DefaultTransport()
	cfg.SegmentSize = 100
	cfg.MaxBeaconRetries = 3
	impair := dgram.Impairment{DropProb: 1, Rand: rand.New(rand.NewSource(11))}
	a, b := newPair(t, impair, cfg)

	go a.Send(randBytes(100, 12))
	_, err := b.Recv(100)

	require.ErrorIs(t, err, stream.ErrBeaconBudgetExceeded)
}
