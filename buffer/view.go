// Package buffer provides View, the growable append-only byte buffer used
// for a stream endpoint's outbound and inbound directions.
//
// Adapted from the teacher's buffer.View, which originally existed to pair
// with a scatter/gather VectorisedView for reassembling TCP options and
// multi-fragment packets. This transport never splits a direction's bytes
// across fragments -- the outbound and inbound buffers are each a single
// growing region -- so only the contiguous View and its growth survive;
// VectorisedView and the header-prepending Prependable buffer it existed
// alongside are dropped as unneeded.
package buffer

// View is a slice of a buffer, with convenience methods for the
// append-only buffers used on both sides of a stream endpoint.
type View []byte

// NewView allocates a new, zeroed view of the given size.
func NewView(size int) View {
	return make(View, size)
}

// GrowTo extends v with zeroed bytes until it is at least n bytes long. It
// is a no-op if v is already that long, matching the append-only buffer's
// invariant that bytes already present are never overwritten.
func (v *View) GrowTo(n int) {
	if len(*v) >= n {
		return
	}
	*v = append(*v, make([]byte, n-len(*v))...)
}
