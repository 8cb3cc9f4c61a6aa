// Package waiter provides Signal, the single-slot wakeup rendezvous used by
// the stream receive side's pending-request slot.
//
// Adapted from the teacher's generic multi-waiter event queue
// (waiter.Queue, an intrusive ilist.List of Entry values notified by
// EventMask, modeled on poll()'s EPOLLIN/EPOLLOUT/...). Spec.md's design
// only ever needs one thing: "at most one outstanding request; the
// listener raises a signal when its matching data arrives" (see §9's
// design notes). A queue capable of holding many concurrently registered
// waiters against a bitmask of event kinds is more machinery than that
// calls for, so the intrusive list and the event-mask plumbing are dropped
// in favor of a single buffered channel that holds at most one pending
// firing; it may be raised many times while one request is outstanding.
// The non-blocking-send callback at the
// heart of the teacher's NewChannelEntry is the part that survives.
package waiter

// Signal is a single-slot wakeup: at most one firing is pending at a time,
// and Raise may be called any number of times. A receiver arms it before
// checking whether the condition it's waiting on already holds, then
// blocks on C; a notifier calls Raise when the condition becomes true.
type Signal struct {
	ch chan struct{}
}

// NewSignal returns an armed, empty Signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{}, 1)}
}

// C returns the channel to block on.
func (s *Signal) C() <-chan struct{} {
	return s.ch
}

// Raise wakes whoever is blocked on C, if anyone. It never blocks: a raise
// with nobody listening, or with a firing already pending, is a no-op.
func (s *Signal) Raise() {
	select {
	case s.ch <- struct{}{}:
	default:
	}
}

// Drain clears a pending firing without blocking. Used to re-arm a Signal
// before waiting again.
func (s *Signal) Drain() {
	select {
	case <-s.ch:
	default:
	}
}
