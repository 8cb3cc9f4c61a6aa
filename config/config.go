// Package config loads the stream transport's tunables from an ini file
// rather than hand-rolling a flat-file reader.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"
)

// Transport holds the tunables for a stream.Endpoint.
type Transport struct {
	// SegmentSize pins the segment size explicitly. Zero means "negotiate":
	// derive it from the first Send/Recv call's size, capped at 1000.
	SegmentSize int

	// PollTimeout is the listener's datagram-port read timeout, and so also
	// its beacon cadence: how often it re-requests a still-missing segment.
	PollTimeout time.Duration

	// SendBuffer and RecvBuffer are read from the send_buffer and
	// recv_buffer keys. Nothing applies them: a UDPPort keeps the OS default
	// socket buffer sizes.
	SendBuffer int
	RecvBuffer int

	// MaxBeaconRetries bounds how many unanswered beacons Recv will wait
	// through for one pending segment before giving up. Zero means
	// unbounded waiting.
	MaxBeaconRetries int
}

// DefaultTransport returns conservative tunables: unbounded retry, a 10µs
// poll timeout, and per-direction segment-size negotiation from the first
// call.
func DefaultTransport() *Transport {
	return &Transport{
		SegmentSize:      0,
		PollTimeout:      10 * time.Microsecond,
		SendBuffer:       1 << 20,
		RecvBuffer:       1 << 20,
		MaxBeaconRetries: 0,
	}
}

// Load reads transport tunables from an ini file at path. An empty path
// returns DefaultTransport(). Keys absent from the file keep their default
// value.
func Load(path string) (*Transport, error) {
	cfg := DefaultTransport()
	if path == "" {
		return cfg, nil
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	sec := f.Section("transport")
	cfg.SegmentSize = sec.Key("segment_size").MustInt(cfg.SegmentSize)
	cfg.SendBuffer = sec.Key("send_buffer").MustInt(cfg.SendBuffer)
	cfg.RecvBuffer = sec.Key("recv_buffer").MustInt(cfg.RecvBuffer)
	cfg.MaxBeaconRetries = sec.Key("max_beacon_retries").MustInt(cfg.MaxBeaconRetries)

	if raw := sec.Key("poll_timeout").String(); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("config: poll_timeout %q: %w", raw, err)
		}
		cfg.PollTimeout = d
	}

	return cfg, nil
}

// LoadOrDefault is like Load but falls back to DefaultTransport when path
// doesn't exist or fails to parse, tolerating a missing config file rather
// than failing startup over it.
func LoadOrDefault(path string) *Transport {
	if path == "" {
		return DefaultTransport()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultTransport()
	}
	cfg, err := Load(path)
	if err != nil {
		return DefaultTransport()
	}
	return cfg
}
