// Package logging wraps github.com/sirupsen/logrus with the package-level
// logger and structured fields this module's call sites use. The stream
// package logs framing discards and dropped duplicate datagrams at Debug,
// since they're routine and never surfaced through the API, and
// segment-size negotiation at Info.
package logging

import "github.com/sirupsen/logrus"

// Log is the package-wide logger. Replace it (or call SetLevel) before
// constructing endpoints to change verbosity or destination.
var Log = logrus.New()

func init() {
	Log.SetLevel(logrus.InfoLevel)
}

// SetLevel adjusts the verbosity of the package logger.
func SetLevel(level logrus.Level) {
	Log.SetLevel(level)
}

// WithEndpoint returns a logger entry annotated with an endpoint's local
// and peer addresses via WithFields.
func WithEndpoint(local, peer string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{"local": local, "peer": peer})
}
