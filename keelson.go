// Package keelson implements the keelson enveloping protocol: arbitrary
// opaque payloads are sealed together with their creation timestamp into a
// compact, field-tagged binary envelope, so that downstream consumers can
// measure transit latency and recover the payload unchanged.
//
// The package also provides the keelson key expression helpers used to route
// envelopes between producers and consumers. Resolution of well-known
// subjects to payload type names lives in the subject package; the primitive
// payload messages live in the payloads package.
package keelson

import "time"

var defaultCodec = NewCodec()

// Enclose seals payload into an envelope stamped with the current time,
// using the default codec.
func Enclose(payload []byte) ([]byte, error) {
	return defaultCodec.Enclose(payload)
}

// EncloseAt is like Enclose but uses the given timestamp instead of the
// current time.
func EncloseAt(payload []byte, enclosedAt time.Time) ([]byte, error) {
	return defaultCodec.EncloseAt(payload, enclosedAt)
}

// Uncover parses a serialized envelope using the default codec.
func Uncover(message []byte) (Unwrapped, error) {
	return defaultCodec.Uncover(message)
}
