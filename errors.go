package keelson

import "errors"

var (
	// ErrMalformedEnvelope reports bytes that do not parse as an envelope
	// record. The codec never substitutes a zero-valued envelope on parse
	// failure.
	ErrMalformedEnvelope = errors.New("malformed envelope")

	// ErrMalformedKey reports a key expression that does not match any of
	// the keelson key formats.
	ErrMalformedKey = errors.New("malformed key expression")
)
