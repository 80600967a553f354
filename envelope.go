package keelson

import (
	"bytes"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/rise-maritime/keelson-go/internal/wire"
	"github.com/rise-maritime/keelson-go/pkg/timeutils"
)

// Wire format of the envelope record:
//
//	message Envelope {
//	  google.protobuf.Timestamp enclosed_at = 1;
//	  bytes payload = 2;
//	}
//
// Byte-exact compatibility with the other keelson SDKs depends on these
// field numbers and wire types.
const (
	fieldEnclosedAt = protowire.Number(1)
	fieldPayload    = protowire.Number(2)
)

// Unwrapped is the result of uncovering an envelope: the receipt timestamp,
// the timestamp the envelope was sealed with, and the payload verbatim.
type Unwrapped struct {
	ReceivedAt time.Time
	EnclosedAt time.Time
	Payload    []byte
}

// Codec seals payloads into envelopes and uncovers them again. The zero
// configuration reads the system clock; tests inject a fixed provider.
//
// A Codec holds no mutable state, so a single instance is safe for
// concurrent use.
type Codec struct {
	now timeutils.TimeProvider
}

type CodecOption func(*Codec)

// WithTimeProvider overrides the clock used to stamp and receive envelopes.
func WithTimeProvider(tp timeutils.TimeProvider) CodecOption {
	return func(c *Codec) {
		c.now = tp
	}
}

func NewCodec(opts ...CodecOption) *Codec {
	c := &Codec{
		now: timeutils.NewRealTimeProvider(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Enclose seals payload into an envelope stamped with the current time and
// returns the serialized envelope. The payload is carried as opaque bytes
// and may be empty.
func (c *Codec) Enclose(payload []byte) ([]byte, error) {
	return c.EncloseAt(payload, c.now.Now())
}

// EncloseAt is like Enclose but stamps the envelope with the given time.
func (c *Codec) EncloseAt(payload []byte, enclosedAt time.Time) ([]byte, error) {
	buf := make([]byte, 0, len(payload)+32)

	buf, err := wire.AppendTimestamp(buf, fieldEnclosedAt, enclosedAt)
	if err != nil {
		return nil, fmt.Errorf("enclose: %w", err)
	}

	// Canonical proto3 encoding omits empty bytes fields.
	if len(payload) > 0 {
		buf = protowire.AppendTag(buf, fieldPayload, protowire.BytesType)
		buf = protowire.AppendBytes(buf, payload)
	}

	return buf, nil
}

// Uncover captures the receipt time, parses message as a serialized envelope
// and returns the receipt timestamp, the enclosed timestamp and the payload.
// Bytes that do not parse fail with ErrMalformedEnvelope.
//
// An envelope without an enclosed_at field is structurally valid; its
// EnclosedAt is the zero time, which callers can detect with IsZero.
func (c *Codec) Uncover(message []byte) (Unwrapped, error) {
	receivedAt := c.now.Now()

	enclosedAt, payload, err := parseEnvelope(message)
	if err != nil {
		return Unwrapped{}, fmt.Errorf("uncover: %w: %w", ErrMalformedEnvelope, err)
	}

	return Unwrapped{
		ReceivedAt: receivedAt,
		EnclosedAt: enclosedAt,
		Payload:    payload,
	}, nil
}

func parseEnvelope(message []byte) (time.Time, []byte, error) {
	var enclosedAt time.Time
	var payload []byte

	err := wire.Scan(message, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch {
		case num == fieldEnclosedAt && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(rest)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			t, err := wire.UnmarshalTimestamp(v)
			if err != nil {
				return 0, err
			}
			enclosedAt = t
			return n, nil

		case num == fieldPayload && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(rest)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			payload = bytes.Clone(v)
			return n, nil

		default:
			// Unknown field, skipped by the scanner.
			return 0, nil
		}
	})
	if err != nil {
		return time.Time{}, nil, err
	}

	return enclosedAt, payload, nil
}
