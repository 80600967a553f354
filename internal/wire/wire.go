// Package wire holds the protobuf wire-format helpers shared by the envelope
// codec and the primitive payload messages.
package wire

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protowire"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// AppendTimestamp appends a google.protobuf.Timestamp submessage field for t.
func AppendTimestamp(b []byte, num protowire.Number, t time.Time) ([]byte, error) {
	ts := timestamppb.New(t)
	if err := ts.CheckValid(); err != nil {
		return nil, fmt.Errorf("timestamp field %d: %w", num, err)
	}

	tsBytes, err := proto.Marshal(ts)
	if err != nil {
		return nil, fmt.Errorf("timestamp field %d: %w", num, err)
	}

	b = protowire.AppendTag(b, num, protowire.BytesType)
	b = protowire.AppendBytes(b, tsBytes)
	return b, nil
}

// UnmarshalTimestamp parses a serialized google.protobuf.Timestamp.
// The returned time is in UTC.
func UnmarshalTimestamp(v []byte) (time.Time, error) {
	var ts timestamppb.Timestamp
	if err := proto.Unmarshal(v, &ts); err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp: %w", err)
	}
	return ts.AsTime(), nil
}

// Scan walks the top-level fields of b, calling fn for each one. fn reports
// how many bytes of the field value it consumed; a field fn does not
// recognize (consumed == 0) is skipped according to its wire type, so
// unknown fields never fail a parse.
func Scan(b []byte, fn func(num protowire.Number, typ protowire.Type, rest []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		consumed, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if consumed == 0 {
			consumed = protowire.ConsumeFieldValue(num, typ, b)
			if consumed < 0 {
				return protowire.ParseError(consumed)
			}
		}
		b = b[consumed:]
	}
	return nil
}
