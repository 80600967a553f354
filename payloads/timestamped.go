// Package payloads contains the keelson primitive payload messages: values
// paired with the timestamp at which they were sampled. These are the
// payloads carried inside envelopes on the raw and instrument subjects; the
// envelope codec itself never touches them.
package payloads

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/rise-maritime/keelson-go/internal/wire"
)

// Fully-qualified type names, as used by the subject registry.
const (
	TypeNameTimestampedFloat  = "keelson.primitives.TimestampedFloat"
	TypeNameTimestampedString = "keelson.primitives.TimestampedString"
	TypeNameTimestampedBytes  = "keelson.primitives.TimestampedBytes"
)

// All primitive payloads share the same field layout:
//
//	google.protobuf.Timestamp timestamp = 1;
//	<value> value = 2;
const (
	fieldTimestamp = protowire.Number(1)
	fieldValue     = protowire.Number(2)
)

// TimestampedFloat is a double value with its sampling timestamp.
type TimestampedFloat struct {
	Timestamp time.Time
	Value     float64
}

func (m *TimestampedFloat) TypeName() string { return TypeNameTimestampedFloat }

func (m *TimestampedFloat) Marshal() ([]byte, error) {
	buf, err := wire.AppendTimestamp(nil, fieldTimestamp, m.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", m.TypeName(), err)
	}

	if m.Value != 0 {
		buf = protowire.AppendTag(buf, fieldValue, protowire.Fixed64Type)
		buf = protowire.AppendFixed64(buf, math.Float64bits(m.Value))
	}

	return buf, nil
}

func (m *TimestampedFloat) Unmarshal(data []byte) error {
	*m = TimestampedFloat{}

	err := wire.Scan(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch {
		case num == fieldTimestamp && typ == protowire.BytesType:
			t, n, err := consumeTimestampField(rest)
			if err != nil {
				return 0, err
			}
			m.Timestamp = t
			return n, nil

		case num == fieldValue && typ == protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(rest)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.Value = math.Float64frombits(v)
			return n, nil

		default:
			return 0, nil
		}
	})
	if err != nil {
		return fmt.Errorf("unmarshal %s: %w", m.TypeName(), err)
	}
	return nil
}

// TimestampedString is a string value with its sampling timestamp.
type TimestampedString struct {
	Timestamp time.Time
	Value     string
}

func (m *TimestampedString) TypeName() string { return TypeNameTimestampedString }

func (m *TimestampedString) Marshal() ([]byte, error) {
	buf, err := wire.AppendTimestamp(nil, fieldTimestamp, m.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", m.TypeName(), err)
	}

	if m.Value != "" {
		buf = protowire.AppendTag(buf, fieldValue, protowire.BytesType)
		buf = protowire.AppendString(buf, m.Value)
	}

	return buf, nil
}

func (m *TimestampedString) Unmarshal(data []byte) error {
	*m = TimestampedString{}

	err := wire.Scan(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch {
		case num == fieldTimestamp && typ == protowire.BytesType:
			t, n, err := consumeTimestampField(rest)
			if err != nil {
				return 0, err
			}
			m.Timestamp = t
			return n, nil

		case num == fieldValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(rest)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.Value = v
			return n, nil

		default:
			return 0, nil
		}
	})
	if err != nil {
		return fmt.Errorf("unmarshal %s: %w", m.TypeName(), err)
	}
	return nil
}

// TimestampedBytes is an opaque byte value with its sampling timestamp.
type TimestampedBytes struct {
	Timestamp time.Time
	Value     []byte
}

func (m *TimestampedBytes) TypeName() string { return TypeNameTimestampedBytes }

func (m *TimestampedBytes) Marshal() ([]byte, error) {
	buf, err := wire.AppendTimestamp(nil, fieldTimestamp, m.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", m.TypeName(), err)
	}

	if len(m.Value) > 0 {
		buf = protowire.AppendTag(buf, fieldValue, protowire.BytesType)
		buf = protowire.AppendBytes(buf, m.Value)
	}

	return buf, nil
}

func (m *TimestampedBytes) Unmarshal(data []byte) error {
	*m = TimestampedBytes{}

	err := wire.Scan(data, func(num protowire.Number, typ protowire.Type, rest []byte) (int, error) {
		switch {
		case num == fieldTimestamp && typ == protowire.BytesType:
			t, n, err := consumeTimestampField(rest)
			if err != nil {
				return 0, err
			}
			m.Timestamp = t
			return n, nil

		case num == fieldValue && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(rest)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.Value = bytes.Clone(v)
			return n, nil

		default:
			return 0, nil
		}
	})
	if err != nil {
		return fmt.Errorf("unmarshal %s: %w", m.TypeName(), err)
	}
	return nil
}

func consumeTimestampField(rest []byte) (time.Time, int, error) {
	v, n := protowire.ConsumeBytes(rest)
	if n < 0 {
		return time.Time{}, 0, protowire.ParseError(n)
	}
	t, err := wire.UnmarshalTimestamp(v)
	if err != nil {
		return time.Time{}, 0, err
	}
	return t, n, nil
}
