package payloads

import (
	"errors"
	"fmt"
)

// Message is implemented by every primitive payload type.
type Message interface {
	TypeName() string
	Marshal() ([]byte, error)
	Unmarshal(data []byte) error
}

// ErrUnknownTypeName reports a type name with no registered payload message.
var ErrUnknownTypeName = errors.New("unknown payload type name")

var factories = map[string]func() Message{
	TypeNameTimestampedFloat:  func() Message { return &TimestampedFloat{} },
	TypeNameTimestampedString: func() Message { return &TimestampedString{} },
	TypeNameTimestampedBytes:  func() Message { return &TimestampedBytes{} },
}

// New returns a fresh, zero message for the given fully-qualified type name.
func New(typeName string) (Message, error) {
	factory, ok := factories[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTypeName, typeName)
	}
	return factory(), nil
}

// Decode parses payload bytes as the message type registered under typeName.
// Generic consumers use this after resolving a subject to its type name.
func Decode(typeName string, payload []byte) (Message, error) {
	msg, err := New(typeName)
	if err != nil {
		return nil, err
	}

	if err := msg.Unmarshal(payload); err != nil {
		return nil, fmt.Errorf("decode %s: %w", typeName, err)
	}

	return msg, nil
}
