// Package transport moves serialized envelopes between keelson producers
// and consumers over NATS. Key expressions are mapped onto NATS subjects for
// routing, and the exact key travels in a message header so no information
// is lost in the mapping.
package transport

import (
	"context"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/rise-maritime/keelson-go/recorder"
)

// Header carrying the original keelson key expression on every message.
const KeyHeader = "Keelson-Key"

const defaultSubjectPrefix = "keelson"

// SubjectFor maps a keelson key expression onto a NATS subject below the
// given prefix. "/" separators become "." tokens; the wildcard segments "*"
// and "**" become the NATS wildcards "*" and ">". Key segments must not
// contain "." themselves.
func SubjectFor(prefix, keyExpr string) string {
	segments := strings.Split(keyExpr, "/")
	for i, segment := range segments {
		if segment == "**" {
			segments[i] = ">"
		}
	}
	return prefix + "." + strings.Join(segments, ".")
}

// KeyFor reverses SubjectFor for concrete (wildcard-free) subjects.
func KeyFor(prefix, subject string) string {
	return strings.ReplaceAll(strings.TrimPrefix(subject, prefix+"."), ".", "/")
}

var _ recorder.Source = (*NATS)(nil)

// NATS subscribes to every key matching a key expression and delivers the
// raw envelope samples to the recorder.
type NATS struct {
	nc      *nats.Conn
	keyExpr string

	subjectPrefix string
	queueGroup    string
}

type NATSOption func(*NATS)

// WithSubjectPrefix sets the NATS subject prefix under which keelson keys
// are mapped. Defaults to "keelson".
func WithSubjectPrefix(prefix string) NATSOption {
	return func(n *NATS) {
		if prefix != "" {
			n.subjectPrefix = prefix
		}
	}
}

// WithQueueGroup makes the subscription a queue subscription, so multiple
// recorders can share one key expression without duplicating records.
func WithQueueGroup(group string) NATSOption {
	return func(n *NATS) {
		n.queueGroup = group
	}
}

func NewNATS(nc *nats.Conn, keyExpr string, opts ...NATSOption) *NATS {
	n := &NATS{
		nc:            nc,
		keyExpr:       keyExpr,
		subjectPrefix: defaultSubjectPrefix,
	}

	for _, opt := range opts {
		opt(n)
	}

	return n
}

// Subscribe implements recorder.Source.
func (n *NATS) Subscribe(_ context.Context, fn func(recorder.Sample)) (func(), error) {
	subject := SubjectFor(n.subjectPrefix, n.keyExpr)

	handler := func(m *nats.Msg) {
		key := m.Header.Get(KeyHeader)
		if key == "" {
			key = KeyFor(n.subjectPrefix, m.Subject)
		}
		fn(recorder.Sample{Key: key, Data: m.Data})
	}

	var (
		sub *nats.Subscription
		err error
	)
	if n.queueGroup != "" {
		sub, err = n.nc.QueueSubscribe(subject, n.queueGroup, handler)
	} else {
		sub, err = n.nc.Subscribe(subject, handler)
	}
	if err != nil {
		return nil, fmt.Errorf("transport: subscribe to %q: %w", subject, err)
	}

	return func() { _ = sub.Unsubscribe() }, nil
}

// Publisher publishes serialized envelopes on keelson keys.
type Publisher struct {
	nc            *nats.Conn
	subjectPrefix string
}

type PublisherOption func(*Publisher)

// WithPublisherSubjectPrefix sets the subject prefix, matching the
// subscriber side. Defaults to "keelson".
func WithPublisherSubjectPrefix(prefix string) PublisherOption {
	return func(p *Publisher) {
		if prefix != "" {
			p.subjectPrefix = prefix
		}
	}
}

func NewPublisher(nc *nats.Conn, opts ...PublisherOption) *Publisher {
	p := &Publisher{
		nc:            nc,
		subjectPrefix: defaultSubjectPrefix,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Publish sends a serialized envelope on the given key expression.
func (p *Publisher) Publish(key string, envelope []byte) error {
	msg := nats.NewMsg(SubjectFor(p.subjectPrefix, key))
	msg.Header.Set(KeyHeader, key)
	msg.Data = envelope

	if err := p.nc.PublishMsg(msg); err != nil {
		return fmt.Errorf("transport: publish on %q: %w", key, err)
	}

	return nil
}
