// Package recordlog stores uncovered envelopes as append-only logs, one per
// key expression. It is the durable half of the recording pipeline: the
// recorder unwraps incoming envelopes and appends them here.
package recordlog

import (
	"context"
	"iter"
	"time"
)

// Record is one received envelope, uncovered and attributed to the key it
// arrived on. Seq is assigned by the log, starting at 1 per key.
type Record struct {
	Key        string    `json:"key"`
	Seq        uint64    `json:"seq"`
	ReceivedAt time.Time `json:"receivedAt"`
	EnclosedAt time.Time `json:"enclosedAt"`
	Payload    []byte    `json:"payload"`
}

// Records iterates a key's records in sequence order.
type Records = iter.Seq2[*Record, error]

type Log interface {
	// Append stores rec under rec.Key and returns its assigned sequence.
	// Any Seq already set on rec is ignored.
	Append(ctx context.Context, rec Record) (uint64, error)

	// Read returns the records stored for key, oldest first.
	Read(ctx context.Context, key string) Records

	// Keys lists the keys with at least one record, sorted.
	Keys(ctx context.Context) ([]string, error)
}
