package recordlog

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/pebble"
)

var _ Log = (*Pebble)(nil)

var (
	recordKeyPrefix = []byte("r/")
	seqKeyPrefix    = []byte("s/")
)

// Key expressions and sequences live in the pebble key, so the value only
// carries the timestamps and the payload.
type pebbleRecordData struct {
	ReceivedAt time.Time `json:"receivedAt"`
	EnclosedAt time.Time `json:"enclosedAt"`
	Payload    []byte    `json:"payload"`
}

// Pebble is a persistent record log backed by a pebble database.
//
// Layout:
//
//	r/<key>\x00<seq:8 bytes big-endian> -> record data (JSON)
//	s/<key>                             -> last sequence (8 bytes big-endian)
//
// Key expressions never contain a NUL byte, so the separator is unambiguous.
type Pebble struct {
	db *pebble.DB
	mu sync.Mutex
}

// NewPebble wraps an already opened database. The caller keeps ownership of
// db and closes it after the log is no longer used.
func NewPebble(db *pebble.DB) *Pebble {
	return &Pebble{db: db}
}

func (p *Pebble) Append(ctx context.Context, rec Record) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	seqKey := seqKeyFor(rec.Key)
	lastSeq, err := p.getSeq(seqKey)
	if err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}
	seq := lastSeq + 1

	value, err := json.Marshal(pebbleRecordData{
		ReceivedAt: rec.ReceivedAt,
		EnclosedAt: rec.EnclosedAt,
		Payload:    rec.Payload,
	})
	if err != nil {
		return 0, fmt.Errorf("append record: marshal record data: %w", err)
	}

	batch := p.db.NewBatch()
	defer batch.Close()

	if err := batch.Set(recordKeyFor(rec.Key, seq), value, nil); err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}

	seqValue := make([]byte, 8)
	binary.BigEndian.PutUint64(seqValue, seq)
	if err := batch.Set(seqKey, seqValue, nil); err != nil {
		return 0, fmt.Errorf("append record: %w", err)
	}

	if err := batch.Commit(pebble.Sync); err != nil {
		return 0, fmt.Errorf("append record: commit batch: %w", err)
	}

	return seq, nil
}

func (p *Pebble) Read(ctx context.Context, key string) Records {
	return func(yield func(*Record, error) bool) {
		prefix := recordKeyPrefixFor(key)

		iter, err := p.db.NewIter(&pebble.IterOptions{
			LowerBound: prefix,
			UpperBound: prefixEndKey(prefix),
		})
		if err != nil {
			yield(nil, fmt.Errorf("read records: create iterator: %w", err))
			return
		}
		defer iter.Close()

		for iter.First(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			seq, err := parseRecordKey(iter.Key())
			if err != nil {
				yield(nil, fmt.Errorf("read records: %w", err))
				return
			}

			rec, err := unmarshalRecord(key, seq, iter.Value())
			if err != nil {
				yield(nil, fmt.Errorf("read records: %w", err))
				return
			}

			if !yield(rec, nil) {
				return
			}
		}
		if err := iter.Error(); err != nil {
			yield(nil, fmt.Errorf("read records: iterator error: %w", err))
		}
	}
}

func (p *Pebble) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: seqKeyPrefix,
		UpperBound: prefixEndKey(seqKeyPrefix),
	})
	if err != nil {
		return nil, fmt.Errorf("list keys: create iterator: %w", err)
	}
	defer iter.Close()

	var keys []string
	for iter.First(); iter.Valid(); iter.Next() {
		keys = append(keys, string(iter.Key()[len(seqKeyPrefix):]))
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("list keys: iterator error: %w", err)
	}

	return keys, nil
}

func unmarshalRecord(key string, seq uint64, value []byte) (*Record, error) {
	var data pebbleRecordData
	if err := json.Unmarshal(value, &data); err != nil {
		return nil, fmt.Errorf("unmarshal record data: %w", err)
	}

	return &Record{
		Key:        key,
		Seq:        seq,
		ReceivedAt: data.ReceivedAt,
		EnclosedAt: data.EnclosedAt,
		Payload:    data.Payload,
	}, nil
}

func (p *Pebble) getSeq(seqKey []byte) (uint64, error) {
	value, closer, err := p.db.Get(seqKey)
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("get sequence: %w", err)
	}
	defer closer.Close()

	if len(value) != 8 {
		return 0, fmt.Errorf("get sequence: unexpected value length %d", len(value))
	}

	return binary.BigEndian.Uint64(value), nil
}

func recordKeyPrefixFor(key string) []byte {
	prefix := make([]byte, 0, len(recordKeyPrefix)+len(key)+1)
	prefix = append(prefix, recordKeyPrefix...)
	prefix = append(prefix, key...)
	prefix = append(prefix, 0x00)
	return prefix
}

func recordKeyFor(key string, seq uint64) []byte {
	k := recordKeyPrefixFor(key)
	return binary.BigEndian.AppendUint64(k, seq)
}

func seqKeyFor(key string) []byte {
	k := make([]byte, 0, len(seqKeyPrefix)+len(key))
	k = append(k, seqKeyPrefix...)
	return append(k, key...)
}

func parseRecordKey(k []byte) (uint64, error) {
	// The sequence suffix is fixed-width and may itself contain NUL bytes,
	// so the separator is located positionally from the end.
	sep := len(k) - 9
	if sep < len(recordKeyPrefix) || k[sep] != 0x00 {
		return 0, fmt.Errorf("unexpected record key %q", k)
	}
	return binary.BigEndian.Uint64(k[sep+1:]), nil
}

// prefixEndKey returns the smallest key greater than every key with the
// given prefix, for use as an iterator upper bound.
func prefixEndKey(prefix []byte) []byte {
	end := bytes.Clone(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil // prefix is all 0xff, iterate to the end
}
