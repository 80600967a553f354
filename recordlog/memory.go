package recordlog

import (
	"bytes"
	"context"
	"sort"
	"sync"
)

var _ Log = (*Memory)(nil)

// Memory is an in-memory record log, mainly for tests and tooling.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]Record
}

func NewMemory() *Memory {
	return &Memory{
		records: make(map[string][]Record),
	}
}

func (m *Memory) Append(ctx context.Context, rec Record) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	rec.Seq = uint64(len(m.records[rec.Key])) + 1
	rec.Payload = bytes.Clone(rec.Payload)
	m.records[rec.Key] = append(m.records[rec.Key], rec)

	return rec.Seq, nil
}

func (m *Memory) Read(ctx context.Context, key string) Records {
	return func(yield func(*Record, error) bool) {
		m.mu.RLock()
		// Appends never mutate stored records, so yielding from a snapshot
		// of the slice header is safe without holding the lock.
		records := m.records[key]
		m.mu.RUnlock()

		for i := range records {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			rec := records[i]
			if !yield(&rec, nil) {
				return
			}
		}
	}
}

func (m *Memory) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.records))
	for key := range m.records {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return keys, nil
}
