package recorder_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keelson "github.com/rise-maritime/keelson-go"
	"github.com/rise-maritime/keelson-go/recorder"
	"github.com/rise-maritime/keelson-go/recordlog"
)

type stubSource struct {
	subscribed chan struct{}
	fn         func(recorder.Sample)
	stopped    atomic.Bool
}

func newStubSource() *stubSource {
	return &stubSource{subscribed: make(chan struct{})}
}

func (s *stubSource) Subscribe(_ context.Context, fn func(recorder.Sample)) (func(), error) {
	s.fn = fn
	close(s.subscribed)
	return func() { s.stopped.Store(true) }, nil
}

func countRecords(store recordlog.Log, key string) int {
	n := 0
	for _, err := range store.Read(context.Background(), key) {
		if err != nil {
			return -1
		}
		n++
	}
	return n
}

func TestRecorder_RecordsAndDropsMalformed(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	store := recordlog.NewMemory()
	src := newStubSource()

	rec := recorder.New(src, store,
		recorder.WithSlogHandler(nil),
		recorder.WithBufferSize(8),
	)

	done := make(chan error, 1)
	go func() { done <- rec.Run(ctx) }()

	select {
	case <-src.subscribed:
	case <-time.After(time.Second):
		t.Fatal("source was never subscribed")
	}

	key := keelson.ConstructPubSubKey("realm", "boat-1", "raw", "cam-0")

	envelope, err := keelson.Enclose([]byte("hello"))
	require.NoError(t, err)

	src.fn(recorder.Sample{Key: key, Data: envelope})
	src.fn(recorder.Sample{Key: key, Data: []byte{0x0A}}) // not an envelope
	src.fn(recorder.Sample{Key: key, Data: envelope})

	require.Eventually(t, func() bool {
		return countRecords(store, key) == 2
	}, time.Second, 10*time.Millisecond, "expected the two valid envelopes to be recorded")

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "cancellation is a clean shutdown")
	case <-time.After(time.Second):
		t.Fatal("recorder did not shut down")
	}

	assert.True(t, src.stopped.Load(), "subscription should be stopped on shutdown")
	assert.Equal(t, 2, countRecords(store, key), "the malformed sample must not be stored")

	records := 0
	for r, err := range store.Read(context.Background(), key) {
		require.NoError(t, err)
		records++
		assert.Equal(t, []byte("hello"), r.Payload)
		assert.False(t, r.ReceivedAt.Before(r.EnclosedAt))
	}
	require.Equal(t, 2, records)
}
