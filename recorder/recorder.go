// Package recorder consumes enveloped samples from a transport source,
// uncovers each envelope and appends the result to a record log. It is the
// core of the keelson-record tool.
package recorder

import (
	"context"
	"log/slog"

	"github.com/DeluxeOwl/zerrors"
	"golang.org/x/sync/errgroup"

	keelson "github.com/rise-maritime/keelson-go"
	"github.com/rise-maritime/keelson-go/recordlog"
)

// Sample is one raw message from the transport: the key expression it
// arrived on and the serialized envelope bytes.
type Sample struct {
	Key  string
	Data []byte
}

// Source delivers samples to a handler. Subscribe returns a stop function
// that halts delivery; the handler may be called from the transport's own
// goroutines until stop returns.
type Source interface {
	Subscribe(ctx context.Context, fn func(Sample)) (stop func(), err error)
}

type RecorderError string

const (
	ErrSubscribe    RecorderError = "subscribe"
	ErrAppendRecord RecorderError = "append_record"
)

type Recorder struct {
	source Source
	store  recordlog.Log

	// configurable
	codec      *keelson.Codec
	log        *slog.Logger
	bufferSize int
}

type Option func(*Recorder)

// WithSlogHandler sets the logger. A nil handler disables logging.
func WithSlogHandler(handler slog.Handler) Option {
	return func(r *Recorder) {
		if handler == nil {
			r.log = slog.New(slog.DiscardHandler)
			return
		}
		r.log = slog.New(handler)
	}
}

// WithCodec overrides the envelope codec, e.g. to inject a fixed clock.
func WithCodec(codec *keelson.Codec) Option {
	return func(r *Recorder) {
		r.codec = codec
	}
}

// WithBufferSize sets the size of the channel between the transport callback
// and the storage writer. Samples arriving while the buffer is full are
// dropped and counted, never blocking the transport.
func WithBufferSize(n int) Option {
	return func(r *Recorder) {
		if n > 0 {
			r.bufferSize = n
		}
	}
}

func New(source Source, store recordlog.Log, opts ...Option) *Recorder {
	r := &Recorder{
		source:     source,
		store:      store,
		codec:      keelson.NewCodec(),
		log:        slog.Default(),
		bufferSize: 256,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run subscribes to the source and records samples until ctx is canceled.
// Cancellation is a clean shutdown and returns nil; a storage failure aborts
// the run with an error.
func (r *Recorder) Run(ctx context.Context) error {
	samples := make(chan Sample, r.bufferSize)

	stop, err := r.source.Subscribe(ctx, func(s Sample) {
		select {
		case samples <- s:
		default:
			samplesDropped.Inc()
			r.log.Warn("sample buffer full, dropping", "key", s.Key)
		}
	})
	if err != nil {
		return zerrors.New(ErrSubscribe).WithError(err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-ctx.Done()
		stop()
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case s := <-samples:
				if err := r.record(ctx, s); err != nil {
					return err
				}
			}
		}
	})

	return g.Wait()
}

func (r *Recorder) record(ctx context.Context, s Sample) error {
	unwrapped, err := r.codec.Uncover(s.Data)
	if err != nil {
		// Malformed envelopes are counted and dropped, never stored as
		// zero-valued records.
		envelopesMalformed.Inc()
		r.log.Warn("discarding malformed envelope", "key", s.Key, "error", err)
		return nil
	}

	seq, err := r.store.Append(ctx, recordlog.Record{
		Key:        s.Key,
		ReceivedAt: unwrapped.ReceivedAt,
		EnclosedAt: unwrapped.EnclosedAt,
		Payload:    unwrapped.Payload,
	})
	if err != nil {
		return zerrors.New(ErrAppendRecord).With("key", s.Key).WithError(err)
	}

	envelopesRecorded.Inc()
	r.log.Debug("recorded envelope", "key", s.Key, "seq", seq)

	return nil
}
