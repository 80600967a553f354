package recorder

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	envelopesRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keelson_recorder_envelopes_recorded_total",
		Help: "The total number of envelopes uncovered and stored",
	})
	envelopesMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keelson_recorder_envelopes_malformed_total",
		Help: "The total number of samples discarded because they did not parse as envelopes",
	})
	samplesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "keelson_recorder_samples_dropped_total",
		Help: "The total number of samples dropped because the buffer was full",
	})
)
