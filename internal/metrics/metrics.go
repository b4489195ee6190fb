// Package metrics holds the prometheus collectors updated while decoding.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector groups the decode metrics. A nil *Collector is valid and
// records nothing.
type Collector struct {
	parts        *prometheus.CounterVec
	spooledBytes prometheus.Counter
	errors       *prometheus.CounterVec
	duration     prometheus.Histogram
}

// New registers the decode metrics with reg. A nil reg creates collectors
// that are not registered anywhere.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		parts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formdata_parts_total",
				Help: "Number of form parts decoded, by kind (field or file).",
			},
			[]string{"kind"},
		),
		spooledBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "formdata_spooled_bytes_total",
				Help: "Bytes of file bodies written to spool files.",
			},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "formdata_decode_errors_total",
				Help: "Number of failed decodes, by error kind.",
			},
			[]string{"kind"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "formdata_decode_duration_seconds",
				Help:    "Time to decode a complete form body.",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
		),
	}
}

// Part records one decoded part. spooled is the number of bytes written to
// disk for it.
func (c *Collector) Part(isFile bool, spooled int64) {
	if c == nil {
		return
	}
	kind := "field"
	if isFile {
		kind = "file"
	}
	c.parts.WithLabelValues(kind).Inc()
	if spooled > 0 {
		c.spooledBytes.Add(float64(spooled))
	}
}

// Error records a failed decode of the given kind.
func (c *Collector) Error(kind string) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(kind).Inc()
}

// Observe records the duration of a decode that started at start.
func (c *Collector) Observe(start time.Time) {
	if c == nil {
		return
	}
	c.duration.Observe(time.Since(start).Seconds())
}
