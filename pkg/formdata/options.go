package formdata

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/shapestone/shape-formdata/internal/charset"
	"github.com/shapestone/shape-formdata/internal/metrics"
)

// Metrics are the prometheus collectors a decoder updates.
type Metrics = metrics.Collector

// NewMetrics registers the decode metrics with reg. Create one per
// registry and share it between decoders.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return metrics.New(reg)
}

// Option configures decoding.
type Option func(*options)

type options struct {
	charset    string
	tempDir    string
	bufferSize int
	maxLength  int64
	noSpool    bool
	logger     *zap.Logger
	metrics    *Metrics
}

func buildOptions(opts []Option) options {
	o := options{charset: charset.Default, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCharset sets the form charset used for header values and field text.
// Names resolve through the IANA registry; the default is utf-8.
func WithCharset(name string) Option {
	return func(o *options) { o.charset = name }
}

// WithTempDir sets the directory for spool files (default os.TempDir()).
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// WithBufferSize sets the read window size in bytes.
func WithBufferSize(n int) Option {
	return func(o *options) { o.bufferSize = n }
}

// WithMaxLength rejects bodies whose declared length exceeds n bytes.
// Zero means no limit.
func WithMaxLength(n int64) Option {
	return func(o *options) { o.maxLength = n }
}

// WithoutSpool keeps file bodies in memory instead of spool files.
func WithoutSpool() Option {
	return func(o *options) { o.noSpool = true }
}

// WithLogger sets the logger. Decoding logs at debug level only.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.logger = log
		}
	}
}

// WithMetrics records decode metrics in m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}
