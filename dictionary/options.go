package dictionary

import (
	"log/slog"

	"github.com/hupe1980/shelf"
)

type options struct {
	metricsCollector shelf.MetricsCollector
	logger           *shelf.Logger
	degree           int
}

// Option configures a dictionary constructor.
type Option func(*options)

// WithMetricsCollector reports insert hits and removals to mc.
//
// Example:
//
//	metrics := &shelf.BasicMetricsCollector{}
//	d := dictionary.NewHashDictionary[string](storage.NewVec[string](0),
//	    dictionary.WithMetricsCollector(metrics))
//	// ... use d ...
//	fmt.Println(metrics.Stats().HitRate())
func WithMetricsCollector(mc shelf.MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging. Pass nil to disable logging.
func WithLogger(logger *shelf.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel is shorthand for WithLogger(shelf.NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = shelf.NewTextLogger(level)
	}
}

// WithDegree sets the node degree of the ordered reverse index. Hash
// dictionaries ignore it.
func WithDegree(degree int) Option {
	return func(o *options) {
		o.degree = degree
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: shelf.NoopMetricsCollector{},
		logger:           shelf.NoopLogger(),
		degree:           32,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = shelf.NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = shelf.NoopLogger()
	}
	o.degree = max(o.degree, 2)
	return o
}
