package lvqgo

import (
	"log/slog"

	"github.com/hupe1980/lvqgo/codec"
	"github.com/hupe1980/lvqgo/distance"
	"github.com/hupe1980/lvqgo/resource"
	"github.com/hupe1980/lvqgo/train"
	"github.com/hupe1980/lvqgo/winner"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	metric           distance.Metric
	schedule         train.Schedule
	searcher         winner.Searcher
	randomOrder      bool
	seed             int64
	checkpoint       *train.Checkpoint
	resources        *resource.Controller
	knn              int
}

// Option configures an Engine.
type Option func(*options)

// WithCodec configures the codec used for the OLVQ1 learning-rate side-car.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &lvqgo.BasicMetricsCollector{}
//	eng, _ := lvqgo.New(lvqgo.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg duration: %dns\n", stats.TrainingCount, stats.TrainingAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := lvqgo.NewJSONLogger(slog.LevelInfo)
//	eng, _ := lvqgo.New(lvqgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetric selects the distance metric. Defaults to Euclidean.
// It is ignored when WithSearcher is given.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithSchedule selects the learning-rate decay of LVQ1, LVQ2.1 and LVQ3.
// Defaults to train.Linear.
func WithSchedule(s train.Schedule) Option {
	return func(o *options) {
		o.schedule = s
	}
}

// WithSearcher replaces the linear winner search.
func WithSearcher(s winner.Searcher) Option {
	return func(o *options) {
		o.searcher = s
	}
}

// WithSeed makes training present the data in a pseudo-random order that is
// reshuffled on every pass and determined by seed. Without it, data is
// presented in file order.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.randomOrder = true
		o.seed = seed
	}
}

// WithCheckpoint writes a snapshot every interval iterations during training.
//
// Example:
//
//	cp := persistence.NewCheckpointer(store, "ex1.cod")
//	eng, _ := lvqgo.New(lvqgo.WithCheckpoint(10000, train.SnapshotVersioned, cp))
func WithCheckpoint(interval int64, kind train.SnapshotKind, sink train.Checkpointer) Option {
	return func(o *options) {
		o.checkpoint = &train.Checkpoint{Interval: interval, Kind: kind, Sink: sink}
	}
}

// WithResourceController bounds parallel evaluations in Compare.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithKNN sets the neighborhood used by Initialize, Balance, Eliminate and
// SetLabels. Defaults to 5.
func WithKNN(k int) Option {
	return func(o *options) {
		o.knn = k
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		metric:           distance.MetricEuclidean,
		knn:              5,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
