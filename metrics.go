package lvqgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with a monitoring system.
type MetricsCollector interface {
	// RecordTraining is called after each training run.
	// iterations is the run length, err is nil if successful.
	RecordTraining(algorithm string, iterations int64, duration time.Duration, err error)

	// RecordCheckpoint is called after each checkpoint write.
	RecordCheckpoint(duration time.Duration, err error)

	// RecordClassify is called after each classification or accuracy run over
	// count entries.
	RecordClassify(count int, duration time.Duration, err error)

	// RecordBalance is called after each rebalancing.
	RecordBalance(added, removed int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordTraining(string, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordCheckpoint(time.Duration, error)              {}
func (NoopMetricsCollector) RecordClassify(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordBalance(int, int, time.Duration, error)       {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	TrainingCount      atomic.Int64
	TrainingErrors     atomic.Int64
	TrainingIterations atomic.Int64
	TrainingTotalNanos atomic.Int64
	CheckpointCount    atomic.Int64
	CheckpointErrors   atomic.Int64
	ClassifyCount      atomic.Int64
	ClassifyEntries    atomic.Int64
	ClassifyErrors     atomic.Int64
	BalanceCount       atomic.Int64
	BalanceAdded       atomic.Int64
	BalanceRemoved     atomic.Int64
	BalanceErrors      atomic.Int64
}

// RecordTraining implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTraining(algorithm string, iterations int64, duration time.Duration, err error) {
	b.TrainingCount.Add(1)
	b.TrainingTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.TrainingErrors.Add(1)
		return
	}
	b.TrainingIterations.Add(iterations)
}

// RecordCheckpoint implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCheckpoint(duration time.Duration, err error) {
	b.CheckpointCount.Add(1)
	if err != nil {
		b.CheckpointErrors.Add(1)
	}
}

// RecordClassify implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassify(count int, duration time.Duration, err error) {
	b.ClassifyCount.Add(1)
	if err != nil {
		b.ClassifyErrors.Add(1)
		return
	}
	b.ClassifyEntries.Add(int64(count))
}

// RecordBalance implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBalance(added, removed int, duration time.Duration, err error) {
	b.BalanceCount.Add(1)
	if err != nil {
		b.BalanceErrors.Add(1)
		return
	}
	b.BalanceAdded.Add(int64(added))
	b.BalanceRemoved.Add(int64(removed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		TrainingCount:      b.TrainingCount.Load(),
		TrainingErrors:     b.TrainingErrors.Load(),
		TrainingIterations: b.TrainingIterations.Load(),
		TrainingAvgNanos:   b.getAvgTrainingNanos(),
		CheckpointCount:    b.CheckpointCount.Load(),
		CheckpointErrors:   b.CheckpointErrors.Load(),
		ClassifyCount:      b.ClassifyCount.Load(),
		ClassifyEntries:    b.ClassifyEntries.Load(),
		ClassifyErrors:     b.ClassifyErrors.Load(),
		BalanceCount:       b.BalanceCount.Load(),
		BalanceAdded:       b.BalanceAdded.Load(),
		BalanceRemoved:     b.BalanceRemoved.Load(),
		BalanceErrors:      b.BalanceErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgTrainingNanos() int64 {
	count := b.TrainingCount.Load()
	if count == 0 {
		return 0
	}
	return b.TrainingTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	TrainingCount      int64
	TrainingErrors     int64
	TrainingIterations int64
	TrainingAvgNanos   int64
	CheckpointCount    int64
	CheckpointErrors   int64
	ClassifyCount      int64
	ClassifyEntries    int64
	ClassifyErrors     int64
	BalanceCount       int64
	BalanceAdded       int64
	BalanceRemoved     int64
	BalanceErrors      int64
}
