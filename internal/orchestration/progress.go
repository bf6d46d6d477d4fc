package orchestration

import (
	"time"

	"github.com/agbru/bigcalc/internal/progress"
)

// ProgressAggregator turns per-engine progress updates into an overall
// fraction and an ETA. Both the CLI and the TUI use it.
type ProgressAggregator struct {
	state      *progress.Aggregator
	numEngines int
	start      time.Time
	now        func() time.Time
}

// NewProgressAggregator creates an aggregator for the given number of
// engines. Returns nil if numEngines <= 0.
func NewProgressAggregator(numEngines int) *ProgressAggregator {
	if numEngines <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      progress.NewAggregator(numEngines),
		numEngines: numEngines,
		start:      time.Now(),
		now:        time.Now,
	}
}

// AggregatedProgress holds the result of processing a single update.
type AggregatedProgress struct {
	// CalculatorIndex is the index of the engine that sent the update.
	CalculatorIndex int
	// Value is the raw progress value from the update (0.0 to 1.0).
	Value float64
	// AverageProgress is the average across all engines.
	AverageProgress float64
	// ETA is the estimated time remaining.
	ETA time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avg := a.state.Update(update)
	return AggregatedProgress{
		CalculatorIndex: update.CalculatorIndex,
		Value:           update.Value,
		AverageProgress: avg,
		ETA:             a.eta(avg),
	}
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.Average()
}

// GetETA returns the current ETA estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.eta(a.state.Average())
}

// eta extrapolates linearly from the elapsed time. Zero means unknown or done.
func (a *ProgressAggregator) eta(avg float64) time.Duration {
	if avg <= 0 || avg >= 1 {
		return 0
	}
	elapsed := a.now().Sub(a.start)
	return time.Duration(float64(elapsed) * (1 - avg) / avg)
}

// NumEngines returns the number of engines being tracked.
func (a *ProgressAggregator) NumEngines() int {
	return a.numEngines
}

// IsMultiEngine reports whether more than one engine is tracked.
func (a *ProgressAggregator) IsMultiEngine() bool {
	return a.numEngines > 1
}
