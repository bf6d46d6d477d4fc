// Package progress defines the progress messages exchanged between batch
// execution and the presentation layers.
package progress

import "sync"

// ProgressUpdate reports the completed fraction of one engine's share of a
// batch.
type ProgressUpdate struct {
	// CalculatorIndex identifies the engine within the running batch.
	CalculatorIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives the completed fraction for a single engine.
type ProgressCallback func(value float64)

// ChannelCallback returns a ProgressCallback that forwards values for the
// given engine index to ch. A nil ch yields a no-op callback. Sends never
// block: when the channel is full the update is dropped, since a later one
// supersedes it.
func ChannelCallback(ch chan<- ProgressUpdate, index int) ProgressCallback {
	if ch == nil {
		return func(float64) {}
	}
	return func(value float64) {
		select {
		case ch <- ProgressUpdate{CalculatorIndex: index, Value: value}:
		default:
		}
	}
}

// Aggregator tracks the latest progress of several engines and reports
// their average. It is safe for concurrent use.
type Aggregator struct {
	mu         sync.Mutex
	progresses []float64
}

// NewAggregator creates an Aggregator for n engines. It returns nil when
// n <= 0.
func NewAggregator(n int) *Aggregator {
	if n <= 0 {
		return nil
	}
	return &Aggregator{progresses: make([]float64, n)}
}

// Update records an update and returns the new average. Out-of-range
// indices are ignored and values are clamped to [0, 1].
func (a *Aggregator) Update(u ProgressUpdate) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if u.CalculatorIndex >= 0 && u.CalculatorIndex < len(a.progresses) {
		a.progresses[u.CalculatorIndex] = min(max(u.Value, 0), 1)
	}
	return a.averageLocked()
}

// Average returns the current average progress.
func (a *Aggregator) Average() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.averageLocked()
}

func (a *Aggregator) averageLocked() float64 {
	var total float64
	for _, p := range a.progresses {
		total += p
	}
	return total / float64(len(a.progresses))
}

// Drain discards every update until ch is closed.
func Drain(ch <-chan ProgressUpdate) {
	for range ch {
	}
}
