package config

import "runtime"

// ResolveWorkers fills in the worker count when it was left at zero.
// Flags and environment variables take priority over the estimate.
func ResolveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	return cfg
}

// EstimateOptimalWorkers provides a heuristic estimate of the number of
// concurrent evaluations without running benchmarks. Digit-sequence
// arithmetic is CPU bound, so one worker per logical CPU is the ceiling.
func EstimateOptimalWorkers() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU <= 2:
		return 1
	case numCPU <= 8:
		return numCPU - 1
	default:
		return numCPU
	}
}
