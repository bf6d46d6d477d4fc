// Package sysmon samples system-wide CPU and memory usage for the
// interactive front ends.
package sysmon

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Stats holds a single snapshot of system-wide resource usage.
type Stats struct {
	CPUPercent float64 // 0.0 .. 100.0
	MemPercent float64 // 0.0 .. 100.0
}

// String renders the snapshot as "CPU 12% · MEM 48%".
func (s Stats) String() string {
	return fmt.Sprintf("CPU %.0f%% · MEM %.0f%%", s.CPUPercent, s.MemPercent)
}

// Sample collects a single system-wide CPU and memory snapshot.
// CPU uses interval=0 (delta since last call). Returns zero values on error.
func Sample() Stats {
	var s Stats
	cpuPcts, err := cpu.Percent(0, false)
	if err == nil && len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}
	vmem, err := mem.VirtualMemory()
	if err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
	}
	return s
}

// Sampler caches snapshots so that callers polling faster than interval
// share one measurement. It is safe for concurrent use.
type Sampler struct {
	mu       sync.Mutex
	interval time.Duration
	last     Stats
	at       time.Time

	sample func() Stats
	now    func() time.Time
}

// NewSampler returns a Sampler that measures at most once per interval.
func NewSampler(interval time.Duration) *Sampler {
	return &Sampler{interval: interval, sample: Sample, now: time.Now}
}

// Stats returns the cached snapshot, refreshing it when it is older than
// the sampler's interval.
func (s *Sampler) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if s.at.IsZero() || now.Sub(s.at) >= s.interval {
		s.last = s.sample()
		s.at = now
	}
	return s.last
}
