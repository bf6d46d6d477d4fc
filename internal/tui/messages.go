package tui

import (
	"time"

	"github.com/agbru/bigcalc/internal/sysmon"
)

// ProgressMsg reports engine completion for the running evaluation. Seq
// identifies the submission so that late updates from an earlier run are
// dropped.
type ProgressMsg struct {
	Seq             uint64
	AverageProgress float64
	ETA             time.Duration
}

// EvaluationCompleteMsg carries the outcome of one submission.
type EvaluationCompleteMsg struct {
	Seq    uint64
	Result entry
}

// ContextCancelledMsg is sent when the session context is done.
type ContextCancelledMsg struct {
	Err error
}

// SysStatsMsg carries a system resource snapshot for the header.
type SysStatsMsg struct {
	Stats sysmon.Stats
}
