package observability

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// StageTiming aggregates the stages one transformer ran.
type StageTiming struct {
	TransformerID string
	Runs          int
	Failures      int
	Total         time.Duration
	Max           time.Duration
}

// Mean returns the average stage duration.
func (t StageTiming) Mean() time.Duration {
	if t.Runs == 0 {
		return 0
	}
	return t.Total / time.Duration(t.Runs)
}

// StageStats is a [PipelineHooks] that aggregates stage timings per
// transformer and run outcomes per status. It is safe for concurrent runs.
type StageStats struct {
	NoopPipelineHooks

	mu     sync.Mutex
	stages map[string]*StageTiming
	runs   map[string]int
}

// NewStageStats returns an empty recorder.
func NewStageStats() *StageStats {
	return &StageStats{
		stages: make(map[string]*StageTiming),
		runs:   make(map[string]int),
	}
}

func (s *StageStats) OnStageComplete(_ context.Context, _, transformerID, _ string, d time.Duration, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.stages[transformerID]
	if !ok {
		t = &StageTiming{TransformerID: transformerID}
		s.stages[transformerID] = t
	}
	t.Runs++
	t.Total += d
	t.Max = max(t.Max, d)
	if err != nil {
		t.Failures++
	}
}

func (s *StageStats) OnRunComplete(_ context.Context, _, status string, _ time.Duration, _ int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[status]++
}

// Snapshot returns the timings sorted by total time, slowest first.
func (s *StageStats) Snapshot() []StageTiming {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]StageTiming, 0, len(s.stages))
	for _, t := range s.stages {
		out = append(out, *t)
	}
	slices.SortFunc(out, func(a, b StageTiming) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return strings.Compare(a.TransformerID, b.TransformerID)
	})
	return out
}

// Runs returns how many runs finished with status.
func (s *StageStats) Runs(status string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs[status]
}
