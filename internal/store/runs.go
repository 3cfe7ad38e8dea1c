package store

import (
	"sync"
	"time"

	"wsb-analyst/internal/types"
)

// RunStore is the in-memory registry of analysis runs, keyed by job id.
// Entries are whole *AnalysisRun values replaced atomically under the lock;
// a stored run is never mutated in place, so readers can hand the pointer
// straight to callers. Entries never expire.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*types.AnalysisRun
}

func NewRunStore() *RunStore {
	return &RunStore{runs: make(map[string]*types.AnalysisRun)}
}

// Create registers a fresh pending run under the given id.
func (s *RunStore) Create(id string) *types.AnalysisRun {
	run := &types.AnalysisRun{
		JobID:           id,
		Status:          types.RunPending,
		CreatedAt:       time.Now().UTC(),
		TrendingTickers: []types.TickerMention{},
		Recommendations: []types.Recommendation{},
	}
	s.mu.Lock()
	s.runs[id] = run
	s.mu.Unlock()
	return run
}

// Put replaces the stored run for run.JobID. The worker owning the run id
// is the only caller for a given id.
func (s *RunStore) Put(run *types.AnalysisRun) {
	s.mu.Lock()
	s.runs[run.JobID] = run
	s.mu.Unlock()
}

func (s *RunStore) Get(id string) (*types.AnalysisRun, bool) {
	s.mu.RLock()
	run, ok := s.runs[id]
	s.mu.RUnlock()
	return run, ok
}

// LatestCompleted returns the most recently finished successful run.
func (s *RunStore) LatestCompleted() (*types.AnalysisRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *types.AnalysisRun
	for _, run := range s.runs {
		if run.Status != types.RunCompleted || run.CompletedAt == nil {
			continue
		}
		if latest == nil || run.CompletedAt.After(*latest.CompletedAt) {
			latest = run
		}
	}
	return latest, latest != nil
}
