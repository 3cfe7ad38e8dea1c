package store

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"wsb-analyst/internal/types"
)

func TestRunStoreLifecycle(t *testing.T) {
	s := NewRunStore()
	run := s.Create("job-1")
	if run.Status != types.RunPending {
		t.Errorf("new run status = %q, want pending", run.Status)
	}

	got, ok := s.Get("job-1")
	if !ok || got.JobID != "job-1" {
		t.Fatal("stored run not retrievable")
	}
	if _, ok := s.Get("nope"); ok {
		t.Error("unknown id should not be found")
	}

	done := time.Now().UTC()
	s.Put(&types.AnalysisRun{JobID: "job-1", Status: types.RunCompleted, CompletedAt: &done})
	got, _ = s.Get("job-1")
	if got.Status != types.RunCompleted {
		t.Errorf("status after Put = %q", got.Status)
	}
}

func TestLatestCompletedPicksNewest(t *testing.T) {
	s := NewRunStore()
	if _, ok := s.LatestCompleted(); ok {
		t.Error("empty store should have no latest")
	}

	older := time.Now().UTC().Add(-time.Hour)
	newer := time.Now().UTC()
	s.Put(&types.AnalysisRun{JobID: "a", Status: types.RunCompleted, CompletedAt: &older})
	s.Put(&types.AnalysisRun{JobID: "b", Status: types.RunError})
	s.Put(&types.AnalysisRun{JobID: "c", Status: types.RunCompleted, CompletedAt: &newer})

	latest, ok := s.LatestCompleted()
	if !ok || latest.JobID != "c" {
		t.Errorf("latest = %+v, want job c", latest)
	}
}

func TestRunStoreConcurrentAccess(t *testing.T) {
	s := NewRunStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		id := fmt.Sprintf("job-%d", i)
		go func() {
			defer wg.Done()
			s.Create(id)
			now := time.Now().UTC()
			s.Put(&types.AnalysisRun{JobID: id, Status: types.RunCompleted, CompletedAt: &now})
		}()
		go func() {
			defer wg.Done()
			if run, ok := s.Get(id); ok {
				// a poll must only ever see pending or the terminal state
				if run.Status != types.RunPending && run.Status != types.RunCompleted {
					t.Errorf("observed partial state %q", run.Status)
				}
			}
			s.LatestCompleted()
		}()
	}
	wg.Wait()
}
