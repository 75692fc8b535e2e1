package automation_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/JaimeStill/cascade/internal/automation"
)

func TestMemoryStoreMerge(t *testing.T) {
	store := automation.NewMemoryStore(0)
	id := uuid.New()

	store.Init(id)
	store.Update(id, automation.Progress{PercentComplete: 40, Phase: automation.PhaseProcessingCompliance})
	store.Update(id, automation.Progress{CurrentStep: "Creating compliance records"})
	store.Update(id, automation.Progress{
		StepsCompleted:   2,
		ModulesProcessed: []automation.Stage{automation.StageCompliance},
	})

	got, ok := store.Get(id)
	if !ok {
		t.Fatal("entry missing")
	}
	if got.Phase != automation.PhaseProcessingCompliance || got.PercentComplete != 40 {
		t.Errorf("zero fields overwrote earlier values: %+v", got)
	}
	if got.CurrentStep != "Creating compliance records" || got.StepsCompleted != 2 {
		t.Errorf("got %+v", got)
	}
	if diff := cmp.Diff([]automation.Stage{automation.StageCompliance}, got.ModulesProcessed); diff != "" {
		t.Errorf("modules (-want +got):\n%s", diff)
	}
}

func TestMemoryStoreInitReplaces(t *testing.T) {
	store := automation.NewMemoryStore(0)
	id := uuid.New()

	store.Init(id)
	store.Update(id, automation.Progress{Phase: automation.PhaseCompleted, PercentComplete: 100})
	store.Init(id)

	got, _ := store.Get(id)
	if got.Phase != automation.PhaseExtracting || got.PercentComplete != 0 {
		t.Errorf("got %+v, want fresh entry", got)
	}
}

func TestMemoryStoreUpdateWithoutInit(t *testing.T) {
	store := automation.NewMemoryStore(0)
	id := uuid.New()

	store.Update(id, automation.Progress{PercentComplete: 50})
	if _, ok := store.Get(id); ok {
		t.Error("update created an entry")
	}
}

func TestMemoryStoreTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	store := automation.NewMemoryStore(time.Minute, automation.WithClock(clock))

	running, finished := uuid.New(), uuid.New()
	store.Init(running)
	store.Init(finished)
	store.Update(finished, automation.Progress{Phase: automation.PhaseCompleted})

	now = now.Add(2 * time.Minute)

	if _, ok := store.Get(finished); ok {
		t.Error("terminal entry should be evicted after ttl")
	}
	if _, ok := store.Get(running); !ok {
		t.Error("running entry should not be evicted")
	}
}

func TestMemoryStoreNoTTL(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store := automation.NewMemoryStore(0, automation.WithClock(func() time.Time { return now }))

	id := uuid.New()
	store.Init(id)
	store.Update(id, automation.Progress{Phase: automation.PhaseFailed})
	now = now.Add(24 * time.Hour)

	if _, ok := store.Get(id); !ok {
		t.Error("entry evicted with ttl disabled")
	}
}

func TestMemoryStoreConcurrent(t *testing.T) {
	store := automation.NewMemoryStore(time.Hour)
	ids := make([]uuid.UUID, 8)
	for i := range ids {
		ids[i] = uuid.New()
		store.Init(ids[i])
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		for pct := 1; pct <= 20; pct++ {
			wg.Go(func() {
				store.Update(id, automation.Progress{PercentComplete: pct})
				store.Get(id)
			})
		}
	}
	wg.Wait()

	for _, id := range ids {
		if _, ok := store.Get(id); !ok {
			t.Errorf("entry %s missing", id)
		}
	}
}
