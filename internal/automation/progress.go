package automation

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Progress is the pollable state of a run.
type Progress struct {
	Phase            Phase     `json:"phase"`
	PercentComplete  int       `json:"percent_complete"`
	CurrentStep      string    `json:"current_step"`
	StepsCompleted   int       `json:"steps_completed"`
	ModulesProcessed []Stage   `json:"modules_processed"`
	Outcome          Status    `json:"automation_status,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ProgressStore holds run progress keyed by document id.
type ProgressStore interface {
	// Init replaces any prior entry for id with a fresh one.
	Init(id uuid.UUID)
	// Update merges the non-zero fields of patch into the entry for id.
	// Updates for an id without an entry are dropped.
	Update(id uuid.UUID, patch Progress)
	Get(id uuid.UUID) (Progress, bool)
}

// MemoryStore is a process-local ProgressStore. With a positive ttl, terminal
// entries not updated within ttl are evicted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Progress
	ttl     time.Duration
	now     func() time.Time
}

type MemoryOption func(*MemoryStore)

// WithClock replaces the store's time source.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

func NewMemoryStore(ttl time.Duration, opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[uuid.UUID]Progress),
		ttl:     ttl,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Init(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evict()
	s.entries[id] = Progress{
		Phase:            PhaseExtracting,
		CurrentStep:      "Starting automation",
		ModulesProcessed: []Stage{},
		UpdatedAt:        s.now(),
	}
}

func (s *MemoryStore) Update(id uuid.UUID, patch Progress) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.entries[id]
	if !ok {
		return
	}
	if patch.Phase != "" {
		p.Phase = patch.Phase
	}
	if patch.PercentComplete != 0 {
		p.PercentComplete = patch.PercentComplete
	}
	if patch.CurrentStep != "" {
		p.CurrentStep = patch.CurrentStep
	}
	if patch.StepsCompleted != 0 {
		p.StepsCompleted = patch.StepsCompleted
	}
	if patch.ModulesProcessed != nil {
		p.ModulesProcessed = slices.Clone(patch.ModulesProcessed)
	}
	if patch.Outcome != "" {
		p.Outcome = patch.Outcome
	}
	p.UpdatedAt = s.now()
	s.entries[id] = p
}

func (s *MemoryStore) Get(id uuid.UUID) (Progress, bool) {
	s.mu.RLock()
	p, ok := s.entries[id]
	s.mu.RUnlock()

	if !ok {
		return Progress{}, false
	}
	if s.expired(p) {
		s.mu.Lock()
		if cur, ok := s.entries[id]; ok && s.expired(cur) {
			delete(s.entries, id)
		}
		s.mu.Unlock()
		return Progress{}, false
	}
	p.ModulesProcessed = slices.Clone(p.ModulesProcessed)
	return p, true
}

func (s *MemoryStore) expired(p Progress) bool {
	return s.ttl > 0 && p.Phase.Terminal() && s.now().Sub(p.UpdatedAt) > s.ttl
}

// evict must be called with mu held.
func (s *MemoryStore) evict() {
	if s.ttl <= 0 {
		return
	}
	for id, p := range s.entries {
		if s.expired(p) {
			delete(s.entries, id)
		}
	}
}
