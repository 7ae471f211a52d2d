package store

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/gardenplan/planner/internal/typeid"
)

// MemoryStore keeps everything in process memory. It backs the server when
// no DATABASE_URL is configured, and tests.
type MemoryStore struct {
	mu        sync.RWMutex
	plans     map[string]Plan
	snapshots map[string][]Snapshot
	now       func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		plans:     make(map[string]Plan),
		snapshots: make(map[string][]Snapshot),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) CreatePlan(_ context.Context, id, name string) (*Plan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.plans[id]; exists {
		return nil, fmt.Errorf("create plan %s: already exists", id)
	}
	now := s.now()
	p := Plan{ID: id, Name: name, CreatedAt: now, UpdatedAt: now}
	s.plans[id] = p
	return &p, nil
}

func (s *MemoryStore) GetPlan(_ context.Context, id string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// ListPlans returns plans most recently updated first.
func (s *MemoryStore) ListPlans(_ context.Context) ([]Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plans := make([]Plan, 0, len(s.plans))
	for _, p := range s.plans {
		plans = append(plans, p)
	}
	slices.SortFunc(plans, func(a, b Plan) int {
		if c := b.UpdatedAt.Compare(a.UpdatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return plans, nil
}

func (s *MemoryStore) DeletePlan(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[id]; !ok {
		return ErrNotFound
	}
	delete(s.plans, id)
	delete(s.snapshots, id)
	return nil
}

func (s *MemoryStore) SaveSnapshot(_ context.Context, planID string, doc json.RawMessage) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.plans[planID]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	snap := Snapshot{
		ID:        typeid.NewSnapshotID(),
		PlanID:    planID,
		Version:   len(s.snapshots[planID]) + 1,
		Document:  slices.Clone(doc),
		CreatedAt: now,
	}
	s.snapshots[planID] = append(s.snapshots[planID], snap)
	p.UpdatedAt = now
	s.plans[planID] = p
	return &snap, nil
}

func (s *MemoryStore) LatestSnapshot(_ context.Context, planID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snaps := s.snapshots[planID]
	if len(snaps) == 0 {
		return nil, ErrNotFound
	}
	snap := snaps[len(snaps)-1]
	return &snap, nil
}

func (s *MemoryStore) Close() {}
