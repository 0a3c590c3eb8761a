package store

import (
	"context"
	"sync"
	"sync/atomic"
)

// MemoryStore keeps the committed snapshot behind an atomic pointer. Reads
// never block; commits are serialized by a mutex and publish a new snapshot
// only after the mutator succeeds.
type MemoryStore struct {
	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
}

func NewMemoryStore(seed *Snapshot) *MemoryStore {
	s := &MemoryStore{}
	if seed == nil {
		seed = &Snapshot{}
	}
	snap := seed.Clone()
	snap.normalize()
	s.current.Store(snap)
	return s
}

func (s *MemoryStore) Read(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.current.Load(), nil
}

func (s *MemoryStore) Commit(ctx context.Context, fn Mutator) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	next := s.current.Load().Clone()
	if err := fn(next); err != nil {
		return err
	}
	next.normalize()
	s.current.Store(next)
	return nil
}

func (s *MemoryStore) Close() error { return nil }
