package repository

import (
	"context"
	"sync"

	"github.com/quizreel/engagement-engine/internal/core/domain"
)

var _ domain.StateStore = (*InMemoryStateStore)(nil)

// InMemoryStateStore keeps state in a plain map. Used by tests as the fake
// durable store.
type InMemoryStateStore struct {
	store map[string]string

	mu sync.RWMutex
}

func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		store: make(map[string]string),
	}
}

func (r *InMemoryStateStore) Get(ctx context.Context, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.store[key]
	if !ok {
		return "", domain.ErrKeyNotFound
	}
	return value, nil
}

func (r *InMemoryStateStore) Set(ctx context.Context, key string, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[key] = value
	return nil
}

func (r *InMemoryStateStore) Remove(ctx context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.store, key)
	return nil
}

// Len reports how many keys are stored, handy for migration assertions.
func (r *InMemoryStateStore) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.store)
}
