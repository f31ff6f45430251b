package results

import (
	"context"
	"sync"
)

// MemoryRepository keeps results for the lifetime of the process
type MemoryRepository struct {
	mu      sync.RWMutex
	results []*GameResult
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Add(_ context.Context, result *GameResult) error {
	if err := result.Validate(); err != nil {
		return err
	}
	stored := *result

	r.mu.Lock()
	r.results = append(r.results, &stored)
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return copyResults(r.results), nil
}

func (r *MemoryRepository) Best(_ context.Context, limit int) ([]*GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return best(copyResults(r.results), limit), nil
}

func copyResults(list []*GameResult) []*GameResult {
	out := make([]*GameResult, 0, len(list))
	for _, r := range list {
		c := *r
		out = append(out, &c)
	}
	return out
}
