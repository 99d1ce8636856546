package database

import (
	"context"
	"sync"

	"github.com/xavierca1/lead-engine/internal/entity"
)

// MemoryLeadRepository keeps leads in process memory. Nothing survives a
// restart.
type MemoryLeadRepository struct {
	mu    sync.RWMutex
	leads []entity.Lead
	index map[string]int
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{
		index: make(map[string]int),
	}
}

// InsertMany is all-or-nothing: a duplicate id rejects the whole batch.
func (r *MemoryLeadRepository) InsertMany(ctx context.Context, leads []entity.Lead) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]struct{}, len(leads))
	for _, l := range leads {
		if _, ok := r.index[l.ID]; ok {
			return nil, entity.ErrDuplicateLead
		}
		if _, ok := seen[l.ID]; ok {
			return nil, entity.ErrDuplicateLead
		}
		seen[l.ID] = struct{}{}
	}

	ids := make([]string, 0, len(leads))
	for _, l := range leads {
		r.index[l.ID] = len(r.leads)
		r.leads = append(r.leads, l)
		ids = append(ids, l.ID)
	}
	return ids, nil
}

func (r *MemoryLeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.Lead, len(r.leads))
	copy(out, r.leads)
	return out, nil
}

func (r *MemoryLeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	lead := r.leads[i]
	return &lead, nil
}

func (r *MemoryLeadRepository) Clear(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.leads)
	r.leads = nil
	r.index = make(map[string]int)
	return n, nil
}
