// Package memory keeps catalogue snapshots in process memory.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/iyhunko/sheets-storefront/internal/model"
	"github.com/iyhunko/sheets-storefront/internal/repository"
)

// DefaultRetention is how many snapshots the store keeps.
const DefaultRetention = 50

// SnapshotRepository implements repository.SnapshotRepository in memory.
// Only the newest snapshots up to the retention limit are kept.
type SnapshotRepository struct {
	mu        sync.RWMutex
	snapshots []*model.Snapshot // newest first
	retention int
}

// NewSnapshotRepository creates a store keeping at most retention snapshots.
// A non-positive retention means DefaultRetention.
func NewSnapshotRepository(retention int) *SnapshotRepository {
	if retention <= 0 {
		retention = DefaultRetention
	}
	return &SnapshotRepository{retention: retention}
}

func (r *SnapshotRepository) Create(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error) {
	_ = ctx

	if snapshot.ID == uuid.Nil {
		snapshot.InitMeta()
	}
	stored := clone(snapshot)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots = slices.Insert(r.snapshots, 0, stored)
	if len(r.snapshots) > r.retention {
		r.snapshots = r.snapshots[:r.retention]
	}
	return snapshot, nil
}

func (r *SnapshotRepository) Latest(ctx context.Context) (*model.Snapshot, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.snapshots) == 0 {
		return nil, repository.ErrNotFound
	}
	return clone(r.snapshots[0]), nil
}

func (r *SnapshotRepository) List(ctx context.Context, query repository.Query) ([]*model.Snapshot, error) {
	_ = ctx

	limit := query.Limit
	if limit <= 0 {
		limit = repository.DefaultPaginationLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Snapshot, 0, limit)
	for _, s := range r.snapshots {
		if query.Paginator != nil && !query.Paginator.After(s.CreatedAt, s.ID) {
			continue
		}
		if v, ok := query.Values[repository.SourceField]; ok && s.Source != v {
			continue
		}
		if v, ok := query.Values[repository.HashField]; ok && s.Hash != v {
			continue
		}

		summary := *s
		summary.Products = nil
		summary.RejectedRows = slices.Clone(s.RejectedRows)
		result = append(result, &summary)
		if len(result) == limit {
			break
		}
	}
	return result, nil
}

func clone(s *model.Snapshot) *model.Snapshot {
	c := *s
	c.RejectedRows = slices.Clone(s.RejectedRows)
	c.Products = slices.Clone(s.Products)
	return &c
}
