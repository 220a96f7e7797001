package repository

import (
	"context"
	"errors"

	"github.com/iyhunko/sheets-storefront/internal/model"
)

// ErrNotFound is returned when no stored snapshot matches.
var ErrNotFound = errors.New("resource not found")

// SnapshotRepository stores the history of catalogue refreshes.
type SnapshotRepository interface {
	// Create persists the snapshot, assigning ID and CreatedAt when unset.
	Create(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error)
	// Latest returns the most recent snapshot or ErrNotFound.
	Latest(ctx context.Context) (*model.Snapshot, error)
	// List returns snapshots newest first, without their products.
	List(ctx context.Context, query Query) ([]*model.Snapshot, error)
}
