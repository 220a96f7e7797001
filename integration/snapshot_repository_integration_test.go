package integration

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iyhunko/sheets-storefront/internal/model"
	"github.com/iyhunko/sheets-storefront/internal/repository"
	reposql "github.com/iyhunko/sheets-storefront/internal/repository/sql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSnapshot(source, hash string, createdAt time.Time, products ...model.Product) *model.Snapshot {
	return &model.Snapshot{
		ID:           uuid.New(),
		Source:       source,
		Hash:         hash,
		Received:     len(products) + 1,
		Accepted:     len(products),
		Rejected:     1,
		RejectedRows: []int64{0},
		Products:     products,
		CreatedAt:    createdAt,
	}
}

func TestSnapshotRepository_Integration(t *testing.T) {
	testDB := SetupTestDB(t)
	defer testDB.Cleanup(t)

	ctx := context.Background()

	t.Run("create and read back the latest snapshot", func(t *testing.T) {
		testDB.TruncateTables(t)
		repo := reposql.NewSnapshotRepository(testDB.DB, 10)

		// given
		now := time.Now().UTC().Truncate(time.Microsecond)
		older := newSnapshot("csv", "hash-1", now.Add(-time.Minute), model.Product{Code: "C1", Name: "Chain", Price: 10, PhotoURL: "https://example.com/a.jpg"})
		newer := newSnapshot("csv", "hash-2", now, model.Product{Code: "C2", Name: "Ring", Price: 12.5, Stock: 2, PhotoURL: "https://example.com/b.jpg"})

		// when
		_, err := repo.Create(ctx, older)
		require.NoError(t, err)
		_, err = repo.Create(ctx, newer)
		require.NoError(t, err)
		latest, err := repo.Latest(ctx)

		// then
		require.NoError(t, err)
		assert.Equal(t, newer.ID, latest.ID)
		assert.Equal(t, "hash-2", latest.Hash)
		assert.Equal(t, []int64{0}, latest.RejectedRows)
		assert.Equal(t, newer.Products, latest.Products)
		assert.True(t, newer.CreatedAt.Equal(latest.CreatedAt))
	})

	t.Run("latest on an empty table", func(t *testing.T) {
		testDB.TruncateTables(t)
		repo := reposql.NewSnapshotRepository(testDB.DB, 10)

		_, err := repo.Latest(ctx)

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("retention prunes the oldest snapshots", func(t *testing.T) {
		testDB.TruncateTables(t)
		repo := reposql.NewSnapshotRepository(testDB.DB, 2)

		base := time.Now().UTC().Truncate(time.Microsecond)
		var ids []uuid.UUID
		for i := range 4 {
			s := newSnapshot("csv", uuid.NewString(), base.Add(time.Duration(i)*time.Second))
			_, err := repo.Create(ctx, s)
			require.NoError(t, err)
			ids = append(ids, s.ID)
		}

		q := repository.NewQuery()
		require.NoError(t, q.ApplyPagination(10, ""))
		list, err := repo.List(ctx, *q)
		require.NoError(t, err)

		require.Len(t, list, 2)
		assert.Equal(t, ids[3], list[0].ID)
		assert.Equal(t, ids[2], list[1].ID)
	})

	t.Run("list paginates newest first and filters by source", func(t *testing.T) {
		testDB.TruncateTables(t)
		repo := reposql.NewSnapshotRepository(testDB.DB, 50)

		base := time.Now().UTC().Truncate(time.Microsecond)
		for i := range 5 {
			source := "csv"
			if i%2 == 1 {
				source = "sheets"
			}
			_, err := repo.Create(ctx, newSnapshot(source, uuid.NewString(), base.Add(time.Duration(i)*time.Second)))
			require.NoError(t, err)
		}

		// first page
		q := repository.NewQuery()
		require.NoError(t, q.ApplyPagination(2, ""))
		q.With(repository.SourceField, "csv")
		first, err := repo.List(ctx, *q)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt))
		assert.Empty(t, first[0].Products)

		// second page
		token := repository.NextPageToken(first, q.Limit, func(s *model.Snapshot) repository.Paginator {
			return repository.Paginator{LastID: s.ID, LastCreatedAt: s.CreatedAt}
		})
		require.NotEmpty(t, token)
		next := repository.NewQuery()
		require.NoError(t, next.ApplyPagination(2, token))
		next.With(repository.SourceField, "csv")
		second, err := repo.List(ctx, *next)
		require.NoError(t, err)

		require.Len(t, second, 1)
		for _, s := range append(first, second...) {
			assert.Equal(t, "csv", s.Source)
		}
		assert.True(t, second[0].CreatedAt.Before(first[1].CreatedAt))
	})
}
