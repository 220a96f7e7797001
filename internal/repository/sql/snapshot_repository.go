package sql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/iyhunko/sheets-storefront/internal/model"
	"github.com/iyhunko/sheets-storefront/internal/repository"
	"github.com/lib/pq"
)

const snapshotColumns = "id, source, hash, received, accepted, rejected, rejected_rows, created_at"

// SnapshotRepository implements repository.SnapshotRepository on PostgreSQL.
type SnapshotRepository struct {
	db        *sql.DB
	txn       *sql.Tx
	retention int
}

// NewSnapshotRepository creates a new SnapshotRepository. When retention is
// positive, Create prunes snapshots beyond the newest retention ones.
func NewSnapshotRepository(db *sql.DB, retention int) *SnapshotRepository {
	return &SnapshotRepository{db: db, retention: retention}
}

// getExecutor returns the active executor (transaction if exists, otherwise db)
func (r *SnapshotRepository) getExecutor() dbExecutor {
	if r.txn != nil {
		return r.txn
	}
	return r.db
}

// WithinTransaction executes a function within a database transaction
func (r *SnapshotRepository) WithinTransaction(ctx context.Context, fn func(repo *SnapshotRepository) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txRepo := &SnapshotRepository{
		db:        r.db,
		txn:       tx,
		retention: r.retention,
	}

	if err := fn(txRepo); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Create inserts the snapshot and prunes old ones in a single transaction.
func (r *SnapshotRepository) Create(ctx context.Context, snapshot *model.Snapshot) (*model.Snapshot, error) {
	if snapshot.ID == uuid.Nil {
		snapshot.InitMeta()
	}

	products, err := json.Marshal(snapshot.Products)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal products: %w", err)
	}

	err = r.WithinTransaction(ctx, func(repo *SnapshotRepository) error {
		if err := repo.insert(ctx, snapshot, products); err != nil {
			return err
		}
		return repo.prune(ctx)
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (r *SnapshotRepository) insert(ctx context.Context, s *model.Snapshot, products []byte) error {
	query := `INSERT INTO catalogue_snapshots (id, source, hash, received, accepted, rejected, rejected_rows, products, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare insert statement: %w", err)
	}
	defer stmt.Close()

	rejectedRows := s.RejectedRows
	if rejectedRows == nil {
		rejectedRows = []int64{}
	}

	_, err = stmt.ExecContext(ctx, s.ID, s.Source, s.Hash, s.Received, s.Accepted, s.Rejected, pq.Array(rejectedRows), products, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) prune(ctx context.Context) error {
	if r.retention <= 0 {
		return nil
	}

	query := `DELETE FROM catalogue_snapshots WHERE id NOT IN
	          (SELECT id FROM catalogue_snapshots ORDER BY created_at DESC, id DESC LIMIT $1)`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, r.retention); err != nil {
		return fmt.Errorf("failed to prune snapshots: %w", err)
	}
	return nil
}

// Latest retrieves the most recent snapshot including its products.
func (r *SnapshotRepository) Latest(ctx context.Context) (*model.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + `, products FROM catalogue_snapshots ORDER BY created_at DESC, id DESC LIMIT 1`

	stmt, err := r.getExecutor().PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	var (
		s        model.Snapshot
		products []byte
	)
	err = stmt.QueryRowContext(ctx).Scan(
		&s.ID, &s.Source, &s.Hash, &s.Received, &s.Accepted, &s.Rejected, pq.Array(&s.RejectedRows), &s.CreatedAt, &products,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot not found: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	if err := json.Unmarshal(products, &s.Products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}
	return &s, nil
}

// List retrieves snapshot summaries, newest first, without their products.
func (r *SnapshotRepository) List(ctx context.Context, query repository.Query) ([]*model.Snapshot, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT " + snapshotColumns + " FROM catalogue_snapshots WHERE 1=1")

	var args []interface{}
	argIndex := 1

	if v, ok := query.Values[repository.SourceField]; ok {
		queryBuilder.WriteString(fmt.Sprintf(" AND source = $%d", argIndex))
		args = append(args, v)
		argIndex++
	}
	if v, ok := query.Values[repository.HashField]; ok {
		queryBuilder.WriteString(fmt.Sprintf(" AND hash = $%d", argIndex))
		args = append(args, v)
		argIndex++
	}

	if query.Paginator != nil {
		queryBuilder.WriteString(fmt.Sprintf(" AND (created_at, id) < ($%d, $%d)", argIndex, argIndex+1))
		args = append(args, query.Paginator.LastCreatedAt, query.Paginator.LastID)
		argIndex += 2
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC, id DESC")

	limit := query.Limit
	if limit <= 0 {
		limit = repository.DefaultPaginationLimit
	}
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argIndex))
	args = append(args, limit)

	stmt, err := r.getExecutor().PrepareContext(ctx, queryBuilder.String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare select statement: %w", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []*model.Snapshot{}
	for rows.Next() {
		var s model.Snapshot
		err := rows.Scan(&s.ID, &s.Source, &s.Hash, &s.Received, &s.Accepted, &s.Rejected, pq.Array(&s.RejectedRows), &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snapshots = append(snapshots, &s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return snapshots, nil
}
