// Package db provides PostgreSQL access for the disposition archive.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/controller-hub/certguard/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// CreateBatchRun creates a new batch run record and returns its ID
func (db *DB) CreateBatchRun(ctx context.Context, inputDir string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO batch_runs (input_dir, status)
		 VALUES ($1, 'running')
		 RETURNING id`,
		inputDir,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create batch run: %w", err)
	}
	return id, nil
}

// CompleteBatchRun marks a batch run as completed and stores its counts
func (db *DB) CompleteBatchRun(ctx context.Context, runID string, total int, counts map[types.Code]int) error {
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return fmt.Errorf("failed to marshal counts: %w", err)
	}
	_, err = db.pool.Exec(ctx,
		`UPDATE batch_runs SET status = 'completed', total = $1, counts = $2, completed_at = NOW() WHERE id = $3`,
		total, countsJSON, runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete batch run: %w", err)
	}
	return nil
}
