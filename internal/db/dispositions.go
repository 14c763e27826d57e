package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/controller-hub/certguard/internal/types"
)

// SaveDisposition stores one certificate disposition for a batch run
func (db *DB) SaveDisposition(ctx context.Context, runID string, d *types.Disposition) error {
	content, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal disposition: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO dispositions (run_id, certificate_id, code, confidence, jurisdiction, form_id, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (run_id, certificate_id) DO UPDATE
		   SET code = $3, confidence = $4, jurisdiction = $5, form_id = $6, content = $7, created_at = NOW()`,
		runID, d.CertificateID, string(d.Code), d.Confidence, d.Jurisdiction, d.FormID, content,
	)
	if err != nil {
		return fmt.Errorf("failed to save disposition %s: %w", d.CertificateID, err)
	}
	return nil
}

// GetDisposition retrieves a stored disposition by run ID and certificate ID
func (db *DB) GetDisposition(ctx context.Context, runID, certificateID string) (*types.Disposition, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT content FROM dispositions WHERE run_id = $1 AND certificate_id = $2`,
		runID, certificateID,
	).Scan(&content)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get disposition %s: %w", certificateID, err)
	}

	var d types.Disposition
	if err := json.Unmarshal(content, &d); err != nil {
		return nil, fmt.Errorf("failed to decode disposition %s: %w", certificateID, err)
	}
	return &d, nil
}

// ListDispositions returns the disposition codes recorded for a batch run
func (db *DB) ListDispositions(ctx context.Context, runID string) (map[string]types.Code, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT certificate_id, code FROM dispositions WHERE run_id = $1 ORDER BY certificate_id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list dispositions: %w", err)
	}
	defer rows.Close()

	out := make(map[string]types.Code)
	for rows.Next() {
		var id, code string
		if err := rows.Scan(&id, &code); err != nil {
			return nil, fmt.Errorf("failed to scan disposition row: %w", err)
		}
		out[id] = types.Code(code)
	}
	return out, rows.Err()
}
