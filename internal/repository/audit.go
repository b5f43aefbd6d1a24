package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"asset-inventory-api/internal/model"
)

// AuditRepository persists the append-only lifecycle log. Entries are never
// updated; deletion happens only through the asset delete cascade.
type AuditRepository interface {
	AppendEntry(ctx context.Context, entry model.AuditEntry) error
	ListByAsset(ctx context.Context, assetID int64) ([]model.AuditEntry, error)
}

type auditRepository struct {
	DB *sql.DB
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *sql.DB) AuditRepository {
	return &auditRepository{DB: db}
}

// AppendEntry writes one audit entry.
func (r *auditRepository) AppendEntry(ctx context.Context, entry model.AuditEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	query := `
		INSERT INTO audit_entries (asset_id, kind, description, actor)
		VALUES ($1, $2, $3, $4)`

	if _, err := r.DB.ExecContext(ctx, query, entry.AssetID, entry.Kind, entry.Description, entry.Actor); err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

// ListByAsset retrieves an asset's audit trail, newest first.
func (r *auditRepository) ListByAsset(ctx context.Context, assetID int64) ([]model.AuditEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	query := `
		SELECT id, asset_id, kind, description, actor, created_at
		FROM audit_entries
		WHERE asset_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := r.DB.QueryContext(ctx, query, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []model.AuditEntry
	for rows.Next() {
		var e model.AuditEntry
		if err := rows.Scan(&e.ID, &e.AssetID, &e.Kind, &e.Description, &e.Actor, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}
